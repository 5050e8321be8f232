package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.MaxNewsLimit != 3 {
		t.Fatalf("expected default publish cap 3, got %d", cfg.MaxNewsLimit)
	}
	if cfg.MaxItemsPerFeed != 5 {
		t.Fatalf("expected default item bound 5, got %d", cfg.MaxItemsPerFeed)
	}
	if len(cfg.FeedURLs) == 0 {
		t.Fatal("expected default feed list")
	}
	if len(cfg.AIModels) == 0 {
		t.Fatal("expected default model list")
	}
	if cfg.ItemDelay != 2*time.Second {
		t.Fatalf("expected 2s item delay, got %v", cfg.ItemDelay)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("FEED_URLS", "https://a.example/feed, https://b.example/rss.xml")
	t.Setenv("AI_MODELS", "model-x,model-y")
	t.Setenv("MAX_NEWS_LIMIT", "7")
	t.Setenv("ITEM_DELAY", "50ms")

	cfg := Load()

	if len(cfg.FeedURLs) != 2 || cfg.FeedURLs[0] != "https://a.example/feed" {
		t.Fatalf("unexpected feed list: %v", cfg.FeedURLs)
	}
	if len(cfg.AIModels) != 2 || cfg.AIModels[0] != "model-x" || cfg.AIModels[1] != "model-y" {
		t.Fatalf("unexpected model list: %v", cfg.AIModels)
	}
	if cfg.MaxNewsLimit != 7 {
		t.Fatalf("expected cap override 7, got %d", cfg.MaxNewsLimit)
	}
	if cfg.ItemDelay != 50*time.Millisecond {
		t.Fatalf("expected 50ms delay, got %v", cfg.ItemDelay)
	}
}

func TestLoadIgnoresInvalidValues(t *testing.T) {
	t.Setenv("MAX_NEWS_LIMIT", "not-a-number")
	t.Setenv("ITEM_DELAY", "soon")

	cfg := Load()

	if cfg.MaxNewsLimit != 3 {
		t.Fatalf("invalid int should fall back to default, got %d", cfg.MaxNewsLimit)
	}
	if cfg.ItemDelay != 2*time.Second {
		t.Fatalf("invalid duration should fall back to default, got %v", cfg.ItemDelay)
	}
}
