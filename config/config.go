package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	MongoURI        string
	NATSUrl         string
	Port            string
	FeedURLs        []string
	AIAPIKey        string
	AIBaseURL       string
	AIModels        []string
	MaxNewsLimit    int
	MaxItemsPerFeed int
	ItemDelay       time.Duration
	ModelRetryDelay time.Duration
	AITimeout       time.Duration
	IngestInterval  time.Duration
}

func Load() *Config {
	cfg := &Config{
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		NATSUrl:         getEnv("NATS_URL", "nats://localhost:4222"),
		Port:            getEnv("PORT", ":8080"),
		FeedURLs:        getListEnv("FEED_URLS", defaultFeeds),
		AIAPIKey:        getEnv("GEMINI_API_KEY", ""),
		AIBaseURL:       getEnv("AI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		AIModels:        getListEnv("AI_MODELS", defaultModels),
		MaxNewsLimit:    getIntEnv("MAX_NEWS_LIMIT", 3),
		MaxItemsPerFeed: getIntEnv("MAX_ITEMS_PER_FEED", 5),
		ItemDelay:       getDurationEnv("ITEM_DELAY", "2s"),
		ModelRetryDelay: getDurationEnv("MODEL_RETRY_DELAY", "2s"),
		AITimeout:       getDurationEnv("AI_TIMEOUT", "90s"),
		IngestInterval:  getDurationEnv("INGEST_INTERVAL", "4h"),
	}

	if cfg.AIAPIKey == "" {
		log.Println("Warning: GEMINI_API_KEY not set, articles will be published with original feed content")
	}

	log.Printf("Config loaded - Feeds: %d, Models: %v, MaxNewsLimit: %d, IngestInterval: %v",
		len(cfg.FeedURLs), cfg.AIModels, cfg.MaxNewsLimit, cfg.IngestInterval)

	return cfg
}

// Feeds are processed in this order; the per-run publish cap usually
// exhausts before the list does, so order is priority.
var defaultFeeds = []string{
	"https://www.prothomalo.com/feed",
	"https://www.jugantor.com/feed/rss.xml",
	"https://www.kalerkantho.com/rss.xml",
	"https://www.banglatribune.com/feed",
}

// Most capable / cheapest first; each is tried once per item.
var defaultModels = []string{
	"gemini-2.0-flash",
	"gemini-1.5-flash",
	"gemini-1.5-flash-8b",
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var list []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			list = append(list, part)
		}
	}
	if len(list) == 0 {
		return defaultValue
	}
	return list
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue string) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
