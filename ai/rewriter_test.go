package ai

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func modelFromPath(path string) string {
	name := strings.TrimPrefix(path, "/models/")
	if idx := strings.Index(name, ":"); idx > 0 {
		name = name[:idx]
	}
	return name
}

func TestRewriteFallsThroughToNextModel(t *testing.T) {
	t.Parallel()

	var attempted []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		model := modelFromPath(r.URL.Path)
		attempted = append(attempted, model)

		if model == "model-a" {
			http.Error(w, `{"error": "quota exceeded"}`, http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"উত্তর from ` + model + `"}]}}]}`))
	}))
	defer server.Close()

	r := NewRewriter(Options{
		BaseURL:    server.URL,
		APIKey:     "test-key",
		Models:     []string{"model-a", "model-b", "model-c"},
		RetryDelay: time.Millisecond,
	})

	text, err := r.Rewrite(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Rewrite returned error: %v", err)
	}
	if text != "উত্তর from model-b" {
		t.Fatalf("expected first successful model's text, got %q", text)
	}
	if len(attempted) != 2 || attempted[0] != "model-a" || attempted[1] != "model-b" {
		t.Fatalf("expected attempts [model-a model-b], got %v", attempted)
	}
}

func TestRewriteAllModelsFail(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	r := NewRewriter(Options{
		BaseURL:    server.URL,
		APIKey:     "test-key",
		Models:     []string{"model-a", "model-b"},
		RetryDelay: time.Millisecond,
	})

	_, err := r.Rewrite(context.Background(), "prompt")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestRewriteSendsKeyAndPrompt(t *testing.T) {
	t.Parallel()

	var gotKey string
	var gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("key")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`))
	}))
	defer server.Close()

	r := NewRewriter(Options{
		BaseURL: server.URL,
		APIKey:  "secret-key",
		Models:  []string{"model-a"},
	})

	if _, err := r.Rewrite(context.Background(), "বাংলা prompt"); err != nil {
		t.Fatalf("Rewrite returned error: %v", err)
	}
	if gotKey != "secret-key" {
		t.Fatalf("expected API key in query string, got %q", gotKey)
	}
	if !strings.Contains(gotBody, "বাংলা prompt") {
		t.Fatalf("expected prompt in request body, got %q", gotBody)
	}
}

func TestRewriteWithoutKeyShortCircuits(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend must not be called without an API key")
	}))
	defer server.Close()

	r := NewRewriter(Options{BaseURL: server.URL, Models: []string{"model-a"}})

	_, err := r.Rewrite(context.Background(), "prompt")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestRewriteEmptyCandidatesIsFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	r := NewRewriter(Options{
		BaseURL:    server.URL,
		APIKey:     "k",
		Models:     []string{"model-a"},
		RetryDelay: time.Millisecond,
	})

	if _, err := r.Rewrite(context.Background(), "prompt"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
