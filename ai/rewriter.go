package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"news-ingest-service/metrics"
)

// ErrUnavailable is returned once every model in the fallback chain has
// failed for an item. Callers treat it as recoverable and publish the
// item with original feed content instead.
var ErrUnavailable = errors.New("all models failed")

// Rewriter generates Bengali rewrites through a generative-text API,
// trying each configured model in order and returning the first success.
type Rewriter struct {
	baseURL    string
	apiKey     string
	models     []string
	retryDelay time.Duration
	timeout    time.Duration
	client     *http.Client
}

type Options struct {
	BaseURL    string
	APIKey     string
	Models     []string
	RetryDelay time.Duration
	Timeout    time.Duration
}

func NewRewriter(opts Options) *Rewriter {
	if opts.Timeout == 0 {
		opts.Timeout = 90 * time.Second
	}
	if opts.RetryDelay == 0 {
		opts.RetryDelay = 2 * time.Second
	}
	return &Rewriter{
		baseURL:    strings.TrimSuffix(opts.BaseURL, "/"),
		apiKey:     opts.APIKey,
		models:     opts.Models,
		retryDelay: opts.RetryDelay,
		timeout:    opts.Timeout,
		client:     &http.Client{},
	}
}

// Rewrite sends the prompt to each model in priority order. The first
// model to answer wins; later models are never attempted after a success.
func (r *Rewriter) Rewrite(ctx context.Context, prompt string) (string, error) {
	if r.apiKey == "" {
		return "", ErrUnavailable
	}

	for i, model := range r.models {
		text, err := r.generate(ctx, model, prompt)
		if err == nil {
			metrics.AIAttempts.WithLabelValues(model, "success").Inc()
			return text, nil
		}
		metrics.AIAttempts.WithLabelValues(model, "error").Inc()
		log.Printf("Model %s failed: %v", model, err)

		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if i < len(r.models)-1 {
			time.Sleep(r.retryDelay)
		}
	}

	return "", ErrUnavailable
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (r *Rewriter) generate(ctx context.Context, model, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		r.baseURL, model, url.QueryEscape(r.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("generate returned %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty candidates in response")
	}

	var text strings.Builder
	for _, p := range parsed.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}

	result := strings.TrimSpace(text.String())
	if result == "" {
		return "", fmt.Errorf("empty text in response")
	}
	return result, nil
}
