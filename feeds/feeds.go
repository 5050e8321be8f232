package feeds

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// browserUserAgent is sent on every feed request. Several Bengali news
// sites reject default Go client UAs outright.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// Feed is the normalized view of one syndication feed.
type Feed struct {
	Title string
	Items []Item
}

// Item carries the fields the pipeline needs from a feed entry.
type Item struct {
	Title   string
	Link    string
	Summary string
}

// Client fetches and parses RSS/Atom feeds.
type Client struct {
	parser *gofeed.Parser
}

func NewClient() *Client {
	p := gofeed.NewParser()
	p.UserAgent = browserUserAgent
	p.Client = &http.Client{Timeout: 30 * time.Second}
	return &Client{parser: p}
}

// Fetch retrieves one feed and returns its items in feed order.
func (c *Client) Fetch(ctx context.Context, url string) (*Feed, error) {
	parsed, err := c.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", url, err)
	}

	feed := &Feed{Title: strings.TrimSpace(parsed.Title)}
	for _, item := range parsed.Items {
		if item == nil || item.Link == "" {
			continue
		}
		summary := strings.TrimSpace(item.Description)
		if summary == "" {
			summary = strings.TrimSpace(item.Content)
		}
		feed.Items = append(feed.Items, Item{
			Title:   strings.TrimSpace(item.Title),
			Link:    strings.TrimSpace(item.Link),
			Summary: summary,
		})
	}

	return feed, nil
}
