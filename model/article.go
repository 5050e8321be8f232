package model

import "time"

// Article status values. The ingest pipeline only ever creates articles
// in the published state; editorial tooling may change it later.
const StatusPublished = "published"

type Article struct {
	Title        string `json:"title" bson:"title"`
	Content      string `json:"content" bson:"content"`
	Category     string `json:"category" bson:"category"`
	OriginalLink string `json:"originalLink" bson:"originalLink"`
	Source       string `json:"source" bson:"source"`
	PublishedAt  string `json:"publishedAt" bson:"publishedAt"`
	Status       string `json:"status" bson:"status"`
}

// PublishedArticle is the per-article summary returned from an ingest run.
type PublishedArticle struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type IngestRequest struct {
	RequestID   string `json:"requestId"`
	MaxArticles int    `json:"maxArticles,omitempty"` // 0 means use the configured limit
	Priority    string `json:"priority,omitempty"`    // "high", "normal", "low"
}

type IngestResult struct {
	RequestID  string             `json:"requestId"`
	Published  []PublishedArticle `json:"published"`
	FeedErrors []string           `json:"feedErrors,omitempty"`
	StartedAt  time.Time          `json:"startedAt"`
	FinishedAt time.Time          `json:"finishedAt"`
}

// Progress line severities streamed to the operator.
const (
	SeverityInfo    = "info"
	SeveritySuccess = "success"
	SeverityError   = "error"
)
