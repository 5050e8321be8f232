package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"news-ingest-service/ai"
	"news-ingest-service/feeds"
	"news-ingest-service/metrics"
	"news-ingest-service/model"
)

// Fallback content used when the AI backend cannot contribute. The two
// category labels are distinct on purpose: raw-feed articles land in the
// aggregated bucket, half-parsed AI articles in the general one.
const (
	categoryDefault    = "সাধারণ"
	categoryAutoImport = "সংগৃহীত সংবাদ"
	placeholderBody    = "বিস্তারিত তথ্য পাওয়া যায়নি। সম্পূর্ণ প্রতিবেদনটি পড়তে মূল লিংকে যান।"
	sourceFallback     = "অজানা উৎস"
)

// FeedSource retrieves and parses one configured feed.
type FeedSource interface {
	Fetch(ctx context.Context, url string) (*feeds.Feed, error)
}

// Rewriter produces model output for a prompt, or ai.ErrUnavailable once
// its whole fallback chain is exhausted.
type Rewriter interface {
	Rewrite(ctx context.Context, prompt string) (string, error)
}

// ArticleStore is the slice of the content store the pipeline touches.
type ArticleStore interface {
	ExistsByLink(ctx context.Context, link string) (bool, error)
	Insert(ctx context.Context, article model.Article) (string, error)
}

// ProgressFunc receives human-readable progress lines for the operator.
type ProgressFunc func(message, severity string)

type Options struct {
	FeedURLs        []string
	MaxNewsLimit    int
	MaxItemsPerFeed int
	ItemDelay       time.Duration
}

// Pipeline runs the RSS-to-article ingestion flow: feeds in configured
// order, items in feed order, one network call in flight at a time.
type Pipeline struct {
	opts     Options
	source   FeedSource
	rewriter Rewriter
	store    ArticleStore
}

func NewPipeline(opts Options, source FeedSource, rewriter Rewriter, store ArticleStore) *Pipeline {
	if opts.MaxNewsLimit <= 0 {
		opts.MaxNewsLimit = 3
	}
	if opts.MaxItemsPerFeed <= 0 {
		opts.MaxItemsPerFeed = 5
	}
	return &Pipeline{opts: opts, source: source, rewriter: rewriter, store: store}
}

// runState is per-run; nothing about a run survives it (no package-level
// counters).
type runState struct {
	limit     int
	published []model.PublishedArticle
}

func (s *runState) capReached() bool {
	return len(s.published) >= s.limit
}

// Run executes one ingest pass and returns the summaries of every
// article it published. Failures inside one feed never spill into the
// next: the isolation boundary is the feed, not the item and not the run.
func (p *Pipeline) Run(ctx context.Context, req model.IngestRequest, progress ProgressFunc) model.IngestResult {
	if progress == nil {
		progress = func(string, string) {}
	}

	start := time.Now()
	state := &runState{limit: p.opts.MaxNewsLimit, published: []model.PublishedArticle{}}
	if req.MaxArticles > 0 {
		state.limit = req.MaxArticles
	}

	result := model.IngestResult{
		RequestID: req.RequestID,
		StartedAt: start,
	}

	progress(fmt.Sprintf("Ingest run started: %d feeds, publish cap %d", len(p.opts.FeedURLs), state.limit), model.SeverityInfo)

	for _, feedURL := range p.opts.FeedURLs {
		if ctx.Err() != nil {
			progress("Run cancelled", model.SeverityError)
			break
		}
		if state.capReached() {
			progress(fmt.Sprintf("Publish cap of %d reached, stopping run", state.limit), model.SeverityInfo)
			break
		}

		if err := p.processFeed(ctx, feedURL, state, progress); err != nil {
			note := fmt.Sprintf("Feed %s: %v", feedURL, err)
			result.FeedErrors = append(result.FeedErrors, note)
			progress(note, model.SeverityError)
		}
	}

	result.Published = state.published
	result.FinishedAt = time.Now()
	metrics.RunDuration.Observe(time.Since(start).Seconds())

	progress(fmt.Sprintf("Ingest run finished: %d articles published", len(result.Published)), model.SeveritySuccess)
	return result
}

// processFeed handles one feed end to end. Any error returned here,
// including a store-write failure, abandons the remainder of this feed
// only; the caller logs it and moves to the next feed.
func (p *Pipeline) processFeed(ctx context.Context, feedURL string, state *runState, progress ProgressFunc) error {
	progress(fmt.Sprintf("Fetching feed: %s", feedURL), model.SeverityInfo)

	feed, err := p.source.Fetch(ctx, feedURL)
	if err != nil {
		metrics.FeedFetches.WithLabelValues("error").Inc()
		return err
	}
	metrics.FeedFetches.WithLabelValues("success").Inc()

	items := feed.Items
	if len(items) > p.opts.MaxItemsPerFeed {
		items = items[:p.opts.MaxItemsPerFeed]
	}

	for _, item := range items {
		if state.capReached() {
			break
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		exists, err := p.store.ExistsByLink(ctx, item.Link)
		if err != nil {
			return fmt.Errorf("dedup check: %w", err)
		}
		if exists {
			// Silent skip; duplicates are routine, not noteworthy.
			continue
		}

		// Courtesy delay before hitting the AI backend.
		if p.opts.ItemDelay > 0 {
			time.Sleep(p.opts.ItemDelay)
		}

		article, contentLabel := p.buildArticle(ctx, feed, item)

		id, err := p.store.Insert(ctx, article)
		if err != nil {
			return fmt.Errorf("persist %q: %w", article.Title, err)
		}

		state.published = append(state.published, model.PublishedArticle{ID: id, Title: article.Title})
		metrics.ArticlesPublished.WithLabelValues(article.Source, article.Category, contentLabel).Inc()
		progress(fmt.Sprintf("Published (%d/%d): %s", len(state.published), state.limit, article.Title), model.SeveritySuccess)
	}

	return nil
}

// buildArticle always yields a publishable article: AI output when the
// backend cooperates, degraded feed content when it does not. An item is
// never dropped because rewriting failed.
func (p *Pipeline) buildArticle(ctx context.Context, feed *feeds.Feed, item feeds.Item) (model.Article, string) {
	article := model.Article{
		OriginalLink: item.Link,
		Source:       feed.Title,
		PublishedAt:  time.Now().UTC().Format(time.RFC3339),
		Status:       model.StatusPublished,
	}
	if article.Source == "" {
		article.Source = sourceFallback
	}

	raw, err := p.rewriter.Rewrite(ctx, ai.BuildPrompt(item.Title, item.Link, item.Summary))
	if err != nil || raw == "" {
		if err != nil && !errors.Is(err, ai.ErrUnavailable) {
			log.Printf("Rewrite failed for %s: %v", item.Link, err)
		}
		article.Title = item.Title
		article.Content = item.Summary
		if article.Content == "" {
			article.Content = placeholderBody
		}
		article.Category = categoryAutoImport
		return article, "feed_fallback"
	}

	rewrite, parseErr := ai.Parse(raw)
	if parseErr != nil {
		article.Title = item.Title
		article.Content = ai.StripFences(raw)
		article.Category = categoryDefault
		return article, "parse_fallback"
	}

	article.Title = rewrite.Headline
	if article.Title == "" {
		article.Title = item.Title
	}
	article.Content = rewrite.Body
	if article.Content == "" {
		article.Content = item.Summary
		if article.Content == "" {
			article.Content = placeholderBody
		}
	}
	article.Category = rewrite.Category
	if article.Category == "" {
		article.Category = categoryDefault
	}
	return article, "rewritten"
}
