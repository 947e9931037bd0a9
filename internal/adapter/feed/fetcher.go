package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/couchcryptid/storm-alert-relay/internal/domain"
	"github.com/mmcdole/gofeed"
)

const userAgent = "storm-alert-relay/1.0"

// Fetcher retrieves alert entries from an RSS feed.
// It implements relay.Fetcher.
type Fetcher struct {
	url    string
	parser *gofeed.Parser
	logger *slog.Logger
}

// NewFetcher creates a fetcher for feedURL with the given HTTP timeout.
func NewFetcher(feedURL string, timeout time.Duration, logger *slog.Logger) *Fetcher {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: timeout}
	parser.UserAgent = userAgent
	return &Fetcher{url: feedURL, parser: parser, logger: logger}
}

// Fetch downloads and parses the feed, returning entries oldest-first.
// Failures are wrapped in domain.ErrFetch.
func (f *Fetcher) Fetch(ctx context.Context) ([]domain.AlertEntry, error) {
	parsed, err := f.parser.ParseURLWithContext(f.url, ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrFetch, f.url, err)
	}
	entries := toEntries(parsed)
	f.logger.Debug("feed fetched", "url", f.url, "entries", len(entries))
	return entries, nil
}

// ParseReader parses a feed document from r, returning entries oldest-first.
func ParseReader(r io.Reader) ([]domain.AlertEntry, error) {
	parsed, err := gofeed.NewParser().Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetch, err)
	}
	return toEntries(parsed), nil
}

// toEntries maps feed items to entries and reverses the feed's
// newest-first order.
func toEntries(parsed *gofeed.Feed) []domain.AlertEntry {
	entries := make([]domain.AlertEntry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		summary := item.Description
		if summary == "" {
			summary = item.Content
		}
		entries = append(entries, domain.AlertEntry{
			ID:      item.Link,
			Title:   item.Title,
			Summary: summary,
		})
	}
	slices.Reverse(entries)
	return entries
}
