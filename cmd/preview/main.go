// Command preview renders the chat messages the relay would post for a feed,
// without posting anything or writing the dedup file. Use it to tune
// EXCLUDED_KEYWORDS and MAX_MESSAGE_LENGTH against a live or saved feed.
//
// Usage:
//
//	go run ./cmd/preview -url https://mesonet.agron.iastate.edu/iembot-rss/room/taechat.xml
//	go run ./cmd/preview -file testdata/taechat.xml -dedup processed_messages.txt -max-length 500
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/couchcryptid/storm-alert-relay/internal/adapter/feed"
	"github.com/couchcryptid/storm-alert-relay/internal/config"
	"github.com/couchcryptid/storm-alert-relay/internal/dedup"
	"github.com/couchcryptid/storm-alert-relay/internal/domain"
	"github.com/couchcryptid/storm-alert-relay/internal/observability"
	"github.com/couchcryptid/storm-alert-relay/internal/relay"
)

// options holds the parsed command-line flags.
type options struct {
	url       string
	file      string
	dedupPath string
	keywords  string
	maxLength int
	timeout   time.Duration
}

func main() {
	var opts options
	flag.StringVar(&opts.url, "url", "", "feed URL to fetch")
	flag.StringVar(&opts.file, "file", "", "path to a saved feed document (instead of -url)")
	flag.StringVar(&opts.dedupPath, "dedup", "", "optional dedup file; listed identifiers are skipped as seen")
	flag.StringVar(&opts.keywords, "exclude", strings.Join(config.DefaultExcludedKeywords, ","), "comma-separated excluded keywords")
	flag.IntVar(&opts.maxLength, "max-length", 8000, "maximum message length in characters")
	flag.DurationVar(&opts.timeout, "timeout", 30*time.Second, "fetch timeout for -url")
	flag.Parse()

	if (opts.url == "") == (opts.file == "") || opts.maxLength <= 3 {
		flag.Usage()
		os.Exit(2)
	}

	os.Exit(run(context.Background(), opts, os.Stdout, os.Stderr))
}

func run(ctx context.Context, opts options, stdout, stderr io.Writer) int {
	seen := dedup.NewSet()
	if opts.dedupPath != "" {
		var err error
		seen, err = dedup.NewFileStore(opts.dedupPath).Load()
		if err != nil {
			fmt.Fprintf(stderr, "load dedup file: %v\n", err)
			return 1
		}
	}

	// Skip decisions are logged by the relay at debug level.
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r := relay.New(newFetcher(opts, logger), &printer{w: stdout}, discardStore{}, seen, relay.Options{
		Filter:           domain.NewKeywordFilter(splitKeywords(opts.keywords)),
		MaxMessageLength: opts.maxLength,
	}, logger, observability.NewMetricsForTesting(), nil)

	res := r.RunCycle(ctx)
	if res.FetchErr != nil {
		fmt.Fprintf(stderr, "load feed: %v\n", res.FetchErr)
		return 1
	}

	fmt.Fprintf(stderr, "%d entries: %d would be posted, %d seen, %d excluded, %d malformed\n",
		res.Fetched, res.Posted, res.Seen, res.Excluded, res.Malformed)
	return 0
}

func newFetcher(opts options, logger *slog.Logger) relay.Fetcher {
	if opts.file != "" {
		return fileFetcher(opts.file)
	}
	return feed.NewFetcher(opts.url, opts.timeout, logger)
}

// fileFetcher reads a saved feed document from disk.
type fileFetcher string

func (f fileFetcher) Fetch(_ context.Context) ([]domain.AlertEntry, error) {
	file, err := os.Open(string(f))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetch, err)
	}
	defer file.Close()
	return feed.ParseReader(file)
}

// printer writes each message instead of posting it.
type printer struct {
	w io.Writer
	n int
}

func (p *printer) Publish(_ context.Context, text string) error {
	p.n++
	_, err := fmt.Fprintf(p.w, "=== message %d\n%s\n\n", p.n, text)
	return err
}

// discardStore keeps the dedup file untouched.
type discardStore struct{}

func (discardStore) Save(dedup.Set) error { return nil }

func splitKeywords(raw string) []string {
	var out []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}
