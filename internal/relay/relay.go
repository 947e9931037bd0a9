package relay

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/storm-alert-relay/internal/dedup"
	"github.com/couchcryptid/storm-alert-relay/internal/domain"
	"github.com/couchcryptid/storm-alert-relay/internal/observability"
	"github.com/jonboulle/clockwork"
)

// Fetcher returns the current feed entries, oldest first.
type Fetcher interface {
	Fetch(ctx context.Context) ([]domain.AlertEntry, error)
}

// Publisher delivers a formatted message to the chat room.
type Publisher interface {
	Publish(ctx context.Context, text string) error
}

// Store persists the dedup set between cycles.
type Store interface {
	Save(s dedup.Set) error
}

// Options holds the static relay settings.
type Options struct {
	Filter           domain.KeywordFilter
	MaxMessageLength int
	PollInterval     time.Duration
}

// CycleResult summarizes one poll cycle.
type CycleResult struct {
	Fetched   int
	Posted    int
	Seen      int
	Excluded  int
	Malformed int
	Failed    int
	FetchErr  error
}

// Relay drives the poll-filter-format-publish-persist loop. It is not safe
// for concurrent use; Run and RunCycle must not overlap.
type Relay struct {
	fetcher   Fetcher
	publisher Publisher
	store     Store
	seen      dedup.Set
	opts      Options
	logger    *slog.Logger
	metrics   *observability.Metrics
	clock     clockwork.Clock
	ready     atomic.Bool
}

// New creates a Relay. seen is the set loaded at startup and is owned by the
// relay from then on. A nil clock uses real time.
func New(f Fetcher, p Publisher, store Store, seen dedup.Set, opts Options, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) *Relay {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if seen == nil {
		seen = dedup.NewSet()
	}
	return &Relay{
		fetcher:   f,
		publisher: p,
		store:     store,
		seen:      seen,
		opts:      opts,
		logger:    logger,
		metrics:   metrics,
		clock:     clock,
	}
}

// CheckReadiness returns nil once a cycle has completed with a successful
// feed fetch, or an error describing why the service is not yet ready.
func (r *Relay) CheckReadiness(_ context.Context) error {
	if !r.ready.Load() {
		return errors.New("relay has not completed a successful poll cycle yet")
	}
	return nil
}

// Run executes a cycle immediately and then once per poll interval until
// the context is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	r.logger.Info("relay started",
		"poll_interval", r.opts.PollInterval,
		"max_message_length", r.opts.MaxMessageLength,
		"excluded_keywords", len(r.opts.Filter.Keywords()),
		"dedup_entries", len(r.seen),
	)
	r.metrics.RelayRunning.Set(1)
	defer r.metrics.RelayRunning.Set(0)

	for {
		r.RunCycle(ctx)

		select {
		case <-ctx.Done():
			r.logger.Info("relay stopping", "reason", ctx.Err())
			return nil
		case <-r.clock.After(r.opts.PollInterval):
		}
	}
}

// RunCycle performs one fetch-filter-format-publish-persist pass. A fetch
// failure is logged and treated as an empty feed. Cancellation stops
// publishing but the dedup set is still persisted.
func (r *Relay) RunCycle(ctx context.Context) CycleResult {
	start := r.clock.Now()
	var res CycleResult

	entries, err := r.fetcher.Fetch(ctx)
	if err != nil {
		r.logger.Error("feed fetch failed, treating cycle as empty", "error", err)
		r.metrics.FetchErrors.Inc()
		res.FetchErr = err
		entries = nil
	}
	res.Fetched = len(entries)
	r.metrics.EntriesFetched.Add(float64(len(entries)))

	for _, entry := range entries {
		if ctx.Err() != nil {
			r.logger.Info("cycle interrupted, skipping remaining entries", "reason", ctx.Err())
			break
		}
		r.processEntry(ctx, entry, &res)
	}

	r.persist()

	r.metrics.PollCycles.Inc()
	r.metrics.CycleDuration.Observe(r.clock.Since(start).Seconds())
	if res.FetchErr == nil {
		r.ready.Store(true)
	}

	r.logger.Info("poll cycle complete",
		"fetched", res.Fetched,
		"posted", res.Posted,
		"seen", res.Seen,
		"excluded", res.Excluded,
		"malformed", res.Malformed,
		"failed", res.Failed,
	)
	return res
}

func (r *Relay) processEntry(ctx context.Context, entry domain.AlertEntry, res *CycleResult) {
	if err := entry.Validate(); err != nil {
		r.logger.Warn("skipping malformed entry", "error", err)
		r.metrics.EntriesSkipped.WithLabelValues(observability.SkipMalformed).Inc()
		res.Malformed++
		return
	}

	if r.seen.Has(entry.ID) {
		r.metrics.EntriesSkipped.WithLabelValues(observability.SkipSeen).Inc()
		res.Seen++
		return
	}

	summary := domain.StripLinkMarkup(entry.Summary)
	if kw, excluded := r.opts.Filter.Match(entry.Title, summary); excluded {
		r.logger.Debug("entry excluded", "id", entry.ID, "title", entry.Title, "keyword", kw)
		r.metrics.EntriesSkipped.WithLabelValues(observability.SkipExcluded).Inc()
		res.Excluded++
		return
	}

	message := domain.FormatAlert(entry.Title, summary, r.opts.MaxMessageLength)
	if err := r.publisher.Publish(ctx, message); err != nil {
		r.logger.Error("publish failed, will retry next cycle", "id", entry.ID, "title", entry.Title, "error", err)
		r.metrics.PublishErrors.Inc()
		res.Failed++
		return
	}

	r.seen.Add(entry.ID)
	r.metrics.AlertsPosted.Inc()
	res.Posted++
	r.logger.Info("alert posted", "id", entry.ID, "title", entry.Title)
}

// persist saves the dedup set. Failures are logged; the in-memory set is
// retained and the next cycle saves again.
func (r *Relay) persist() {
	r.metrics.DedupEntries.Set(float64(len(r.seen)))
	if err := r.store.Save(r.seen); err != nil {
		r.logger.Error("persist dedup set failed", "error", err, "entries", len(r.seen))
		r.metrics.DedupSaveErrors.Inc()
	}
}
