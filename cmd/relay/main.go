package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/storm-alert-relay/internal/adapter/feed"
	httpadapter "github.com/couchcryptid/storm-alert-relay/internal/adapter/http"
	"github.com/couchcryptid/storm-alert-relay/internal/adapter/matrix"
	"github.com/couchcryptid/storm-alert-relay/internal/adapter/telegram"
	"github.com/couchcryptid/storm-alert-relay/internal/config"
	"github.com/couchcryptid/storm-alert-relay/internal/dedup"
	"github.com/couchcryptid/storm-alert-relay/internal/domain"
	"github.com/couchcryptid/storm-alert-relay/internal/observability"
	"github.com/couchcryptid/storm-alert-relay/internal/relay"
	"github.com/prometheus/client_golang/prometheus"
)

// chatPublisher is a relay.Publisher holding a session that must be torn down.
type chatPublisher interface {
	relay.Publisher
	Close(ctx context.Context) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, cfg, logger, metrics, prometheus.DefaultGatherer)
	stop()
	os.Exit(code)
}

// run wires the relay and blocks until ctx is cancelled. Teardown is
// deferred so every return path after a successful connect closes the chat
// session within cfg.ShutdownTimeout.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics, g prometheus.Gatherer) int {
	store := dedup.NewFileStore(cfg.DedupFile)
	seen, err := store.Load()
	if err != nil {
		logger.Error("failed to load dedup file", "path", cfg.DedupFile, "error", err)
		return 1
	}
	logger.Info("dedup state loaded", "path", cfg.DedupFile, "entries", len(seen))

	publisher, err := newPublisher(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to connect chat backend", "backend", cfg.ChatBackend, "error", err)
		return 1
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
		defer cancel()
		if err := publisher.Close(closeCtx); err != nil {
			logger.Error("chat session teardown error", "error", err)
		}
		logger.Info("shutdown complete")
	}()

	fetcher := feed.NewFetcher(cfg.FeedURL, cfg.FeedTimeout, logger)
	r := relay.New(fetcher, publisher, store, seen, relay.Options{
		Filter:           domain.NewKeywordFilter(cfg.ExcludedKeywords),
		MaxMessageLength: cfg.MaxMessageLength,
		PollInterval:     cfg.PollInterval,
	}, logger, metrics, nil)

	srv := httpadapter.NewServer(cfg.HTTPAddr, r, g, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
	}()

	// The relay loop returns once ctx is cancelled.
	if err := r.Run(ctx); err != nil {
		logger.Error("relay error", "error", err)
	}
	logger.Info("shutting down")
	return 0
}

func newPublisher(ctx context.Context, cfg *config.Config, logger *slog.Logger) (chatPublisher, error) {
	switch cfg.ChatBackend {
	case config.BackendMatrix:
		p, err := matrix.NewPublisher(cfg.ChatServer, cfg.ChatRoomID, cfg.ChatUser, cfg.ChatPassword, logger)
		if err != nil {
			return nil, err
		}
		if err := p.Connect(ctx); err != nil {
			// Login may have succeeded before the join failed.
			if cerr := p.Close(context.WithoutCancel(ctx)); cerr != nil {
				logger.Warn("matrix logout after failed connect", "error", cerr)
			}
			return nil, err
		}
		return p, nil
	case config.BackendTelegram:
		return telegram.NewPublisher(cfg.ChatToken, cfg.ChatServer, cfg.ChatRoomID, logger)
	default:
		return nil, fmt.Errorf("unsupported chat backend %q", cfg.ChatBackend)
	}
}
