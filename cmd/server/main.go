package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/warriorsbball/painttouch/internal/config"
	"github.com/warriorsbball/painttouch/internal/gateway"
	"github.com/warriorsbball/painttouch/internal/painttouch"
	"github.com/warriorsbball/painttouch/internal/server"
	"github.com/warriorsbball/painttouch/internal/session"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- Sync gateway ---
	syncer := gateway.NewSyncer(logger, cfg.DatabaseURL, cfg.SyncTimeout)
	if syncer.Enabled() {
		logger.Info("database sync enabled", "timeout", cfg.SyncTimeout)
	} else {
		logger.Warn("DATABASE_URL is not set, sync disabled")
	}

	// --- Sessions ---
	var gameOpts []session.Option
	if cfg.StrictOutcome {
		gameOpts = append(gameOpts, session.WithCatalog(painttouch.OutcomeValues()...))
	}
	sessions := session.NewRegistry(gameOpts...)

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Sessions: sessions,
		Syncer:   syncer,
		SPADir:   cfg.SPADir,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	g.Go(func() error {
		sweepSessions(gctx, logger, sessions, cfg.SweepInterval, cfg.SessionIdle)
		return nil
	})

	return g.Wait()
}

// sweepSessions discards idle sessions until ctx is done. Their unsynced
// touches are lost, as when the process exits.
func sweepSessions(ctx context.Context, logger *slog.Logger, sessions *session.Registry, every, idle time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := sessions.Sweep(idle); n > 0 {
				logger.Info("expired idle sessions", "count", n, "live", sessions.Len())
			}
		}
	}
}
