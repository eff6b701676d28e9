// Copyright (c) 2026 Mistwell Games. All rights reserved.

// Command worker runs one enrichment drain and exits.
//
// It is designed to be invoked on a schedule (cron, systemd timer, or a
// container job): drain the pending queue, enrich every product, record the
// run summary, exit. All pacing against the card-data API and the storefront
// happens inside the drain; the process holds no long-lived state.
//
// # Exit Codes
//
//	0  drain completed (individual product failures are recorded, not fatal)
//	1  startup failure or a drain that could not run at all
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mistwell/cardsync/internal/enrich"
	"github.com/mistwell/cardsync/internal/platform/config"
	"github.com/mistwell/cardsync/internal/platform/migration"
	pgstore "github.com/mistwell/cardsync/internal/platform/postgres"
	redisstore "github.com/mistwell/cardsync/internal/platform/redis"
	"github.com/mistwell/cardsync/internal/queue"
	"github.com/mistwell/cardsync/internal/runlog"
	"github.com/mistwell/cardsync/internal/scryfall"
	"github.com/mistwell/cardsync/internal/shopify"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log := rawLog.With(slog.String("app", "cardsync-worker"))
	slog.SetDefault(log)

	log.Info("[cardsync] worker_starting")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	// A drain is bounded work; cancel on SIGTERM so an evicted job stops
	// between products instead of mid-batch.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	startupCtx, startupCancel := context.WithTimeout(ctx, 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer pool.Close()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Drain ──────────────────────────────────────────────────────────
	queueStore := queue.NewRedisStore(rdb)
	cardClient := scryfall.NewClient(cfg.ScryfallBaseURL, log)
	catalogClient := shopify.NewClient(cfg.ShopifyGraphQLURL(), cfg.ShopifyAccessToken, log)

	service := enrich.NewService(queueStore, cardClient, catalogClient, log)

	summary, err := service.Run(ctx)
	if err != nil {
		log.Error("drain_failed", slog.Any("error", err))
		os.Exit(1)
	}

	// ── 7. Record the run ─────────────────────────────────────────────────
	// Recording is best-effort: a history write failure must not turn a
	// completed drain into a scheduler-visible failure.
	runRepository := runlog.NewPostgresRepository(pool)
	run := runlog.FromSummary(summary)
	if err := runRepository.Record(context.Background(), run); err != nil {
		log.Error("run_record_failed", slog.String("run_id", run.ID), slog.Any("error", err))
	}

	log.Info("worker_finished",
		slog.String("run_id", run.ID),
		slog.Int("total", summary.Total),
		slog.Int("enriched", summary.Enriched),
		slog.Int("failed", summary.Failed),
	)
}

// must logs a structured fatal error and terminates the process if err is non-nil.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
