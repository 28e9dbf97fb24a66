// jobboard-discovery-service
//
// Scrapes the configured UAE job boards on a cron schedule, normalises every
// listing card into a job posting and upserts it by (source, external id).
// A daily sweep deactivates postings older than the staleness window.
// Publishes JOB_CREATED / JOB_UPDATED to Redis when REDIS_URL is set.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"jobboard/discovery-service/internal/classify"
	"jobboard/discovery-service/internal/config"
	"jobboard/discovery-service/internal/db"
	"jobboard/discovery-service/internal/events"
	"jobboard/discovery-service/internal/ingest"
	"jobboard/discovery-service/internal/logger"
	"jobboard/discovery-service/internal/scheduler"
	"jobboard/discovery-service/internal/scraper"
	"jobboard/discovery-service/internal/storage/postgres"
)

const version = "1.0.0"

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "[discovery-service] config error: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[discovery-service] logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("discovery-service stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL, db.PoolOptions{})
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()
	log.Info("postgres connected")

	store := postgres.New(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}

	// ── Redis (optional) ─────────────────────────────────────────────────────
	var publisher ingest.Publisher
	if cfg.RedisURL != "" {
		rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer rdb.Close()
		publisher = events.NewRedisPublisher(rdb)
		log.Info("redis connected, job events enabled")
	} else {
		log.Info("REDIS_URL not set, job events disabled")
	}

	// ── Pipeline ─────────────────────────────────────────────────────────────
	classifier := classify.New(cfg.Vocabulary)
	sink := ingest.NewSink(store, publisher, time.Now, log.Named("ingest"))
	fetcher := scraper.NewCollyFetcher(cfg.UserAgent, cfg.HTTPTimeout, log.Named("fetch"))
	orchestrator := scraper.New(cfg.Sources, fetcher, sink, classifier, scraper.Options{
		RequestDelay:    cfg.RequestDelay,
		MaxCardsPerPage: cfg.MaxCardsPerPage,
	}, log.Named("scrape"))

	sched := scheduler.New(orchestrator, sink, scheduler.Options{
		ScrapeSpec:   cfg.ScrapeCron,
		SweepSpec:    cfg.SweepCron,
		ScrapeOnBoot: cfg.ScrapeOnBoot,
	}, log.Named("scheduler"))
	if err := sched.Start(ctx); err != nil {
		return err
	}

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.Handle("/health", healthHandler(pool))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", srv.Addr), zap.String("version", version),
			zap.Int("sources", len(cfg.Sources)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	}

	log.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", zap.Error(err))
	}
	select {
	case <-sched.Stop().Done():
	case <-shutdownCtx.Done():
		log.Warn("scheduled jobs still running at shutdown")
	}
	log.Info("stopped")
	return nil
}

func healthHandler(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, code := "ok", http.StatusOK
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			status, code = "degraded", http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":  status,
			"service": "discovery-service",
			"version": version,
		})
	}
}
