// Package scheduler wires up the cron jobs that periodically scrape every
// source and retire stale postings.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"jobboard/discovery-service/internal/scraper"
)

// Scraper runs one full scrape across all sources.
type Scraper interface {
	ScrapeAll(ctx context.Context) (scraper.RunStats, error)
}

// Sweeper deactivates postings past the staleness window.
type Sweeper interface {
	DeactivateStale(ctx context.Context) (int64, error)
}

// Options holds the cron specs.
type Options struct {
	ScrapeSpec   string // e.g. "@hourly"
	SweepSpec    string // e.g. "@daily"
	ScrapeOnBoot bool
}

// Scheduler wraps robfig/cron and manages the scrape and sweep loops. A run
// still in progress when the next tick fires is not interrupted; upserts are
// idempotent, so overlapping runs are harmless.
type Scheduler struct {
	cron    *cron.Cron
	scraper Scraper
	sweeper Sweeper
	opts    Options
	logger  *zap.Logger
	boot    sync.WaitGroup
}

// New creates a Scheduler. Panics inside a job are recovered and logged.
func New(s Scraper, sw Sweeper, opts Options, logger *zap.Logger) *Scheduler {
	cl := cronLogger{sugar: logger.Sugar()}
	return &Scheduler{
		cron:    cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl))),
		scraper: s,
		sweeper: sw,
		opts:    opts,
		logger:  logger,
	}
}

// Start registers both jobs and starts the scheduler. With ScrapeOnBoot it
// also runs one scrape immediately so postings are available without waiting
// for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.opts.ScrapeSpec, func() { s.RunScrape(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc scrape %q: %w", s.opts.ScrapeSpec, err)
	}
	if _, err := s.cron.AddFunc(s.opts.SweepSpec, func() { s.RunSweep(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc sweep %q: %w", s.opts.SweepSpec, err)
	}

	s.cron.Start()
	s.logger.Info("cron started",
		zap.String("scrape_spec", s.opts.ScrapeSpec),
		zap.String("sweep_spec", s.opts.SweepSpec),
	)

	if s.opts.ScrapeOnBoot {
		s.boot.Add(1)
		go func() {
			defer s.boot.Done()
			s.RunScrape(ctx)
		}()
	}
	return nil
}

// Stop stops the scheduler and returns a context that is done once running
// jobs, the boot scrape included, have finished.
func (s *Scheduler) Stop() context.Context {
	cronDone := s.cron.Stop()
	done, cancel := context.WithCancel(context.Background())
	go func() {
		<-cronDone.Done()
		s.boot.Wait()
		cancel()
	}()
	s.logger.Info("cron stopped")
	return done
}

// RunScrape performs one scrape cycle and logs its outcome. Failures are
// already contained per source; they are only summarised here.
func (s *Scheduler) RunScrape(ctx context.Context) {
	s.logger.Info("scrape cycle started")

	stats, err := s.scraper.ScrapeAll(ctx)
	fields := []zap.Field{
		zap.Int("sources", stats.Sources),
		zap.Int("pages", stats.Pages),
		zap.Int("cards", stats.Cards),
		zap.Int("relevant", stats.Relevant),
		zap.Int("saved", stats.Saved),
		zap.Int("failures", stats.Failures),
	}
	if err != nil {
		errs := multierr.Errors(err)
		fields = append(fields, zap.Int("errors", len(errs)), zap.Error(errs[0]))
		s.logger.Warn("scrape cycle complete with failures", fields...)
		return
	}
	s.logger.Info("scrape cycle complete", fields...)
}

// RunSweep deactivates stale postings.
func (s *Scheduler) RunSweep(ctx context.Context) {
	if _, err := s.sweeper.DeactivateStale(ctx); err != nil {
		s.logger.Error("stale sweep failed", zap.Error(err))
	}
}

// cronLogger routes cron's own logging through zap.
type cronLogger struct {
	sugar *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, append(keysAndValues, "error", err)...)
}
