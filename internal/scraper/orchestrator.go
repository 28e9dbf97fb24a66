package scraper

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"jobboard/discovery-service/internal/classify"
	"jobboard/discovery-service/internal/model"
)

// Options tunes a scrape run.
type Options struct {
	RequestDelay    time.Duration // minimum gap between two requests to one source
	MaxCardsPerPage int
	Now             func() time.Time
}

// RunStats summarises one ScrapeAll call.
type RunStats struct {
	Sources  int
	Pages    int
	Cards    int
	Relevant int
	Saved    int
	Failures int
}

func (s *RunStats) add(o RunStats) {
	s.Sources += o.Sources
	s.Pages += o.Pages
	s.Cards += o.Cards
	s.Relevant += o.Relevant
	s.Saved += o.Saved
	s.Failures += o.Failures
}

// Orchestrator scrapes every configured source concurrently. Sources never
// throttle each other; each one runs its seed URLs through its own Worker.
type Orchestrator struct {
	workers []*Worker
	logger  *zap.Logger
}

// New builds an Orchestrator with one Worker per source.
func New(
	sources []model.Source,
	fetcher Fetcher,
	sink Sink,
	classifier *classify.Classifier,
	opts Options,
	logger *zap.Logger,
) *Orchestrator {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	workers := make([]*Worker, 0, len(sources))
	for _, src := range sources {
		workers = append(workers, NewWorker(src, fetcher, sink, classifier,
			opts.RequestDelay, opts.MaxCardsPerPage, opts.Now, logger))
	}
	return &Orchestrator{workers: workers, logger: logger}
}

// ScrapeAll runs every source to completion and waits for all of them. One
// source failing, or panicking, never stops the others; every failure is
// returned in the combined error alongside the aggregated stats.
//
// A source's limiter outlives a run, so overlapping ScrapeAll calls still
// respect its request spacing.
func (o *Orchestrator) ScrapeAll(ctx context.Context) (RunStats, error) {
	start := time.Now()

	results := make([]RunStats, len(o.workers))
	errs := make([]error, len(o.workers))

	var g errgroup.Group
	for i, w := range o.workers {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					errs[i] = fmt.Errorf("%s: panic: %v", w.source.Name, r)
					o.logger.Error("source worker panicked",
						zap.String("source", w.source.Name),
						zap.Any("panic", r),
					)
				}
			}()
			results[i], errs[i] = w.Run(ctx)
			return nil
		})
	}
	_ = g.Wait()

	var total RunStats
	for _, r := range results {
		total.add(r)
	}
	total.Sources = len(o.workers)

	err := multierr.Combine(errs...)
	o.logger.Info("scrape run finished",
		zap.Int("sources", total.Sources),
		zap.Int("pages", total.Pages),
		zap.Int("saved", total.Saved),
		zap.Int("failures", total.Failures),
		zap.Duration("took", time.Since(start)),
	)
	return total, err
}
