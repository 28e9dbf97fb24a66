// Package scraper turns the configured job boards into posting candidates:
// fetch listing pages, parse cards, keep the domain-relevant ones and hand
// them to a Sink, one rate-limited worker per source.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"jobboard/discovery-service/internal/classify"
	"jobboard/discovery-service/internal/model"
)

// Sink receives every domain-relevant candidate produced by a scrape.
type Sink interface {
	Upsert(ctx context.Context, job *model.JobPosting) error
}

// Worker runs the scrape cycle for a single source: seed URLs in configured
// order, each fetch gated by the source's own limiter. The limiter is charged
// again when a fetch returns, so the next request waits at least one full
// delay after the previous response however long that fetch took.
type Worker struct {
	source     model.Source
	parser     *Parser
	fetcher    Fetcher
	sink       Sink
	classifier *classify.Classifier
	limiter    *rate.Limiter
	maxCards   int
	logger     *zap.Logger
}

// NewWorker constructs a Worker. delay is the minimum idle gap between the end
// of one request to the source and the start of the next; zero disables it.
func NewWorker(
	source model.Source,
	fetcher Fetcher,
	sink Sink,
	classifier *classify.Classifier,
	delay time.Duration,
	maxCards int,
	now func() time.Time,
	logger *zap.Logger,
) *Worker {
	return &Worker{
		source:     source,
		parser:     NewParser(source, classifier, now, logger),
		fetcher:    fetcher,
		sink:       sink,
		classifier: classifier,
		limiter:    rate.NewLimiter(rate.Every(delay), 1),
		maxCards:   maxCards,
		logger:     logger.With(zap.String("source", source.Name)),
	}
}

// Run scrapes every seed URL of the source. A failed URL yields zero
// candidates and the worker moves on; the failures are returned combined.
func (w *Worker) Run(ctx context.Context) (RunStats, error) {
	stats := RunStats{Sources: 1}
	var errs error

	for _, url := range w.source.SeedURLs {
		if err := w.limiter.Wait(ctx); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: wait: %w", w.source.Name, err))
			break
		}
		errs = multierr.Append(errs, w.scrapePage(ctx, url, &stats))
	}

	w.logger.Info("source scraped",
		zap.Int("pages", stats.Pages),
		zap.Int("cards", stats.Cards),
		zap.Int("relevant", stats.Relevant),
		zap.Int("saved", stats.Saved),
		zap.Int("failures", stats.Failures),
	)
	return stats, errs
}

func (w *Worker) scrapePage(ctx context.Context, url string, stats *RunStats) error {
	markup, err := w.fetcher.FetchText(ctx, url)
	w.limiter.Reserve()
	if err != nil {
		stats.Failures++
		w.logger.Warn("fetch failed, skipping URL", zap.String("url", url), zap.Error(err))
		return err
	}
	stats.Pages++

	cards, err := w.parser.ParseListing(markup)
	if err != nil {
		stats.Failures++
		perr := &ParseError{Source: w.source.Name, URL: url, Err: err}
		w.logger.Warn("listing page unreadable", zap.String("url", url), zap.Error(err))
		return perr
	}
	if w.maxCards > 0 && len(cards) > w.maxCards {
		cards = cards[:w.maxCards]
	}

	var errs error
	for _, card := range cards {
		stats.Cards++

		job, err := w.parser.ParseCard(card)
		if err != nil {
			var perr *ParseError
			if errors.As(err, &perr) {
				perr.URL = url
			}
			stats.Failures++
			w.logger.Warn("card skipped", zap.String("url", url), zap.Error(err))
			errs = multierr.Append(errs, err)
			continue
		}
		if job == nil || !w.classifier.IsDomainRelevant(job) {
			continue
		}
		stats.Relevant++

		if err := w.sink.Upsert(ctx, job); err != nil {
			stats.Failures++
			w.logger.Error("upsert failed, dropping candidate",
				zap.String("external_id", job.ExternalID),
				zap.Error(err),
			)
			errs = multierr.Append(errs, err)
			continue
		}
		stats.Saved++
	}
	return errs
}
