// Package ingest merges scraped candidates into storage and retires stale
// postings.
package ingest

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"jobboard/discovery-service/internal/model"
	"jobboard/discovery-service/internal/storage"
)

// Event types published after a successful write.
const (
	EventJobCreated = "JOB_CREATED"
	EventJobUpdated = "JOB_UPDATED"
)

// Store is the subset of storage.Store the sink writes through.
type Store interface {
	FindByKey(ctx context.Context, source, externalID string) (*model.JobPosting, error)
	Insert(ctx context.Context, job *model.JobPosting) error
	Update(ctx context.Context, job *model.JobPosting) error
	DeactivateOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Publisher announces written postings to other services.
type Publisher interface {
	PublishJobEvent(ctx context.Context, eventType string, job *model.JobPosting) error
}

// Sink upserts candidates by (source, external id).
type Sink struct {
	store     Store
	publisher Publisher
	now       func() time.Time
	logger    *zap.Logger
}

// NewSink returns a Sink. publisher may be nil, in which case no events are
// sent.
func NewSink(store Store, publisher Publisher, now func() time.Time, logger *zap.Logger) *Sink {
	if now == nil {
		now = time.Now
	}
	return &Sink{store: store, publisher: publisher, now: now, logger: logger}
}

// Upsert inserts candidate, or overwrites the descriptive fields of the
// posting already stored under its key. Either way the stored posting ends up
// active and its LastSeenAt moves to now. PostedDate and CreatedAt of an
// existing posting are kept.
func (s *Sink) Upsert(ctx context.Context, candidate *model.JobPosting) error {
	now := s.now().UTC()

	existing, err := s.store.FindByKey(ctx, candidate.Source, candidate.ExternalID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		job := *candidate
		job.IsActive = true
		job.CreatedAt = now
		job.UpdatedAt = now
		job.LastSeenAt = now
		if job.PostedDate.IsZero() {
			job.PostedDate = now
		}
		if err := s.store.Insert(ctx, &job); err != nil {
			return s.fail("insert", candidate, err)
		}
		s.publish(ctx, EventJobCreated, &job)
		return nil

	case err != nil:
		return s.fail("find", candidate, err)
	}

	merge(existing, candidate)
	existing.IsActive = true
	existing.UpdatedAt = now
	existing.LastSeenAt = now
	if err := s.store.Update(ctx, existing); err != nil {
		return s.fail("update", candidate, err)
	}
	s.publish(ctx, EventJobUpdated, existing)
	return nil
}

// DeactivateStale hides every active posting whose PostedDate is older than
// model.StaleAfter and that no scrape has seen within the same window. A
// listing still on its board keeps being refreshed by Upsert and stays
// active. Nothing is deleted.
func (s *Sink) DeactivateStale(ctx context.Context) (int64, error) {
	cutoff := s.now().UTC().Add(-model.StaleAfter)
	n, err := s.store.DeactivateOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	s.logger.Info("stale postings deactivated", zap.Int64("count", n), zap.Time("cutoff", cutoff))
	return n, nil
}

// merge copies the scraped descriptive fields onto the stored posting.
func merge(dst, src *model.JobPosting) {
	dst.ExternalURL = src.ExternalURL
	dst.Title = src.Title
	dst.Company = src.Company
	dst.Description = src.Description
	dst.Requirements = src.Requirements
	dst.Location = src.Location
	dst.Emirate = src.Emirate
	dst.SalaryMin = src.SalaryMin
	dst.SalaryMax = src.SalaryMax
	dst.Currency = src.Currency
	dst.ExperienceLevel = src.ExperienceLevel
	dst.JobType = src.JobType
	dst.Technologies = src.Technologies
	dst.Benefits = src.Benefits
}

func (s *Sink) fail(op string, job *model.JobPosting, err error) error {
	return &PersistenceError{Source: job.Source, ExternalID: job.ExternalID, Op: op, Err: err}
}

// publish is best effort: a lost event never fails the write.
func (s *Sink) publish(ctx context.Context, eventType string, job *model.JobPosting) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishJobEvent(ctx, eventType, job); err != nil {
		s.logger.Warn("publish failed",
			zap.String("event", eventType),
			zap.String("source", job.Source),
			zap.String("external_id", job.ExternalID),
			zap.Error(err),
		)
	}
}
