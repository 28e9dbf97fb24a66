// Package storage declares the persistence boundary for job postings and
// user skill profiles. Implementations live in the postgres and memory
// subpackages; both enforce uniqueness of (source, external id).
package storage

import (
	"context"
	"errors"
	"time"

	"jobboard/discovery-service/internal/model"
)

// ErrNotFound is returned when a posting or profile does not exist.
var ErrNotFound = errors.New("not found")

// Store is the full set of operations the service needs from persistence.
type Store interface {
	// FindByKey returns the posting identified by (source, externalID), or
	// ErrNotFound.
	FindByKey(ctx context.Context, source, externalID string) (*model.JobPosting, error)
	// Insert stores a new posting and fills its ID and timestamps. Inserting
	// an existing key updates that record instead of duplicating it.
	Insert(ctx context.Context, job *model.JobPosting) error
	// Update overwrites the stored posting with the same key, or returns
	// ErrNotFound.
	Update(ctx context.Context, job *model.JobPosting) error
	// QueryActive filters, orders and pages active postings.
	QueryActive(ctx context.Context, criteria model.SearchCriteria) (model.SearchPage, error)
	// ListActive returns every active posting, newest first.
	ListActive(ctx context.Context) ([]model.JobPosting, error)
	// DeactivateOlderThan clears IsActive on active postings whose
	// PostedDate is before cutoff and returns how many changed.
	DeactivateOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	// FindProfileByUserID returns the user's skill profile, or ErrNotFound.
	FindProfileByUserID(ctx context.Context, userID string) (*model.UserSkillProfile, error)
}
