package ingest

import "fmt"

// PersistenceError reports a storage failure while upserting one candidate.
// The candidate is dropped for this run; the next scrape re-fetches it.
type PersistenceError struct {
	Source     string
	ExternalID string
	Op         string // "find", "insert" or "update"
	Err        error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s/%s: %s: %v", e.Source, e.ExternalID, e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
