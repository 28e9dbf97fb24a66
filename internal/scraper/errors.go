package scraper

import "fmt"

// FetchError reports a page that could not be retrieved: a network failure,
// a timeout or a non-2xx status. The URL is skipped for the current run.
type FetchError struct {
	URL        string
	StatusCode int // 0 when no response arrived
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports a listing card or page whose markup could not be read.
// Only that card (or page) is skipped.
type ParseError struct {
	Source string
	URL    string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s card from %s: %v", e.Source, e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
