package scraper

import (
	"context"
	"errors"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// Fetcher retrieves the raw markup of a listing page.
type Fetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// CollyFetcher fetches pages through a shared colly collector. Each call
// clones the base collector so callbacks never leak between concurrent
// fetches, while the HTTP backend and its connection pool stay shared.
type CollyFetcher struct {
	base   *colly.Collector
	logger *zap.Logger
}

// NewCollyFetcher constructs a fetcher with a browser-like User-Agent and a
// per-request timeout. URLs may be revisited: every scrape run re-reads the
// same seed pages.
func NewCollyFetcher(userAgent string, timeout time.Duration, logger *zap.Logger) *CollyFetcher {
	c := colly.NewCollector(
		colly.UserAgent(userAgent),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(timeout)

	return &CollyFetcher{base: c, logger: logger}
}

// FetchText returns the response body of url. The request is bound to ctx, so
// cancelling it aborts a fetch already in flight. Network failures and non-2xx
// statuses come back as *FetchError.
func (f *CollyFetcher) FetchText(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &FetchError{URL: url, Err: err}
	}

	c := f.base.Clone()
	c.Context = ctx

	var (
		body   []byte
		status int
	)
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html,application/xhtml+xml")
		r.Headers.Set("Accept-Language", "en-US,en;q=0.9")
	})
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = r.Body
	})
	c.OnError(func(r *colly.Response, _ error) {
		if r != nil {
			status = r.StatusCode
		}
	})

	start := time.Now()
	if err := c.Visit(url); err != nil {
		return "", &FetchError{URL: url, StatusCode: status, Err: err}
	}
	if body == nil {
		return "", &FetchError{URL: url, StatusCode: status, Err: errors.New("empty response")}
	}

	f.logger.Debug("page fetched",
		zap.String("url", url),
		zap.Int("status", status),
		zap.Int("bytes", len(body)),
		zap.Duration("took", time.Since(start)),
	)
	return string(body), nil
}
