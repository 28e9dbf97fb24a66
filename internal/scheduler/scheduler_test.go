package scheduler_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"jobboard/discovery-service/internal/scheduler"
	"jobboard/discovery-service/internal/scraper"
)

type fakeScraper struct {
	calls atomic.Int32
	stats scraper.RunStats
	err   error
	hold  chan struct{} // when set, ScrapeAll blocks until it is closed
}

func (f *fakeScraper) ScrapeAll(context.Context) (scraper.RunStats, error) {
	f.calls.Add(1)
	if f.hold != nil {
		<-f.hold
	}
	return f.stats, f.err
}

type fakeSweeper struct {
	calls atomic.Int32
	err   error
}

func (f *fakeSweeper) DeactivateStale(context.Context) (int64, error) {
	f.calls.Add(1)
	return 3, f.err
}

var defaultOpts = scheduler.Options{ScrapeSpec: "@hourly", SweepSpec: "@daily"}

func TestStart_RejectsBadSpec(t *testing.T) {
	s := scheduler.New(&fakeScraper{}, &fakeSweeper{},
		scheduler.Options{ScrapeSpec: "every now and then", SweepSpec: "@daily"}, zap.NewNop())

	err := s.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scrape")
}

func TestStart_ScrapesOnBoot(t *testing.T) {
	sc := &fakeScraper{}
	opts := defaultOpts
	opts.ScrapeOnBoot = true

	s := scheduler.New(sc, &fakeSweeper{}, opts, zap.NewNop())
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Eventually(t, func() bool { return sc.calls.Load() == 1 }, time.Second, 10*time.Millisecond)
}

func TestStop_WaitsForBootScrape(t *testing.T) {
	sc := &fakeScraper{hold: make(chan struct{})}
	opts := defaultOpts
	opts.ScrapeOnBoot = true

	s := scheduler.New(sc, &fakeSweeper{}, opts, zap.NewNop())
	require.NoError(t, s.Start(context.Background()))
	require.Eventually(t, func() bool { return sc.calls.Load() == 1 }, time.Second, 10*time.Millisecond)

	done := s.Stop()
	select {
	case <-done.Done():
		t.Fatal("stop finished while the boot scrape was still running")
	case <-time.After(50 * time.Millisecond):
	}

	close(sc.hold)
	select {
	case <-done.Done():
	case <-time.After(time.Second):
		t.Fatal("stop never finished after the boot scrape returned")
	}
}

func TestStart_NoBootScrapeWhenDisabled(t *testing.T) {
	sc := &fakeScraper{}
	s := scheduler.New(sc, &fakeSweeper{}, defaultOpts, zap.NewNop())
	require.NoError(t, s.Start(context.Background()))
	<-s.Stop().Done()

	assert.Zero(t, sc.calls.Load())
}

func TestRunScrape_LogsSummary(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	sc := &fakeScraper{
		stats: scraper.RunStats{Sources: 4, Pages: 7, Saved: 12, Failures: 2},
		err:   multierr.Combine(errors.New("fetch a"), errors.New("fetch b")),
	}

	scheduler.New(sc, &fakeSweeper{}, defaultOpts, zap.New(core)).RunScrape(context.Background())

	entries := logs.FilterMessage("scrape cycle complete with failures").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.EqualValues(t, 12, fields["saved"])
	assert.EqualValues(t, 2, fields["errors"])
}

func TestRunSweep_LogsFailure(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	sw := &fakeSweeper{err: errors.New("db gone")}

	scheduler.New(&fakeScraper{}, sw, defaultOpts, zap.New(core)).RunSweep(context.Background())

	assert.EqualValues(t, 1, sw.calls.Load())
	assert.Equal(t, 1, logs.FilterMessage("stale sweep failed").Len())
}
