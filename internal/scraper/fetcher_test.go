package scraper_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"jobboard/discovery-service/internal/scraper"
)

func TestCollyFetcher_FetchText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(`<html><body><div class="jb-card">` + r.UserAgent() + `</div></body></html>`))
		default:
			http.Error(w, "boom", http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	f := scraper.NewCollyFetcher("jobboard-test/1.0", 5*time.Second, zap.NewNop())

	t.Run("success returns body", func(t *testing.T) {
		body, err := f.FetchText(context.Background(), srv.URL+"/ok")
		require.NoError(t, err)
		assert.Contains(t, body, `class="jb-card"`)
		assert.Contains(t, body, "jobboard-test/1.0")
	})

	t.Run("server error is a FetchError with status", func(t *testing.T) {
		_, err := f.FetchText(context.Background(), srv.URL+"/broken")
		require.Error(t, err)

		var ferr *scraper.FetchError
		require.True(t, errors.As(err, &ferr))
		assert.Equal(t, http.StatusInternalServerError, ferr.StatusCode)
		assert.Equal(t, srv.URL+"/broken", ferr.URL)
	})

	t.Run("same URL can be fetched twice", func(t *testing.T) {
		_, err := f.FetchText(context.Background(), srv.URL+"/ok")
		require.NoError(t, err)
		_, err = f.FetchText(context.Background(), srv.URL+"/ok")
		require.NoError(t, err)
	})
}

func TestCollyFetcher_CancelledContext(t *testing.T) {
	f := scraper.NewCollyFetcher("jobboard-test/1.0", time.Second, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.FetchText(ctx, "http://127.0.0.1:1/never")
	var ferr *scraper.FetchError
	require.True(t, errors.As(err, &ferr))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, ferr.StatusCode)
}

func TestCollyFetcher_CancelAbortsInFlightRequest(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	f := scraper.NewCollyFetcher("jobboard-test/1.0", 10*time.Second, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	start := time.Now()
	_, err := f.FetchText(ctx, srv.URL+"/hang")
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)

	var ferr *scraper.FetchError
	require.True(t, errors.As(err, &ferr))
	assert.Zero(t, ferr.StatusCode)
}

func TestFetchError_Message(t *testing.T) {
	err := &scraper.FetchError{URL: "https://x.test/a", StatusCode: 404, Err: errors.New("Not Found")}
	assert.Equal(t, "fetch https://x.test/a: status 404: Not Found", err.Error())

	err = &scraper.FetchError{URL: "https://x.test/a", Err: errors.New("timeout")}
	assert.Equal(t, "fetch https://x.test/a: timeout", err.Error())
}
