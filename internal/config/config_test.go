package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/jobs")
	t.Setenv("REDIS_URL", "")
	t.Setenv("SOURCES_FILE", "")
	t.Setenv("SCRAPE_REQUEST_DELAY", "")
	t.Setenv("MAX_CARDS_PER_PAGE", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("DISCOVERY_PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Port)
	assert.True(t, cfg.ScrapeOnBoot)
	assert.Equal(t, "@hourly", cfg.ScrapeCron)
	assert.Equal(t, 2*time.Second, cfg.RequestDelay)
	assert.Equal(t, 20, cfg.MaxCardsPerPage)
	assert.Len(t, cfg.Sources, 4)
	assert.Len(t, cfg.Vocabulary.Technologies, 24)
	assert.Len(t, cfg.Vocabulary.Emirates, 7)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/jobs")
	t.Setenv("SCRAPE_REQUEST_DELAY", "500ms")
	t.Setenv("MAX_CARDS_PER_PAGE", "5")
	t.Setenv("SCRAPE_ON_BOOT", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 500*time.Millisecond, cfg.RequestDelay)
	assert.Equal(t, 5, cfg.MaxCardsPerPage)
	assert.False(t, cfg.ScrapeOnBoot)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"SCRAPE_REQUEST_DELAY": "soon",
		"MAX_CARDS_PER_PAGE":   "0",
		"SCRAPE_ON_BOOT":       "maybe",
		"LOG_LEVEL":            "verbose",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv("DATABASE_URL", "postgres://localhost/jobs")
			t.Setenv(key, val)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestParseCatalog_FillsMissingSections(t *testing.T) {
	doc := []byte(`
sources:
  - name: Example
    base_url: https://jobs.example.com
    seed_urls: ["https://jobs.example.com/search?q=dotnet"]
    selectors:
      card: li.job
      title: h2 a
vocabulary:
  fallback_keywords: ["golang"]
`)

	c, err := ParseCatalog(doc)
	require.NoError(t, err)

	require.Len(t, c.Sources, 1)
	assert.Equal(t, "Example", c.Sources[0].Name)
	assert.Equal(t, "AED", c.Sources[0].Currency)
	assert.Equal(t, "Full-time", c.Sources[0].JobType)
	assert.Equal(t, "li.job", c.Sources[0].Selectors.Card)
	assert.Equal(t, []string{"golang"}, c.Vocabulary.FallbackKeywords)
	assert.Equal(t, DefaultVocabulary().Technologies, c.Vocabulary.Technologies)
}

func TestLoadCatalog_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yaml")
	require.NoError(t, os.WriteFile(path, []byte("vocabulary:\n  emirates: [Dubai]\n"), 0o644))

	c, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Dubai"}, c.Vocabulary.Emirates)
	assert.Len(t, c.Sources, 4)
}

func TestLoadCatalog_MissingFile(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
