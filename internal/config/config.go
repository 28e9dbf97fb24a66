// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"jobboard/discovery-service/internal/model"
)

// Config holds all runtime configuration for the discovery service.
type Config struct {
	Port         string
	DatabaseURL  string
	RedisURL     string // optional; events are not published when empty
	LogLevel     string
	ScrapeCron   string // cron spec for ScrapeAll, e.g. "@hourly"
	SweepCron    string // cron spec for the staleness sweep
	ScrapeOnBoot bool   // run one scrape right after startup

	RequestDelay    time.Duration // minimum gap between two requests to one source
	HTTPTimeout     time.Duration
	UserAgent       string
	MaxCardsPerPage int

	SourcesFile string // optional YAML catalog overriding the defaults
	Sources     []model.Source
	Vocabulary  model.Vocabulary
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// Load reads environment variables (and a .env file when present) and
// returns a validated Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	cfg := &Config{
		Port:            envOr("DISCOVERY_PORT", "8081"),
		DatabaseURL:     dbURL,
		RedisURL:        os.Getenv("REDIS_URL"),
		LogLevel:        envOr("LOG_LEVEL", "info"),
		ScrapeCron:      envOr("SCRAPE_CRON", "@hourly"),
		SweepCron:       envOr("SWEEP_CRON", "@daily"),
		ScrapeOnBoot:    true,
		RequestDelay:    2 * time.Second,
		HTTPTimeout:     30 * time.Second,
		UserAgent:       envOr("SCRAPE_USER_AGENT", defaultUserAgent),
		MaxCardsPerPage: 20,
		SourcesFile:     os.Getenv("SOURCES_FILE"),
	}

	var err error
	if cfg.RequestDelay, err = durationEnv("SCRAPE_REQUEST_DELAY", cfg.RequestDelay); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = durationEnv("HTTP_TIMEOUT", cfg.HTTPTimeout); err != nil {
		return nil, err
	}
	if s := os.Getenv("MAX_CARDS_PER_PAGE"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("MAX_CARDS_PER_PAGE must be a positive integer, got %q", s)
		}
		cfg.MaxCardsPerPage = v
	}
	if s := os.Getenv("SCRAPE_ON_BOOT"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("SCRAPE_ON_BOOT must be a boolean, got %q", s)
		}
		cfg.ScrapeOnBoot = v
	}

	catalog := Catalog{Sources: DefaultSources(), Vocabulary: DefaultVocabulary()}
	if cfg.SourcesFile != "" {
		catalog, err = LoadCatalog(cfg.SourcesFile)
		if err != nil {
			return nil, err
		}
	}
	cfg.Sources = catalog.Sources
	cfg.Vocabulary = catalog.Vocabulary

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values Load cannot catch while parsing.
func (c *Config) Validate() error {
	if c.RequestDelay < 0 {
		return fmt.Errorf("request delay must not be negative: %v", c.RequestDelay)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be positive: %v", c.HTTPTimeout)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}
	if len(c.Sources) == 0 {
		return fmt.Errorf("no sources configured")
	}
	for _, s := range c.Sources {
		if s.Name == "" {
			return fmt.Errorf("source without a name")
		}
		if s.Selectors.Card == "" || s.Selectors.Title == "" {
			return fmt.Errorf("source %s: card and title selectors are required", s.Name)
		}
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
