package model

import "time"

// Selectors are the CSS selectors that locate listing fields inside one
// source's markup. Card is evaluated against the page, every other selector
// against a single card.
type Selectors struct {
	Card         string `yaml:"card"`
	Title        string `yaml:"title"`
	Link         string `yaml:"link"` // defaults to Title when empty
	Company      string `yaml:"company"`
	Location     string `yaml:"location"`
	Salary       string `yaml:"salary"`
	Description  string `yaml:"description"`
	Requirements string `yaml:"requirements"`
	Benefits     string `yaml:"benefits"` // each match is one benefit
}

// Source describes one external job board and how to read it.
type Source struct {
	Name            string    `yaml:"name"`
	BaseURL         string    `yaml:"base_url"`
	Currency        string    `yaml:"currency"`
	JobType         string    `yaml:"job_type"`
	SeedURLs        []string  `yaml:"seed_urls"`
	Selectors       Selectors `yaml:"selectors"`
	RequireCompany  bool      `yaml:"require_company"`
	DefaultCompany  string    `yaml:"default_company"`
	DefaultLocation string    `yaml:"default_location"`
}

// Vocabulary holds the keyword lists used by the classifier and scorer.
// It is loaded once at startup and treated as read-only afterwards.
type Vocabulary struct {
	Technologies     []string `yaml:"technologies"`
	Emirates         []string `yaml:"emirates"`
	DomainKeywords   []string `yaml:"domain_keywords"`
	BonusKeywords    []string `yaml:"bonus_keywords"`
	FallbackKeywords []string `yaml:"fallback_keywords"`
}

// StaleAfter is how long a posting stays active without a newer PostedDate.
const StaleAfter = 30 * 24 * time.Hour

// DefaultEmirate is returned when a location names no known emirate.
const DefaultEmirate = "UAE"
