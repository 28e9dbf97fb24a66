// Package model defines shared data structures for the discovery service.
package model

import "time"

// JobPosting is a normalised listing scraped from an external job board.
// (Source, ExternalID) identifies a posting; re-scrapes update it in place.
type JobPosting struct {
	ID              int64     `json:"id"`
	Source          string    `json:"source"`
	ExternalID      string    `json:"externalId"`
	ExternalURL     string    `json:"externalUrl"`
	Title           string    `json:"title"`
	Company         string    `json:"company"`
	Description     string    `json:"description"`
	Requirements    string    `json:"requirements"`
	Location        string    `json:"location"`
	Emirate         string    `json:"emirate"`
	SalaryMin       *float64  `json:"salaryMin,omitempty"`
	SalaryMax       *float64  `json:"salaryMax,omitempty"`
	Currency        string    `json:"currency"`
	ExperienceLevel string    `json:"experienceLevel"`
	JobType         string    `json:"jobType"`
	Technologies    []string  `json:"technologies"`
	Benefits        []string  `json:"benefits"`
	IsActive        bool      `json:"isActive"`
	PostedDate      time.Time `json:"postedDate"`
	LastSeenAt      time.Time `json:"lastSeenAt"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Key returns the (source, external id) identity of the posting.
func (j *JobPosting) Key() JobKey {
	return JobKey{Source: j.Source, ExternalID: j.ExternalID}
}

// JobKey is the unique identity of a posting across scrapes.
type JobKey struct {
	Source     string
	ExternalID string
}

// UserSkillProfile is the read-only scorer input owned by a single user.
type UserSkillProfile struct {
	UserID string   `json:"userId"`
	Skills []string `json:"skills"`
}

// ScoredJob pairs a posting with its match score. Never persisted.
type ScoredJob struct {
	Job   JobPosting `json:"job"`
	Score int        `json:"score"`
}

// Sort keys accepted by SearchCriteria.SortBy.
const (
	SortByPostedDate = "posted"
	SortByTitle      = "title"
	SortByCompany    = "company"
	SortBySalary     = "salary"
)

// SearchCriteria filters, orders and pages active postings.
// Empty fields do not filter.
type SearchCriteria struct {
	Keywords        string   // title, company, description or requirements
	Location        string   // substring of location
	Emirate         string   // exact emirate, case-insensitive
	MinSalary       *float64 // either bound reaches MinSalary
	MaxSalary       *float64 // either bound under MaxSalary
	ExperienceLevel string
	JobType         string
	Technologies    []string // every entry must match technologies, description or requirements
	AnyTitleOrTech  []string // at least one entry in title or technologies
	Page            int      // 1-based
	PageSize        int
	SortBy          string
	SortOrder       string // "asc" or "desc"
}

// Normalize fills paging and ordering defaults.
func (c SearchCriteria) Normalize() SearchCriteria {
	if c.Page < 1 {
		c.Page = 1
	}
	if c.PageSize < 1 {
		c.PageSize = 20
	}
	switch c.SortBy {
	case SortByTitle, SortByCompany, SortBySalary, SortByPostedDate:
	default:
		c.SortBy = SortByPostedDate
	}
	if c.SortOrder != "asc" {
		c.SortOrder = "desc"
	}
	return c
}

// Offset returns the number of records skipped before the current page.
func (c SearchCriteria) Offset() int {
	return (c.Page - 1) * c.PageSize
}

// SearchPage is one page of QueryActive results.
type SearchPage struct {
	Jobs       []JobPosting `json:"jobs"`
	TotalCount int          `json:"totalCount"`
}
