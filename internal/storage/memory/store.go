// Package memory is an in-process Store. Tests use it in place of Postgres.
package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"jobboard/discovery-service/internal/model"
	"jobboard/discovery-service/internal/storage"
)

// Store keeps postings keyed by (source, external id). Every read returns a
// copy, so callers can never mutate stored state.
type Store struct {
	mu       sync.RWMutex
	nextID   int64
	jobs     map[model.JobKey]*model.JobPosting
	profiles map[string]model.UserSkillProfile
	now      func() time.Time
}

var _ storage.Store = (*Store)(nil)

// New returns an empty Store.
func New() *Store {
	return &Store{
		jobs:     make(map[model.JobKey]*model.JobPosting),
		profiles: make(map[string]model.UserSkillProfile),
		now:      time.Now,
	}
}

// PutProfile stores or replaces a user's skill profile.
func (s *Store) PutProfile(p model.UserSkillProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.Skills = slices.Clone(p.Skills)
	s.profiles[p.UserID] = p
}

func (s *Store) FindByKey(_ context.Context, source, externalID string) (*model.JobPosting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[model.JobKey{Source: source, ExternalID: externalID}]
	if !ok {
		return nil, storage.ErrNotFound
	}
	c := clone(j)
	return &c, nil
}

func (s *Store) Insert(_ context.Context, job *model.JobPosting) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.jobs[job.Key()]; ok {
		// Same key already stored: collapse into an update.
		job.ID = existing.ID
		job.CreatedAt = existing.CreatedAt
		job.PostedDate = existing.PostedDate
		c := clone(job)
		s.jobs[job.Key()] = &c
		return nil
	}

	s.nextID++
	job.ID = s.nextID
	if job.CreatedAt.IsZero() {
		job.CreatedAt = s.now()
	}
	if job.UpdatedAt.IsZero() {
		job.UpdatedAt = job.CreatedAt
	}
	c := clone(job)
	s.jobs[job.Key()] = &c
	return nil
}

func (s *Store) Update(_ context.Context, job *model.JobPosting) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.jobs[job.Key()]
	if !ok {
		return storage.ErrNotFound
	}
	job.ID = existing.ID
	job.CreatedAt = existing.CreatedAt
	c := clone(job)
	s.jobs[job.Key()] = &c
	return nil
}

func (s *Store) QueryActive(_ context.Context, criteria model.SearchCriteria) (model.SearchPage, error) {
	c := criteria.Normalize()

	s.mu.RLock()
	matched := make([]model.JobPosting, 0)
	for _, j := range s.jobs {
		if j.IsActive && matches(j, c) {
			matched = append(matched, clone(j))
		}
	}
	s.mu.RUnlock()

	sortJobs(matched, c.SortBy, c.SortOrder == "asc")

	page := model.SearchPage{Jobs: []model.JobPosting{}, TotalCount: len(matched)}
	if off := c.Offset(); off < len(matched) {
		end := min(off+c.PageSize, len(matched))
		page.Jobs = matched[off:end]
	}
	return page, nil
}

func (s *Store) ListActive(_ context.Context) ([]model.JobPosting, error) {
	s.mu.RLock()
	out := make([]model.JobPosting, 0, len(s.jobs))
	for _, j := range s.jobs {
		if j.IsActive {
			out = append(out, clone(j))
		}
	}
	s.mu.RUnlock()

	sortJobs(out, model.SortByPostedDate, false)
	return out, nil
}

func (s *Store) DeactivateOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, j := range s.jobs {
		if j.IsActive && j.PostedDate.Before(cutoff) && j.LastSeenAt.Before(cutoff) {
			j.IsActive = false
			j.UpdatedAt = s.now()
			n++
		}
	}
	return n, nil
}

func (s *Store) FindProfileByUserID(_ context.Context, userID string) (*model.UserSkillProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	p.Skills = slices.Clone(p.Skills)
	return &p, nil
}

func clone(j *model.JobPosting) model.JobPosting {
	c := *j
	c.Technologies = slices.Clone(j.Technologies)
	c.Benefits = slices.Clone(j.Benefits)
	if j.SalaryMin != nil {
		v := *j.SalaryMin
		c.SalaryMin = &v
	}
	if j.SalaryMax != nil {
		v := *j.SalaryMax
		c.SalaryMax = &v
	}
	return c
}

func matches(j *model.JobPosting, c model.SearchCriteria) bool {
	if k := strings.ToLower(c.Keywords); k != "" {
		if !containsFold(j.Title, k) && !containsFold(j.Company, k) &&
			!containsFold(j.Description, k) && !containsFold(j.Requirements, k) {
			return false
		}
	}
	if c.Location != "" && !containsFold(j.Location, strings.ToLower(c.Location)) {
		return false
	}
	if c.Emirate != "" && !strings.EqualFold(j.Emirate, c.Emirate) {
		return false
	}
	if c.MinSalary != nil && !atLeast(j.SalaryMin, *c.MinSalary) && !atLeast(j.SalaryMax, *c.MinSalary) {
		return false
	}
	if c.MaxSalary != nil && !atMost(j.SalaryMax, *c.MaxSalary) && !atMost(j.SalaryMin, *c.MaxSalary) {
		return false
	}
	if c.ExperienceLevel != "" && !strings.EqualFold(j.ExperienceLevel, c.ExperienceLevel) {
		return false
	}
	if c.JobType != "" && !strings.EqualFold(j.JobType, c.JobType) {
		return false
	}
	for _, tech := range c.Technologies {
		t := strings.ToLower(tech)
		if !anyContainsFold(j.Technologies, t) && !containsFold(j.Description, t) && !containsFold(j.Requirements, t) {
			return false
		}
	}
	if len(c.AnyTitleOrTech) > 0 {
		found := false
		for _, kw := range c.AnyTitleOrTech {
			k := strings.ToLower(kw)
			if containsFold(j.Title, k) || anyContainsFold(j.Technologies, k) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func containsFold(s, lowerSub string) bool {
	return strings.Contains(strings.ToLower(s), lowerSub)
}

func anyContainsFold(list []string, lowerSub string) bool {
	for _, s := range list {
		if containsFold(s, lowerSub) {
			return true
		}
	}
	return false
}

func atLeast(v *float64, bound float64) bool { return v != nil && *v >= bound }
func atMost(v *float64, bound float64) bool  { return v != nil && *v <= bound }

// sortJobs orders by the requested key, breaking ties by ID so that paging
// is stable. The tie-break follows the same direction as the key.
func sortJobs(jobs []model.JobPosting, by string, asc bool) {
	slices.SortStableFunc(jobs, func(a, b model.JobPosting) int {
		c := compareBy(a, b, by)
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if !asc {
			c = -c
		}
		return c
	})
}

func compareBy(a, b model.JobPosting, by string) int {
	switch by {
	case model.SortByTitle:
		return strings.Compare(a.Title, b.Title)
	case model.SortByCompany:
		return strings.Compare(a.Company, b.Company)
	case model.SortBySalary:
		return cmp.Compare(salaryOrZero(a.SalaryMax), salaryOrZero(b.SalaryMax))
	default:
		return a.PostedDate.Compare(b.PostedDate)
	}
}

func salaryOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
