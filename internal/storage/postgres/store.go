// Package postgres implements storage.Store on PostgreSQL through pgx.
package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"jobboard/discovery-service/internal/model"
	"jobboard/discovery-service/internal/storage"
)

//go:embed schema.sql
var schemaSQL string

// ─── Store ───────────────────────────────────────────────────────────────────

// Store persists postings in the job_postings table. The UNIQUE
// (source, external_id) constraint backs the dedup invariant; a racing
// insert for the same key collapses into an update.
type Store struct {
	pool *pgxpool.Pool
}

var _ storage.Store = (*Store)(nil)

// New returns a Store backed by pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// EnsureSchema creates the tables and indexes if they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensureSchema: %w", err)
	}
	return nil
}

const jobColumns = `id, source, external_id, external_url, title, company,
	description, requirements, location, emirate, salary_min, salary_max,
	currency, experience_level, job_type, technologies, benefits, is_active,
	posted_date, last_seen_at, created_at, updated_at`

func scanJob(row pgx.Row) (model.JobPosting, error) {
	var j model.JobPosting
	err := row.Scan(
		&j.ID, &j.Source, &j.ExternalID, &j.ExternalURL, &j.Title, &j.Company,
		&j.Description, &j.Requirements, &j.Location, &j.Emirate, &j.SalaryMin, &j.SalaryMax,
		&j.Currency, &j.ExperienceLevel, &j.JobType, &j.Technologies, &j.Benefits, &j.IsActive,
		&j.PostedDate, &j.LastSeenAt, &j.CreatedAt, &j.UpdatedAt,
	)
	return j, err
}

// ─── Writes ──────────────────────────────────────────────────────────────────

func (s *Store) FindByKey(ctx context.Context, source, externalID string) (*model.JobPosting, error) {
	j, err := scanJob(s.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM job_postings WHERE source = $1 AND external_id = $2`,
		source, externalID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("findByKey: %w", err)
	}
	return &j, nil
}

func (s *Store) Insert(ctx context.Context, job *model.JobPosting) error {
	now := time.Now().UTC()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	if job.UpdatedAt.IsZero() {
		job.UpdatedAt = job.CreatedAt
	}

	err := s.pool.QueryRow(ctx,
		`INSERT INTO job_postings (
		   source, external_id, external_url, title, company, description,
		   requirements, location, emirate, salary_min, salary_max, currency,
		   experience_level, job_type, technologies, benefits, is_active,
		   posted_date, created_at, updated_at, last_seen_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		 ON CONFLICT (source, external_id) DO UPDATE SET
		   external_url     = EXCLUDED.external_url,
		   title            = EXCLUDED.title,
		   company          = EXCLUDED.company,
		   description      = EXCLUDED.description,
		   requirements     = EXCLUDED.requirements,
		   location         = EXCLUDED.location,
		   emirate          = EXCLUDED.emirate,
		   salary_min       = EXCLUDED.salary_min,
		   salary_max       = EXCLUDED.salary_max,
		   currency         = EXCLUDED.currency,
		   experience_level = EXCLUDED.experience_level,
		   job_type         = EXCLUDED.job_type,
		   technologies     = EXCLUDED.technologies,
		   benefits         = EXCLUDED.benefits,
		   is_active        = TRUE,
		   updated_at       = EXCLUDED.updated_at,
		   last_seen_at     = EXCLUDED.last_seen_at
		 RETURNING id, posted_date, created_at`,
		job.Source, job.ExternalID, job.ExternalURL, job.Title, job.Company, job.Description,
		job.Requirements, job.Location, job.Emirate, job.SalaryMin, job.SalaryMax, job.Currency,
		job.ExperienceLevel, job.JobType, nonNil(job.Technologies), nonNil(job.Benefits), job.IsActive,
		job.PostedDate, job.CreatedAt, job.UpdatedAt, job.LastSeenAt,
	).Scan(&job.ID, &job.PostedDate, &job.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert job %s/%s: %w", job.Source, job.ExternalID, err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, job *model.JobPosting) error {
	err := s.pool.QueryRow(ctx,
		`UPDATE job_postings SET
		   external_url = $3, title = $4, company = $5, description = $6,
		   requirements = $7, location = $8, emirate = $9, salary_min = $10,
		   salary_max = $11, currency = $12, experience_level = $13, job_type = $14,
		   technologies = $15, benefits = $16, is_active = $17, updated_at = $18,
		   last_seen_at = $19
		 WHERE source = $1 AND external_id = $2
		 RETURNING id, created_at`,
		job.Source, job.ExternalID, job.ExternalURL, job.Title, job.Company, job.Description,
		job.Requirements, job.Location, job.Emirate, job.SalaryMin, job.SalaryMax, job.Currency,
		job.ExperienceLevel, job.JobType, nonNil(job.Technologies), nonNil(job.Benefits), job.IsActive,
		job.UpdatedAt, job.LastSeenAt,
	).Scan(&job.ID, &job.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update job %s/%s: %w", job.Source, job.ExternalID, err)
	}
	return nil
}

func (s *Store) DeactivateOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE job_postings SET is_active = FALSE, updated_at = NOW()
		 WHERE is_active AND posted_date < $1 AND last_seen_at < $1`,
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("deactivateOlderThan: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ─── Reads ───────────────────────────────────────────────────────────────────

func (s *Store) QueryActive(ctx context.Context, criteria model.SearchCriteria) (model.SearchPage, error) {
	c := criteria.Normalize()
	where, args := buildWhere(c)

	page := model.SearchPage{Jobs: []model.JobPosting{}}
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM job_postings WHERE `+where, args...).
		Scan(&page.TotalCount); err != nil {
		return page, fmt.Errorf("queryActive count: %w", err)
	}
	if page.TotalCount == 0 {
		return page, nil
	}

	args = append(args, c.PageSize, c.Offset())
	q := fmt.Sprintf(`SELECT %s FROM job_postings WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		jobColumns, where, orderBy(c), len(args)-1, len(args))

	jobs, err := s.queryJobs(ctx, q, args...)
	if err != nil {
		return page, fmt.Errorf("queryActive: %w", err)
	}
	page.Jobs = jobs
	return page, nil
}

func (s *Store) ListActive(ctx context.Context) ([]model.JobPosting, error) {
	jobs, err := s.queryJobs(ctx,
		`SELECT `+jobColumns+` FROM job_postings WHERE is_active ORDER BY posted_date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listActive: %w", err)
	}
	return jobs, nil
}

func (s *Store) FindProfileByUserID(ctx context.Context, userID string) (*model.UserSkillProfile, error) {
	var p model.UserSkillProfile
	err := s.pool.QueryRow(ctx,
		`SELECT user_id, skills FROM user_profiles WHERE user_id = $1`, userID,
	).Scan(&p.UserID, &p.Skills)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("findProfileByUserID: %w", err)
	}
	return &p, nil
}

func (s *Store) queryJobs(ctx context.Context, sql string, args ...any) ([]model.JobPosting, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := make([]model.JobPosting, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// ─── Query building ──────────────────────────────────────────────────────────

// buildWhere turns criteria into a WHERE clause over active postings and its
// positional arguments. Text matches are case-insensitive substring tests.
func buildWhere(c model.SearchCriteria) (string, []any) {
	conds := []string{"is_active"}
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if c.Keywords != "" {
		p := arg(likePattern(c.Keywords))
		conds = append(conds, fmt.Sprintf(
			"(title ILIKE %[1]s OR company ILIKE %[1]s OR description ILIKE %[1]s OR requirements ILIKE %[1]s)", p))
	}
	if c.Location != "" {
		conds = append(conds, "location ILIKE "+arg(likePattern(c.Location)))
	}
	if c.Emirate != "" {
		conds = append(conds, "LOWER(emirate) = LOWER("+arg(c.Emirate)+")")
	}
	if c.MinSalary != nil {
		p := arg(*c.MinSalary)
		conds = append(conds, fmt.Sprintf("(salary_min >= %[1]s OR salary_max >= %[1]s)", p))
	}
	if c.MaxSalary != nil {
		p := arg(*c.MaxSalary)
		conds = append(conds, fmt.Sprintf("(salary_max <= %[1]s OR salary_min <= %[1]s)", p))
	}
	if c.ExperienceLevel != "" {
		conds = append(conds, "LOWER(experience_level) = LOWER("+arg(c.ExperienceLevel)+")")
	}
	if c.JobType != "" {
		conds = append(conds, "LOWER(job_type) = LOWER("+arg(c.JobType)+")")
	}
	for _, tech := range c.Technologies {
		p := arg(likePattern(tech))
		conds = append(conds, fmt.Sprintf(
			"(EXISTS (SELECT 1 FROM unnest(technologies) t WHERE t ILIKE %[1]s) OR description ILIKE %[1]s OR requirements ILIKE %[1]s)", p))
	}
	if len(c.AnyTitleOrTech) > 0 {
		ors := make([]string, 0, len(c.AnyTitleOrTech))
		for _, kw := range c.AnyTitleOrTech {
			p := arg(likePattern(kw))
			ors = append(ors, fmt.Sprintf(
				"title ILIKE %[1]s OR EXISTS (SELECT 1 FROM unnest(technologies) t WHERE t ILIKE %[1]s)", p))
		}
		conds = append(conds, "("+strings.Join(ors, " OR ")+")")
	}
	return strings.Join(conds, " AND "), args
}

// orderBy maps the whitelisted sort key to SQL; ties break on id in the
// same direction.
func orderBy(c model.SearchCriteria) string {
	dir := "DESC"
	if c.SortOrder == "asc" {
		dir = "ASC"
	}
	var col string
	switch c.SortBy {
	case model.SortByTitle:
		col = "title"
	case model.SortByCompany:
		col = "company"
	case model.SortBySalary:
		col = "COALESCE(salary_max, 0)"
	default:
		col = "posted_date"
	}
	return fmt.Sprintf("%s %s, id %s", col, dir, dir)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
