package match

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"jobboard/discovery-service/internal/model"
	"jobboard/discovery-service/internal/storage"
)

const (
	// MaxRecommendations caps a scored recommendation list.
	MaxRecommendations = 20
	// FallbackLimit caps the list returned for a profile without skills.
	FallbackLimit = 10
)

// Store is the read side the recommender needs.
type Store interface {
	ListActive(ctx context.Context) ([]model.JobPosting, error)
	QueryActive(ctx context.Context, criteria model.SearchCriteria) (model.SearchPage, error)
	FindProfileByUserID(ctx context.Context, userID string) (*model.UserSkillProfile, error)
}

// Recommender selects postings for a user.
type Recommender struct {
	store    Store
	scorer   *Scorer
	fallback []string
	logger   *zap.Logger
}

// NewRecommender returns a Recommender. fallbackKeywords select the postings
// shown to users who have not listed any skills.
func NewRecommender(store Store, scorer *Scorer, fallbackKeywords []string, logger *zap.Logger) *Recommender {
	return &Recommender{store: store, scorer: scorer, fallback: fallbackKeywords, logger: logger}
}

// Recommend scores every active posting against profile and returns the best
// MaxRecommendations with a positive score, highest score first and newest
// first among equal scores. A profile without skills gets the FallbackLimit
// newest postings whose title or technologies name a fallback keyword,
// unscored.
func (r *Recommender) Recommend(ctx context.Context, profile model.UserSkillProfile) ([]model.ScoredJob, error) {
	if !hasSkills(profile) {
		return r.recent(ctx)
	}

	jobs, err := r.store.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active jobs: %w", err)
	}

	scored := make([]model.ScoredJob, 0, len(jobs))
	for i := range jobs {
		if s := r.scorer.Score(&jobs[i], profile); s > 0 {
			scored = append(scored, model.ScoredJob{Job: jobs[i], Score: s})
		}
	}
	sort.SliceStable(scored, func(i, k int) bool {
		if scored[i].Score != scored[k].Score {
			return scored[i].Score > scored[k].Score
		}
		return scored[i].Job.PostedDate.After(scored[k].Job.PostedDate)
	})
	if len(scored) > MaxRecommendations {
		scored = scored[:MaxRecommendations]
	}

	r.logger.Debug("recommendations scored",
		zap.String("user_id", profile.UserID),
		zap.Int("candidates", len(jobs)),
		zap.Int("returned", len(scored)),
	)
	return scored, nil
}

// RecommendForUser resolves userID's profile and recommends against it. A
// user without a stored profile is treated as having no skills.
func (r *Recommender) RecommendForUser(ctx context.Context, userID string) ([]model.ScoredJob, error) {
	profile, err := r.store.FindProfileByUserID(ctx, userID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return r.Recommend(ctx, model.UserSkillProfile{UserID: userID})
	case err != nil:
		return nil, fmt.Errorf("find profile %s: %w", userID, err)
	}
	return r.Recommend(ctx, *profile)
}

func (r *Recommender) recent(ctx context.Context) ([]model.ScoredJob, error) {
	page, err := r.store.QueryActive(ctx, model.SearchCriteria{
		AnyTitleOrTech: r.fallback,
		SortBy:         model.SortByPostedDate,
		SortOrder:      "desc",
		PageSize:       FallbackLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("query fallback jobs: %w", err)
	}
	out := make([]model.ScoredJob, 0, len(page.Jobs))
	for _, j := range page.Jobs {
		out = append(out, model.ScoredJob{Job: j})
	}
	return out, nil
}

func hasSkills(p model.UserSkillProfile) bool {
	for _, s := range p.Skills {
		if strings.TrimSpace(s) != "" {
			return true
		}
	}
	return false
}
