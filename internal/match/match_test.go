package match_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"jobboard/discovery-service/internal/config"
	"jobboard/discovery-service/internal/match"
	"jobboard/discovery-service/internal/model"
	"jobboard/discovery-service/internal/storage/memory"
)

var now = time.Date(2026, 7, 15, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return now }

func newScorer() *match.Scorer {
	return match.NewScorer(config.DefaultVocabulary().BonusKeywords, clock)
}

func daysAgo(d int) time.Time { return now.Add(-time.Duration(d) * 24 * time.Hour) }

func TestScore_PinnedJob(t *testing.T) {
	job := &model.JobPosting{
		Title:        "Backend Engineer",
		Description:  "Build services",
		Technologies: []string{"C#", ".NET"},
		PostedDate:   now,
	}
	profile := model.UserSkillProfile{Skills: []string{"C#"}}

	// 10 for the skill, 5 each for the ".net" and "c#" bonus keywords, 5 for recency.
	assert.Equal(t, 25, newScorer().Score(job, profile))
}

func TestScore_SkillCountedOncePerSkill(t *testing.T) {
	job := &model.JobPosting{
		Title:        "Azure Engineer",
		Description:  "Azure everywhere",
		Requirements: "Azure certification",
		Technologies: []string{"Azure"},
		PostedDate:   daysAgo(60),
	}
	profile := model.UserSkillProfile{Skills: []string{"azure", "AZURE", "  ", ""}}

	assert.Equal(t, 20, newScorer().Score(job, profile))
}

func TestScore_SkillInRequirementsOnly(t *testing.T) {
	job := &model.JobPosting{Title: "Engineer", Requirements: "Kubernetes and Docker", PostedDate: daysAgo(60)}
	profile := model.UserSkillProfile{Skills: []string{"docker", "terraform"}}

	assert.Equal(t, 10, newScorer().Score(job, profile))
}

func TestScore_RecencyBands(t *testing.T) {
	tests := []struct {
		age  time.Duration
		want int
	}{
		{0, 5},
		{7*24*time.Hour + 23*time.Hour, 5}, // 7 whole days
		{8 * 24 * time.Hour, 3},
		{14 * 24 * time.Hour, 3},
		{15 * 24 * time.Hour, 1},
		{30 * 24 * time.Hour, 1},
		{31 * 24 * time.Hour, 0},
		{-48 * time.Hour, 5}, // dated in the future
	}
	for _, tt := range tests {
		t.Run(tt.age.String(), func(t *testing.T) {
			job := &model.JobPosting{Title: "Forklift operator", PostedDate: now.Add(-tt.age)}
			assert.Equal(t, tt.want, newScorer().Score(job, model.UserSkillProfile{}))
		})
	}
}

func TestScore_BonusKeywordsIgnoreRequirements(t *testing.T) {
	job := &model.JobPosting{Title: "Engineer", Requirements: "Blazor, MVC", PostedDate: daysAgo(90)}
	assert.Zero(t, newScorer().Score(job, model.UserSkillProfile{}))
}

func newRecommender(store *memory.Store) *match.Recommender {
	return match.NewRecommender(store, newScorer(), config.DefaultVocabulary().FallbackKeywords, zap.NewNop())
}

func insert(t *testing.T, s *memory.Store, jobs ...model.JobPosting) {
	t.Helper()
	for i := range jobs {
		jobs[i].Source = "Bayt"
		if jobs[i].ExternalID == "" {
			jobs[i].ExternalID = jobs[i].Title
		}
		require.NoError(t, s.Insert(context.Background(), &jobs[i]))
	}
}

func ids(jobs []model.ScoredJob) []string {
	out := make([]string, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, j.Job.ExternalID)
	}
	return out
}

func TestRecommend_OrdersByScoreThenRecency(t *testing.T) {
	s := memory.New()
	insert(t, s,
		model.JobPosting{ExternalID: "react-old", Title: "React Developer", IsActive: true, PostedDate: daysAgo(20)},
		model.JobPosting{ExternalID: "react-new", Title: "React Developer", IsActive: true, PostedDate: daysAgo(16)},
		model.JobPosting{ExternalID: "csharp", Title: "C# Developer", IsActive: true, PostedDate: daysAgo(2)},
		model.JobPosting{ExternalID: "stale", Title: "Forklift operator", IsActive: true, PostedDate: daysAgo(45)},
		model.JobPosting{ExternalID: "inactive", Title: "React Lead", IsActive: false, PostedDate: daysAgo(1)},
	)

	got, err := newRecommender(s).Recommend(context.Background(),
		model.UserSkillProfile{UserID: "u1", Skills: []string{"react"}})
	require.NoError(t, err)

	// react-*: 10 + 1; csharp: 5 (c# bonus) + 5 (recency); stale: 0, dropped.
	assert.Equal(t, []string{"react-new", "react-old", "csharp"}, ids(got))
	assert.Equal(t, []int{11, 11, 10}, []int{got[0].Score, got[1].Score, got[2].Score})
}

func TestRecommend_CapsAtTwenty(t *testing.T) {
	s := memory.New()
	for i := 0; i < 25; i++ {
		insert(t, s, model.JobPosting{ExternalID: fmt.Sprintf("j%02d", i), Title: "Go Developer", IsActive: true, PostedDate: daysAgo(i % 5)})
	}

	got, err := newRecommender(s).Recommend(context.Background(), model.UserSkillProfile{Skills: []string{"go"}})
	require.NoError(t, err)
	assert.Len(t, got, match.MaxRecommendations)
}

func TestRecommend_FallbackWithoutSkills(t *testing.T) {
	s := memory.New()
	for i := 0; i < 12; i++ {
		insert(t, s, model.JobPosting{ExternalID: fmt.Sprintf("net-%02d", i), Title: ".NET Developer", IsActive: true, PostedDate: daysAgo(i + 1)})
	}
	insert(t, s,
		model.JobPosting{ExternalID: "tech-only", Title: "Engineer", Technologies: []string{"C#"}, IsActive: true, PostedDate: now.Add(-time.Hour)},
		model.JobPosting{ExternalID: "java", Title: "Java Developer", IsActive: true, PostedDate: now},
	)

	got, err := newRecommender(s).Recommend(context.Background(), model.UserSkillProfile{UserID: "u1", Skills: []string{" "}})
	require.NoError(t, err)

	require.Len(t, got, match.FallbackLimit)
	assert.Equal(t, "tech-only", got[0].Job.ExternalID)
	assert.NotContains(t, ids(got), "java")
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].Job.PostedDate.After(got[i-1].Job.PostedDate), "not sorted newest first at %d", i)
		assert.Zero(t, got[i].Score)
	}
}

func TestRecommendForUser(t *testing.T) {
	s := memory.New()
	insert(t, s,
		model.JobPosting{ExternalID: "azure", Title: "Cloud Engineer", Technologies: []string{"Azure"}, IsActive: true, PostedDate: daysAgo(40)},
		model.JobPosting{ExternalID: "net", Title: ".NET Developer", IsActive: true, PostedDate: daysAgo(40)},
	)
	s.PutProfile(model.UserSkillProfile{UserID: "u1", Skills: []string{"Azure"}})
	r := newRecommender(s)

	got, err := r.RecommendForUser(context.Background(), "u1")
	require.NoError(t, err)
	// azure: 10; net: 5 from the ".net" bonus alone.
	assert.Equal(t, []string{"azure", "net"}, ids(got))

	got, err = r.RecommendForUser(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Equal(t, []string{"net"}, ids(got))
}
