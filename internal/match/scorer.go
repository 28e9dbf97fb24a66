// Package match ranks active postings against a user's skill profile.
package match

import (
	"strings"
	"time"

	"jobboard/discovery-service/internal/model"
)

const (
	skillPoints = 10
	bonusPoints = 5
	day         = 24 * time.Hour
)

// Scorer computes match scores. It holds no per-request state.
type Scorer struct {
	bonus []string
	now   func() time.Time
}

// NewScorer returns a Scorer awarding bonus points for each of bonusKeywords.
func NewScorer(bonusKeywords []string, now func() time.Time) *Scorer {
	if now == nil {
		now = time.Now
	}
	bonus := make([]string, 0, len(bonusKeywords))
	for _, k := range bonusKeywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			bonus = append(bonus, k)
		}
	}
	return &Scorer{bonus: bonus, now: now}
}

// Score returns a non-negative match score:
//
//	+10 per profile skill found in technologies, description, requirements or title
//	+5  per bonus keyword found in title, technologies or description
//	+5 / +3 / +1 when posted within 7 / 14 / 30 whole days
//
// Blank skills are ignored.
func (s *Scorer) Score(job *model.JobPosting, profile model.UserSkillProfile) int {
	title := strings.ToLower(job.Title)
	description := strings.ToLower(job.Description)
	requirements := strings.ToLower(job.Requirements)
	techs := make([]string, len(job.Technologies))
	for i, t := range job.Technologies {
		techs[i] = strings.ToLower(t)
	}

	score := 0
	for _, skill := range profile.Skills {
		k := strings.ToLower(strings.TrimSpace(skill))
		if k == "" {
			continue
		}
		if anyContains(techs, k) || strings.Contains(description, k) ||
			strings.Contains(requirements, k) || strings.Contains(title, k) {
			score += skillPoints
		}
	}

	for _, k := range s.bonus {
		if strings.Contains(title, k) || anyContains(techs, k) || strings.Contains(description, k) {
			score += bonusPoints
		}
	}

	return score + s.recency(job.PostedDate)
}

func (s *Scorer) recency(posted time.Time) int {
	days := int(s.now().Sub(posted) / day)
	switch {
	case days <= 7:
		return 5
	case days <= 14:
		return 3
	case days <= 30:
		return 1
	}
	return 0
}

func anyContains(lowerList []string, k string) bool {
	for _, s := range lowerList {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
