package classify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"jobboard/discovery-service/internal/classify"
	"jobboard/discovery-service/internal/config"
	"jobboard/discovery-service/internal/model"
)

func newClassifier() *classify.Classifier {
	return classify.New(config.DefaultVocabulary())
}

func TestTechnologies(t *testing.T) {
	c := newClassifier()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"canonical casing", "i know REACT and c#", []string{"C#", "React"}},
		{"vocabulary order", "Senior ASP.NET MVC Developer", []string{".NET", "ASP.NET", "MVC"}},
		{"dotted names", "Node.js and Vue.js with Git", []string{"Vue.js", "Node.js", "Git"}},
		{"repeated mention counted once", "docker docker DOCKER", []string{"Docker"}},
		{"nothing known", "Forklift operator", []string{}},
		{"empty", "", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Technologies(tt.text))
		})
	}
}

func TestTechnologies_SubsetOfVocabulary(t *testing.T) {
	c := newClassifier()
	vocab := map[string]bool{}
	for _, v := range config.DefaultVocabulary().Technologies {
		vocab[v] = true
	}

	text := "Full stack: C#, .NET 8, TypeScript, React, Angular, PostgreSQL, SQL Server, Azure DevOps, Kubernetes, AWS, Python, Rust"
	for _, got := range c.Technologies(text) {
		assert.True(t, vocab[got], "%q is not a vocabulary entry", got)
	}
}

func TestEmirate(t *testing.T) {
	c := newClassifier()

	assert.Equal(t, "Dubai", c.Emirate("Business Bay, Dubai"))
	assert.Equal(t, "Abu Dhabi", c.Emirate("ABU DHABI - Al Reem Island"))
	assert.Equal(t, "Ras Al Khaimah", c.Emirate("ras al khaimah"))
	assert.Equal(t, "UAE", c.Emirate("Riyadh"))
	assert.Equal(t, "UAE", c.Emirate(""))
}

func TestEmirate_FirstInVocabularyOrder(t *testing.T) {
	c := newClassifier()
	// Both are named; Dubai comes first in the vocabulary.
	assert.Equal(t, "Dubai", c.Emirate("Sharjah or Dubai"))
}

func TestIsDomainRelevant(t *testing.T) {
	c := newClassifier()

	assert.True(t, c.IsDomainRelevant(&model.JobPosting{Title: "Backend Developer (C#)"}))
	assert.True(t, c.IsDomainRelevant(&model.JobPosting{Title: "Developer", Description: "We use ASP.NET Core"}))
	assert.True(t, c.IsDomainRelevant(&model.JobPosting{Title: "Engineer", Technologies: []string{"Azure"}}))
	assert.False(t, c.IsDomainRelevant(&model.JobPosting{Title: "Java Engineer", Description: "Spring Boot"}))
	assert.False(t, c.IsDomainRelevant(nil))
}

func TestExperienceLevel(t *testing.T) {
	assert.Equal(t, "Senior", classify.ExperienceLevel("Senior .NET Developer"))
	assert.Equal(t, "Senior", classify.ExperienceLevel("Tech Lead - C#"))
	assert.Equal(t, "Junior", classify.ExperienceLevel("Junior Software Engineer"))
	assert.Equal(t, "Junior", classify.ExperienceLevel("Graduate Developer Programme"))
	assert.Equal(t, "", classify.ExperienceLevel("Software Engineer"))
}

func TestContainsAny_IgnoresEmptyKeywords(t *testing.T) {
	assert.False(t, classify.ContainsAny("anything", []string{""}))
	assert.True(t, classify.ContainsAny("c# developer", []string{"", "c#"}))
}
