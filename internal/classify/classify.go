// Package classify tags free text with technologies, emirates and
// seniority using fixed keyword vocabularies.
//
// Every match is a case-insensitive substring test; results always use the
// vocabulary's canonical casing.
package classify

import (
	"strings"

	"jobboard/discovery-service/internal/model"
)

// Classifier is safe for concurrent use; it never mutates its vocabulary.
type Classifier struct {
	technologies []term
	emirates     []term
	domain       []string
}

type term struct {
	canonical string
	lower     string
}

// New builds a Classifier from a vocabulary.
func New(v model.Vocabulary) *Classifier {
	return &Classifier{
		technologies: terms(v.Technologies),
		emirates:     terms(v.Emirates),
		domain:       lowerAll(v.DomainKeywords),
	}
}

// Technologies returns the vocabulary entries found in text, in vocabulary
// order and without duplicates.
func (c *Classifier) Technologies(text string) []string {
	found := make([]string, 0)
	if text == "" {
		return found
	}
	lower := strings.ToLower(text)
	seen := make(map[string]bool, len(c.technologies))
	for _, t := range c.technologies {
		if seen[t.lower] || !strings.Contains(lower, t.lower) {
			continue
		}
		seen[t.lower] = true
		found = append(found, t.canonical)
	}
	return found
}

// Emirate returns the first emirate named in location, or model.DefaultEmirate.
func (c *Classifier) Emirate(location string) string {
	lower := strings.ToLower(location)
	for _, e := range c.emirates {
		if lower != "" && strings.Contains(lower, e.lower) {
			return e.canonical
		}
	}
	return model.DefaultEmirate
}

// IsDomainRelevant reports whether any domain keyword appears in the job's
// title, description or technologies.
func (c *Classifier) IsDomainRelevant(job *model.JobPosting) bool {
	if job == nil {
		return false
	}
	content := strings.ToLower(job.Title + " " + job.Description + " " + strings.Join(job.Technologies, " "))
	return ContainsAny(content, c.domain)
}

var (
	seniorWords = []string{"senior", "sr.", "lead", "principal", "architect", "head of"}
	juniorWords = []string{"junior", "jr.", "graduate", "intern", "trainee", "entry level", "entry-level"}
)

// ExperienceLevel guesses "Senior" or "Junior" from a job title. Titles
// without a seniority word yield "".
func ExperienceLevel(title string) string {
	lower := strings.ToLower(title)
	switch {
	case ContainsAny(lower, seniorWords):
		return "Senior"
	case ContainsAny(lower, juniorWords):
		return "Junior"
	}
	return ""
}

// ContainsAny reports whether lowerText contains any of the lowercase
// keywords. Empty keywords never match.
func ContainsAny(lowerText string, keywords []string) bool {
	for _, k := range keywords {
		if k != "" && strings.Contains(lowerText, k) {
			return true
		}
	}
	return false
}

func terms(words []string) []term {
	out := make([]term, 0, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		out = append(out, term{canonical: w, lower: strings.ToLower(w)})
	}
	return out
}

func lowerAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		out = append(out, strings.ToLower(w))
	}
	return out
}
