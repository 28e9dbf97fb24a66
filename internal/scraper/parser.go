package scraper

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"jobboard/discovery-service/internal/classify"
	"jobboard/discovery-service/internal/model"
)

var (
	whitespaceRegex = regexp.MustCompile(`\s+`)
	salaryRegex     = regexp.MustCompile(`\d+(?:,\d+)*`)
)

// Parser turns one source's listing markup into JobPosting candidates.
// The same pipeline serves every source; only the Source value differs.
type Parser struct {
	source     model.Source
	classifier *classify.Classifier
	now        func() time.Time
	logger     *zap.Logger
}

// NewParser builds a Parser for source.
func NewParser(source model.Source, classifier *classify.Classifier, now func() time.Time, logger *zap.Logger) *Parser {
	if now == nil {
		now = time.Now
	}
	return &Parser{
		source:     source,
		classifier: classifier,
		now:        now,
		logger:     logger.With(zap.String("source", source.Name)),
	}
}

// ParseListing returns the listing cards found in a page's markup.
func (p *Parser) ParseListing(markup string) ([]*goquery.Selection, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("read html: %w", err)
	}
	var cards []*goquery.Selection
	doc.Find(p.source.Selectors.Card).Each(func(_ int, s *goquery.Selection) {
		cards = append(cards, s)
	})
	return cards, nil
}

// ParseCard extracts a candidate from one card. A card missing a required
// field yields (nil, nil): it is discarded, not an error. Any panic raised
// while reading the card is returned as a *ParseError.
func (p *Parser) ParseCard(card *goquery.Selection) (job *model.JobPosting, err error) {
	defer func() {
		if r := recover(); r != nil {
			job = nil
			err = &ParseError{Source: p.source.Name, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	sel := p.source.Selectors

	titleNode := card.Find(sel.Title).First()
	title := CleanText(titleNode.Text())
	if title == "" {
		return nil, nil
	}

	company := p.text(card, sel.Company)
	if company == "" {
		if p.source.RequireCompany {
			return nil, nil
		}
		company = p.source.DefaultCompany
	}

	location := p.text(card, sel.Location)
	if location == "" {
		location = p.source.DefaultLocation
	}

	linkNode := titleNode
	if sel.Link != "" {
		linkNode = card.Find(sel.Link).First()
	}
	href, _ := linkNode.Attr("href")
	href = strings.TrimSpace(href)

	description := p.text(card, sel.Description)

	job = &model.JobPosting{
		Source:          p.source.Name,
		ExternalID:      p.externalID(href),
		ExternalURL:     p.absoluteURL(href),
		Title:           title,
		Company:         company,
		Description:     description,
		Requirements:    p.text(card, sel.Requirements),
		Location:        location,
		Emirate:         p.classifier.Emirate(location),
		Currency:        p.source.Currency,
		ExperienceLevel: classify.ExperienceLevel(title),
		JobType:         p.source.JobType,
		Technologies:    p.classifier.Technologies(title + " " + description),
		Benefits:        p.list(card, sel.Benefits),
		IsActive:        true,
		PostedDate:      p.now().UTC(),
	}
	if sel.Salary != "" {
		job.SalaryMin, job.SalaryMax = ParseSalary(p.text(card, sel.Salary))
	}
	return job, nil
}

func (p *Parser) text(card *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	return CleanText(card.Find(selector).First().Text())
}

func (p *Parser) list(card *goquery.Selection, selector string) []string {
	items := make([]string, 0)
	if selector == "" {
		return items
	}
	card.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if t := CleanText(s.Text()); t != "" {
			items = append(items, t)
		}
	})
	return items
}

// externalID takes the trailing path segment of the detail URL. When the URL
// has none, a random id is generated; such a listing can never be matched on
// a later scrape, so it is logged.
func (p *Parser) externalID(href string) string {
	if id := ExtractExternalID(href); id != "" {
		return id
	}
	id := uuid.NewString()
	p.logger.Warn("listing URL has no id segment, generated a random external id",
		zap.String("href", href),
		zap.String("external_id", id),
	)
	return id
}

func (p *Parser) absoluteURL(href string) string {
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return p.source.BaseURL + href
	}
	if ref.IsAbs() {
		return ref.String()
	}
	base, err := url.Parse(p.source.BaseURL)
	if err != nil {
		return p.source.BaseURL + href
	}
	return base.ResolveReference(ref).String()
}

// CleanText folds compatibility characters (non-breaking spaces and the
// like), collapses whitespace runs to one space and trims both ends.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFKC.String(s)
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

// ExtractExternalID returns the last non-empty path segment of rawURL, or ""
// when there is none. Query strings and fragments are ignored.
func ExtractExternalID(rawURL string) string {
	path := strings.TrimSpace(rawURL)
	if u, err := url.Parse(path); err == nil {
		path = u.Path
	} else if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimRight(path, "/")
	if i := strings.LastIndex(path, "/"); i >= 0 {
		path = path[i+1:]
	}
	return path
}

// ParseSalary reads every comma-grouped number in text. Two or more numbers
// give (smallest, largest); a single number is taken as the maximum only.
func ParseSalary(text string) (salaryMin, salaryMax *float64) {
	var nums []float64
	for _, m := range salaryRegex.FindAllString(text, -1) {
		v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
		if err != nil || v <= 0 {
			continue
		}
		nums = append(nums, v)
	}

	switch len(nums) {
	case 0:
		return nil, nil
	case 1:
		return nil, &nums[0]
	}

	lo, hi := nums[0], nums[0]
	for _, v := range nums[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return &lo, &hi
}
