package source

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"course-analyzer/internal/config"
	"course-analyzer/internal/domain/entity"
	"course-analyzer/internal/infra/fetcher"

	"github.com/PuerkitoBio/goquery"
)

var numberPattern = regexp.MustCompile(`[0-9]+(?:[.,][0-9]+)?`)

// Catalog scrapes course cards from an HTML catalog page using CSS selectors.
// Cards without a name are skipped. Missing rates stay Unknown.
type Catalog struct {
	name      string
	pageURL   string
	selectors config.CatalogSelectors
	client    *fetcher.Client
}

// NewCatalog creates a Catalog source for pageURL.
func NewCatalog(name, pageURL string, selectors config.CatalogSelectors, client *fetcher.Client) *Catalog {
	return &Catalog{name: name, pageURL: pageURL, selectors: selectors, client: client}
}

// Name returns the source name.
func (c *Catalog) Name() string { return c.name }

// FetchCourses downloads the page and extracts one course per item selector match.
func (c *Catalog) FetchCourses(ctx context.Context) ([]*entity.Course, error) {
	body, err := c.client.Get(ctx, c.pageURL, http.Header{"Accept": []string{"text/html"}})
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	courses, err := c.extractCourses(doc)
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		slog.Warn("no courses found on catalog page",
			slog.String("source", c.name),
			slog.String("url", c.pageURL),
			slog.String("selector", c.selectors.Item))
	}
	return courses, nil
}

func (c *Catalog) extractCourses(doc *goquery.Document) ([]*entity.Course, error) {
	sel := c.selectors
	var courses []*entity.Course
	var parseErr error

	doc.Find(sel.Item).EachWithBreak(func(i int, item *goquery.Selection) bool {
		name := text(item, sel.Name)
		if name == "" {
			slog.Debug("skipping catalog item with empty name", slog.Int("index", i))
			return true
		}

		course := entity.NewCourse(name)
		course.ID = i + 1
		course.Year = sel.Year
		course.OrganizationName = sel.Organization
		course.Category = text(item, sel.Category)
		course.Level = text(item, sel.Level)
		course.TotalWeeks = int(entity.Unknown)
		course.TotalHours = entity.Unknown
		if sel.Instructor != "" {
			item.Find(sel.Instructor).Each(func(_ int, s *goquery.Selection) {
				if n := strings.TrimSpace(s.Text()); n != "" {
					course.InstructorNames = append(course.InstructorNames, n)
				}
			})
		}

		if raw := text(item, sel.Rate); raw != "" {
			rate, ok := parseNumber(raw)
			if !ok || !entity.ValidRate(rate) {
				parseErr = &entity.MalformedRecordError{Index: i, Field: "rate", Message: fmt.Sprintf("invalid rating %q", raw)}
				return false
			}
			course.Rate = rate
		}
		if raw := text(item, sel.Price); raw != "" {
			if price, ok := parseNumber(raw); ok {
				course.Price = price
			} else if !strings.EqualFold(raw, "free") {
				parseErr = &entity.MalformedRecordError{Index: i, Field: "price", Message: fmt.Sprintf("invalid price %q", raw)}
				return false
			}
		}

		courses = append(courses, course)
		return true
	})

	if parseErr != nil {
		return nil, parseErr
	}
	return courses, nil
}

func text(item *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	return strings.TrimSpace(item.Find(selector).First().Text())
}

// parseNumber extracts the first number of s, e.g. "$1,299" or "4.5 / 5".
// A comma followed by three digits is a thousands separator, otherwise a
// decimal separator.
func parseNumber(s string) (float64, bool) {
	for thousands.MatchString(s) {
		s = thousands.ReplaceAllString(s, "$1$2")
	}
	m := numberPattern.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

var thousands = regexp.MustCompile(`([0-9]),([0-9]{3})\b`)
