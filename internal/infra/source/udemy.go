package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"

	"course-analyzer/internal/domain/entity"
	"course-analyzer/internal/infra/fetcher"

	"golang.org/x/sync/errgroup"
)

const (
	udemyOrganization   = "Udemy"
	udemyCoursesPath    = "/api-2.0/courses"
	udemyDetailFields   = "primary_category,instructional_level,num_subscribers,estimated_content_length"
	defaultUdemyYear    = 2022
	defaultUdemyKeyword = "e"
)

// UdemyOptions configures the Udemy source.
type UdemyOptions struct {
	BaseURL        string
	Keyword        string // the list endpoint requires a search term
	Language       string
	PageSize       int
	ReviewPageSize int
	Year           int
	AccessToken    string
}

func (o *UdemyOptions) setDefaults() {
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	if o.Keyword == "" {
		o.Keyword = defaultUdemyKeyword
	}
	if o.Language == "" {
		o.Language = "en"
	}
	if o.PageSize <= 0 {
		o.PageSize = 100
	}
	if o.ReviewPageSize <= 0 {
		o.ReviewPageSize = 10
	}
	if o.Year == 0 {
		o.Year = defaultUdemyYear
	}
}

// Udemy lists courses from the Udemy API, then loads the details and the
// first page of reviews of every course in parallel.
//
// The list endpoint returns identical data for every page, so only the first
// page is read.
type Udemy struct {
	name   string
	opts   UdemyOptions
	client *fetcher.Client
}

// NewUdemy creates a Udemy source.
func NewUdemy(name string, opts UdemyOptions, client *fetcher.Client) *Udemy {
	opts.setDefaults()
	return &Udemy{name: name, opts: opts, client: client}
}

// Name returns the source name.
func (u *Udemy) Name() string { return u.name }

// FetchCourses loads the course list. A failed list request fails the fetch;
// a failed detail or review request leaves that course partially filled.
func (u *Udemy) FetchCourses(ctx context.Context) ([]*entity.Course, error) {
	courses, err := u.listCourses(ctx)
	if err != nil {
		return nil, err
	}

	var failures atomic.Int64
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(u.client.Config().Parallelism)
	for _, course := range courses {
		eg.Go(func() error {
			if err := u.loadDetails(egCtx, course); err != nil {
				if isContextErr(err) {
					return err
				}
				failures.Add(1)
				slog.Warn("udemy course details unavailable",
					slog.String("source", u.name),
					slog.Int("course_id", course.ID),
					slog.Any("error", err))
			}
			if err := u.loadReviews(egCtx, course); err != nil {
				if isContextErr(err) {
					return err
				}
				failures.Add(1)
				slog.Warn("udemy course reviews unavailable",
					slog.String("source", u.name),
					slog.Int("course_id", course.ID),
					slog.Any("error", err))
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	slog.Info("udemy courses loaded",
		slog.String("source", u.name),
		slog.Int("courses", len(courses)),
		slog.Int64("partial_failures", failures.Load()))
	return courses, nil
}

func (u *Udemy) header(withToken bool) http.Header {
	h := http.Header{
		"Accept":          []string{"application/json, text/plain"},
		"Accept-Language": []string{"en-US,en;q=0.5"},
	}
	if withToken && u.opts.AccessToken != "" {
		h.Set("Cookie", "access_token="+u.opts.AccessToken)
	}
	return h
}

func (u *Udemy) listCourses(ctx context.Context) ([]*entity.Course, error) {
	q := url.Values{}
	q.Set("language", u.opts.Language)
	q.Set("page", "1")
	q.Set("page_size", fmt.Sprint(u.opts.PageSize))
	q.Set("search", u.opts.Keyword)
	listURL := u.opts.BaseURL + udemyCoursesPath + "/?" + q.Encode()

	var resp udemyListResponse
	if err := u.client.GetJSON(ctx, listURL, u.header(true), &resp); err != nil {
		return nil, fmt.Errorf("list udemy courses: %w", err)
	}

	courses := make([]*entity.Course, 0, len(resp.Results))
	for _, r := range resp.Results {
		names := make([]string, 0, len(r.VisibleInstructors))
		for _, inst := range r.VisibleInstructors {
			names = append(names, inst.Title)
		}
		courses = append(courses, &entity.Course{
			ID:                r.ID,
			Year:              u.opts.Year,
			Name:              r.Title,
			Description:       r.URL,
			InstructorNames:   names,
			OrganizationName:  udemyOrganization,
			TotalWeeks:        int(entity.Unknown),
			EstimatedWorkload: entity.Unknown,
			Rate:              entity.Unknown,
			Price:             r.PriceDetail.Amount,
		})
	}
	return courses, nil
}

func (u *Udemy) loadDetails(ctx context.Context, course *entity.Course) error {
	detailURL := fmt.Sprintf("%s%s/%d/?fields[course]=%s", u.opts.BaseURL, udemyCoursesPath, course.ID, udemyDetailFields)

	var resp udemyDetailResponse
	if err := u.client.GetJSON(ctx, detailURL, u.header(false), &resp); err != nil {
		return err
	}
	if len(resp.PrimaryCategory) > 0 {
		course.Category = resp.PrimaryCategory[0].Title
	}
	course.Level = resp.InstructionalLevel
	course.TotalStudents = resp.NumSubscribers
	course.TotalHours = float64(resp.EstimatedContentLength) / 60.0
	return nil
}

// loadReviews reads the first review page. Udemy has no instructor or
// workload ratings, so every instructor gets the review's course rating and
// the workload is Unknown.
func (u *Udemy) loadReviews(ctx context.Context, course *entity.Course) error {
	reviewURL := fmt.Sprintf("%s%s/%d/reviews/?page=1&page_size=%d", u.opts.BaseURL, udemyCoursesPath, course.ID, u.opts.ReviewPageSize)

	var resp udemyReviewResponse
	if err := u.client.GetJSON(ctx, reviewURL, u.header(false), &resp); err != nil {
		return err
	}
	for _, r := range resp.Results {
		rates := make([]float64, len(course.InstructorNames))
		for i := range rates {
			rates[i] = r.Rating
		}
		course.Reviews = append(course.Reviews, entity.CourseReview{
			CourseRate:      r.Rating,
			InstructorRates: rates,
			WorkloadPerWeek: entity.Unknown,
		})
	}
	return nil
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

type udemyListResponse struct {
	Count   int    `json:"count"`
	Next    string `json:"next"`
	Results []struct {
		ID                 int    `json:"id"`
		Title              string `json:"title"`
		URL                string `json:"url"`
		VisibleInstructors []struct {
			Title string `json:"title"`
		} `json:"visible_instructors"`
		PriceDetail struct {
			Amount float64 `json:"amount"`
		} `json:"price_detail"`
	} `json:"results"`
}

type udemyDetailResponse struct {
	PrimaryCategory        udemyCategories `json:"primary_category"`
	InstructionalLevel     string          `json:"instructional_level"`
	NumSubscribers         int             `json:"num_subscribers"`
	EstimatedContentLength int             `json:"estimated_content_length"` // minutes
}

type udemyReviewResponse struct {
	Results []struct {
		Rating float64 `json:"rating"`
	} `json:"results"`
}

type udemyCategory struct {
	Title string `json:"title"`
}

// udemyCategories accepts a category given as a string, an object, or an
// array of either.
type udemyCategories []udemyCategory

func (c *udemyCategories) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*c = nil
		return nil
	}

	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*c = nil
			return nil
		}
		*c = udemyCategories{{Title: s}}
	case '{':
		var one udemyCategory
		if err := json.Unmarshal(b, &one); err != nil {
			return err
		}
		*c = udemyCategories{one}
	case '[':
		var objs []udemyCategory
		if err := json.Unmarshal(b, &objs); err == nil {
			*c = objs
			return nil
		}
		var strs []string
		if err := json.Unmarshal(b, &strs); err != nil {
			return err
		}
		out := make(udemyCategories, 0, len(strs))
		for _, s := range strs {
			if s != "" {
				out = append(out, udemyCategory{Title: s})
			}
		}
		*c = out
	default:
		*c = nil
	}
	return nil
}
