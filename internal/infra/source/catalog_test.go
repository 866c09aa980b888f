package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"course-analyzer/internal/config"
	"course-analyzer/internal/domain/entity"
	"course-analyzer/internal/infra/fetcher"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogHTML = `<!DOCTYPE html>
<html><body>
<div class="course">
  <h2 class="title">Intro to Go</h2>
  <span class="tutor">Rob</span><span class="tutor">Ken</span>
  <span class="cat">Programming</span>
  <span class="lvl">Beginner</span>
  <span class="stars">4.6 / 5</span>
  <span class="price">$1,299.50</span>
</div>
<div class="course">
  <h2 class="title">Databases</h2>
  <span class="tutor">Edgar</span>
  <span class="price">Free</span>
</div>
<div class="course">
  <h2 class="title"></h2>
</div>
</body></html>`

func catalogSelectors() config.CatalogSelectors {
	return config.CatalogSelectors{
		Item:         ".course",
		Name:         ".title",
		Instructor:   ".tutor",
		Category:     ".cat",
		Level:        ".lvl",
		Rate:         ".stars",
		Price:        ".price",
		Organization: "Go Academy",
		Year:         2024,
	}
}

func catalogServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCatalog_FetchCourses(t *testing.T) {
	srv := catalogServer(t, catalogHTML)
	src := NewCatalog("Academy", srv.URL, catalogSelectors(), fetcher.New("catalog-test", testFetchConfig(), srv.Client()))

	courses, err := src.FetchCourses(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 2)

	intro := courses[0]
	assert.Equal(t, "Intro to Go", intro.Name)
	assert.Equal(t, []string{"Rob", "Ken"}, intro.InstructorNames)
	assert.Equal(t, "Programming", intro.Category)
	assert.Equal(t, "Beginner", intro.Level)
	assert.Equal(t, "Go Academy", intro.OrganizationName)
	assert.Equal(t, 2024, intro.Year)
	assert.InDelta(t, 4.6, intro.Rate, 1e-9)
	assert.InDelta(t, 1299.50, intro.Price, 1e-9)

	db := courses[1]
	assert.Equal(t, entity.Unknown, db.Rate)
	assert.Equal(t, 0.0, db.Price)
	assert.Equal(t, entity.Unknown, db.EstimatedWorkload)
}

func TestCatalog_InvalidRate(t *testing.T) {
	srv := catalogServer(t, `<div class="course"><h2 class="title">X</h2><span class="stars">9.5</span></div>`)
	src := NewCatalog("Academy", srv.URL, catalogSelectors(), fetcher.New("catalog-bad", testFetchConfig(), srv.Client()))

	_, err := src.FetchCourses(context.Background())
	assert.ErrorIs(t, err, entity.ErrMalformedRecord)
}

func TestCatalog_NoItems(t *testing.T) {
	srv := catalogServer(t, `<html><body><p>maintenance</p></body></html>`)
	src := NewCatalog("Academy", srv.URL, catalogSelectors(), fetcher.New("catalog-empty", testFetchConfig(), srv.Client()))

	courses, err := src.FetchCourses(context.Background())
	require.NoError(t, err)
	assert.Empty(t, courses)
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"4.5", 4.5, true},
		{"4,5 stars", 4.5, true},
		{"$1,299", 1299, true},
		{"1,299,000", 1299000, true},
		{"USD 19.99", 19.99, true},
		{"free", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseNumber(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
