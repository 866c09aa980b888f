package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordAnalysisRun(t *testing.T) {
	before := testutil.ToFloat64(AnalysisRunsTotal.WithLabelValues("metrics-test", StatusSuccess))

	RecordAnalysisRun("metrics-test", StatusSuccess)
	RecordAnalysisRun("metrics-test", StatusSuccess)
	RecordAnalysisRun("metrics-test", StatusSkipped)

	assert.Equal(t, before+2, testutil.ToFloat64(AnalysisRunsTotal.WithLabelValues("metrics-test", StatusSuccess)))
	assert.GreaterOrEqual(t, testutil.ToFloat64(AnalysisRunsTotal.WithLabelValues("metrics-test", StatusSkipped)), 1.0)
}

func TestRecordCoursesIngested(t *testing.T) {
	tests := []struct {
		name  string
		count int
		delta float64
	}{
		{name: "positive count", count: 10, delta: 10},
		{name: "zero count", count: 0, delta: 0},
		{name: "negative count", count: -3, delta: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := CoursesIngestedTotal.WithLabelValues("ingest-test")
			before := testutil.ToFloat64(c)

			RecordCoursesIngested("ingest-test", tt.count)

			assert.Equal(t, before+tt.delta, testutil.ToFloat64(c))
		})
	}
}

func TestUpdateAggregateSize(t *testing.T) {
	UpdateAggregateSize(12, 7)

	assert.Equal(t, 12.0, testutil.ToFloat64(CoursesTotal))
	assert.Equal(t, 7.0, testutil.ToFloat64(InstructorsTotal))
}

func TestRecordFilterQuery(t *testing.T) {
	before := testutil.ToFloat64(FilterQueriesTotal.WithLabelValues("course"))

	RecordFilterQuery("course", 3)

	assert.Equal(t, before+1, testutil.ToFloat64(FilterQueriesTotal.WithLabelValues("course")))
}

func TestRecordMisalignedReviews(t *testing.T) {
	c := MisalignedReviewsTotal.WithLabelValues("align-test")
	before := testutil.ToFloat64(c)

	RecordMisalignedReviews("align-test", 2)
	RecordMisalignedReviews("align-test", 0)

	assert.Equal(t, before+2, testutil.ToFloat64(c))
}

func TestRecordDurations_NoPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordSourceFetch("duration-test", 250*time.Millisecond)
		RecordSourceHTTPRequest("duration-test", "success", 2048)
		RecordSourceHTTPRequest("duration-test", "failure", 0)
	})
}
