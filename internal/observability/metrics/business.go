package metrics

import (
	"time"
)

// Analysis run outcomes used as the status label of AnalysisRunsTotal.
const (
	StatusSuccess     = "success"
	StatusSkipped     = "skipped"
	StatusFetchFailed = "fetch_failed"
	StatusMalformed   = "malformed"
)

// RecordAnalysisRun records the outcome of a single RunAnalysis call.
func RecordAnalysisRun(source, status string) {
	AnalysisRunsTotal.WithLabelValues(source, status).Inc()
}

// RecordCoursesIngested records how many courses a source contributed.
func RecordCoursesIngested(source string, count int) {
	if count <= 0 {
		return
	}
	CoursesIngestedTotal.WithLabelValues(source).Add(float64(count))
}

// RecordSourceFetch records the time spent in a source's fetch phase.
func RecordSourceFetch(source string, duration time.Duration) {
	SourceFetchDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordMisalignedReviews counts reviews that cannot be aligned with the
// course instructor list.
func RecordMisalignedReviews(source string, count int) {
	if count <= 0 {
		return
	}
	MisalignedReviewsTotal.WithLabelValues(source).Add(float64(count))
}

// UpdateAggregateSize updates the course and instructor gauges.
// It should be called after every merge.
func UpdateAggregateSize(courses, instructors int) {
	CoursesTotal.Set(float64(courses))
	InstructorsTotal.Set(float64(instructors))
}

// RecordFilterQuery records one filter evaluation and its result size.
// Kind should be either "course" or "instructor".
func RecordFilterQuery(kind string, results int) {
	FilterQueriesTotal.WithLabelValues(kind).Inc()
	FilterResultSize.WithLabelValues(kind).Observe(float64(results))
}

// RecordSourceHTTPRequest records an outbound request made by a source fetcher.
// Result should be one of "success", "failure" or "circuit_open".
func RecordSourceHTTPRequest(source, result string, size int) {
	SourceHTTPRequestsTotal.WithLabelValues(source, result).Inc()
	if size > 0 {
		SourceHTTPResponseSize.Observe(float64(size))
	}
}

// SetCircuitState records the state of a source circuit breaker.
func SetCircuitState(circuit string, state int) {
	CircuitBreakerState.WithLabelValues(circuit).Set(float64(state))
}
