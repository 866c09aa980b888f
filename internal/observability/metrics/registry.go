// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Analysis metrics track source ingestion into the aggregate state
var (
	// AnalysisRunsTotal counts RunAnalysis calls by source and outcome
	AnalysisRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_runs_total",
			Help: "Total number of source analysis runs",
		},
		[]string{"source", "status"}, // status: success, skipped, fetch_failed, malformed
	)

	// CoursesIngestedTotal counts courses appended to the aggregate state per source
	CoursesIngestedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courses_ingested_total",
			Help: "Total number of courses ingested from sources",
		},
		[]string{"source"},
	)

	// SourceFetchDuration measures time spent fetching courses from a source
	SourceFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "source_fetch_duration_seconds",
			Help:    "Time taken to fetch courses from a source",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		},
		[]string{"source"},
	)

	// CoursesTotal tracks the number of analyzed courses held in memory
	CoursesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "analyzed_courses",
			Help: "Number of analyzed courses in the aggregate state",
		},
	)

	// InstructorsTotal tracks the number of aggregated instructors held in memory
	InstructorsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "analyzed_instructors",
			Help: "Number of aggregated instructors in the aggregate state",
		},
	)

	// MisalignedReviewsTotal counts reviews whose instructor ratings are
	// shorter than the course instructor list
	MisalignedReviewsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "misaligned_reviews_total",
			Help: "Total number of reviews with fewer instructor ratings than instructors",
		},
		[]string{"source"},
	)
)

// Filter metrics track query load on the aggregate state
var (
	// FilterQueriesTotal counts filter evaluations by kind
	FilterQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filter_queries_total",
			Help: "Total number of filter queries",
		},
		[]string{"kind"}, // kind: course, instructor
	)

	// FilterResultSize measures the number of results returned per query
	FilterResultSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filter_result_size",
			Help:    "Number of results returned by a filter query",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
		[]string{"kind"},
	)
)

// Outbound HTTP metrics track requests made by source fetchers
var (
	// SourceHTTPRequestsTotal counts outbound requests by source and result
	SourceHTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_http_requests_total",
			Help: "Total number of outbound HTTP requests made by sources",
		},
		[]string{"source", "result"}, // result: success, failure, circuit_open
	)

	// CircuitBreakerState reports each source circuit: 0 closed, 1 half-open, 2 open
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "source_circuit_breaker_state",
			Help: "Circuit breaker state per source (0 closed, 1 half-open, 2 open)",
		},
		[]string{"circuit"},
	)

	// SourceHTTPResponseSize measures outbound response body sizes
	SourceHTTPResponseSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "source_http_response_size_bytes",
			Help: "Outbound HTTP response body size in bytes",
			Buckets: []float64{
				100, 400, 1600, 6400, 25600, 102400, 409600,
				1638400, 6553600, 10485760, // up to 10MB
			},
		},
	)
)
