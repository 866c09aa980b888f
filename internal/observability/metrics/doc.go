// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes the analysis metrics of the application:
//   - Source analysis runs, ingested courses and fetch duration
//   - Aggregate state size (courses, instructors)
//   - Filter query count and result size
//   - Outbound HTTP requests made by source fetchers
//
// HTTP server metrics live next to the middleware in internal/handler/http.
// All metrics are automatically registered with the Prometheus default registry
// and exposed via the /metrics endpoint.
//
// Example usage:
//
//	import "course-analyzer/internal/observability/metrics"
//
//	start := time.Now()
//	courses, err := src.FetchCourses(ctx)
//	metrics.RecordSourceFetch(src.Name(), time.Since(start))
//	if err == nil {
//	    metrics.RecordCoursesIngested(src.Name(), len(courses))
//	}
package metrics
