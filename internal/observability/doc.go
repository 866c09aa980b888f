// Package observability groups the logging, metrics and tracing support
// shared by the API server and coursectl.
//
// Subpackages:
//   - logging: slog setup and context propagation of the request logger
//   - metrics: Prometheus collectors for analysis runs and source fetches
//   - tracing: OpenTelemetry spans for HTTP requests and analysis runs
//
// Example usage:
//
//	logger := logging.NewLogger()
//	ctx = logging.WithLogger(ctx, logger)
//
//	metrics.RecordAnalysisRun("CSV Plugin", "success")
package observability
