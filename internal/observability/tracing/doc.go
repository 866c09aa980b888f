// Package tracing provides OpenTelemetry tracing integration.
//
// Middleware creates a server span for every HTTP request and propagates the
// W3C trace context. StartSpan/EndSpan wrap internal operations such as a
// source analysis run. No exporter is configured here; main installs a
// tracer provider when one is needed.
//
// Example usage:
//
//	ctx, span := tracing.StartSpan(ctx, "analysis.run",
//	    attribute.String("source.name", src.Name()))
//	err := run(ctx)
//	tracing.EndSpan(span, err)
package tracing
