// Package logging provides structured logging utilities with context propagation.
//
// Key features:
//   - JSON output for the API server, text output on stderr for the CLI
//   - LOG_LEVEL controlled levels (debug, info, warn, error)
//   - Request ID and trace ID propagation
//   - Context-carried loggers
//
// Example usage:
//
//	logger := logging.NewLogger()
//	slog.SetDefault(logger)
//
//	func handle(ctx context.Context) {
//	    logger := logging.WithRequestID(ctx, logging.FromContext(ctx))
//	    logger.Info("filter courses", slog.Int("size", size))
//	}
package logging
