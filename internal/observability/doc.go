// Package observability groups the logging, metrics and tracing used by the
// digest worker and CLI.
//
// Subpackages:
//   - logging: slog loggers and run ID propagation
//   - metrics: Prometheus collectors and Record helpers
//   - tracing: OpenTelemetry spans per pipeline stage
package observability
