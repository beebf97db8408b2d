// Package logging provides structured logging utilities with context propagation.
//
// Key features:
//   - JSON output for the worker, text output for the CLI
//   - Run ID propagation so every line of one digest run correlates
//   - Configurable log levels through LOG_LEVEL
//
// Example usage:
//
//	logger := logging.NewLogger()
//	ctx = logging.ContextWithRunID(ctx, runID)
//	logging.WithRunID(ctx, logger).Info("run started")
package logging
