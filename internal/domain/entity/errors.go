package entity

import (
	"errors"
	"fmt"
)

// Remote-capability failures. Every one of them is recovered per article by
// switching to the deterministic strategy.
var (
	// ErrServiceUnavailable indicates the model endpoint could not serve the request
	// (network failure, 5xx, open circuit breaker, missing credentials).
	ErrServiceUnavailable = errors.New("model service unavailable")

	// ErrRateLimited indicates the provider rejected the request with a quota error.
	ErrRateLimited = errors.New("model service rate limited")

	// ErrTimeout indicates the per-call deadline expired before a response arrived.
	ErrTimeout = errors.New("model call timed out")

	// ErrMalformedResponse indicates the model answered with something unparseable.
	ErrMalformedResponse = errors.New("malformed model response")
)

// Pipeline-level conditions.
var (
	// ErrEmptyExtraction indicates neither strategy produced a company name.
	ErrEmptyExtraction = errors.New("no company name extracted")

	// ErrCollectorFailure indicates a collector could not supply any article.
	ErrCollectorFailure = errors.New("collector failed to supply articles")

	// ErrInvalidConfig indicates structurally broken configuration; it aborts the run.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ValidationError represents a validation error with detailed field information.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// ModelError wraps a provider failure with the provider name and operation.
// Err is always one of the remote-capability sentinels, so callers can use
// errors.Is against the taxonomy; Cause keeps the provider's own error.
type ModelError struct {
	Provider string
	Op       string
	Err      error
	Cause    error
}

// Error implements the error interface.
func (e *ModelError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s %s: %v: %v", e.Provider, e.Op, e.Err, e.Cause)
	}
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

// Unwrap exposes both the taxonomy sentinel and the provider cause.
func (e *ModelError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// IsModelFailure reports whether err belongs to the remote-capability taxonomy.
func IsModelFailure(err error) bool {
	return errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrMalformedResponse)
}

// FailureReason maps err to a short label for logs and metrics.
func FailureReason(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed_response"
	case errors.Is(err, ErrEmptyExtraction):
		return "empty_extraction"
	case errors.Is(err, ErrServiceUnavailable):
		return "service_unavailable"
	default:
		return "unknown"
	}
}
