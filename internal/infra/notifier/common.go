package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"funding-digest/internal/observability/logging"
	"funding-digest/internal/pkg/redact"
)

// Common webhook error types used by Discord and Slack publishers

// RateLimitError represents a 429 rate limit error from a webhook service.
type RateLimitError struct {
	RetryAfter time.Duration
	Message    string // Optional custom message
}

func (e *RateLimitError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (retry after %v)", e.Message, e.RetryAfter)
	}
	return fmt.Sprintf("rate limit exceeded (retry after %v)", e.RetryAfter)
}

// ClientError represents a 4xx client error from a webhook service.
type ClientError struct {
	StatusCode int
	Message    string
}

func (e *ClientError) Error() string {
	return e.Message
}

// ServerError represents a 5xx server error from a webhook service.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return e.Message
}

// is429Error checks if the error is a rate limit error and extracts retry_after.
func is429Error(err error) (*RateLimitError, bool) {
	var rateLimitErr *RateLimitError
	if errors.As(err, &rateLimitErr) {
		return rateLimitErr, true
	}
	return nil, false
}

// isRetryableError checks if the error is worth retrying (5xx server errors, network errors).
// Client errors (4xx) are not retryable except for rate limits (429).
func isRetryableError(err error) bool {
	var serverErr *ServerError
	if errors.As(err, &serverErr) {
		return true
	}

	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return false
	}

	var rateLimitErr *RateLimitError
	if errors.As(err, &rateLimitErr) {
		return false // Handled by is429Error
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// Network errors and the like.
	return true
}

// retryAfterBody is the rate limit body Discord returns; Slack only sets the header.
type retryAfterBody struct {
	RetryAfter float64 `json:"retry_after"` // In seconds
}

// extractRetryAfter reads the back-off from the JSON body first, then the
// Retry-After header, defaulting to 5s.
func extractRetryAfter(resp *http.Response, body []byte) time.Duration {
	var parsed retryAfterBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.RetryAfter > 0 {
		return time.Duration(parsed.RetryAfter * float64(time.Second))
	}

	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.Atoi(header); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}

	return 5 * time.Second
}

// webhook posts JSON payloads to one incoming-webhook URL.
type webhook struct {
	service     string
	url         string
	client      *http.Client
	limiter     *RateLimiter
	maxAttempts int
	baseDelay   time.Duration
	// maxRetryAfter caps how long a 429 may stall the run.
	maxRetryAfter time.Duration
}

func newWebhook(service, url string, timeout time.Duration, limiter *RateLimiter) *webhook {
	return &webhook{
		service:       service,
		url:           url,
		client:        &http.Client{Timeout: timeout},
		limiter:       limiter,
		maxAttempts:   2,
		baseDelay:     5 * time.Second,
		maxRetryAfter: time.Minute,
	}
}

// send performs one POST and classifies the response.
//
// Error types:
//   - 429: Rate limit error (contains retry_after duration)
//   - 4xx (non-429): Client error (non-retryable)
//   - 5xx: Server error (retryable)
//   - Network error: Connection/timeout error (retryable)
func (w *webhook) send(ctx context.Context, payload any) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{
			Message:    w.service + " rate limit exceeded",
			RetryAfter: extractRetryAfter(resp, body),
		}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return &ClientError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("%s API client error: %s", w.service, string(body)),
		}
	case resp.StatusCode >= 500:
		return &ServerError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("%s API server error: %s", w.service, string(body)),
		}
	default:
		return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}
}

// post rate-limits and sends one payload, retrying 429s and transient failures.
// All attempts are logged with a request_id.
func (w *webhook) post(ctx context.Context, payload any) error {
	logger := logging.FromContext(ctx).With(
		slog.String("service", w.service),
		slog.String("request_id", uuid.New().String()))

	if err := w.limiter.Allow(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= w.maxAttempts; attempt++ {
		err := w.send(ctx, payload)
		if err == nil {
			logger.Debug("webhook message delivered", slog.Int("attempt", attempt))
			return nil
		}
		lastErr = err

		delay := w.baseDelay * time.Duration(attempt)
		if rateLimitErr, ok := is429Error(err); ok {
			delay = min(rateLimitErr.RetryAfter, w.maxRetryAfter)
			logger.Warn("webhook rate limit hit, backing off",
				slog.Duration("retry_after", delay),
				slog.Int("attempt", attempt))
		} else if !isRetryableError(err) {
			logger.Error("webhook request failed with non-retryable error",
				slog.String("error", redact.Error(err)),
				slog.Int("attempt", attempt))
			return err
		}

		if attempt == w.maxAttempts {
			break
		}

		logger.Warn("webhook request failed, retrying",
			slog.String("error", redact.Error(err)),
			slog.Int("attempt", attempt),
			slog.Duration("delay", delay))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("context canceled during retry backoff: %w", ctx.Err())
		}
	}

	logger.Error("webhook request failed after all retries",
		slog.String("error", redact.Error(lastErr)),
		slog.Int("max_attempts", w.maxAttempts))

	return fmt.Errorf("%s webhook failed after %d attempts: %w", w.service, w.maxAttempts, lastErr)
}

// postAll sends payloads in order and stops at the first failure.
func (w *webhook) postAll(ctx context.Context, payloads []any) error {
	for i, p := range payloads {
		if err := w.post(ctx, p); err != nil {
			return fmt.Errorf("message %d of %d: %w", i+1, len(payloads), err)
		}
	}
	return nil
}
