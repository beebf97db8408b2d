// Package llm implements the model strategy of the funding classifier and
// the company extractor on top of hosted language models (Claude, OpenAI
// and Gemini).
//
// Every provider call goes through a circuit breaker and a short retry
// budget, and every failure is reported as an *entity.ModelError carrying
// one of the remote-capability sentinels, so the pipeline can fall back to
// its rules without inspecting provider types.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"funding-digest/internal/domain/entity"
	"funding-digest/internal/resilience/circuitbreaker"
	"funding-digest/internal/resilience/retry"
)

// Completer sends a single-turn prompt to a language model and returns the
// text of its answer.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	// Name identifies the provider in logs and metrics.
	Name() string
}

// guard wraps provider calls in retry (outside) and a circuit breaker (inside).
type guard struct {
	provider string
	breaker  *circuitbreaker.CircuitBreaker
	retry    retry.Config
}

func newGuard(provider string, breakerCfg circuitbreaker.Config) guard {
	return guard{
		provider: provider,
		breaker:  circuitbreaker.New(breakerCfg),
		retry:    retry.ModelAPIConfig(),
	}
}

func (g guard) call(ctx context.Context, fn func(ctx context.Context) (string, error)) (string, error) {
	var result string

	err := retry.WithBackoff(ctx, g.retry, func() error {
		out, err := circuitbreaker.Call(g.breaker, func() (string, error) {
			return fn(ctx)
		})
		if err != nil {
			if circuitbreaker.IsRejection(err) {
				return g.fail(entity.ErrServiceUnavailable, err)
			}
			return err
		}
		result = out
		return nil
	})
	if err != nil {
		if entity.IsModelFailure(err) {
			return "", err
		}
		// Retry gave up on something outside the taxonomy (usually the
		// caller's deadline); classify it here.
		if ctx.Err() != nil {
			return "", g.fail(entity.ErrTimeout, err)
		}
		return "", g.fail(entity.ErrServiceUnavailable, err)
	}
	return result, nil
}

func (g guard) fail(sentinel, cause error) error {
	return &entity.ModelError{Provider: g.provider, Op: "complete", Err: sentinel, Cause: cause}
}

// statusError maps an HTTP status from a provider to the taxonomy. The
// status travels along as a *retry.HTTPError so that client errors are not
// retried.
func (g guard) statusError(code int, cause error) error {
	sentinel := entity.ErrServiceUnavailable
	switch code {
	case http.StatusTooManyRequests:
		sentinel = entity.ErrRateLimited
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		sentinel = entity.ErrTimeout
	}
	return g.fail(sentinel, errors.Join(
		&retry.HTTPError{StatusCode: code, Message: http.StatusText(code)},
		cause,
	))
}

// transportError maps a failure without a status (network, deadline).
func (g guard) transportError(cause error) error {
	var netErr net.Error
	if errors.Is(cause, context.DeadlineExceeded) || (errors.As(cause, &netErr) && netErr.Timeout()) {
		return g.fail(entity.ErrTimeout, cause)
	}
	return g.fail(entity.ErrServiceUnavailable, cause)
}

func (g guard) malformed(format string, args ...any) error {
	return g.fail(entity.ErrMalformedResponse, fmt.Errorf(format, args...))
}
