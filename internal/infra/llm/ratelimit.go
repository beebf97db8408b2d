package llm

import (
	"context"

	"golang.org/x/time/rate"

	"funding-digest/internal/domain/entity"
)

// RateLimited spaces calls to a completer so a run stays within the
// provider's per-minute quota.
type RateLimited struct {
	next    Completer
	limiter *rate.Limiter
}

// NewRateLimited limits next to requestsPerMinute with a burst of one.
// A non-positive rate returns next unchanged.
func NewRateLimited(next Completer, requestsPerMinute int) Completer {
	if requestsPerMinute <= 0 {
		return next
	}
	perSecond := rate.Limit(float64(requestsPerMinute) / 60)
	return &RateLimited{next: next, limiter: rate.NewLimiter(perSecond, 1)}
}

// Name implements Completer.
func (r *RateLimited) Name() string { return r.next.Name() }

// Complete waits for a token, then calls the wrapped completer. A wait
// that cannot finish before the deadline is reported as rate limited.
func (r *RateLimited) Complete(ctx context.Context, prompt string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", &entity.ModelError{Provider: r.next.Name(), Op: "complete", Err: entity.ErrRateLimited, Cause: err}
	}
	return r.next.Complete(ctx, prompt)
}
