package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"funding-digest/internal/observability/metrics"
)

// Cached remembers successful answers by prompt, so articles that stay in
// the feeds across daily runs are not sent to the model again.
type Cached struct {
	next  Completer
	cache *lru.Cache[string, string]
}

// NewCached wraps next with an LRU cache of size entries. A non-positive
// size returns next unchanged.
func NewCached(next Completer, size int) (Completer, error) {
	if size <= 0 {
		return next, nil
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("create answer cache: %w", err)
	}
	return &Cached{next: next, cache: cache}, nil
}

// Name implements Completer.
func (c *Cached) Name() string { return c.next.Name() }

// Complete implements Completer. Failures are not cached.
func (c *Cached) Complete(ctx context.Context, prompt string) (string, error) {
	key := cacheKey(prompt)
	if answer, ok := c.cache.Get(key); ok {
		metrics.RecordCacheLookup(true)
		return answer, nil
	}
	metrics.RecordCacheLookup(false)

	answer, err := c.next.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	c.cache.Add(key, answer)
	return answer, nil
}

// Len returns the number of cached answers.
func (c *Cached) Len() int {
	return c.cache.Len()
}

func cacheKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}
