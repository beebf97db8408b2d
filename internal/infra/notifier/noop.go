package notifier

import (
	"context"

	"funding-digest/internal/domain/entity"
)

// NoOpPublisher is used when no webhook is configured, so the worker always
// has at least one publisher. This follows the Null Object pattern.
type NoOpPublisher struct{}

// NewNoOpPublisher creates a new NoOpPublisher instance.
func NewNoOpPublisher() *NoOpPublisher {
	return &NoOpPublisher{}
}

// Name implements pipeline.Publisher.
func (n *NoOpPublisher) Name() string {
	return "noop"
}

// Publish does nothing and returns nil immediately.
func (n *NoOpPublisher) Publish(ctx context.Context, digest *entity.Digest) error {
	return nil
}
