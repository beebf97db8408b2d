package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"funding-digest/internal/domain/entity"
	"funding-digest/internal/observability/logging"
	"funding-digest/internal/observability/metrics"
	"funding-digest/internal/pkg/redact"
)

// PublishAll hands digest to every publisher. A failing publisher does not
// stop the others; the joined error names every failure.
func PublishAll(ctx context.Context, digest *entity.Digest, publishers ...Publisher) error {
	logger := logging.WithRunID(ctx, logging.FromContext(ctx))

	var errs []error
	for _, p := range publishers {
		if err := p.Publish(ctx, digest); err != nil {
			metrics.RecordPublish(p.Name(), false)
			logger.Error("failed to publish digest",
				slog.String("publisher", p.Name()),
				slog.String("error", redact.Error(err)))
			errs = append(errs, fmt.Errorf("publish via %s: %w", p.Name(), err))
			continue
		}
		metrics.RecordPublish(p.Name(), true)
		logger.Info("digest published",
			slog.String("publisher", p.Name()),
			slog.Int("events", len(digest.Events)))
	}
	return errors.Join(errs...)
}
