// Package worker runs the daily digest: configuration, the scheduled job,
// its metrics, and the health endpoints of the worker process.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"funding-digest/internal/domain/entity"
	"funding-digest/internal/observability/logging"
	"funding-digest/internal/pkg/redact"
	"funding-digest/internal/usecase/pipeline"
)

// Runner produces one digest as of now.
type Runner interface {
	Run(ctx context.Context, now time.Time) (*entity.Digest, error)
}

// Job is one scheduled digest run: build the digest, then publish it.
type Job struct {
	runner     Runner
	publishers []pipeline.Publisher
	metrics    *WorkerMetrics
	health     *HealthServer
	timeout    time.Duration
	location   *time.Location
	logger     *slog.Logger
	now        func() time.Time
}

// NewJob creates a job. metrics and health may be nil.
func NewJob(runner Runner, publishers []pipeline.Publisher, cfg *WorkerConfig, metrics *WorkerMetrics, health *HealthServer, logger *slog.Logger) *Job {
	return &Job{
		runner:     runner,
		publishers: publishers,
		metrics:    metrics,
		health:     health,
		timeout:    cfg.RunTimeout,
		location:   cfg.Location(),
		logger:     logger,
		now:        time.Now,
	}
}

// Run executes one digest run under the configured timeout. Publishing
// failures are returned along with the digest; a digest is only nil when
// the pipeline itself could not run.
func (j *Job) Run(ctx context.Context) (*entity.Digest, error) {
	start := j.now()
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()
	ctx = logging.WithLogger(ctx, j.logger)

	j.logger.Info("digest job started")

	digest, err := j.runner.Run(ctx, start.In(j.location))
	if err != nil {
		j.finish(start, nil, err)
		return nil, err
	}

	ctx = logging.ContextWithRunID(ctx, digest.RunID)
	err = pipeline.PublishAll(ctx, digest, j.publishers...)
	j.finish(start, digest, err)
	return digest, err
}

// Scheduled returns the cron entry point. Runs it starts are cancelled when
// ctx is; errors are already logged by Run.
func (j *Job) Scheduled(ctx context.Context) func() {
	return func() {
		_, _ = j.Run(ctx)
	}
}

func (j *Job) finish(start time.Time, digest *entity.Digest, err error) {
	duration := time.Since(start)
	status := RunStatus{FinishedAt: j.now()}
	if digest != nil {
		status.RunID = digest.RunID
		status.Events = len(digest.Events)
	}

	switch {
	case err != nil:
		status.Error = redact.Error(err)
		attrs := []any{
			slog.String("error", status.Error),
			slog.Duration("duration", duration),
		}
		if digest == nil || errors.Is(err, context.DeadlineExceeded) {
			j.logger.Error("digest job failed", attrs...)
		} else {
			j.logger.Error("digest job failed to publish", append(attrs, slog.String("run_id", digest.RunID))...)
		}
	default:
		j.logger.Info("digest job completed",
			slog.String("run_id", status.RunID),
			slog.Int("events", status.Events),
			slog.Int("publishers", len(j.publishers)),
			slog.Duration("duration", duration))
	}

	if j.health != nil {
		j.health.SetLastRun(status)
	}
	if j.metrics == nil {
		return
	}
	j.metrics.RecordRunDuration(duration.Seconds())
	if err != nil {
		j.metrics.RecordRun("failure")
		return
	}
	j.metrics.RecordRun("success")
	j.metrics.RecordEventsPublished(status.Events)
	j.metrics.RecordLastSuccess()
}
