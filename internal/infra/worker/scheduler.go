package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// NewScheduler registers job on cfg.CronSchedule in cfg's timezone. A run
// that is still going when the next one is due makes the next one skip,
// which is counted as a "skipped" run. Cancelling ctx cancels the run in
// flight.
func NewScheduler(ctx context.Context, cfg *WorkerConfig, job *Job, metrics *WorkerMetrics, logger *slog.Logger) (*cron.Cron, error) {
	cronLogger := cronLogger{logger: logger, metrics: metrics}
	c := cron.New(
		cron.WithLocation(cfg.Location()),
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)

	if _, err := c.AddFunc(cfg.CronSchedule, job.Scheduled(ctx)); err != nil {
		return nil, fmt.Errorf("add cron job: %w", err)
	}
	return c, nil
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger  *slog.Logger
	metrics *WorkerMetrics
}

// Info is called by cron for routine events; they are logged at debug
// level, except for skips.
func (l cronLogger) Info(msg string, keysAndValues ...any) {
	if msg == "skip" {
		l.logger.Warn("digest run skipped, previous run still in progress", keysAndValues...)
		if l.metrics != nil {
			l.metrics.RecordRun("skipped")
		}
		return
	}
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

// Error is called by cron on panics and bad schedules.
func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, slog.Any("error", err))...)
}
