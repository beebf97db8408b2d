package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"funding-digest/internal/app"
	"funding-digest/internal/config"
	"funding-digest/internal/infra/collector"
	"funding-digest/internal/infra/notifier"
	"funding-digest/internal/infra/report"
	workerPkg "funding-digest/internal/infra/worker"
	"funding-digest/internal/observability/logging"
	pkgconfig "funding-digest/internal/pkg/config"
	"funding-digest/internal/usecase/pipeline"
)

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Fail-open configuration: invalid values fall back to defaults.
	workerMetrics := workerPkg.NewWorkerMetrics(nil)
	workerConfig, err := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	if err != nil {
		return fmt.Errorf("load worker configuration: %w", err)
	}
	pipelineConfig, err := config.LoadPipelineConfig(logger, pkgconfig.NewConfigMetrics("pipeline", nil))
	if err != nil {
		return fmt.Errorf("load pipeline configuration: %w", err)
	}
	modelConfig := config.LoadModelConfig(logger, pkgconfig.NewConfigMetrics("model", nil))

	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Duration("run_timeout", workerConfig.RunTimeout),
		slog.Bool("run_once", workerConfig.RunOnce),
		slog.Int("health_port", workerConfig.HealthPort),
		slog.Int("metrics_port", workerConfig.MetricsPort))

	digestApp, err := app.Build(ctx, app.Options{
		Pipeline:    pipelineConfig,
		Model:       modelConfig,
		Sources:     sources(logger, workerConfig.ExtraFeeds),
		FeedTimeout: workerConfig.FeedTimeout,
	}, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := digestApp.Close(); err != nil {
			logger.Warn("failed to close model client", slog.Any("error", err))
		}
	}()

	publishers, err := buildPublishers(logger, workerConfig)
	if err != nil {
		return err
	}

	startMetricsServer(ctx, logger, workerConfig.MetricsPort)

	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()
	logger.Info("health check server started", slog.String("addr", healthAddr))

	job := workerPkg.NewJob(digestApp, publishers, workerConfig, workerMetrics, healthServer, logger)

	if workerConfig.RunOnce {
		_, err := job.Run(ctx)
		return err
	}

	scheduler, err := workerPkg.NewScheduler(ctx, workerConfig, job, workerMetrics, logger)
	if err != nil {
		return err
	}
	scheduler.Start()
	healthServer.SetReady(true)
	logger.Info("worker started",
		slog.String("schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone))

	<-ctx.Done()
	healthServer.SetReady(false)
	logger.Info("shutdown signal received, waiting for running digest")
	<-scheduler.Stop().Done()
	logger.Info("worker stopped")
	return nil
}

// sources returns the default feeds plus the valid extra feed URLs.
func sources(logger *slog.Logger, extra []string) []collector.Source {
	all := collector.DefaultSources()
	for _, raw := range extra {
		source, err := collector.FeedSource(raw)
		if err != nil {
			logger.Warn("skipping extra feed", slog.String("reason", err.Error()))
			continue
		}
		all = append(all, source)
	}
	return all
}

// buildPublishers returns the enabled publishers: the HTML report file and
// the configured webhooks. With none configured the digest is only logged.
func buildPublishers(logger *slog.Logger, cfg *workerPkg.WorkerConfig) ([]pipeline.Publisher, error) {
	var publishers []pipeline.Publisher

	if cfg.ReportDir != "" {
		renderer, err := report.NewRenderer()
		if err != nil {
			return nil, fmt.Errorf("load report templates: %w", err)
		}
		publishers = append(publishers, report.NewFilePublisher(cfg.ReportDir, renderer))
		logger.Info("report publisher enabled", slog.String("dir", cfg.ReportDir))
	}
	if cfg.Slack.Enabled {
		publishers = append(publishers, notifier.NewSlackPublisher(cfg.Slack))
		logger.Info("Slack publisher enabled")
	}
	if cfg.Discord.Enabled {
		publishers = append(publishers, notifier.NewDiscordPublisher(cfg.Discord))
		logger.Info("Discord publisher enabled")
	}

	if len(publishers) == 0 {
		logger.Warn("no publisher configured, digests are discarded")
		publishers = append(publishers, notifier.NewNoOpPublisher())
	}
	return publishers, nil
}
