package worker

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"funding-digest/internal/infra/notifier"
	"funding-digest/internal/pkg/config"
)

// WorkerConfig holds the configuration of the scheduled digest worker.
//
// Loading is fail-open: every value that is unset or rejected falls back to
// its default with a warning, so the worker always starts.
type WorkerConfig struct {
	// CronSchedule is the 5-field cron expression of the daily run.
	// Default: "0 7 * * *"
	CronSchedule string

	// Timezone is the IANA timezone the schedule is evaluated in.
	// Default: "Europe/Stockholm"
	Timezone string

	// RunTimeout bounds one whole run: collection, models and publishing.
	// Range: 1m-4h. Default: 30 minutes
	RunTimeout time.Duration

	// RunOnce runs a single digest immediately and exits instead of scheduling.
	RunOnce bool

	// ReportDir is where HTML digests are written. Empty disables the file report.
	// Default: "reports"
	ReportDir string

	// FeedTimeout is the HTTP timeout for one feed request.
	// Range: 1s-5m. Default: 30 seconds
	FeedTimeout time.Duration

	// ExtraFeeds are RSS/Atom URLs collected in addition to the default sources.
	ExtraFeeds []string

	// HealthPort serves /health and /health/ready.
	// Range: 1024-65535. Default: 9091
	HealthPort int

	// MetricsPort serves /metrics.
	// Range: 1024-65535. Default: 9090
	MetricsPort int

	Slack   notifier.SlackConfig
	Discord notifier.DiscordConfig
}

// DefaultConfig returns a WorkerConfig with production defaults: a daily
// 07:00 run in Stockholm time, no webhooks.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule: "0 7 * * *",
		Timezone:     "Europe/Stockholm",
		RunTimeout:   30 * time.Minute,
		ReportDir:    "reports",
		FeedTimeout:  30 * time.Second,
		HealthPort:   9091,
		MetricsPort:  9090,
		Slack:        notifier.SlackConfig{Timeout: 30 * time.Second},
		Discord:      notifier.DiscordConfig{Timeout: 30 * time.Second},
	}
}

// Location returns the schedule timezone, or UTC if it cannot be loaded.
func (c *WorkerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Validate checks if the configuration values are valid.
// If multiple fields are invalid, all errors are collected and returned together.
func (c *WorkerConfig) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidateDuration(c.RunTimeout, time.Minute, 4*time.Hour); err != nil {
		errs = append(errs, fmt.Errorf("run timeout: %w", err))
	}
	if err := config.ValidateDuration(c.FeedTimeout, time.Second, 5*time.Minute); err != nil {
		errs = append(errs, fmt.Errorf("feed timeout: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}
	if err := config.ValidateIntRange(c.MetricsPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("metrics port: %w", err))
	}
	if c.HealthPort == c.MetricsPort {
		errs = append(errs, fmt.Errorf("health and metrics ports must differ, both are %d", c.HealthPort))
	}
	if c.Slack.Enabled {
		if err := ValidateSlackWebhook(c.Slack.WebhookURL); err != nil {
			errs = append(errs, fmt.Errorf("slack webhook: %w", err))
		}
	}
	if c.Discord.Enabled {
		if err := ValidateDiscordWebhook(c.Discord.WebhookURL); err != nil {
			errs = append(errs, fmt.Errorf("discord webhook: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

// LoadConfigFromEnv loads worker configuration from environment variables
// with validation and automatic fallback to default values on failure.
//
// Environment variables:
//   - CRON_SCHEDULE: Cron expression (default: "0 7 * * *")
//   - WORKER_TIMEZONE: IANA timezone name (default: "Europe/Stockholm")
//   - RUN_TIMEOUT: Duration, 1m-4h (default: 30m)
//   - RUN_ONCE: Boolean (default: false)
//   - REPORT_DIR: Directory for HTML reports (default: "reports")
//   - FEED_TIMEOUT: Duration, 1s-5m (default: 30s)
//   - WORKER_HEALTH_PORT: Integer 1024-65535 (default: 9091)
//   - METRICS_PORT: Integer 1024-65535 (default: 9090)
//   - SLACK_ENABLED, SLACK_WEBHOOK_URL, SLACK_TIMEOUT
//   - DISCORD_ENABLED, DISCORD_WEBHOOK_URL, DISCORD_TIMEOUT
//
// A webhook that is enabled but whose URL is missing or malformed is
// disabled with a warning. Fallbacks are reported to metrics.ConfigMetrics.
// The returned error is always nil (fail-open strategy).
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) (*WorkerConfig, error) {
	cfg := DefaultConfig()
	tracker := config.NewTracker(logger)

	cfg.CronSchedule = config.Track(tracker, "cron_schedule",
		config.LoadEnvWithFallback("CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule))
	cfg.Timezone = config.Track(tracker, "timezone",
		config.LoadEnvWithFallback("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone))
	cfg.RunTimeout = config.Track(tracker, "run_timeout",
		config.LoadEnvDuration("RUN_TIMEOUT", cfg.RunTimeout, func(d time.Duration) error {
			return config.ValidateDuration(d, time.Minute, 4*time.Hour)
		}))
	cfg.RunOnce = config.Track(tracker, "run_once", config.LoadEnvBool("RUN_ONCE", cfg.RunOnce))
	cfg.ReportDir = config.LoadEnvString("REPORT_DIR", cfg.ReportDir)
	cfg.FeedTimeout = config.Track(tracker, "feed_timeout",
		config.LoadEnvDuration("FEED_TIMEOUT", cfg.FeedTimeout, func(d time.Duration) error {
			return config.ValidateDuration(d, time.Second, 5*time.Minute)
		}))
	cfg.ExtraFeeds = config.Track(tracker, "extra_feeds", config.LoadEnvList("EXTRA_FEED_URLS", nil))
	cfg.HealthPort = config.Track(tracker, "health_port",
		config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, func(v int) error {
			return config.ValidateIntRange(v, 1024, 65535)
		}))
	cfg.MetricsPort = config.Track(tracker, "metrics_port",
		config.LoadEnvInt("METRICS_PORT", cfg.MetricsPort, func(v int) error {
			return config.ValidateIntRange(v, 1024, 65535)
		}))

	cfg.Slack.Enabled = config.Track(tracker, "slack_enabled", config.LoadEnvBool("SLACK_ENABLED", false))
	cfg.Slack.WebhookURL = config.LoadEnvString("SLACK_WEBHOOK_URL", "")
	cfg.Slack.Timeout = config.Track(tracker, "slack_timeout",
		config.LoadEnvDuration("SLACK_TIMEOUT", cfg.Slack.Timeout, config.ValidatePositiveDuration))
	if cfg.Slack.Enabled {
		if err := ValidateSlackWebhook(cfg.Slack.WebhookURL); err != nil {
			logger.Warn("invalid Slack webhook, disabling Slack publishing", slog.String("reason", err.Error()))
			cfg.Slack.Enabled = false
		}
	}

	cfg.Discord.Enabled = config.Track(tracker, "discord_enabled", config.LoadEnvBool("DISCORD_ENABLED", false))
	cfg.Discord.WebhookURL = config.LoadEnvString("DISCORD_WEBHOOK_URL", "")
	cfg.Discord.Timeout = config.Track(tracker, "discord_timeout",
		config.LoadEnvDuration("DISCORD_TIMEOUT", cfg.Discord.Timeout, config.ValidatePositiveDuration))
	if cfg.Discord.Enabled {
		if err := ValidateDiscordWebhook(cfg.Discord.WebhookURL); err != nil {
			logger.Warn("invalid Discord webhook, disabling Discord publishing", slog.String("reason", err.Error()))
			cfg.Discord.Enabled = false
		}
	}

	if cfg.HealthPort == cfg.MetricsPort {
		logger.Warn("health and metrics ports collide, using defaults",
			slog.Int("port", cfg.HealthPort))
		defaults := DefaultConfig()
		cfg.HealthPort, cfg.MetricsPort = defaults.HealthPort, defaults.MetricsPort
	}

	if fields := tracker.FallbackFields(); len(fields) > 0 {
		logger.Info("worker configuration loaded with defaults for rejected values",
			slog.Any("fields", fields))
	}
	if metrics != nil {
		tracker.Report(metrics.ConfigMetrics)
	}
	return &cfg, nil
}

// ValidateSlackWebhook accepts https://hooks.slack.com/services/... URLs.
func ValidateSlackWebhook(raw string) error {
	return validateWebhook(raw, "hooks.slack.com", "/services/")
}

// ValidateDiscordWebhook accepts https://discord.com/api/webhooks/... URLs.
func ValidateDiscordWebhook(raw string) error {
	return validateWebhook(raw, "discord.com", "/api/webhooks/")
}

// validateWebhook never echoes raw: the URL path is the webhook secret.
func validateWebhook(raw, host, pathPrefix string) error {
	if raw == "" {
		return fmt.Errorf("webhook URL is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("webhook URL is malformed")
	}
	if u.Scheme != "https" {
		return fmt.Errorf("webhook URL must use https")
	}
	if u.Host != host {
		return fmt.Errorf("webhook host must be %s, got %s", host, u.Host)
	}
	if !strings.HasPrefix(u.Path, pathPrefix) || len(u.Path) == len(pathPrefix) {
		return fmt.Errorf("webhook path must start with %s", pathPrefix)
	}
	return nil
}
