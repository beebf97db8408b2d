// Package app assembles the digest pipeline from configuration. The worker
// and the command-line tool share it so both run the same stages.
package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"funding-digest/internal/config"
	"funding-digest/internal/domain/entity"
	"funding-digest/internal/infra/collector"
	"funding-digest/internal/infra/llm"
	"funding-digest/internal/infra/rules"
	"funding-digest/internal/usecase/pipeline"
)

// Options configures Build.
type Options struct {
	Pipeline config.PipelineConfig
	Model    config.ModelConfig

	// Sources defaults to collector.DefaultSources.
	Sources []collector.Source

	// FeedTimeout bounds one feed download. Ignored when HTTPClient is set.
	FeedTimeout time.Duration
	HTTPClient  *http.Client
}

// App is an assembled pipeline. Close releases the model client.
type App struct {
	Service  *pipeline.Service
	Provider string

	strategy *llm.Strategy
}

// Build wires collectors, rules, the optional model strategy and the
// pipeline service.
func Build(ctx context.Context, opts Options, logger *slog.Logger) (*App, error) {
	if err := opts.Pipeline.Validate(); err != nil {
		return nil, err
	}

	strategy, err := llm.NewStrategy(ctx, opts.Model)
	if err != nil {
		return nil, fmt.Errorf("build model strategy: %w", err)
	}

	matcher := rules.NewMatcher(opts.Pipeline.Keywords)

	client := opts.HTTPClient
	if client == nil {
		client = NewHTTPClient(opts.FeedTimeout)
	}
	sources := opts.Sources
	if len(sources) == 0 {
		sources = collector.DefaultSources()
	}
	feeds := collector.NewAggregator(opts.Pipeline.Parallelism, collector.NewRSSFeeds(sources, client, matcher)...)

	classifiers := pipeline.Strategies[pipeline.Classifier]{Fallback: rules.NewClassifier()}
	extractors := pipeline.Strategies[pipeline.Extractor]{Fallback: rules.NewExtractor()}
	// Assigning a nil *llm.Classifier would leave a non-nil interface behind.
	if strategy.Enabled() {
		classifiers.Model = strategy.Classifier
		extractors.Model = strategy.Extractor
	}

	svc := pipeline.NewService(
		feeds,
		pipeline.NewFilter(opts.Pipeline, matcher),
		classifiers,
		extractors,
		rules.NewEnricher(matcher),
		opts.Pipeline,
	)

	logger.Info("pipeline assembled",
		slog.String("provider", strategy.Provider),
		slog.String("model", opts.Model.ModelName()),
		slog.Bool("model_enabled", strategy.Enabled()),
		slog.Int("sources", len(sources)),
		slog.Int("max_age_days", opts.Pipeline.MaxAgeDays),
		slog.Int("max_events", opts.Pipeline.MaxEvents))

	return &App{Service: svc, Provider: strategy.Provider, strategy: strategy}, nil
}

// Run executes one pipeline run.
func (a *App) Run(ctx context.Context, now time.Time) (*entity.Digest, error) {
	return a.Service.Run(ctx, now)
}

// Close releases the model client.
func (a *App) Close() error {
	return a.strategy.Close()
}

// NewHTTPClient returns the feed download client. TLS 1.2+ is enforced.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
}
