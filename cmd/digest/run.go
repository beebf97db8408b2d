package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"funding-digest/internal/app"
	"funding-digest/internal/config"
	"funding-digest/internal/infra/collector"
	"funding-digest/internal/infra/report"
	"funding-digest/internal/observability/logging"
)

type runOptions struct {
	*rootOptions

	provider    string
	maxEvents   int
	reportDir   string
	feeds       []string
	feedTimeout time.Duration
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the digest once and print it",
		Long: `Run collects, filters, classifies, extracts and clusters once, then prints
the digest as plain text. Pipeline and model settings come from the same
environment variables the worker reads; flags override them.

Examples:
  digest run
  digest run --provider openai --max-events 10
  digest run --feed https://example.com/rss --feed https://example.org/atom`,
		Args: cobra.NoArgs,
		RunE: opts.run,
	}

	cmd.Flags().StringVar(&opts.provider, "provider", "", "model provider: claude, openai, gemini or none (default from MODEL_PROVIDER)")
	cmd.Flags().IntVar(&opts.maxEvents, "max-events", 0, "cap the digest at N events, 0 for no cap (default from DIGEST_MAX_EVENTS)")
	cmd.Flags().StringVar(&opts.reportDir, "report-dir", "", "also write the HTML report into this directory")
	cmd.Flags().StringSliceVar(&opts.feeds, "feed", nil, "collect these feed URLs instead of the default sources")
	cmd.Flags().DurationVar(&opts.feedTimeout, "feed-timeout", 30*time.Second, "timeout of one feed download")
	return cmd
}

func (o *runOptions) run(cmd *cobra.Command, _ []string) error {
	logger := o.logger(cmd)
	ctx := logging.WithLogger(cmd.Context(), logger)

	pipelineConfig, err := config.LoadPipelineConfig(logger, nil)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("max-events") {
		if o.maxEvents < 0 {
			return fmt.Errorf("--max-events must not be negative")
		}
		pipelineConfig.MaxEvents = o.maxEvents
	}

	modelConfig := config.LoadModelConfig(logger, nil)
	if o.provider != "" {
		modelConfig.Provider = config.Provider(o.provider)
		if modelConfig.Provider != config.ProviderNone && modelConfig.APIKey() == "" {
			return fmt.Errorf("provider %s selected but its API key is not set", o.provider)
		}
	}

	sources, err := feedSources(o.feeds)
	if err != nil {
		return err
	}

	digestApp, err := app.Build(ctx, app.Options{
		Pipeline:    pipelineConfig,
		Model:       modelConfig,
		Sources:     sources,
		FeedTimeout: o.feedTimeout,
	}, logger)
	if err != nil {
		return err
	}
	defer func() { _ = digestApp.Close() }()

	digest, err := digestApp.Run(ctx, time.Now())
	if err != nil {
		return err
	}

	renderer, err := report.NewRenderer()
	if err != nil {
		return err
	}
	if o.reportDir != "" {
		publisher := report.NewFilePublisher(o.reportDir, renderer)
		if err := publisher.Publish(ctx, digest); err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "report written to "+publisher.Path(digest))
	}
	return renderer.RenderText(cmd.OutOrStdout(), digest)
}

// feedSources turns --feed URLs into collector sources.
func feedSources(feeds []string) ([]collector.Source, error) {
	sources := make([]collector.Source, 0, len(feeds))
	for _, raw := range feeds {
		source, err := collector.FeedSource(raw)
		if err != nil {
			return nil, err
		}
		sources = append(sources, source)
	}
	return sources, nil
}
