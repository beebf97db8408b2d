package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"funding-digest/internal/observability/logging"
)

type rootOptions struct {
	quiet bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Swedish startup funding digest",
		Long: `digest collects Swedish startup news, keeps the articles that report a
funding round, names the funded companies and prints one line per funding
event with a company search link.

Example usage:
  digest run                         # Run once with the configured model
  digest run --provider none         # Rule-based strategies only
  digest run --report-dir reports    # Also write the HTML report
  digest link "Klarna AB"            # Print a company search link
  digest sources                     # List the default feeds`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress log output")

	cmd.AddCommand(
		newRunCmd(opts),
		newLinkCmd(),
		newSourcesCmd(),
	)
	return cmd
}

// logger writes human-readable logs to stderr so stdout carries only the digest.
func (o *rootOptions) logger(cmd *cobra.Command) *slog.Logger {
	if o.quiet {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return logging.NewTextLogger(cmd.ErrOrStderr())
}
