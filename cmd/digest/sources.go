package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"funding-digest/internal/infra/collector"
)

func newSourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List the default feeds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tLIMIT\tFUNDING ONLY\tURL")
			for _, s := range collector.DefaultSources() {
				fmt.Fprintf(w, "%s\t%d\t%t\t%s\n", s.Name, s.Limit, s.FundingOnly, s.URL)
			}
			return w.Flush()
		},
	}
}
