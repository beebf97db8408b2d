package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"funding-digest/internal/domain/entity"
	"funding-digest/internal/usecase/pipeline"
)

func newLinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "link <company name>",
		Short: "Print the company search link for a name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := entity.NormalizeCompanyName(strings.Join(args, " "))
			if name == "" {
				return fmt.Errorf("company name has no letters or digits")
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), pipeline.SearchLink(name))
			return err
		},
	}
}
