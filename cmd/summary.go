package cmd

import (
	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show remaining balance and per-category remaining",
	RunE: withStore(func(cmd *cobra.Command, _ []string, deps *Dependencies) error {
		printSummary(cmd.OutOrStdout(), deps.Store.Summary())
		return nil
	}),
}
