package cli

import (
	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show visitor statistics",
		Long:  "Shows total, today, weekly and monthly visitor counts plus type and host breakdowns.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats()
		},
	}
}

func runStats() error {
	stats, err := newAPIClient().Stats()
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(stats)
	}

	printStats(stats)
	return nil
}
