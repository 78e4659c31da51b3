package cli

import (
	"github.com/spf13/cobra"

	"github.com/frontdesk/visitor-dashboard/internal/client"
)

func newVisitorsCmd() *cobra.Command {
	var opts client.ListOptions

	cmd := &cobra.Command{
		Use:   "visitors",
		Short: "List visitor records",
		Long:  "Lists visitor records from the dashboard API, most recent first, optionally filtered.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVisitors(opts)
		},
	}

	cmd.Flags().IntVar(&opts.Page, "page", 0, "page number")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "page size")
	cmd.Flags().StringVar(&opts.Type, "type", "", "filter by visitor type")
	cmd.Flags().StringVar(&opts.Host, "host", "", "filter by host name")
	cmd.Flags().StringVar(&opts.Search, "search", "", "free-text search across name, contact, host and purpose")
	cmd.Flags().StringVar(&opts.StartDate, "from", "", "start of date range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.EndDate, "to", "", "end of date range (YYYY-MM-DD)")

	return cmd
}

func runVisitors(opts client.ListOptions) error {
	res, err := newAPIClient().ListVisitors(opts)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(res)
	}

	return printVisitorTable(res)
}
