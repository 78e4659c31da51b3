package cli

import (
	"github.com/spf13/cobra"

	"github.com/frontdesk/visitor-dashboard/internal/client"
)

func newExportCmd() *cobra.Command {
	var opts client.ListOptions

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export visitor records",
		Long:  "Exports every visitor record matching the filters. Text format writes CSV to stdout; use --format json for raw records.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts)
		},
	}

	cmd.Flags().StringVar(&opts.Type, "type", "", "filter by visitor type")
	cmd.Flags().StringVar(&opts.Host, "host", "", "filter by host name")
	cmd.Flags().StringVar(&opts.Search, "search", "", "free-text search across name, contact, host and purpose")
	cmd.Flags().StringVar(&opts.StartDate, "from", "", "start of date range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.EndDate, "to", "", "end of date range (YYYY-MM-DD)")

	return cmd
}

func runExport(opts client.ListOptions) error {
	res, err := newAPIClient().Export(opts)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(res)
	}

	return printVisitorCSV(res.Visitors)
}
