// Package cli defines the cobra command tree for visitor-dashboard.
package cli

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/frontdesk/visitor-dashboard/internal/client"
	"github.com/frontdesk/visitor-dashboard/internal/db"
)

var (
	flagFormat string
	flagDB     string
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "vd",
		Short:         "Track and review visitor check-ins",
		Long:          "A tool for front-desk visitor tracking. Serve the dashboard API, browse and search visitor records, and review check-in statistics.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")
	root.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path (default: ~/.visitor-dashboard/visitors.db)")

	root.AddCommand(
		newServeCmd(),
		newCreateAdminCmd(),
		newVisitorsCmd(),
		newStatsCmd(),
		newExportCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newStatusCmd(),
		newVersionCmd(),
	)

	return root
}

// openDB opens the SQLite database using the --db flag, the
// VD_DB_PATH env var, or the default path, in that order.
func openDB() (*sql.DB, error) {
	path := flagDB
	if path == "" {
		path = os.Getenv("VD_DB_PATH")
	}
	if path == "" {
		var err error
		path, err = db.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return db.Open(path)
}

// newAPIClient creates an HTTP client for the visitor-dashboard API.
func newAPIClient() *client.Client {
	return client.New(getServerURL(), getToken())
}

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == "json"
}

// closeDB closes the database, logging any error to stderr.
func closeDB(database *sql.DB) {
	if err := database.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: closing database: %v\n", err)
	}
}
