package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/frontdesk/visitor-dashboard/internal/logging"
	"github.com/frontdesk/visitor-dashboard/internal/web"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard API server",
		Long:  "Start the HTTP server that serves the visitor dashboard API.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", defaultPort(), "port to listen on")

	return cmd
}

// defaultPort reads VD_PORT, falling back to 5000.
func defaultPort() int {
	if v := os.Getenv("VD_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			return p
		}
	}
	return 5000
}

func runServe(port int) error {
	cfg := web.ConfigFromEnv()
	logging.Setup(cfg.DevMode)

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	srv, err := web.NewServer(database, cfg)
	if err != nil {
		return fmt.Errorf("starting server: %w", err)
	}

	slog.Info("server listening", "port", port)
	return srv.ListenAndServe(port)
}
