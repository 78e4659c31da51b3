package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/frontdesk/visitor-dashboard/internal/client"
)

func newLoginCmd() *cobra.Command {
	var server string
	var password string

	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Log in and store an access token",
		Long:  "Authenticates against the dashboard API and stores the returned token for later commands.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(args[0], password, server)
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "server URL (default: from config or http://localhost:5000)")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted if omitted)")

	return cmd
}

func runLogin(username, password, serverFlag string) error {
	serverURL := serverFlag
	if serverURL == "" {
		serverURL = getServerURL()
	}

	if password == "" {
		fmt.Print("Password: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		password = strings.TrimSpace(line)
	}

	token, err := client.New(serverURL, "").Login(username, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	// Load existing config to preserve other fields
	cfg, err := loadConfig()
	if err != nil {
		cfg = CLIConfig{}
	}

	cfg.Token = token
	if serverFlag != "" {
		cfg.ServerURL = serverFlag
	}

	if err := saveConfig(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println("✓ Token saved. You're logged in!")
	return nil
}
