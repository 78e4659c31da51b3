package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/frontdesk/visitor-dashboard/internal/auth"
)

func newCreateAdminCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "create-admin <username>",
		Short: "Create an admin user",
		Long:  "Creates an admin account that can log in to the dashboard. Prompts for a password unless --password is given.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreateAdmin(args[0], password)
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "password for the new admin (prompted if omitted)")

	return cmd
}

func runCreateAdmin(username, password string) error {
	if password == "" {
		fmt.Print("Password: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		password = strings.TrimSpace(line)
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(database)

	user, err := auth.NewUserStore(database).Create(username, password)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Admin user %q created (id %d).\n", user.Username, user.ID)
	return nil
}
