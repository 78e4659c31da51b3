package cli

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check connection and auth status",
		Long:  "Tests the connection to the server and checks if the stored token is still accepted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus()
		},
	}
}

func runStatus() error {
	serverURL := getServerURL()
	token := getToken()

	fmt.Printf("Server: %s\n", serverURL)

	if token == "" {
		fmt.Println("Token:  not configured")
		fmt.Println("\nRun 'vd login <username>' to authenticate.")
		return nil
	}

	prefix := token
	if len(prefix) > 12 {
		prefix = prefix[:12]
	}
	fmt.Printf("Token:  %s…\n", prefix)

	// Test the connection with a simple API request
	httpClient := &http.Client{Timeout: 5 * time.Second}
	req, err := http.NewRequest("GET", serverURL+"/api/visitors", nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := httpClient.Do(req)
	if err != nil {
		fmt.Printf("Status: ✗ cannot reach server (%v)\n", err)
		return nil
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			fmt.Printf("warning: closing response body: %v\n", cerr)
		}
	}()

	switch resp.StatusCode {
	case http.StatusOK:
		fmt.Println("Status: ✓ connected and authenticated")
	case http.StatusUnauthorized:
		fmt.Println("Status: ✗ token rejected")
		fmt.Println("\nRun 'vd login <username>' to re-authenticate.")
	default:
		fmt.Printf("Status: ✗ unexpected response (%d)\n", resp.StatusCode)
	}

	return nil
}
