package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

var healthcheckURL string

// healthcheckCmd probes a running server; used as the container healthcheck
// where no shell or curl is available.
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check that a local server answers /health",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		url := healthcheckURL
		if url == "" {
			url = fmt.Sprintf("http://127.0.0.1:%d/health", cfg.Server.Port)
		}
		return probeHealth(cmd, url)
	},
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
	healthcheckCmd.Flags().StringVar(&healthcheckURL, "url", "", "health endpoint (default http://127.0.0.1:{server.port}/health)")
}

func probeHealth(cmd *cobra.Command, url string) error {
	req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health endpoint returned status: %d", resp.StatusCode)
	}
	return nil
}
