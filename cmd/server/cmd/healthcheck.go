package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// HealthResponse mirrors the /readyz body.
type HealthResponse struct {
	Status string                 `json:"status"`
	Checks map[string]CheckResult `json:"checks,omitempty"`
}

type CheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthCheckResult is the outcome of probing one URL.
type HealthCheckResult struct {
	URL       string
	IsHealthy bool
	Status    string
	LatencyMs int64
	Error     string
}

func newHealthcheckCommand() *cobra.Command {
	var (
		url     string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "healthcheck",
		Short: "Check if the server is ready",
		Long: `Performs a readiness check by calling the /readyz endpoint.

This command is used by container HEALTHCHECK probes. It exits with code 0
if the server is ready and non-zero otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if url == "" {
				url = defaultHealthcheckURL()
			}
			result := performHealthCheck(cmd.Context(), url, timeout)
			if !result.IsHealthy {
				msg := result.Error
				if msg == "" {
					msg = "status " + result.Status
				}
				return fmt.Errorf("unhealthy: %s", msg)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%dms)\n", result.URL, result.Status, result.LatencyMs)
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "readiness URL (default: http://localhost:{SERVER_PORT}/readyz)")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "request timeout")
	return cmd
}

func defaultHealthcheckURL() string {
	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}
	return fmt.Sprintf("http://localhost:%s/readyz", port)
}

// performHealthCheck never returns an error; failures are reported in the
// result.
func performHealthCheck(ctx context.Context, url string, timeout time.Duration) HealthCheckResult {
	if ctx == nil {
		ctx = context.Background()
	}
	result := HealthCheckResult{URL: url}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		result.Error = fmt.Sprintf("create request: %v", err)
		return result
	}

	start := time.Now()
	resp, err := http.DefaultClient.Do(req)
	result.LatencyMs = time.Since(start).Milliseconds()
	if err != nil {
		result.Error = fmt.Sprintf("request failed: %v", err)
		return result
	}
	defer func() { _ = resp.Body.Close() }()

	var body HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		result.Error = fmt.Sprintf("decode response: %v", err)
		return result
	}
	result.Status = body.Status
	result.IsHealthy = resp.StatusCode == http.StatusOK && body.Status == "ready"
	return result
}
