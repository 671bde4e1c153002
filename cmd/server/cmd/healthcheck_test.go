package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPerformHealthCheck(t *testing.T) {
	tests := []struct {
		name           string
		statusCode     int
		responseBody   any
		expectHealthy  bool
		expectError    bool
		expectedStatus string
	}{
		{
			name:       "ready server",
			statusCode: http.StatusOK,
			responseBody: HealthResponse{
				Status: "ready",
				Checks: map[string]CheckResult{"storage": {Status: "pass"}},
			},
			expectHealthy:  true,
			expectedStatus: "ready",
		},
		{
			name:       "storage down",
			statusCode: http.StatusServiceUnavailable,
			responseBody: HealthResponse{
				Status: "unavailable",
				Checks: map[string]CheckResult{"storage": {Status: "fail", Message: "db down"}},
			},
			expectedStatus: "unavailable",
		},
		{
			name:           "ready body with bad status code",
			statusCode:     http.StatusInternalServerError,
			responseBody:   HealthResponse{Status: "ready"},
			expectedStatus: "ready",
		},
		{
			name:         "invalid response",
			statusCode:   http.StatusOK,
			responseBody: "not json",
			expectError:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				if str, ok := tt.responseBody.(string); ok {
					fmt.Fprint(w, str)
					return
				}
				_ = json.NewEncoder(w).Encode(tt.responseBody)
			}))
			defer server.Close()

			result := performHealthCheck(context.Background(), server.URL, 5*time.Second)

			assert.Equal(t, tt.expectHealthy, result.IsHealthy)
			assert.Equal(t, server.URL, result.URL)
			if tt.expectError {
				assert.NotEmpty(t, result.Error)
			} else {
				assert.Equal(t, tt.expectedStatus, result.Status)
			}
			assert.GreaterOrEqual(t, result.LatencyMs, int64(0))
		})
	}
}

func TestPerformHealthCheckTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	result := performHealthCheck(context.Background(), server.URL, 100*time.Millisecond)

	assert.NotEmpty(t, result.Error)
	assert.False(t, result.IsHealthy)
}

func TestPerformHealthCheckUnreachable(t *testing.T) {
	result := performHealthCheck(context.Background(), "http://127.0.0.1:1/readyz", time.Second)

	assert.False(t, result.IsHealthy)
	assert.Contains(t, result.Error, "request failed")
}

func TestDefaultHealthcheckURL(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	assert.Equal(t, "http://localhost:9000/readyz", defaultHealthcheckURL())

	t.Setenv("SERVER_PORT", "")
	assert.Equal(t, "http://localhost:8080/readyz", defaultHealthcheckURL())
}
