package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
)

type TransportType string

const (
	// TransportStdio suits desktop assistants and local CLIs.
	TransportStdio TransportType = "stdio"
	// TransportHTTP is the Streamable HTTP transport.
	TransportHTTP TransportType = "http"
)

const GracefulShutdownTimeout = 30 * time.Second

type TransportConfig struct {
	Type TransportType
	Host string
	Port int
}

// ParseTransport validates a transport name, defaulting to stdio.
func ParseTransport(value string) (TransportType, error) {
	switch TransportType(value) {
	case "", TransportStdio:
		return TransportStdio, nil
	case TransportHTTP:
		return TransportHTTP, nil
	default:
		return "", fmt.Errorf("invalid MCP transport %q (must be stdio or http)", value)
	}
}

// Serve runs the server on the configured transport until ctx is done.
func Serve(ctx context.Context, mcpServer *server.MCPServer, cfg TransportConfig, logger zerolog.Logger) error {
	switch cfg.Type {
	case TransportStdio, "":
		return serveStdio(ctx, mcpServer, logger)
	case TransportHTTP:
		return serveHTTP(ctx, mcpServer, cfg, logger)
	default:
		return fmt.Errorf("unsupported transport type: %s", cfg.Type)
	}
}

func serveStdio(ctx context.Context, mcpServer *server.MCPServer, logger zerolog.Logger) error {
	logger.Info().Str("transport", "stdio").Msg("starting MCP server")

	errCh := make(chan error, 1)
	go func() {
		if err := server.ServeStdio(mcpServer); err != nil {
			errCh <- fmt.Errorf("stdio server error: %w", err)
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info().Msg("context cancelled, stdio server stopping")
		return nil
	case err := <-errCh:
		return err
	}
}

func serveHTTP(ctx context.Context, mcpServer *server.MCPServer, cfg TransportConfig, logger zerolog.Logger) error {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           NewStreamableHTTPHandler(mcpServer),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
		close(errCh)
	}()
	logger.Info().Str("transport", "http").Str("addr", addr).Msg("MCP server listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), GracefulShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("MCP HTTP server shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		return err
	}
}

// NewStreamableHTTPHandler returns a handler for mounting on an existing mux.
func NewStreamableHTTPHandler(mcpServer *server.MCPServer) http.Handler {
	return server.NewStreamableHTTPServer(mcpServer)
}
