package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Togather-Foundation/clubhub/internal/config"
	"github.com/Togather-Foundation/clubhub/internal/domain/announcements"
	"github.com/Togather-Foundation/clubhub/internal/domain/clubs"
	"github.com/Togather-Foundation/clubhub/internal/domain/events"
	"github.com/Togather-Foundation/clubhub/internal/mcp"
	"github.com/spf13/cobra"
)

type mcpOptions struct {
	transport string
	host      string
	port      int
}

func newMCPCommand(global *globalOptions) *cobra.Command {
	opts := &mcpOptions{}
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run the read-only MCP server",
		Long: `Serve the club directory to MCP clients over stdio or Streamable HTTP.

Tools: list_clubs, get_club, list_events, get_event, list_announcements.
Logs always go to stderr so stdio frames stay clean.

Examples:
  # For a desktop assistant
  server mcp

  # Standalone HTTP endpoint
  server mcp --transport http --port 8090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMCP(cmd.Context(), global, opts)
		},
	}

	cmd.Flags().StringVar(&opts.transport, "transport", "stdio", "transport (stdio or http)")
	cmd.Flags().StringVar(&opts.host, "host", "127.0.0.1", "listen host for the http transport")
	cmd.Flags().IntVar(&opts.port, "port", 8090, "listen port for the http transport")
	return cmd
}

func runMCP(ctx context.Context, global *globalOptions, opts *mcpOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	transport, err := mcp.ParseTransport(opts.transport)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(global)
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	logger := config.NewStderrLogger(cfg.Logging)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	clubService := clubs.NewService(backend.store.Clubs())
	server := mcp.NewServer(mcp.Config{Version: Version}, mcp.Services{
		Clubs:         clubService,
		Events:        events.NewService(backend.store.Events(), clubService),
		Announcements: announcements.NewService(backend.store.Announcements(), clubService),
	})

	return mcp.Serve(ctx, server.MCPServer(), mcp.TransportConfig{
		Type: transport,
		Host: opts.host,
		Port: opts.port,
	}, logger)
}
