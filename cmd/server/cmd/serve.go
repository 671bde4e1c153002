package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Togather-Foundation/clubhub/internal/api"
	"github.com/Togather-Foundation/clubhub/internal/config"
	"github.com/Togather-Foundation/clubhub/internal/domain/admins"
	"github.com/Togather-Foundation/clubhub/internal/email"
	"github.com/Togather-Foundation/clubhub/internal/metrics"
	"github.com/Togather-Foundation/clubhub/internal/telemetry"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout   = 10 * time.Second
	dbMetricsInterval = 15 * time.Second
)

type serveOptions struct {
	host string
	port int
}

func newServeCommand(global *globalOptions) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the ClubHub HTTP server",
		Long: `Start the ClubHub HTTP server and begin accepting API requests.

The server will:
- Load configuration from the --config file (optional) and environment variables
- Open the configured storage backend, migrating and seeding it if enabled
- Ensure the bootstrap super admin if ADMIN_EMAIL and ADMIN_PASSWORD are set
- Prune expired sessions in the background
- Handle graceful shutdown on SIGINT/SIGTERM

Examples:
  # Start with default configuration (in-memory storage with demo data)
  server serve

  # Start on a specific host and port
  server serve --host 127.0.0.1 --port 9090

  # Start against PostgreSQL with debug logging
  STORAGE_DRIVER=postgres DATABASE_URL=postgres://... server serve --log-level debug`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), global, opts)
		},
	}

	cmd.Flags().StringVar(&opts.host, "host", "", "server host address (default: 0.0.0.0)")
	cmd.Flags().IntVar(&opts.port, "port", 0, "server port (default: 8080)")
	return cmd
}

func runServer(ctx context.Context, global *globalOptions, opts *serveOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(global)
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if opts.host != "" {
		cfg.Server.Host = opts.host
	}
	if opts.port != 0 {
		cfg.Server.Port = opts.port
	}

	logger := config.NewLogger(cfg.Logging)
	logger.Info().
		Str("version", Version).
		Str("environment", cfg.Environment).
		Str("storage", cfg.Storage.Driver).
		Msg("starting ClubHub server")

	metrics.Init(Version, GitCommit, BuildDate)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.Tracing, Version)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Error().Err(err).Msg("tracing shutdown error")
		}
	}()

	backend, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	notifier, err := email.NewService(cfg.Email, logger)
	if err != nil {
		return fmt.Errorf("email: %w", err)
	}

	srv, err := api.NewServer(api.Dependencies{
		Config:   cfg,
		Logger:   logger,
		Store:    backend.store,
		Notifier: notifier,
		Build:    api.BuildInfo{Version: Version, GitCommit: GitCommit, BuildDate: BuildDate},
	})
	if err != nil {
		return err
	}
	defer srv.Close()

	bootstrapCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	if err := bootstrapAdmin(bootstrapCtx, cfg, srv.Admins, logger); err != nil {
		logger.Error().Err(err).Msg("admin bootstrap failed")
	}
	cancel()

	httpServer := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           srv.Handler,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", httpServer.Addr).Msg("listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return srv.Sessions.RunPruner(gctx, cfg.Session.PruneInterval, logger)
	})
	if backend.pool != nil {
		g.Go(func() error {
			return metrics.NewDBCollector(backend.pool).Run(gctx, dbMetricsInterval)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("server stopped with error")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}

// bootstrapAdmin ensures the configured super admin exists.
func bootstrapAdmin(ctx context.Context, cfg config.Config, svc *admins.Service, logger zerolog.Logger) error {
	bootstrap := cfg.AdminBootstrap
	if !bootstrap.Enabled() {
		logger.Debug().Msg("admin bootstrap not configured; skipping")
		return nil
	}

	created, err := svc.EnsureAdmin(ctx, admins.NewAdmin{
		Email:    bootstrap.Email,
		Password: bootstrap.Password,
		Name:     bootstrap.Name,
		IsSuper:  true,
	})
	if err != nil {
		return fmt.Errorf("ensure bootstrap admin: %w", err)
	}
	if !created {
		return nil
	}

	// Email is PII; production logs only record that it happened.
	event := logger.Info()
	if !cfg.IsProduction() {
		event = event.Str("email", bootstrap.Email)
	}
	event.Msg("bootstrapped super admin")
	return nil
}
