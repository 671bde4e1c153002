package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/Togather-Foundation/clubhub/internal/config"
	"github.com/Togather-Foundation/clubhub/internal/storage"
	"github.com/Togather-Foundation/clubhub/internal/storage/memory"
	"github.com/Togather-Foundation/clubhub/internal/storage/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

func loadConfig(opts *globalOptions) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return config.Config{}, err
	}

	// Flags win over file and environment.
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.logFormat != "" {
		cfg.Logging.Format = opts.logFormat
	}
	return cfg, nil
}

// backend is an opened store. pool is nil for the memory driver.
type backend struct {
	store storage.Repository
	pool  *pgxpool.Pool
}

func (b *backend) Close() {
	if b.store != nil {
		b.store.Close()
	}
}

// openStore connects the configured driver, migrating and seeding when the
// config asks for it.
func openStore(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*backend, error) {
	var b backend

	switch cfg.Storage.Driver {
	case storage.DriverPostgres:
		if cfg.Storage.AutoMigrate {
			if err := postgres.MigrateUp(cfg.Storage.DatabaseURL); err != nil {
				return nil, err
			}
			logger.Info().Msg("database migrations applied")
		}

		pool, err := postgres.Connect(ctx, cfg.Storage.DatabaseURL, cfg.Storage.MaxConnections)
		if err != nil {
			return nil, fmt.Errorf("database connection failed: %w", err)
		}
		store, err := postgres.New(pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		b.store, b.pool = store, pool
	case storage.DriverMemory:
		b.store = memory.New()
		logger.Warn().Msg("using in-memory storage; data is lost on restart")
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	if cfg.Storage.Seed {
		seeder, ok := b.store.(storage.Seeder)
		if ok {
			if err := seeder.Seed(ctx, time.Now()); err != nil {
				b.Close()
				return nil, fmt.Errorf("seed demo data: %w", err)
			}
			logger.Info().Str("driver", cfg.Storage.Driver).Msg("demo directory seeded")
		}
	}
	return &b, nil
}
