package cmd

import (
	"fmt"

	"github.com/Togather-Foundation/clubhub/internal/storage"
	"github.com/Togather-Foundation/clubhub/internal/storage/postgres"
	"github.com/spf13/cobra"
)

func newMigrateCommand(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the PostgreSQL schema",
		Long: `Apply or roll back the embedded schema migrations.

Migrations only apply to the postgres storage driver; DATABASE_URL must be set.`,
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := databaseURL(global)
			if err != nil {
				return err
			}
			if err := postgres.MigrateDown(url, steps); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rolled back %d migration(s)\n", steps)
			return nil
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				url, err := databaseURL(global)
				if err != nil {
					return err
				}
				if err := postgres.MigrateUp(url); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			},
		},
		down,
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				url, err := databaseURL(global)
				if err != nil {
					return err
				}
				version, dirty, err := postgres.MigrationVersion(url)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "version: %d\n", version)
				if dirty {
					fmt.Fprintln(out, "state:   dirty")
				}
				return nil
			},
		},
	)
	return cmd
}

func databaseURL(global *globalOptions) (string, error) {
	cfg, err := loadConfig(global)
	if err != nil {
		return "", fmt.Errorf("config error: %w", err)
	}
	if cfg.Storage.Driver != storage.DriverPostgres {
		return "", fmt.Errorf("migrations require STORAGE_DRIVER=postgres (got %q)", cfg.Storage.Driver)
	}
	return cfg.Storage.DatabaseURL, nil
}
