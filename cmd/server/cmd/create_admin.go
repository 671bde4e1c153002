package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Togather-Foundation/clubhub/internal/config"
	"github.com/Togather-Foundation/clubhub/internal/domain/admins"
	"github.com/Togather-Foundation/clubhub/internal/domain/clubs"
	"github.com/Togather-Foundation/clubhub/internal/storage"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const (
	defaultAdminEmail    = "admin@cheesecakeclub.com"
	defaultAdminPassword = "admin123"
	defaultAdminName     = "Super Admin"
)

type createAdminOptions struct {
	email    string
	password string
	name     string
	clubID   string
	super    bool
}

func newCreateAdminCommand(global *globalOptions) *cobra.Command {
	opts := &createAdminOptions{}
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account",
		Long: `Create an admin account directly in the configured store.

Without flags this creates the default super admin. Pass --club to create a
club admin scoped to one club instead.

Examples:
  # Default super admin
  server create-admin

  # Club admin for a single club
  server create-admin --email lead@campus.edu --password 's3cret-pass' --name "Chess Lead" --club 01J...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(global)
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			logger := config.NewLogger(cfg.Logging)

			// create-admin never loads the demo directory.
			cfg.Storage.Seed = false
			backend, err := openStore(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer backend.Close()

			return createAdmin(cmd.Context(), backend.store, opts, cmd.OutOrStdout(), logger)
		},
	}

	cmd.Flags().StringVar(&opts.email, "email", defaultAdminEmail, "admin email address")
	cmd.Flags().StringVar(&opts.password, "password", defaultAdminPassword, "admin password")
	cmd.Flags().StringVar(&opts.name, "name", defaultAdminName, "display name")
	cmd.Flags().StringVar(&opts.clubID, "club", "", "club ID for a club admin (omit for a super admin)")
	cmd.Flags().BoolVar(&opts.super, "super", true, "grant super admin rights (ignored when --club is set)")
	return cmd
}

// createAdmin skips creation when the email is already registered.
func createAdmin(ctx context.Context, store storage.Repository, opts *createAdminOptions, out io.Writer, logger zerolog.Logger) error {
	clubService := clubs.NewService(store.Clubs())
	svc := admins.NewService(store.Admins(), clubService, logger)

	params := admins.NewAdmin{
		Email:    opts.email,
		Password: opts.password,
		Name:     opts.name,
		IsSuper:  opts.super,
	}
	if opts.clubID != "" {
		params.ClubID = &opts.clubID
		params.IsSuper = false
	}

	admin, err := svc.Create(ctx, params)
	if errors.Is(err, admins.ErrEmailTaken) {
		fmt.Fprintf(out, "admin %s already exists\n", opts.email)
		return nil
	}
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	role := "super admin"
	if !admin.IsSuper {
		role = "club admin"
	}
	fmt.Fprintf(out, "created %s %s (%s)\n", role, admin.Email, admin.ID)
	return nil
}
