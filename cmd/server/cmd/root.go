package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	logLevel   string
	logFormat  string
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}
	serve := newServeCommand(opts)

	root := &cobra.Command{
		Use:   "server",
		Short: "ClubHub server - campus club and event directory",
		Long: `ClubHub server exposes the campus club directory as a JSON HTTP API.

Students browse clubs, follow them, read announcements and register for
events. Club admins manage their own club's events, registrations and
announcements; super admins manage every club and create admin accounts.`,
		SilenceUsage: true,
		// Without a subcommand the server starts.
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve.RunE(cmd, args)
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML config file path (optional, env vars override it)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error) (default: info)")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "log format (json, console) (default: json)")

	// serve's own flags also apply when the root command runs it.
	root.Flags().AddFlagSet(serve.Flags())

	root.AddCommand(
		serve,
		newMigrateCommand(opts),
		newCreateAdminCommand(opts),
		newMCPCommand(opts),
		newHealthcheckCommand(),
		newVersionCommand(),
	)
	return root
}
