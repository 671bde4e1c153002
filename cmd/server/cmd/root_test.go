package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name           string
		args           []string
		expectedOutput string
		expectError    bool
	}{
		{
			name:           "help flag",
			args:           []string{"--help"},
			expectedOutput: "ClubHub server",
		},
		{
			name:           "short help flag",
			args:           []string{"-h"},
			expectedOutput: "campus club directory",
		},
		{
			name:           "invalid flag",
			args:           []string{"--invalid-flag"},
			expectedOutput: "unknown flag: --invalid-flag",
			expectError:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newRootCommand()
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			if tt.expectError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Contains(t, buf.String(), tt.expectedOutput)
		})
	}
}

func TestRootCommandPersistentFlags(t *testing.T) {
	cmd := newRootCommand()

	for _, flag := range []string{"config", "log-level", "log-format"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "persistent flag %q", flag)
	}
	for _, flag := range []string{"host", "port"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "root should accept serve flag %q", flag)
	}
}

func TestRootCommandSubcommands(t *testing.T) {
	cmd := newRootCommand()

	registered := map[string]bool{}
	for _, sub := range cmd.Commands() {
		registered[sub.Name()] = true
	}
	for _, name := range []string{"serve", "migrate", "create-admin", "mcp", "healthcheck", "version"} {
		assert.True(t, registered[name], "expected subcommand %q", name)
	}
}

func TestMigrateSubcommands(t *testing.T) {
	cmd := newMigrateCommand(&globalOptions{})

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"up", "down", "version"}, names)
}

func TestMigrateRequiresPostgres(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("STORAGE_DRIVER", "memory")

	cmd := newRootCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"migrate", "up"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_DRIVER=postgres")
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := loadConfig(&globalOptions{logLevel: "debug", logFormat: "console"})
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)

	cfg, err = loadConfig(&globalOptions{})
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
}
