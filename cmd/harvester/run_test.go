package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-harvester/internal/config"
)

func TestRunCommand_FlagsRegistered(t *testing.T) {
	for _, name := range []string{
		"config", "query", "page", "per-page", "use-llm", "use-browser",
		"cookies", "audit-dir", "verbose", "api-key", "db-url",
	} {
		assert.NotNil(t, runCommand.Flags().Lookup(name), "flag %q should be registered", name)
	}
}

func TestServeCommand_SharesRunFlags(t *testing.T) {
	assert.NotNil(t, serveCmd.Flags().Lookup("interval"))
	assert.NotNil(t, serveCmd.Flags().Lookup("query"))
	assert.NotNil(t, serveCmd.Flags().Lookup("db-url"))
}

func TestRootCommand_Subcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}

	for _, want := range []string{"run", "serve", "login", "jobs"} {
		assert.True(t, names[want], "subcommand %q should be registered", want)
	}
}

// The subtests run in order and build on each other's flag state. Flag
// Changed markers on runCommand persist within the process, so this stays
// a single test function.
func TestResolveConfig(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("DATABASE_URL", "")

	t.Run("query is required", func(t *testing.T) {
		_, err := resolveConfig(runCommand)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--query is required")
	})

	t.Run("database url is required", func(t *testing.T) {
		require.NoError(t, runCommand.Flags().Set("query", "golang"))

		_, err := resolveConfig(runCommand)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DATABASE_URL")
	})

	t.Run("env fallback and defaults", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/harvester_test")

		cfg, err := resolveConfig(runCommand)
		require.NoError(t, err)

		assert.Equal(t, "golang", cfg.Query)
		assert.Equal(t, 1, cfg.Page)
		assert.Equal(t, 50, cfg.PerPage)
		assert.Equal(t, "logs", cfg.AuditDir)
		assert.Equal(t, "postgres://localhost/harvester_test", cfg.DatabaseURL)
	})

	t.Run("llm path requires api key", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/harvester_test")
		require.NoError(t, runCommand.Flags().Set("use-llm", "true"))

		_, err := resolveConfig(runCommand)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "GEMINI_API_KEY")
	})

	t.Run("api key flag satisfies llm path", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/harvester_test")
		require.NoError(t, runCommand.Flags().Set("api-key", "test-key"))

		cfg, err := resolveConfig(runCommand)
		require.NoError(t, err)
		assert.Equal(t, "test-key", cfg.APIKey)
		assert.True(t, cfg.UseLLM)
	})

	t.Run("flag overrides beat defaults", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/harvester_test")
		require.NoError(t, runCommand.Flags().Set("page", "3"))
		require.NoError(t, runCommand.Flags().Set("per-page", "10"))

		cfg, err := resolveConfig(runCommand)
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.Page)
		assert.Equal(t, 10, cfg.PerPage)
	})
}

func TestHarvestOptions_Mapping(t *testing.T) {
	cfg := config.Config{
		Query:       "data entry",
		Page:        2,
		PerPage:     25,
		APIKey:      "key",
		UseLLM:      true,
		UseBrowser:  true,
		CookieFile:  "cookies.json",
		AuditDir:    "audit",
		Verbose:     true,
		DatabaseURL: "postgres://localhost/db",
	}

	opts := harvestOptions(cfg)

	assert.Equal(t, cfg.Query, opts.Query)
	assert.Equal(t, cfg.Page, opts.Page)
	assert.Equal(t, cfg.PerPage, opts.PerPage)
	assert.Equal(t, cfg.APIKey, opts.APIKey)
	assert.Equal(t, cfg.UseLLM, opts.UseLLM)
	assert.Equal(t, cfg.UseBrowser, opts.UseBrowser)
	assert.Equal(t, cfg.CookieFile, opts.CookieFile)
	assert.Equal(t, cfg.AuditDir, opts.AuditDir)
	assert.Equal(t, cfg.Verbose, opts.Verbose)
	assert.Equal(t, cfg.DatabaseURL, opts.DatabaseURL)
}
