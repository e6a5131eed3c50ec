package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-harvester/internal/config"
	"github.com/jonathan/job-harvester/internal/harvest"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run one harvest cycle end-to-end",
	Long: `Fetches one search result page, extracts the job listings, normalizes them into canonical records and persists them to PostgreSQL.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runHarvestCmd,
}

var (
	runConfigPath  string
	runQuery       string
	runPage        int
	runPerPage     int
	runAPIKey      string
	runUseLLM      bool
	runUseBrowser  bool
	runCookieFile  string
	runAuditDir    string
	runVerbose     bool
	runDatabaseURL string
)

func init() {
	// Config file flag (processed first)
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	runCommand.Flags().StringVarP(&runQuery, "query", "q", "", "Search query for job listings")
	runCommand.Flags().IntVar(&runPage, "page", 0, "Search result page to harvest")
	runCommand.Flags().IntVar(&runPerPage, "per-page", 0, "Listings per page")
	runCommand.Flags().BoolVar(&runUseLLM, "use-llm", false, "Extract listings with the LLM instead of selectors")
	runCommand.Flags().BoolVar(&runUseBrowser, "use-browser", false, "Render the search page in headless Chrome")
	runCommand.Flags().StringVar(&runCookieFile, "cookies", "", "Path to a persisted login session (see the login command)")
	runCommand.Flags().StringVar(&runAuditDir, "audit-dir", "", "Directory for raw batch audit dumps")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed debug information")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	runCommand.Flags().StringVar(&runAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")

	// Database URL for listing persistence
	runCommand.Flags().StringVar(&runDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(runCommand)
}

// resolveConfig merges config file values, CLI overrides, defaults and
// environment fallbacks into the effective configuration. Shared by the
// run and serve commands.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	// Step 1: Load config file if provided
	var cfg config.Config
	if runConfigPath != "" {
		loadedCfg, err := config.LoadConfig(runConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}

		// Validate loaded config
		if err := loadedCfg.Validate(); err != nil {
			return cfg, err
		}

		cfg = *loadedCfg
		if runVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", runConfigPath)
		}
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("query") {
		cfg.Query = runQuery
	}
	if cmd.Flags().Changed("page") {
		cfg.Page = runPage
	}
	if cmd.Flags().Changed("per-page") {
		cfg.PerPage = runPerPage
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = runAPIKey
	}
	if cmd.Flags().Changed("use-llm") {
		cfg.UseLLM = runUseLLM
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = runUseBrowser
	}
	if cmd.Flags().Changed("cookies") {
		cfg.CookieFile = runCookieFile
	}
	if cmd.Flags().Changed("audit-dir") {
		cfg.AuditDir = runAuditDir
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = runVerbose
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = runDatabaseURL
	}

	// Step 3: Apply defaults for unset values
	defaults := config.Config{
		Page:     1,
		PerPage:  50,
		AuditDir: "logs",
	}
	cfg = cfg.MergeWithDefaults(defaults)

	// Step 4: Validate required fields
	if cfg.Query == "" {
		return cfg, fmt.Errorf("--query is required (via flag or config)")
	}

	// Step 5: API key handling (only needed for the LLM path)
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.UseLLM && cfg.APIKey == "" {
		return cfg, fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required with --use-llm")
	}

	// Step 6: Database URL handling
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}

	return cfg, nil
}

func harvestOptions(cfg config.Config) harvest.RunOptions {
	return harvest.RunOptions{
		Query:       cfg.Query,
		Page:        cfg.Page,
		PerPage:     cfg.PerPage,
		DatabaseURL: cfg.DatabaseURL,
		APIKey:      cfg.APIKey,
		UseLLM:      cfg.UseLLM,
		UseBrowser:  cfg.UseBrowser,
		CookieFile:  cfg.CookieFile,
		AuditDir:    cfg.AuditDir,
		Verbose:     cfg.Verbose,
	}
}

func runHarvestCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	summary, err := harvest.Run(context.Background(), harvestOptions(cfg))
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Harvest complete: %d listings received, %d persisted, %d skipped, %d dropped, %d failed\n",
		summary.Received, summary.Persisted, summary.Skipped, summary.Dropped, summary.Failed)

	return nil
}
