// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultIntervalSeconds is how often serve mode runs a harvest cycle.
const DefaultIntervalSeconds = 300

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Search
	Query   string `json:"query,omitempty"`    // Search query for job listings
	Page    int    `json:"page,omitempty"`     // Search result page to harvest
	PerPage int    `json:"per_page,omitempty"` // Listings per page

	// Scheduling
	IntervalSeconds int `json:"interval_seconds,omitempty"` // Seconds between serve-mode cycles

	// Behavior
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key (LLM extraction fallback)
	UseLLM      bool   `json:"use_llm,omitempty"`      // Extract listings with the LLM instead of selectors
	UseBrowser  bool   `json:"use_browser,omitempty"`  // Render the search page in headless Chrome
	CookieFile  string `json:"cookie_file,omitempty"`  // Persisted login session for the scraper
	AuditDir    string `json:"audit_dir,omitempty"`    // Directory for raw batch audit dumps
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.Page < 0 {
		return fmt.Errorf("config error: 'page' must be non-negative")
	}
	if c.PerPage < 0 {
		return fmt.Errorf("config error: 'per_page' must be non-negative")
	}
	if c.IntervalSeconds < 0 {
		return fmt.Errorf("config error: 'interval_seconds' must be non-negative")
	}

	if c.UseLLM && c.APIKey == "" {
		return fmt.Errorf("config error: 'use_llm' requires 'api_key'")
	}

	// Validate file paths exist (if specified)
	if c.CookieFile != "" {
		if _, err := os.Stat(c.CookieFile); os.IsNotExist(err) {
			return fmt.Errorf("config error: cookie file not found: %s", c.CookieFile)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Query == "" {
		result.Query = defaults.Query
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.CookieFile == "" {
		result.CookieFile = defaults.CookieFile
	}
	if result.AuditDir == "" {
		result.AuditDir = defaults.AuditDir
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Int fields: use default if zero
	if result.Page == 0 {
		result.Page = defaults.Page
	}
	if result.PerPage == 0 {
		result.PerPage = defaults.PerPage
	}
	if result.IntervalSeconds == 0 {
		if defaults.IntervalSeconds > 0 {
			result.IntervalSeconds = defaults.IntervalSeconds
		} else {
			result.IntervalSeconds = DefaultIntervalSeconds
		}
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
