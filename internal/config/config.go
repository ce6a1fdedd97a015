// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the engine configuration that can be loaded from a JSON
// file. All fields are optional; missing values use defaults or must be
// provided via CLI flags.
type Config struct {
	// External endpoints
	DatabaseURL        string `json:"database_url,omitempty"`         // PostgreSQL connection URL
	KeywordProviderURL string `json:"keyword_provider_url,omitempty"` // Keyword list endpoint

	// Scoring
	ScoringProfile string `json:"scoring_profile,omitempty"` // Named weight profile
	RulesPath      string `json:"rules_path,omitempty"`      // Category rule file (optional; built-in rules otherwise)

	// Selection
	TargetSize    int `json:"target_size,omitempty"`    // Jobs selected per user
	CategoryCap   int `json:"category_cap,omitempty"`   // Max selected jobs sharing a needs category
	OccupationCap int `json:"occupation_cap,omitempty"` // Max selected jobs sharing an occupation
	RegionCap     int `json:"region_cap,omitempty"`     // Max selected jobs sharing a region
	CandidatePool int `json:"candidate_pool,omitempty"` // Top-N by base score personalized per user

	// Batch behavior
	Concurrency    int  `json:"concurrency,omitempty"`     // Parallel user chunks
	TimeboxSeconds int  `json:"timebox_seconds,omitempty"` // Wall-clock budget for a full run
	Verbose        bool `json:"verbose,omitempty"`         // Print detailed debug information
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
	if c.TargetSize < 0 {
		return fmt.Errorf("config error: 'target_size' must be non-negative")
	}
	if c.CategoryCap < 0 || c.OccupationCap < 0 || c.RegionCap < 0 {
		return fmt.Errorf("config error: selection caps must be non-negative")
	}
	if c.CandidatePool < 0 {
		return fmt.Errorf("config error: 'candidate_pool' must be non-negative")
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("config error: 'concurrency' must be non-negative")
	}
	if c.TimeboxSeconds < 0 {
		return fmt.Errorf("config error: 'timebox_seconds' must be non-negative")
	}

	if c.RulesPath != "" {
		if _, err := os.Stat(c.RulesPath); os.IsNotExist(err) {
			return fmt.Errorf("config error: rules file not found: %s", c.RulesPath)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with unset fields filled from
// defaults. This is used to apply config file values as defaults for CLI
// flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.KeywordProviderURL == "" {
		result.KeywordProviderURL = defaults.KeywordProviderURL
	}
	if result.ScoringProfile == "" {
		result.ScoringProfile = defaults.ScoringProfile
	}
	if result.RulesPath == "" {
		result.RulesPath = defaults.RulesPath
	}

	// Int fields: use default if zero
	if result.TargetSize == 0 {
		result.TargetSize = defaults.TargetSize
	}
	if result.CategoryCap == 0 {
		result.CategoryCap = defaults.CategoryCap
	}
	if result.OccupationCap == 0 {
		result.OccupationCap = defaults.OccupationCap
	}
	if result.RegionCap == 0 {
		result.RegionCap = defaults.RegionCap
	}
	if result.CandidatePool == 0 {
		result.CandidatePool = defaults.CandidatePool
	}
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}
	if result.TimeboxSeconds == 0 {
		result.TimeboxSeconds = defaults.TimeboxSeconds
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// Defaults returns the standard engine configuration.
func Defaults() Config {
	return Config{
		ScoringProfile: "balanced",
		TargetSize:     40,
		CategoryCap:    10,
		OccupationCap:  15,
		RegionCap:      20,
		CandidatePool:  1000,
		Concurrency:    8,
		TimeboxSeconds: 3600,
	}
}
