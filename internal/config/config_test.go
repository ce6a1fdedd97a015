package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `{
		"database_url": "postgres://localhost/match",
		"keyword_provider_url": "https://keywords.example.com/v1/list",
		"scoring_profile": "simple",
		"target_size": 20,
		"concurrency": 4,
		"verbose": true
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/match", cfg.DatabaseURL)
	assert.Equal(t, "simple", cfg.ScoringProfile)
	assert.Equal(t, 20, cfg.TargetSize)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := writeConfigFile(t, `{not json`)
	_, err = LoadConfig(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	assert.NoError(t, cfg.Validate())

	bad := Config{TargetSize: -1}
	assert.Error(t, bad.Validate())

	bad = Config{RegionCap: -5}
	assert.Error(t, bad.Validate())

	bad = Config{RulesPath: filepath.Join(t.TempDir(), "missing_rules.json")}
	assert.Error(t, bad.Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{
		DatabaseURL: "postgres://localhost/match",
		TargetSize:  25,
	}

	merged := cfg.MergeWithDefaults(Defaults())
	// Explicit values win.
	assert.Equal(t, "postgres://localhost/match", merged.DatabaseURL)
	assert.Equal(t, 25, merged.TargetSize)
	// Unset values come from defaults.
	assert.Equal(t, "balanced", merged.ScoringProfile)
	assert.Equal(t, 15, merged.OccupationCap)
	assert.Equal(t, 1000, merged.CandidatePool)
	assert.Equal(t, 3600, merged.TimeboxSeconds)
}
