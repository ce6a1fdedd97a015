package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// envWithoutDatabase strips DATABASE_URL so the command must fail fast.
func envWithoutDatabase() []string {
	var env []string
	for _, e := range os.Environ() {
		if !strings.HasPrefix(e, "DATABASE_URL=") {
			env = append(env, e)
		}
	}
	return env
}

func TestRunCommand_MissingDatabaseURL(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "run")
	cmd.Env = envWithoutDatabase()
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "DATABASE_URL environment variable or --db-url flag is required")
}

func TestRunCommand_ConfigFileNotFound(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "run", "--config", filepath.Join(t.TempDir(), "missing.json"))
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "failed to load config")
}

func TestRunCommand_ConfigFileValues(t *testing.T) {
	binaryPath := getBinaryPath(t)

	// An invalid config value must be rejected before anything runs.
	configPath := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(configPath, []byte(`{"target_size": -1}`), 0o644))

	cmd := exec.Command(binaryPath, "run", "--config", configPath)
	cmd.Env = envWithoutDatabase()
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "'target_size' must be non-negative")
}
