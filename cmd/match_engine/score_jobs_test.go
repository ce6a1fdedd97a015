package main

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreJobsCommand_MissingDatabaseURL(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "score-jobs")
	cmd.Env = envWithoutDatabase()
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "DATABASE_URL environment variable or --db-url flag is required")
}

func TestScoreJobsCommand_InvalidAt(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "score-jobs", "--at", "yesterday")
	cmd.Env = envWithoutDatabase()
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "invalid --at value")
}

func TestScoreJobsCommand_UnknownProfile(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "score-jobs", "--profile", "aggressive")
	cmd.Env = envWithoutDatabase()
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "unknown scoring profile")
}
