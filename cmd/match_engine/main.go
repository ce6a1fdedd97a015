// Package main provides the entry point for the job matching engine CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "match_engine",
	Short: "Job scoring and personalized matching engine",
	Long:  "match_engine classifies and scores the daily job snapshot, derives per-user preference profiles from application history, and selects each user's personalized, diversity-bounded job set.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
