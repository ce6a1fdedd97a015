package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-match-engine/internal/classify"
	"github.com/jonathan/job-match-engine/internal/db"
	"github.com/jonathan/job-match-engine/internal/observability"
	"github.com/jonathan/job-match-engine/internal/pipeline"
	"github.com/jonathan/job-match-engine/internal/scoring"
	"github.com/jonathan/job-match-engine/internal/selection"
	"github.com/jonathan/job-match-engine/internal/stats"
)

var matchUserCommand = &cobra.Command{
	Use:   "match-user",
	Short: "Run matching for a single user without persisting",
	Long: `Derives the user's preference profile, personalizes the scored catalog and prints the resulting selection. Nothing is written back, so this is safe for debugging and backfill dry runs. The result is idempotent given a fixed profile and job snapshot.`,
	RunE: matchUserCmd,
}

var (
	matchUserID      string
	matchDatabaseURL string
	matchKeywordURL  string
	matchProfileName string
	matchRulesPath   string
	matchTargetSize  int
	matchPool        int
	matchVerbose     bool
)

func init() {
	matchUserCommand.Flags().StringVarP(&matchUserID, "user-id", "u", "", "User to match (required)")
	matchUserCommand.Flags().StringVar(&matchDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	matchUserCommand.Flags().StringVar(&matchKeywordURL, "keyword-url", "", "Keyword provider endpoint (optional, defaults to KEYWORD_PROVIDER_URL env var)")
	matchUserCommand.Flags().StringVarP(&matchProfileName, "profile", "p", "balanced", "Scoring weight profile name")
	matchUserCommand.Flags().StringVar(&matchRulesPath, "rules", "", "Category rule file (built-in rules if omitted)")
	matchUserCommand.Flags().IntVar(&matchTargetSize, "target-size", 40, "Jobs to select")
	matchUserCommand.Flags().IntVar(&matchPool, "candidate-pool", 1000, "Top-N candidates personalized")
	matchUserCommand.Flags().BoolVarP(&matchVerbose, "verbose", "v", false, "Print the derived profile and selection details")

	_ = matchUserCommand.MarkFlagRequired("user-id")

	rootCmd.AddCommand(matchUserCommand)
}

func matchUserCmd(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	now := time.Now()

	weights, err := scoring.ProfileByName(matchProfileName)
	if err != nil {
		return err
	}
	rules := classify.DefaultRules()
	if matchRulesPath != "" {
		rules, err = classify.LoadRules(matchRulesPath)
		if err != nil {
			return err
		}
	}

	databaseURL := matchDatabaseURL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}
	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	fmt.Printf("Step 1/3: Loading snapshot and history for user %s...\n", matchUserID)
	jobs, err := database.LoadJobs(ctx)
	if err != nil {
		return fmt.Errorf("loading jobs failed: %w", err)
	}
	applications, err := database.LoadAllApplications(ctx)
	if err != nil {
		return fmt.Errorf("loading applications failed: %w", err)
	}
	history, err := database.LoadApplicationHistory(ctx, matchUserID)
	if err != nil {
		return fmt.Errorf("loading application history failed: %w", err)
	}
	seeds, err := database.LoadSeedRegionCounts(ctx)
	if err != nil {
		fmt.Printf("Warning: Failed to load legacy region seeds: %v\n", err)
	}

	fmt.Printf("Step 2/3: Scoring %d jobs...\n", len(jobs))
	index := loadKeywordIndex(ctx, database, matchKeywordURL)
	shared := stats.Compute(jobs, applications, now)
	catalog, skipped := pipeline.ScoreCatalog(jobs, rules, weights, index, shared, now)
	if skipped > 0 {
		fmt.Printf("Warning: Skipped %d malformed jobs\n", skipped)
	}

	fmt.Printf("Step 3/3: Matching user %s against %d scored jobs...\n", matchUserID, len(catalog))
	result, userProfile, err := pipeline.MatchUser(matchUserID, history, catalog, pipeline.MatchOptions{
		TargetSize:       matchTargetSize,
		Caps:             selection.DefaultCaps(),
		CandidatePool:    matchPool,
		Shared:           shared,
		SeedRegionCounts: seeds[matchUserID],
	})
	if err != nil {
		return fmt.Errorf("matching failed: %w", err)
	}

	printer := observability.NewPrinter(os.Stdout)
	if matchVerbose {
		printer.PrintUserProfile(userProfile)
	}
	printer.PrintSelectionResult(result)
	return nil
}
