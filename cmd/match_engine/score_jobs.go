package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-match-engine/internal/classify"
	"github.com/jonathan/job-match-engine/internal/db"
	"github.com/jonathan/job-match-engine/internal/keywords"
	"github.com/jonathan/job-match-engine/internal/observability"
	"github.com/jonathan/job-match-engine/internal/pipeline"
	"github.com/jonathan/job-match-engine/internal/scoring"
	"github.com/jonathan/job-match-engine/internal/stats"
)

var scoreJobsCommand = &cobra.Command{
	Use:   "score-jobs",
	Short: "Classify and base-score the current job snapshot",
	Long: `Classifies and scores every job in the snapshot without touching any user data. Scoring is deterministic for a fixed --at time context, so re-running for the same snapshot is idempotent and safe for backfill.`,
	RunE: scoreJobsCmd,
}

var (
	scoreDatabaseURL string
	scoreKeywordURL  string
	scoreProfile     string
	scoreRulesPath   string
	scoreAt          string
	scoreTopN        int
	scoreVerbose     bool
)

func init() {
	scoreJobsCommand.Flags().StringVar(&scoreDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	scoreJobsCommand.Flags().StringVar(&scoreKeywordURL, "keyword-url", "", "Keyword provider endpoint (optional, defaults to KEYWORD_PROVIDER_URL env var)")
	scoreJobsCommand.Flags().StringVarP(&scoreProfile, "profile", "p", "balanced", "Scoring weight profile name")
	scoreJobsCommand.Flags().StringVar(&scoreRulesPath, "rules", "", "Category rule file (built-in rules if omitted)")
	scoreJobsCommand.Flags().StringVar(&scoreAt, "at", "", "Fixed time context in RFC3339 (defaults to now)")
	scoreJobsCommand.Flags().IntVar(&scoreTopN, "top", 10, "Number of top-scored jobs to print")
	scoreJobsCommand.Flags().BoolVarP(&scoreVerbose, "verbose", "v", false, "Print per-job score breakdowns")

	rootCmd.AddCommand(scoreJobsCommand)
}

func scoreJobsCmd(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	now := time.Now()
	if scoreAt != "" {
		parsed, err := time.Parse(time.RFC3339, scoreAt)
		if err != nil {
			return fmt.Errorf("invalid --at value (want RFC3339): %w", err)
		}
		now = parsed
	}

	weights, err := scoring.ProfileByName(scoreProfile)
	if err != nil {
		return err
	}
	rules := classify.DefaultRules()
	if scoreRulesPath != "" {
		rules, err = classify.LoadRules(scoreRulesPath)
		if err != nil {
			return err
		}
	}

	databaseURL := scoreDatabaseURL
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

	fmt.Printf("Step 1/3: Loading job snapshot...\n")
	jobs, err := database.LoadJobs(ctx)
	if err != nil {
		return fmt.Errorf("loading jobs failed: %w", err)
	}
	applications, err := database.LoadAllApplications(ctx)
	if err != nil {
		return fmt.Errorf("loading applications failed: %w", err)
	}

	fmt.Printf("Step 2/3: Building keyword index and statistics...\n")
	index := loadKeywordIndex(ctx, database, scoreKeywordURL)
	shared := stats.Compute(jobs, applications, now)

	fmt.Printf("Step 3/3: Scoring %d jobs...\n", len(jobs))
	catalog, skipped := pipeline.ScoreCatalog(jobs, rules, weights, index, shared, now)
	if skipped > 0 {
		fmt.Printf("Warning: Skipped %d malformed jobs\n", skipped)
	}

	sort.Slice(catalog, func(i, j int) bool {
		if catalog[i].Score.Final != catalog[j].Score.Final {
			return catalog[i].Score.Final > catalog[j].Score.Final
		}
		return catalog[i].Job.ID < catalog[j].Job.ID
	})

	printer := observability.NewPrinter(os.Stdout)
	top := scoreTopN
	if top > len(catalog) {
		top = len(catalog)
	}
	fmt.Printf("\nScored %d jobs at %s. Top %d:\n", len(catalog), now.Format(time.RFC3339), top)
	for i := 0; i < top; i++ {
		sj := catalog[i]
		fmt.Printf("%3d. %-20s %8d  %s\n", i+1, sj.Job.ID, sj.Score.Final, sj.Job.Title)
		if scoreVerbose {
			printer.PrintJobScore(&sj.Score)
		}
	}
	return nil
}

// loadKeywordIndex fetches the provider list when an endpoint is known and
// falls back to the stored snapshot otherwise.
func loadKeywordIndex(ctx context.Context, database *db.DB, flagURL string) *keywords.Index {
	url := flagURL
	if url == "" {
		url = os.Getenv("KEYWORD_PROVIDER_URL")
	}
	if url != "" {
		entries, err := keywords.NewProvider(url).Fetch(ctx)
		if err == nil {
			return keywords.NewIndex(entries)
		}
		fmt.Printf("Warning: Keyword provider unavailable: %v\n", err)
	}

	entries, err := database.LoadKeywordSnapshot(ctx)
	if err != nil {
		fmt.Printf("Warning: Failed to load keyword snapshot: %v\n", err)
	}
	return keywords.NewIndex(entries)
}
