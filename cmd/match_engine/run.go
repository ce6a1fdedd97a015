package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-match-engine/internal/config"
	"github.com/jonathan/job-match-engine/internal/db"
	"github.com/jonathan/job-match-engine/internal/pipeline"
	"github.com/jonathan/job-match-engine/internal/selection"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the full matching batch end-to-end",
	Long: `Orchestrates one complete matching run: statistics refresh -> classification -> base scoring -> per-user personalization -> diversity selection -> section assignment -> persistence.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runBatchCmd,
}

var (
	runConfigPath     string
	runDatabaseURL    string
	runKeywordURL     string
	runProfile        string
	runRulesPath      string
	runTargetSize     int
	runCandidatePool  int
	runConcurrency    int
	runTimeboxSeconds int
	runVerbose        bool
)

func init() {
	// Config file flag (processed first)
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	runCommand.Flags().StringVar(&runDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	runCommand.Flags().StringVar(&runKeywordURL, "keyword-url", "", "Keyword provider endpoint (optional, defaults to KEYWORD_PROVIDER_URL env var)")
	runCommand.Flags().StringVarP(&runProfile, "profile", "p", "", "Scoring weight profile name")
	runCommand.Flags().StringVar(&runRulesPath, "rules", "", "Category rule file (built-in rules if omitted)")
	runCommand.Flags().IntVar(&runTargetSize, "target-size", 0, "Jobs selected per user")
	runCommand.Flags().IntVar(&runCandidatePool, "candidate-pool", 0, "Top-N candidates personalized per user")
	runCommand.Flags().IntVar(&runConcurrency, "concurrency", 0, "Parallel user chunks")
	runCommand.Flags().IntVar(&runTimeboxSeconds, "timebox", 0, "Wall-clock budget in seconds (0 = unbounded)")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed debug information")

	rootCmd.AddCommand(runCommand)
}

func runBatchCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Step 1: Load config file if provided
	var cfg config.Config
	if runConfigPath != "" {
		loadedCfg, err := config.LoadConfig(runConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := loadedCfg.Validate(); err != nil {
			return err
		}
		cfg = *loadedCfg
		if runVerbose {
			fmt.Printf("Loaded config from: %s\n", runConfigPath)
		}
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = runDatabaseURL
	}
	if cmd.Flags().Changed("keyword-url") {
		cfg.KeywordProviderURL = runKeywordURL
	}
	if cmd.Flags().Changed("profile") {
		cfg.ScoringProfile = runProfile
	}
	if cmd.Flags().Changed("rules") {
		cfg.RulesPath = runRulesPath
	}
	if cmd.Flags().Changed("target-size") {
		cfg.TargetSize = runTargetSize
	}
	if cmd.Flags().Changed("candidate-pool") {
		cfg.CandidatePool = runCandidatePool
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency = runConcurrency
	}
	if cmd.Flags().Changed("timebox") {
		cfg.TimeboxSeconds = runTimeboxSeconds
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = runVerbose
	}

	// Step 3: Apply defaults for unset values
	cfg = cfg.MergeWithDefaults(config.Defaults())

	// Step 4: External endpoints from environment when not set elsewhere
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}
	if cfg.KeywordProviderURL == "" {
		cfg.KeywordProviderURL = os.Getenv("KEYWORD_PROVIDER_URL")
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	opts := pipeline.RunOptions{
		Store:              database,
		KeywordProviderURL: cfg.KeywordProviderURL,
		ScoringProfile:     cfg.ScoringProfile,
		RulesPath:          cfg.RulesPath,
		TargetSize:         cfg.TargetSize,
		Caps: selection.Caps{
			Category:   cfg.CategoryCap,
			Occupation: cfg.OccupationCap,
			Region:     cfg.RegionCap,
		},
		CandidatePool: cfg.CandidatePool,
		Concurrency:   cfg.Concurrency,
		Timebox:       time.Duration(cfg.TimeboxSeconds) * time.Second,
		Verbose:       cfg.Verbose,
	}

	_, err = pipeline.RunBatch(ctx, opts)
	return err
}
