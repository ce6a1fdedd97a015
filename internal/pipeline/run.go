// Package pipeline provides the high-level orchestration for a full
// matching run: shared statistics, catalog scoring and the per-user
// personalization fan-out.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/job-match-engine/internal/classify"
	"github.com/jonathan/job-match-engine/internal/db"
	"github.com/jonathan/job-match-engine/internal/keywords"
	"github.com/jonathan/job-match-engine/internal/personalize"
	"github.com/jonathan/job-match-engine/internal/profile"
	"github.com/jonathan/job-match-engine/internal/scoring"
	"github.com/jonathan/job-match-engine/internal/selection"
	"github.com/jonathan/job-match-engine/internal/stats"
	"github.com/jonathan/job-match-engine/internal/types"
)

// rejectionThreshold is the number of rejections from one company after
// which that company's jobs are hard-excluded for the user.
const rejectionThreshold = 3

// The bulk reads at the run barrier share the keyword provider's retry
// shape: bounded attempts with exponential backoff, then the run fails.
const (
	loadAttempts    = 3
	loadBackoffBase = 500 * time.Millisecond
)

// Store is the persistence surface the orchestrator needs. *db.DB
// implements it; tests substitute a fake.
type Store interface {
	LoadJobs(ctx context.Context) ([]types.Job, error)
	LoadAllApplications(ctx context.Context) ([]types.ApplicationRecord, error)
	ListActiveUserIDs(ctx context.Context) ([]string, error)
	LoadSeedRegionCounts(ctx context.Context) (map[string]map[string]int, error)
	LoadKeywordSnapshot(ctx context.Context) ([]types.KeywordEntry, error)
	SaveKeywordSnapshot(ctx context.Context, entries []types.KeywordEntry) error
	CreateRun(ctx context.Context, scoringProfile string) (uuid.UUID, error)
	CompleteRun(ctx context.Context, runID uuid.UUID, status string, jobsScored, usersMatched int) error
	SaveJobScores(ctx context.Context, runID uuid.UUID, scores []types.JobScore) error
	SaveSelectionResult(ctx context.Context, runID uuid.UUID, result *types.SelectionResult) error
}

// RunOptions holds configuration for a full batch run
type RunOptions struct {
	Store              Store
	KeywordProviderURL string
	ScoringProfile     string
	RulesPath          string
	TargetSize         int
	Caps               selection.Caps
	CandidatePool      int
	Concurrency        int
	Timebox            time.Duration
	Now                time.Time // zero means wall clock
	Verbose            bool
}

// RunSummary reports what one batch run accomplished.
type RunSummary struct {
	RunID        uuid.UUID
	JobsScored   int
	JobsSkipped  int
	UsersMatched int
	UsersFailed  int
	Duration     time.Duration
}

// ScoredJob bundles one valid job with its classification and base score.
// The slice of these is the read-only snapshot every user chunk works from.
type ScoredJob struct {
	Job        types.Job
	Assignment types.JobCategoryAssignment
	Score      types.JobScore
}

// RunBatch drives one full matching run. Statistics and base scores are
// computed once, as a barrier, before any user is personalized; user chunks
// then run independently under the concurrency limit. A user either gets a
// complete persisted selection or none for this run.
func RunBatch(ctx context.Context, opts RunOptions) (*RunSummary, error) {
	started := time.Now()
	now := opts.Now
	if now.IsZero() {
		now = started
	}

	weights, err := scoring.ProfileByName(opts.ScoringProfile)
	if err != nil {
		return nil, err
	}
	rules, err := loadRules(opts.RulesPath)
	if err != nil {
		return nil, err
	}

	runID, err := opts.Store.CreateRun(ctx, opts.ScoringProfile)
	if err != nil {
		return nil, fmt.Errorf("creating run record failed: %w", err)
	}
	if opts.Verbose {
		fmt.Printf("[VERBOSE] Created matching run: %s\n", runID)
	}

	fmt.Printf("Step 1/6: Loading job snapshot and application log...\n")
	var jobs []types.Job
	err = retryLoad(ctx, "Loading jobs", func() error {
		jobs, err = opts.Store.LoadJobs(ctx)
		return err
	})
	if err != nil {
		return nil, failRun(ctx, opts.Store, runID, fmt.Errorf("loading jobs failed: %w", err))
	}
	var applications []types.ApplicationRecord
	err = retryLoad(ctx, "Loading applications", func() error {
		applications, err = opts.Store.LoadAllApplications(ctx)
		return err
	})
	if err != nil {
		return nil, failRun(ctx, opts.Store, runID, fmt.Errorf("loading applications failed: %w", err))
	}
	var userIDs []string
	err = retryLoad(ctx, "Listing users", func() error {
		userIDs, err = opts.Store.ListActiveUserIDs(ctx)
		return err
	})
	if err != nil {
		return nil, failRun(ctx, opts.Store, runID, fmt.Errorf("listing users failed: %w", err))
	}
	seeds, err := opts.Store.LoadSeedRegionCounts(ctx)
	if err != nil {
		fmt.Printf("Warning: Failed to load legacy region seeds: %v\n", err)
	}
	fmt.Printf("Loaded %d jobs, %d applications, %d users\n", len(jobs), len(applications), len(userIDs))

	fmt.Printf("Step 2/6: Refreshing keyword index...\n")
	index := refreshKeywordIndex(ctx, opts)

	fmt.Printf("Step 3/6: Computing shared statistics...\n")
	shared := stats.Compute(jobs, applications, now)

	fmt.Printf("Step 4/6: Classifying and scoring %d jobs...\n", len(jobs))
	catalog, skipped := ScoreCatalog(jobs, rules, weights, index, shared, now)
	if skipped > 0 {
		fmt.Printf("Warning: Skipped %d malformed jobs\n", skipped)
	}
	scores := make([]types.JobScore, len(catalog))
	for i, sj := range catalog {
		scores[i] = sj.Score
	}
	if err := opts.Store.SaveJobScores(ctx, runID, scores); err != nil {
		return nil, failRun(ctx, opts.Store, runID, fmt.Errorf("saving job scores failed: %w", err))
	}

	historyByUser := groupByUser(applications)

	fmt.Printf("Step 5/6: Matching %d users (concurrency %d)...\n", len(userIDs), opts.Concurrency)
	fanCtx := ctx
	cancel := context.CancelFunc(func() {})
	if opts.Timebox > 0 {
		fanCtx, cancel = context.WithTimeout(ctx, opts.Timebox)
	}
	defer cancel()

	g, gCtx := errgroup.WithContext(fanCtx)
	if opts.Concurrency > 0 {
		g.SetLimit(opts.Concurrency)
	}

	var mu sync.Mutex
	matched, failed := 0, 0

	matchOpts := MatchOptions{
		TargetSize:    opts.TargetSize,
		Caps:          opts.Caps,
		CandidatePool: opts.CandidatePool,
		Shared:        shared,
	}
	for _, userID := range userIDs {
		userID := userID
		g.Go(func() error {
			// Unstarted chunks are abandoned once the timebox expires;
			// completed chunks stand.
			if gCtx.Err() != nil {
				return nil
			}

			userOpts := matchOpts
			userOpts.SeedRegionCounts = seeds[userID]
			result, _, err := MatchUser(userID, historyByUser[userID], catalog, userOpts)
			if err != nil {
				fmt.Printf("Warning: Matching failed for user %s: %v\n", userID, err)
				mu.Lock()
				failed++
				mu.Unlock()
				return nil
			}
			if err := opts.Store.SaveSelectionResult(gCtx, runID, result); err != nil {
				fmt.Printf("Warning: Persisting selection failed for user %s: %v\n", userID, err)
				mu.Lock()
				failed++
				mu.Unlock()
				return nil
			}

			mu.Lock()
			matched++
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	status := db.RunStatusCompleted
	if fanCtx.Err() != nil && ctx.Err() == nil {
		status = db.RunStatusTimedOut
		fmt.Printf("Warning: Timebox exceeded; %d users left unmatched\n", len(userIDs)-matched-failed)
	}

	fmt.Printf("Step 6/6: Finalizing run...\n")
	if err := opts.Store.CompleteRun(ctx, runID, status, len(catalog), matched); err != nil {
		fmt.Printf("Warning: Failed to finalize run record: %v\n", err)
	}

	summary := &RunSummary{
		RunID:        runID,
		JobsScored:   len(catalog),
		JobsSkipped:  skipped,
		UsersMatched: matched,
		UsersFailed:  failed,
		Duration:     time.Since(started),
	}
	fmt.Printf("Done! Scored %d jobs, matched %d users (%d failed) in %s.\n",
		summary.JobsScored, summary.UsersMatched, summary.UsersFailed, summary.Duration.Round(time.Millisecond))
	return summary, nil
}

// ScoreCatalog classifies and base-scores every structurally valid job.
// It is a pure function of its inputs and the fixed time context, so two
// passes over the same snapshot produce identical scores. Returns the
// scored catalog and the count of skipped malformed jobs.
func ScoreCatalog(jobs []types.Job, rules []types.CategoryRule, weights scoring.Weights, index *keywords.Index, shared *stats.Shared, now time.Time) ([]ScoredJob, int) {
	classifier := classify.New(rules, shared)
	calculator := scoring.NewCalculator(weights, index, shared)
	scoreCtx := scoring.Context{Now: now}

	catalog := make([]ScoredJob, 0, len(jobs))
	skipped := 0
	for i := range jobs {
		job := jobs[i]
		if err := job.Validate(); err != nil {
			fmt.Printf("Warning: Skipping malformed job %q: %v\n", job.ID, err)
			skipped++
			continue
		}
		assignment := classifier.Classify(&job)
		score := calculator.Score(&job, &assignment, scoreCtx)
		catalog = append(catalog, ScoredJob{Job: job, Assignment: assignment, Score: score})
	}
	return catalog, skipped
}

// MatchOptions holds the per-user stage parameters.
type MatchOptions struct {
	TargetSize    int
	Caps          selection.Caps
	CandidatePool int
	// Shared supplies the prefecture adjacency table to the location match.
	Shared *stats.Shared
	// SeedRegionCounts carries the user's legacy region seed, consulted
	// only when there is no application history.
	SeedRegionCounts map[string]int
}

// MatchUser runs the full per-user stage against a scored catalog: profile
// derivation, hard exclusions, candidate pre-cut, personalization,
// diversity selection and section assignment. It touches no shared state
// and is safe to call concurrently for different users.
func MatchUser(userID string, history []types.ApplicationRecord, catalog []ScoredJob, opts MatchOptions) (*types.SelectionResult, *types.UserProfile, error) {
	userProfile, err := profile.Build(userID, history)
	if errors.Is(err, profile.ErrNoHistory) {
		if len(opts.SeedRegionCounts) > 0 {
			userProfile = profile.Seeded(userID, opts.SeedRegionCounts, jobsOf(catalog))
		} else {
			userProfile = profile.Default(userID, jobsOf(catalog))
		}
	} else if err != nil {
		return nil, nil, fmt.Errorf("building profile failed: %w", err)
	}

	excluded := profile.RejectedCompanies(history, rejectionThreshold)

	// Pre-cut to the strongest base scores before the per-user work.
	pool := make([]ScoredJob, 0, len(catalog))
	for _, sj := range catalog {
		if excluded[sj.Job.CompanyID] {
			continue
		}
		pool = append(pool, sj)
	}
	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].Score.Final != pool[j].Score.Final {
			return pool[i].Score.Final > pool[j].Score.Final
		}
		return pool[i].Job.ID < pool[j].Job.ID
	})
	if opts.CandidatePool > 0 && len(pool) > opts.CandidatePool {
		pool = pool[:opts.CandidatePool]
	}

	candidates := make([]selection.Candidate, len(pool))
	for i, sj := range pool {
		candidates[i] = selection.Candidate{
			Score:          personalizeScore(sj, userProfile, opts.Shared),
			RegionCode:     sj.Job.RegionCode,
			LocalityCode:   sj.Job.LocalityCode,
			OccupationCode: sj.Job.OccupationCode,
			CompanyID:      sj.Job.CompanyID,
			Categories:     sj.Assignment.CategoryNames(),
		}
	}

	target := opts.TargetSize
	if target <= 0 {
		target = selection.DefaultTargetSize
	}
	selected := selection.Select(candidates, target, opts.Caps)
	result := selection.AssignSections(userID, selected, userProfile.HomeRegion, topLocality(userProfile))
	return result, userProfile, nil
}

func loadRules(path string) ([]types.CategoryRule, error) {
	if path == "" {
		return classify.DefaultRules(), nil
	}
	return classify.LoadRules(path)
}

// refreshKeywordIndex fetches the keyword list and snapshots it for future
// fallback. Provider exhaustion falls back to the last stored snapshot;
// with neither available the run proceeds with an empty index.
func refreshKeywordIndex(ctx context.Context, opts RunOptions) *keywords.Index {
	if opts.KeywordProviderURL != "" {
		provider := keywords.NewProvider(opts.KeywordProviderURL)
		entries, err := provider.Fetch(ctx)
		if err == nil {
			if err := opts.Store.SaveKeywordSnapshot(ctx, entries); err != nil {
				fmt.Printf("Warning: Failed to snapshot keyword list: %v\n", err)
			}
			return keywords.NewIndex(entries)
		}
		fmt.Printf("Warning: Keyword provider unavailable: %v\n", err)
		fmt.Printf("Falling back to last stored keyword snapshot...\n")
	}

	entries, err := opts.Store.LoadKeywordSnapshot(ctx)
	if err != nil {
		fmt.Printf("Warning: Failed to load keyword snapshot: %v\n", err)
	}
	if len(entries) == 0 {
		fmt.Printf("Warning: No keyword data available; keyword scores will be zero\n")
	}
	return keywords.NewIndex(entries)
}

func failRun(ctx context.Context, store Store, runID uuid.UUID, cause error) error {
	if err := store.CompleteRun(ctx, runID, db.RunStatusFailed, 0, 0); err != nil {
		fmt.Printf("Warning: Failed to mark run as failed: %v\n", err)
	}
	return cause
}

func personalizeScore(sj ScoredJob, user *types.UserProfile, shared *stats.Shared) types.PersonalizedScore {
	return personalize.Score(sj.Score, &sj.Job, &sj.Assignment, user, shared)
}

// retryLoad runs one bulk read, retrying transient failures before the
// barrier declares the run dead.
func retryLoad(ctx context.Context, what string, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < loadAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return lastErr
			case <-time.After(loadBackoffBase << (attempt - 1)):
			}
		}

		if lastErr = fn(); lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return lastErr
		}
		if attempt < loadAttempts-1 {
			fmt.Printf("Warning: %s failed (attempt %d/%d): %v\n", what, attempt+1, loadAttempts, lastErr)
		}
	}
	return lastErr
}

func groupByUser(applications []types.ApplicationRecord) map[string][]types.ApplicationRecord {
	byUser := make(map[string][]types.ApplicationRecord)
	for _, app := range applications {
		byUser[app.UserID] = append(byUser[app.UserID], app)
	}
	return byUser
}

func jobsOf(catalog []ScoredJob) []types.Job {
	jobs := make([]types.Job, len(catalog))
	for i, sj := range catalog {
		jobs[i] = sj.Job
	}
	return jobs
}

// topLocality is the user's strongest locality signal, used by the section
// assigner. Ties break on the smaller code for stable output.
func topLocality(p *types.UserProfile) string {
	best := ""
	bestWeight := 0.0
	for code, w := range p.LocalityWeights {
		if w > bestWeight || (w == bestWeight && w > 0 && (best == "" || code < best)) {
			best = code
			bestWeight = w
		}
	}
	return best
}
