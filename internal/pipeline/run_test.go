package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-match-engine/internal/classify"
	"github.com/jonathan/job-match-engine/internal/db"
	"github.com/jonathan/job-match-engine/internal/keywords"
	"github.com/jonathan/job-match-engine/internal/scoring"
	"github.com/jonathan/job-match-engine/internal/selection"
	"github.com/jonathan/job-match-engine/internal/stats"
	"github.com/jonathan/job-match-engine/internal/types"
)

// fakeStore is an in-memory Store for orchestrator tests.
type fakeStore struct {
	mu sync.Mutex

	jobs         []types.Job
	applications []types.ApplicationRecord
	userIDs      []string
	snapshot     []types.KeywordEntry
	seeds        map[string]map[string]int

	failLoadJobs      bool
	failLoadJobsTimes int
	loadJobsCalls     int

	savedScores     []types.JobScore
	savedSelections map[string]*types.SelectionResult
	savedSnapshot   []types.KeywordEntry
	runStatus       string
	runUsersMatched int
}

func newFakeStore() *fakeStore {
	return &fakeStore{savedSelections: make(map[string]*types.SelectionResult)}
}

func (f *fakeStore) LoadJobs(ctx context.Context) ([]types.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loadJobsCalls++
	if f.failLoadJobs {
		return nil, fmt.Errorf("connection refused")
	}
	if f.failLoadJobsTimes > 0 {
		f.failLoadJobsTimes--
		return nil, fmt.Errorf("connection refused")
	}
	return f.jobs, nil
}

func (f *fakeStore) LoadAllApplications(ctx context.Context) ([]types.ApplicationRecord, error) {
	return f.applications, nil
}

func (f *fakeStore) ListActiveUserIDs(ctx context.Context) ([]string, error) {
	return f.userIDs, nil
}

func (f *fakeStore) LoadSeedRegionCounts(ctx context.Context) (map[string]map[string]int, error) {
	return f.seeds, nil
}

func (f *fakeStore) LoadKeywordSnapshot(ctx context.Context) ([]types.KeywordEntry, error) {
	return f.snapshot, nil
}

func (f *fakeStore) SaveKeywordSnapshot(ctx context.Context, entries []types.KeywordEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.savedSnapshot = entries
	return nil
}

func (f *fakeStore) CreateRun(ctx context.Context, scoringProfile string) (uuid.UUID, error) {
	return uuid.New(), nil
}

func (f *fakeStore) CompleteRun(ctx context.Context, runID uuid.UUID, status string, jobsScored, usersMatched int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runStatus = status
	f.runUsersMatched = usersMatched
	return nil
}

func (f *fakeStore) SaveJobScores(ctx context.Context, runID uuid.UUID, scores []types.JobScore) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.savedScores = scores
	return nil
}

func (f *fakeStore) SaveSelectionResult(ctx context.Context, runID uuid.UUID, result *types.SelectionResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.savedSelections[result.UserID] = result
	return nil
}

func validJob(id, region, occupation, company string, salary int) types.Job {
	return types.Job{
		ID:             id,
		Title:          "ホールスタッフ募集",
		Description:    "駅チカのカフェでの接客業務です。",
		RegionCode:     region,
		LocalityCode:   region + "104",
		OccupationCode: occupation,
		SalaryMin:      salary,
		SalaryMax:      salary + 200,
		SalaryType:     types.SalaryHourly,
		PostedAt:       time.Now().AddDate(0, 0, -2),
		CompanyID:      company,
	}
}

func keywordServer(t *testing.T, entries []types.KeywordEntry) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(entries))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func batchOptions(store *fakeStore) RunOptions {
	return RunOptions{
		Store:          store,
		ScoringProfile: scoring.DefaultProfileName,
		TargetSize:     40,
		Caps:           selection.DefaultCaps(),
		CandidatePool:  1000,
		Concurrency:    4,
	}
}

func TestRunBatch_FullRun(t *testing.T) {
	store := newFakeStore()
	for i := 0; i < 30; i++ {
		store.jobs = append(store.jobs, validJob(
			fmt.Sprintf("job_%02d", i),
			fmt.Sprintf("%02d", i%3+13),
			fmt.Sprintf("occ_%d", i%4),
			fmt.Sprintf("cmp_%02d", i),
			1000+i*10,
		))
	}
	// A malformed job must be skipped, never abort the run.
	store.jobs = append(store.jobs, types.Job{ID: "job_bad", Title: "broken"})

	store.userIDs = []string{"user_a", "user_b"}
	store.applications = []types.ApplicationRecord{
		{UserID: "user_a", JobID: "job_00", CompanyID: "cmp_00", RegionCode: "13", OccupationCode: "occ_0",
			Salary: 1100, SalaryType: types.SalaryHourly, Outcome: types.OutcomeApplied, AppliedAt: time.Now()},
		{UserID: "user_a", JobID: "job_03", CompanyID: "cmp_03", RegionCode: "13", OccupationCode: "occ_3",
			Salary: 1200, SalaryType: types.SalaryHourly, Outcome: types.OutcomeApplied, AppliedAt: time.Now()},
	}

	srv := keywordServer(t, []types.KeywordEntry{{Text: "カフェ", Volume: 40000, Difficulty: 35}})
	opts := batchOptions(store)
	opts.KeywordProviderURL = srv.URL

	summary, err := RunBatch(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, 30, summary.JobsScored)
	assert.Equal(t, 1, summary.JobsSkipped)
	assert.Equal(t, 2, summary.UsersMatched)
	assert.Equal(t, 0, summary.UsersFailed)

	assert.Len(t, store.savedScores, 30)
	assert.Len(t, store.savedSnapshot, 1)
	assert.Equal(t, db.RunStatusCompleted, store.runStatus)
	assert.Equal(t, 2, store.runUsersMatched)

	// user_b has zero history and still gets a complete selection.
	require.Contains(t, store.savedSelections, "user_b")
	assert.Len(t, store.savedSelections["user_b"].Jobs, 30)
	for _, job := range store.savedSelections["user_b"].Jobs {
		assert.NotEmpty(t, job.Section)
	}
}

func TestRunBatch_KeywordSnapshotFallback(t *testing.T) {
	store := newFakeStore()
	store.jobs = []types.Job{validJob("job_01", "13", "food_hall", "cmp_01", 1200)}
	store.userIDs = []string{"user_a"}
	store.snapshot = []types.KeywordEntry{{Text: "日払い", Volume: 50000, Difficulty: 40}}

	// Provider URL points nowhere; the stored snapshot must carry the run.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	opts := batchOptions(store)
	opts.KeywordProviderURL = srv.URL

	summary, err := RunBatch(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.JobsScored)
	assert.Equal(t, 1, summary.UsersMatched)
	assert.Nil(t, store.savedSnapshot)
}

func TestRunBatch_FatalLoadFailure(t *testing.T) {
	store := newFakeStore()
	store.failLoadJobs = true

	_, err := RunBatch(context.Background(), batchOptions(store))
	require.Error(t, err)
	assert.Equal(t, db.RunStatusFailed, store.runStatus)
	// The load is retried before the run is declared dead.
	assert.Equal(t, 3, store.loadJobsCalls)
}

func TestRunBatch_RetriesTransientLoadFailure(t *testing.T) {
	store := newFakeStore()
	store.jobs = []types.Job{validJob("job_01", "13", "food_hall", "cmp_01", 1200)}
	store.userIDs = []string{"user_a"}
	store.failLoadJobsTimes = 2

	summary, err := RunBatch(context.Background(), batchOptions(store))
	require.NoError(t, err)
	assert.Equal(t, 3, store.loadJobsCalls)
	assert.Equal(t, 1, summary.JobsScored)
	assert.Equal(t, 1, summary.UsersMatched)
	assert.Equal(t, db.RunStatusCompleted, store.runStatus)
}

func TestScoreCatalog_SkipsMalformedJobs(t *testing.T) {
	jobs := []types.Job{
		validJob("job_01", "13", "food_hall", "cmp_01", 1200),
		{ID: "job_bad"},
		validJob("job_02", "14", "delivery_bike", "cmp_02", 1300),
	}

	now := time.Date(2026, 6, 10, 10, 0, 0, 0, time.UTC)
	weights, err := scoring.ProfileByName(scoring.DefaultProfileName)
	require.NoError(t, err)

	catalog, skipped := ScoreCatalog(jobs, classify.DefaultRules(), weights, keywords.NewIndex(nil), stats.Compute(jobs, nil, now), now)
	assert.Len(t, catalog, 2)
	assert.Equal(t, 1, skipped)
	for _, sj := range catalog {
		assert.GreaterOrEqual(t, sj.Score.Final, 0)
		assert.LessOrEqual(t, sj.Score.Final, types.MaxFinalScore)
	}
}

func TestMatchUser_ExcludesRejectingCompanies(t *testing.T) {
	var catalog []ScoredJob
	for i := 0; i < 20; i++ {
		company := "cmp_other"
		if i < 5 {
			company = "cmp_hostile"
		}
		job := validJob(fmt.Sprintf("job_%02d", i), "13", "food_hall", company, 1200)
		catalog = append(catalog, ScoredJob{
			Job:   job,
			Score: types.JobScore{JobID: job.ID, Final: 100000 - i},
		})
	}

	rejection := func(jobID string) types.ApplicationRecord {
		return types.ApplicationRecord{
			UserID: "user_a", JobID: jobID, CompanyID: "cmp_hostile", RegionCode: "13",
			OccupationCode: "food_hall", Salary: 1200, SalaryType: types.SalaryHourly,
			Outcome: types.OutcomeRejected, AppliedAt: time.Now(),
		}
	}
	history := []types.ApplicationRecord{rejection("job_00"), rejection("job_01"), rejection("job_02")}

	result, userProfile, err := MatchUser("user_a", history, catalog, MatchOptions{
		TargetSize: 40,
		Caps:       selection.DefaultCaps(),
	})
	require.NoError(t, err)
	require.NotNil(t, userProfile)
	assert.Equal(t, "13", userProfile.HomeRegion)

	require.Len(t, result.Jobs, 15)
	for _, job := range result.Jobs {
		assert.NotContains(t, []string{"job_00", "job_01", "job_02", "job_03", "job_04"}, job.JobID)
	}
}

func TestMatchUser_CandidatePoolPreCut(t *testing.T) {
	var catalog []ScoredJob
	for i := 0; i < 50; i++ {
		job := validJob(fmt.Sprintf("job_%02d", i), fmt.Sprintf("%02d", i%5+13), fmt.Sprintf("occ_%d", i%6), fmt.Sprintf("cmp_%02d", i), 1200)
		catalog = append(catalog, ScoredJob{Job: job, Score: types.JobScore{JobID: job.ID, Final: 100000 - i*100}})
	}

	result, _, err := MatchUser("user_new", nil, catalog, MatchOptions{
		TargetSize:    40,
		Caps:          selection.DefaultCaps(),
		CandidatePool: 10,
	})
	require.NoError(t, err)

	// Only the top 10 by base score survive the pre-cut.
	require.Len(t, result.Jobs, 10)
	for _, job := range result.Jobs {
		assert.Less(t, job.JobID, "job_10")
	}
}

func TestMatchUser_LegacySeedForZeroHistory(t *testing.T) {
	var catalog []ScoredJob
	for i := 0; i < 12; i++ {
		region := "13"
		if i%2 == 0 {
			region = "27"
		}
		job := validJob(fmt.Sprintf("job_%02d", i), region, "food_hall", fmt.Sprintf("cmp_%02d", i), 1200)
		catalog = append(catalog, ScoredJob{Job: job, Score: types.JobScore{JobID: job.ID, Final: 50000 - i}})
	}

	_, userProfile, err := MatchUser("user_seeded", nil, catalog, MatchOptions{
		TargetSize:       40,
		Caps:             selection.DefaultCaps(),
		SeedRegionCounts: map[string]int{"27": 3, "13": 1},
	})
	require.NoError(t, err)

	assert.True(t, userProfile.IsInitial)
	assert.Equal(t, "27", userProfile.HomeRegion)
	assert.InDelta(t, 0.75, userProfile.RegionWeights["27"], 0.001)
}

func TestRunBatch_UnknownProfileFails(t *testing.T) {
	opts := batchOptions(newFakeStore())
	opts.ScoringProfile = "aggressive"
	_, err := RunBatch(context.Background(), opts)
	assert.Error(t, err)
}
