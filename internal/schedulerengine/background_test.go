package schedulerengine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"gitlab.com/judgecore-2026.net/internal/config"
	"gitlab.com/judgecore-2026.net/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Info(msg string, args ...interface{})  {}
func (nopLogger) Error(msg string, args ...interface{}) {}
func (nopLogger) Debug(msg string, args ...interface{}) {}
func (nopLogger) Warn(msg string, args ...interface{})  {}

type fakeJudge struct {
	results []domain.ExecutionResult
	err     error
}

func (f *fakeJudge) RunBatch(ctx context.Context, sub *domain.Submission) ([]domain.ExecutionResult, error) {
	return f.results, f.err
}

func (f *fakeJudge) Languages() []string { return nil }

type fakeRepo struct {
	mu       sync.Mutex
	queued   []*domain.Submission
	statuses map[uuid.UUID]domain.SubmissionStatus
	results  map[uuid.UUID][]domain.ExecutionResult
}

func newFakeRepo(queued ...*domain.Submission) *fakeRepo {
	return &fakeRepo{
		queued:   queued,
		statuses: map[uuid.UUID]domain.SubmissionStatus{},
		results:  map[uuid.UUID][]domain.ExecutionResult{},
	}
}

func (f *fakeRepo) SaveSubmission(ctx context.Context, sub *domain.Submission) error { return nil }

func (f *fakeRepo) GetSubmission(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	return nil, nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.SubmissionStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[id] = status
	return nil
}

func (f *fakeRepo) ClaimQueued(ctx context.Context, limit int) ([]*domain.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	claimed := f.queued
	f.queued = nil
	return claimed, nil
}

func (f *fakeRepo) SaveResults(ctx context.Context, id uuid.UUID, results []domain.ExecutionResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[id] = results
	return nil
}

func (f *fakeRepo) GetResults(ctx context.Context, id uuid.UUID) ([]domain.ExecutionResult, error) {
	return nil, nil
}

func (f *fakeRepo) statusOf(id uuid.UUID) (domain.SubmissionStatus, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.statuses[id]
	return s, ok
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[uuid.UUID][]domain.ExecutionResult
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[uuid.UUID][]domain.ExecutionResult{}}
}

func (f *fakeCache) Set(ctx context.Context, id uuid.UUID, results []domain.ExecutionResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[id] = results
	return nil
}

func (f *fakeCache) Get(ctx context.Context, id uuid.UUID) ([]domain.ExecutionResult, bool, error) {
	return nil, false, nil
}

func dispatchConfig() *config.DispatchConfig {
	return &config.DispatchConfig{
		ClaimInterval: 10 * time.Millisecond,
		ClaimBatch:    10,
		MaxConcurrent: 2,
	}
}

func waitForStatus(t *testing.T, repo *fakeRepo, id uuid.UUID) domain.SubmissionStatus {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if status, ok := repo.statusOf(id); ok {
			return status
		}
		select {
		case <-deadline:
			t.Fatalf("submission %s never reached a terminal status", id)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func queuedSubmission() *domain.Submission {
	return domain.NewSubmission("u1", "print(1)", "python", 2, 256, []domain.TestCase{
		{Input: "a", ExpectedOutput: "a"},
	})
}

func TestDispatchJudgesClaimedSubmission(t *testing.T) {
	sub := queuedSubmission()
	repo := newFakeRepo(sub)
	cache := newFakeCache()
	judge := &fakeJudge{results: []domain.ExecutionResult{
		{TestCaseNumber: 1, Status: domain.StatusSuccess, Passed: true},
	}}

	engine := NewDispatchEngine(dispatchConfig(), judge, repo, cache, nopLogger{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	engine.StartDispatchEngine(ctx)
	defer engine.Stop()

	if status := waitForStatus(t, repo, sub.ID); status != domain.SubmissionJudged {
		t.Fatalf("expected JUDGED, got %q", status)
	}

	repo.mu.Lock()
	saved := repo.results[sub.ID]
	repo.mu.Unlock()
	if len(saved) != 1 {
		t.Fatalf("results not persisted: %v", saved)
	}

	cache.mu.Lock()
	cached := cache.entries[sub.ID]
	cache.mu.Unlock()
	if len(cached) != 1 {
		t.Fatalf("results not cached: %v", cached)
	}
}

func TestDispatchMarksFailureAndKeepsTable(t *testing.T) {
	sub := queuedSubmission()
	repo := newFakeRepo(sub)
	judge := &fakeJudge{
		results: []domain.ExecutionResult{
			{TestCaseNumber: 1, Status: domain.StatusInternalError},
		},
		err: errors.New("sandbox could not be started"),
	}

	engine := NewDispatchEngine(dispatchConfig(), judge, repo, newFakeCache(), nopLogger{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	engine.StartDispatchEngine(ctx)
	defer engine.Stop()

	if status := waitForStatus(t, repo, sub.ID); status != domain.SubmissionFailed {
		t.Fatalf("expected FAILED, got %q", status)
	}

	repo.mu.Lock()
	saved := repo.results[sub.ID]
	repo.mu.Unlock()
	if len(saved) != 1 {
		t.Fatalf("failure table not persisted: %v", saved)
	}
}
