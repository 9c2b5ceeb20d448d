package schedulerengine

import (
	"context"
	"time"

	"gitlab.com/judgecore-2026.net/internal/config"
	"gitlab.com/judgecore-2026.net/internal/core/ports/primary"
	"gitlab.com/judgecore-2026.net/internal/core/ports/secondary"
	"gitlab.com/judgecore-2026.net/internal/core/services/judge"
	"gitlab.com/judgecore-2026.net/internal/domain"
)

// DispatchEngine drains the queued-submission backlog in the background.
// Claims are leased with FOR UPDATE SKIP LOCKED so multiple instances can
// run against the same database without judging a submission twice.
type DispatchEngine struct {
	cfg          *config.DispatchConfig
	judgeService judge.IJudgeService
	repo         secondary.SubmissionRepository
	cache        secondary.ResultCache
	logger       primary.Logger

	sem  chan struct{}
	stop chan struct{}
}

func NewDispatchEngine(
	cfg *config.DispatchConfig,
	judgeService judge.IJudgeService,
	repo secondary.SubmissionRepository,
	cache secondary.ResultCache,
	logger primary.Logger,
) *DispatchEngine {
	return &DispatchEngine{
		cfg:          cfg,
		judgeService: judgeService,
		repo:         repo,
		cache:        cache,
		logger:       logger,
		sem:          make(chan struct{}, cfg.MaxConcurrent),
		stop:         make(chan struct{}),
	}
}

// StartDispatchEngine runs the claim loop until Stop is called or ctx ends.
func (e *DispatchEngine) StartDispatchEngine(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(e.cfg.ClaimInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-e.stop:
				return
			case <-ticker.C:
				e.claimAndJudge(ctx)
			}
		}
	}()
}

func (e *DispatchEngine) Stop() {
	close(e.stop)
}

func (e *DispatchEngine) claimAndJudge(ctx context.Context) {
	subs, err := e.repo.ClaimQueued(ctx, e.cfg.ClaimBatch)
	if err != nil {
		e.logger.Error("Failed to claim queued submissions", "error", err)
		return
	}

	for _, sub := range subs {
		select {
		case e.sem <- struct{}{}:
		case <-ctx.Done():
			return
		}
		go func(sub *domain.Submission) {
			defer func() { <-e.sem }()
			e.judgeOne(ctx, sub)
		}(sub)
	}
}

func (e *DispatchEngine) judgeOne(ctx context.Context, sub *domain.Submission) {
	e.logger.Info("Judging submission", "submissionId", sub.ID, "language", sub.Language)

	results, err := e.judgeService.RunBatch(ctx, sub)
	status := domain.SubmissionJudged
	if err != nil {
		e.logger.Error("Judging failed", "submissionId", sub.ID, "error", err)
		status = domain.SubmissionFailed
	}
	// Even on failure the service hands back a complete table when it can;
	// persist whatever we have so the caller sees per-test statuses.
	if len(results) > 0 {
		if err := e.repo.SaveResults(ctx, sub.ID, results); err != nil {
			e.logger.Error("Failed to save results", "submissionId", sub.ID, "error", err)
			status = domain.SubmissionFailed
		} else if cacheErr := e.cache.Set(ctx, sub.ID, results); cacheErr != nil {
			e.logger.Warn("Failed to cache results", "submissionId", sub.ID, "error", cacheErr)
		}
	}

	if err := e.repo.UpdateStatus(ctx, sub.ID, status); err != nil {
		e.logger.Error("Failed to update submission status", "submissionId", sub.ID, "error", err)
	}
}
