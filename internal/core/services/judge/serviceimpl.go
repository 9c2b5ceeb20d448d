package judge

import (
	"context"
	"errors"
	"fmt"

	"gitlab.com/judgecore-2026.net/internal/core/ports/primary"
	"gitlab.com/judgecore-2026.net/internal/core/ports/secondary"
	"gitlab.com/judgecore-2026.net/internal/domain"
	"gitlab.com/judgecore-2026.net/internal/languages"
	"gitlab.com/judgecore-2026.net/internal/sandbox"
	"gitlab.com/judgecore-2026.net/internal/static/errs"
)

var _ IJudgeService = (*JudgeService)(nil)

type JudgeService struct {
	runner secondary.SandboxRunner
	logger primary.Logger
}

// NewJudgeService creates the engine around an injected sandbox runner.
func NewJudgeService(runner secondary.SandboxRunner, logger primary.Logger) *JudgeService {
	return &JudgeService{
		runner: runner,
		logger: logger,
	}
}

// RunBatch validates the submission, resolves its language profile and runs
// the whole batch through one sandbox invocation.
func (s *JudgeService) RunBatch(ctx context.Context, sub *domain.Submission) ([]domain.ExecutionResult, error) {
	if err := validate(sub); err != nil {
		return nil, err
	}

	profile, err := languages.Resolve(sub.Language)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Judging submission",
		"submissionId", sub.ID,
		"language", sub.Language,
		"testCases", len(sub.TestCases))

	results, err := s.runner.RunBatch(ctx, sub, profile)
	if err != nil {
		// The sandbox could not be driven. The caller still gets a complete
		// table; the error preserves the fault class.
		s.logger.Error("Sandbox invocation failed", "submissionId", sub.ID, "error", err)
		if !errors.Is(err, errs.Infrastructure) {
			err = fmt.Errorf("%w: %v", errs.Infrastructure, err)
		}
		return internalErrorTable(sub), err
	}

	return normalize(sub, results), nil
}

// Languages returns the registered language identifiers.
func (s *JudgeService) Languages() []string {
	return languages.Identifiers()
}

func validate(sub *domain.Submission) error {
	switch {
	case sub == nil:
		return fmt.Errorf("%w: submission is nil", errs.InvalidSubmission)
	case sub.Code == "":
		return fmt.Errorf("%w: code is empty", errs.InvalidSubmission)
	case sub.Language == "":
		return fmt.Errorf("%w: language is empty", errs.InvalidSubmission)
	case sub.TimeLimit <= 0:
		return fmt.Errorf("%w: time limit must be positive", errs.InvalidSubmission)
	case sub.MemoryLimit <= 0:
		return fmt.Errorf("%w: memory limit must be positive", errs.InvalidSubmission)
	case len(sub.TestCases) == 0:
		return fmt.Errorf("%w: no test cases", errs.InvalidSubmission)
	}
	return nil
}

// normalize guarantees the contract no runner is trusted with: exactly N
// results, numbered 1..N in input order, times rounded to three fractional
// digits.
func normalize(sub *domain.Submission, results []domain.ExecutionResult) []domain.ExecutionResult {
	out := make([]domain.ExecutionResult, 0, len(sub.TestCases))
	for i, tc := range sub.TestCases {
		if i >= len(results) {
			out = append(out, domain.ExecutionResult{
				TestCaseNumber: i + 1,
				Input:          tc.Input,
				ExpectedOutput: tc.ExpectedOutput,
				Status:         domain.StatusInternalError,
				ErrorMessage:   "no result produced for this test case",
			})
			continue
		}
		res := results[i]
		res.TestCaseNumber = i + 1
		res.Input = tc.Input
		res.ExpectedOutput = tc.ExpectedOutput
		res.TimeTaken = sandbox.NormalizeTime(res.TimeTaken)
		if res.Status != domain.StatusSuccess {
			res.Passed = false
		}
		out = append(out, res)
	}
	return out
}

func internalErrorTable(sub *domain.Submission) []domain.ExecutionResult {
	out := make([]domain.ExecutionResult, 0, len(sub.TestCases))
	for i, tc := range sub.TestCases {
		out = append(out, domain.ExecutionResult{
			TestCaseNumber: i + 1,
			Input:          tc.Input,
			ExpectedOutput: tc.ExpectedOutput,
			Status:         domain.StatusInternalError,
			ErrorMessage:   "sandbox could not be started",
		})
	}
	return out
}
