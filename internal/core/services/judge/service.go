package judge

import (
	"context"

	"gitlab.com/judgecore-2026.net/internal/domain"
)

// IJudgeService is the engine entry point: the only call surrounding layers
// need. RunBatch returns exactly one result per test case, in input order,
// for every submission that passes validation — including when the sandbox
// failed, in which case the table is uniformly annotated and the returned
// error wraps errs.Infrastructure so transports can signal the fault class.
type IJudgeService interface {
	RunBatch(ctx context.Context, submission *domain.Submission) ([]domain.ExecutionResult, error)
	Languages() []string
}
