package secondary

import (
	"context"

	"gitlab.com/judgecore-2026.net/internal/domain"
)

// SandboxRunner executes a submission against its test cases inside an
// isolated environment and returns one result per test case, in input order.
// The composition root decides which implementation (local docker sandbox or
// remote execution service) to inject; the engine never branches on the
// environment itself.
//
// A returned error wrapping errs.Infrastructure means the sandbox could not
// be driven at all; the result slice may still be populated so callers can
// render a complete table.
type SandboxRunner interface {
	RunBatch(ctx context.Context, submission *domain.Submission, profile domain.LanguageProfile) ([]domain.ExecutionResult, error)
}
