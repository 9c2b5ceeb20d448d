package secondary

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/judgecore-2026.net/internal/domain"
)

// SubmissionRepository persists submissions and their judged results.
type SubmissionRepository interface {
	SaveSubmission(ctx context.Context, submission *domain.Submission) error
	GetSubmission(ctx context.Context, id uuid.UUID) (*domain.Submission, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.SubmissionStatus) error

	// ClaimQueued atomically moves up to limit queued submissions to RUNNING
	// and returns them. Concurrent dispatchers never claim the same row.
	ClaimQueued(ctx context.Context, limit int) ([]*domain.Submission, error)

	SaveResults(ctx context.Context, id uuid.UUID, results []domain.ExecutionResult) error
	GetResults(ctx context.Context, id uuid.UUID) ([]domain.ExecutionResult, error)
}
