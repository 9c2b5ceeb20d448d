package secondary

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/judgecore-2026.net/internal/domain"
)

// ResultCache is a read-through cache for judged result tables.
type ResultCache interface {
	Set(ctx context.Context, id uuid.UUID, results []domain.ExecutionResult) error
	// Get returns (nil, false, nil) on a cache miss.
	Get(ctx context.Context, id uuid.UUID) ([]domain.ExecutionResult, bool, error)
}
