// package resultcache caches judged result tables in Redis so repeated
// polls for a finished submission skip PostgreSQL.
package resultcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"gitlab.com/judgecore-2026.net/internal/core/ports/primary"
	"gitlab.com/judgecore-2026.net/internal/core/ports/secondary"
	"gitlab.com/judgecore-2026.net/internal/domain"
)

const resultKeyPrefix = "results:"

var _ secondary.ResultCache = (*ResultCache)(nil)

type ResultCache struct {
	redisClient *redis.Client
	ttl         time.Duration
	logger      primary.Logger
}

func New(redisClient *redis.Client, ttl time.Duration, logger primary.Logger) *ResultCache {
	return &ResultCache{
		redisClient: redisClient,
		ttl:         ttl,
		logger:      logger,
	}
}

func (c *ResultCache) Set(ctx context.Context, id uuid.UUID, results []domain.ExecutionResult) error {
	payload, err := json.Marshal(results)
	if err != nil {
		c.logger.Error("Failed to marshal results", "submissionId", id, "error", err)
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	key := resultKeyPrefix + id.String()
	if err := c.redisClient.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Error("Failed to cache results", "submissionId", id, "error", err)
		return fmt.Errorf("failed to cache results: %w", err)
	}
	return nil
}

func (c *ResultCache) Get(ctx context.Context, id uuid.UUID) ([]domain.ExecutionResult, bool, error) {
	key := resultKeyPrefix + id.String()
	payload, err := c.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		c.logger.Error("Failed to read result cache", "submissionId", id, "error", err)
		return nil, false, fmt.Errorf("failed to read result cache: %w", err)
	}

	var results []domain.ExecutionResult
	if err := json.Unmarshal(payload, &results); err != nil {
		c.logger.Error("Failed to unmarshal cached results", "submissionId", id, "error", err)
		return nil, false, fmt.Errorf("failed to unmarshal cached results: %w", err)
	}
	return results, true, nil
}
