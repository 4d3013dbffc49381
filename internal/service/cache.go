package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Recommendation responses are cached briefly per user and result size, and
// dropped whenever the user's pantry or exclusions change.
const recommendationCacheTTL = 2 * time.Minute

func recommendationCacheKey(userID uuid.UUID, limit int) string {
	return fmt.Sprintf("recommendations:%s:%d", userID, limit)
}

func invalidateRecommendations(ctx context.Context, rdb *redis.Client, userID uuid.UUID) error {
	if rdb == nil {
		return nil
	}
	pattern := fmt.Sprintf("recommendations:%s:*", userID)
	iter := rdb.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
