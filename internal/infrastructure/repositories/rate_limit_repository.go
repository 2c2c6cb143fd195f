package repositories

import (
	"context"
	"time"

	"github.com/acmshq/acms/internal/core/ports"
	"github.com/go-redis/redis/v8"
)

// RateLimitRedisRepository implements the fixed-window counter storage.
type RateLimitRedisRepository struct {
	r redis.Cmdable
}

func NewRateLimitRedisRepository(r redis.Cmdable) *RateLimitRedisRepository {
	return &RateLimitRedisRepository{r: r}
}

// Increment bumps the counter and, when this increment created the key, opens
// the window by setting its expiry. INCR and EXPIRE are two round trips, not
// one atomic step: a process dying between them leaves a counter with no
// expiry. Later requests keep counting against it until an administrative
// Reset clears it; an EVAL script would close the gap at the cost of scripting
// every increment.
func (repo *RateLimitRedisRepository) Increment(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	count, err := repo.r.Incr(ctx, key).Result()
	if err != nil {
		return 0, time.Time{}, err
	}
	if count == 1 {
		if err := repo.r.Expire(ctx, key, window).Err(); err != nil {
			return count, time.Now().Add(window), err
		}
		return count, time.Now().Add(window), nil
	}
	// Derive the reset time from the remaining TTL set by the first
	// increment; fall back to a full window for counters that lost theirs.
	ttl, err := repo.r.TTL(ctx, key).Result()
	if err != nil || ttl <= 0 {
		return count, time.Now().Add(window), nil
	}
	return count, time.Now().Add(ttl), nil
}

// Reset deletes the counter. Deleting an absent key is not an error.
func (repo *RateLimitRedisRepository) Reset(ctx context.Context, key string) error {
	return repo.r.Del(ctx, key).Err()
}

var _ ports.RateLimitRepository = (*RateLimitRedisRepository)(nil)
