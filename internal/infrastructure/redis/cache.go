package redis

import (
	"context"
	"time"

	"github.com/acmshq/acms/internal/core/ports"
	"github.com/go-redis/redis/v8"
)

const scanBatchSize = 200

// RedisCache implements ports.Cache on a Redis client. Key namespacing is
// owned by the cachekey package; this layer stores exactly the keys it is
// given.
type RedisCache struct {
	r redis.Cmdable
}

// NewRedisCache creates a new Redis-backed cache.
func NewRedisCache(r redis.Cmdable) *RedisCache {
	return &RedisCache{r: r}
}

// Get implements Cache.Get.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.r.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// Set implements Cache.Set. A non-positive TTL stores without expiry.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return c.r.Set(ctx, key, value, ttl).Err()
}

// Delete implements Cache.Delete.
func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.r.Del(ctx, keys...).Err()
}

// DeleteByPattern scans for keys matching the glob and deletes them in
// batches. The fan-out is not atomic: a failure mid-way leaves some matches
// deleted and others not, which callers tolerate because entries self-heal
// via TTL.
func (c *RedisCache) DeleteByPattern(ctx context.Context, pattern string) (int, error) {
	deleted := 0
	var cursor uint64
	for {
		keys, next, err := c.r.Scan(ctx, cursor, pattern, scanBatchSize).Result()
		if err != nil {
			return deleted, err
		}
		if len(keys) > 0 {
			if err := c.r.Del(ctx, keys...).Err(); err != nil {
				return deleted, err
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 { // done scanning all keys
			break
		}
	}
	return deleted, nil
}

var _ ports.Cache = (*RedisCache)(nil)
