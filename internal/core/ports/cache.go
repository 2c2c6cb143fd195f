package ports

import (
	"context"
	"time"
)

// Cache is the raw key-value store contract. Implementations talk to the
// shared store and surface its errors unfiltered; the fail-open policy lives
// one layer up in the cache service, where a store error is downgraded to a
// miss instead of failing the request.
type Cache interface {
	// Get returns the raw bytes for key. ok=false means the key is absent,
	// which is distinct from an empty value.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value for key with TTL (0 or negative means no expiration).
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes the given keys; absence is not an error.
	Delete(ctx context.Context, keys ...string) error
	// DeleteByPattern removes every key matching the glob pattern and
	// returns the number deleted.
	DeleteByPattern(ctx context.Context, pattern string) (int, error)
}
