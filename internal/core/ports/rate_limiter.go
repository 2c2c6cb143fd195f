package ports

import (
	"context"
	"time"

	"github.com/acmshq/acms/internal/core/domain/cachekey"
)

// RateLimitRepository provides the atomic counter operations for the
// fixed-window limiter. Implementations must guarantee that concurrent
// increments against the same key never under-count.
type RateLimitRepository interface {
	// Increment bumps the counter at key. The increment that creates the key
	// also starts the window by setting its expiry; later increments within
	// the window must not extend it. Returns the post-increment count and
	// the time the window resets.
	Increment(ctx context.Context, key string, window time.Duration) (count int64, reset time.Time, err error)
	// Reset removes the counter. Counters normally die by store-side expiry;
	// this exists for administrative resets only.
	Reset(ctx context.Context, key string) error
}

// RateLimitDecision is the outcome of consuming one request unit.
type RateLimitDecision struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Time
}

// RateLimiterService enforces per-scope request ceilings backed by the shared
// store, so all server processes see the same counters. If the store is
// unreachable the limiter fails open: callers receive an allowed decision
// together with the error.
type RateLimiterService interface {
	Allow(ctx context.Context, scope cachekey.LimitScope, subject string) (*RateLimitDecision, error)
	ResetCounter(ctx context.Context, scope cachekey.LimitScope, subject string) error
}
