package repositories_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"

	"github.com/acmshq/acms/internal/infrastructure/repositories"
)

// stubRedis overrides the four commands the counter repository issues;
// anything else panics through the embedded nil interface.
type stubRedis struct {
	redis.Cmdable
	counts      map[string]int64
	ttls        map[string]time.Duration
	expireCalls map[string]int
	incrErr     error
}

func newStubRedis() *stubRedis {
	return &stubRedis{
		counts:      make(map[string]int64),
		ttls:        make(map[string]time.Duration),
		expireCalls: make(map[string]int),
	}
}

func (s *stubRedis) Incr(ctx context.Context, key string) *redis.IntCmd {
	if s.incrErr != nil {
		return redis.NewIntResult(0, s.incrErr)
	}
	s.counts[key]++
	return redis.NewIntResult(s.counts[key], nil)
}

func (s *stubRedis) Expire(ctx context.Context, key string, window time.Duration) *redis.BoolCmd {
	s.expireCalls[key]++
	s.ttls[key] = window
	return redis.NewBoolResult(true, nil)
}

func (s *stubRedis) TTL(ctx context.Context, key string) *redis.DurationCmd {
	return redis.NewDurationResult(s.ttls[key], nil)
}

func (s *stubRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var removed int64
	for _, key := range keys {
		if _, ok := s.counts[key]; ok {
			removed++
		}
		delete(s.counts, key)
		delete(s.ttls, key)
	}
	return redis.NewIntResult(removed, nil)
}

func TestIncrementSetsExpiryOnlyOnFirstIncrement(t *testing.T) {
	store := newStubRedis()
	repo := repositories.NewRateLimitRedisRepository(store)
	ctx := context.Background()

	const key = "rl:general:10.0.0.1"
	for i := int64(1); i <= 5; i++ {
		count, _, err := repo.Increment(ctx, key, time.Minute)
		require.NoError(t, err)
		require.Equal(t, i, count)
	}

	// The window opens once; later increments never touch the expiry.
	require.Equal(t, 1, store.expireCalls[key])
	require.Equal(t, time.Minute, store.ttls[key])
}

func TestIncrementDerivesResetFromRemainingTTL(t *testing.T) {
	store := newStubRedis()
	repo := repositories.NewRateLimitRedisRepository(store)
	ctx := context.Background()

	const key = "rl:auth:10.0.0.1"
	_, _, err := repo.Increment(ctx, key, time.Minute)
	require.NoError(t, err)

	// Halfway through the window the counter reports half the TTL left.
	store.ttls[key] = 30 * time.Second
	before := time.Now()
	count, reset, err := repo.Increment(ctx, key, time.Minute)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)
	require.WithinDuration(t, before.Add(30*time.Second), reset, time.Second)
	require.Equal(t, 1, store.expireCalls[key])
}

func TestIncrementFallsBackToFullWindowWithoutTTL(t *testing.T) {
	store := newStubRedis()
	repo := repositories.NewRateLimitRedisRepository(store)
	ctx := context.Background()

	// A counter that lost its expiry (crash between INCR and EXPIRE)
	// reports no TTL; the reset estimate degrades to a full window.
	const key = "rl:general:10.0.0.2"
	store.counts[key] = 3
	store.ttls[key] = -1

	before := time.Now()
	count, reset, err := repo.Increment(ctx, key, time.Minute)
	require.NoError(t, err)
	require.Equal(t, int64(4), count)
	require.WithinDuration(t, before.Add(time.Minute), reset, time.Second)
	require.Zero(t, store.expireCalls[key])
}

func TestIncrementPropagatesStoreError(t *testing.T) {
	store := newStubRedis()
	store.incrErr = errors.New("connection refused")
	repo := repositories.NewRateLimitRedisRepository(store)

	_, _, err := repo.Increment(context.Background(), "rl:general:10.0.0.1", time.Minute)
	require.Error(t, err)
}

func TestResetReopensTheWindow(t *testing.T) {
	store := newStubRedis()
	repo := repositories.NewRateLimitRedisRepository(store)
	ctx := context.Background()

	const key = "rl:user:42"
	for i := 0; i < 3; i++ {
		_, _, err := repo.Increment(ctx, key, time.Minute)
		require.NoError(t, err)
	}
	require.NoError(t, repo.Reset(ctx, key))

	// The first increment after a reset recreates the key and sets a
	// fresh expiry.
	count, _, err := repo.Increment(ctx, key, time.Minute)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
	require.Equal(t, 2, store.expireCalls[key])
}

func TestResetToleratesAbsentCounter(t *testing.T) {
	repo := repositories.NewRateLimitRedisRepository(newStubRedis())
	require.NoError(t, repo.Reset(context.Background(), "rl:general:10.9.9.9"))
}
