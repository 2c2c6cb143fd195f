package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/acmshq/acms/configs"
	"github.com/acmshq/acms/internal/application/services"
	"github.com/acmshq/acms/internal/core/domain/cachekey"
	"github.com/acmshq/acms/internal/core/ports"
	"github.com/acmshq/acms/test/mocks"
)

func newLimiter(repo *mocks.MockRateLimitRepository, authLimit int) ports.RateLimiterService {
	return services.NewRateLimiterService(repo, &configs.RateLimitConfig{
		Window:           time.Minute,
		GeneralPerWindow: 5,
		AuthPerWindow:    authLimit,
		PerUserPerWindow: 10,
	}, nil)
}

func TestAllowWithinCeiling(t *testing.T) {
	repo := mocks.NewMockRateLimitRepository()
	limiter := newLimiter(repo, 3)

	for i := 1; i <= 3; i++ {
		decision, err := limiter.Allow(context.Background(), cachekey.ScopeAuth, "203.0.113.9")
		require.NoError(t, err)
		require.True(t, decision.Allowed)
		require.Equal(t, 3, decision.Limit)
		require.Equal(t, 3-i, decision.Remaining)
	}
}

func TestRejectBeyondCeiling(t *testing.T) {
	repo := mocks.NewMockRateLimitRepository()
	limiter := newLimiter(repo, 3)

	for i := 0; i < 3; i++ {
		_, err := limiter.Allow(context.Background(), cachekey.ScopeAuth, "203.0.113.9")
		require.NoError(t, err)
	}

	decision, err := limiter.Allow(context.Background(), cachekey.ScopeAuth, "203.0.113.9")
	require.NoError(t, err)
	require.False(t, decision.Allowed)
	require.Equal(t, 0, decision.Remaining)
	require.False(t, decision.Reset.IsZero())
}

func TestSubjectsCountedIndependently(t *testing.T) {
	repo := mocks.NewMockRateLimitRepository()
	limiter := newLimiter(repo, 1)

	first, err := limiter.Allow(context.Background(), cachekey.ScopeAuth, "203.0.113.9")
	require.NoError(t, err)
	require.True(t, first.Allowed)

	other, err := limiter.Allow(context.Background(), cachekey.ScopeAuth, "198.51.100.4")
	require.NoError(t, err)
	require.True(t, other.Allowed)

	repeat, err := limiter.Allow(context.Background(), cachekey.ScopeAuth, "203.0.113.9")
	require.NoError(t, err)
	require.False(t, repeat.Allowed)
}

func TestFailOpenOnStoreError(t *testing.T) {
	repo := mocks.NewMockRateLimitRepository()
	repo.IncrementErr = errors.New("store down")
	limiter := newLimiter(repo, 3)

	decision, err := limiter.Allow(context.Background(), cachekey.ScopeAuth, "203.0.113.9")
	require.Error(t, err)
	require.True(t, decision.Allowed)
}

func TestResetCounterReopensWindow(t *testing.T) {
	repo := mocks.NewMockRateLimitRepository()
	limiter := newLimiter(repo, 1)

	_, err := limiter.Allow(context.Background(), cachekey.ScopeAuth, "203.0.113.9")
	require.NoError(t, err)

	blocked, err := limiter.Allow(context.Background(), cachekey.ScopeAuth, "203.0.113.9")
	require.NoError(t, err)
	require.False(t, blocked.Allowed)

	require.NoError(t, limiter.ResetCounter(context.Background(), cachekey.ScopeAuth, "203.0.113.9"))

	after, err := limiter.Allow(context.Background(), cachekey.ScopeAuth, "203.0.113.9")
	require.NoError(t, err)
	require.True(t, after.Allowed)
}
