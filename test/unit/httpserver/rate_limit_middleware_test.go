package httpserver_test

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/acmshq/acms/internal/core/domain/cachekey"
	"github.com/acmshq/acms/internal/core/domain/user"
	"github.com/acmshq/acms/internal/core/ports"
	"github.com/acmshq/acms/internal/infrastructure/httpserver/helpers"
	"github.com/acmshq/acms/internal/infrastructure/httpserver/middleware"
	"github.com/acmshq/acms/test/mocks"
)

func TestGeneralLimiterSetsHeaders(t *testing.T) {
	reset := time.Now().Add(30 * time.Second).Truncate(time.Second)
	limiter := &mocks.MockRateLimiterService{
		AllowFn: func(ctx context.Context, scope cachekey.LimitScope, subject string) (*ports.RateLimitDecision, error) {
			require.Equal(t, cachekey.ScopeGeneral, scope)
			require.NotEmpty(t, subject)
			return &ports.RateLimitDecision{Allowed: true, Limit: 100, Remaining: 99, Reset: reset}, nil
		},
	}
	m := middleware.NewRateLimitMiddleware(limiter, nil)
	c, rec := newEchoContext(t, "")

	called := false
	err := m.General()(okHandler(&called))(c)
	require.NoError(t, err)
	require.True(t, called)
	require.Equal(t, "100", rec.Header().Get("X-RateLimit-Limit"))
	require.Equal(t, "99", rec.Header().Get("X-RateLimit-Remaining"))
	require.Equal(t, strconv.FormatInt(reset.Unix(), 10), rec.Header().Get("X-RateLimit-Reset"))
}

func TestLimiterRejectsWithTooManyRequests(t *testing.T) {
	limiter := &mocks.MockRateLimiterService{
		AllowFn: func(ctx context.Context, scope cachekey.LimitScope, subject string) (*ports.RateLimitDecision, error) {
			return &ports.RateLimitDecision{Allowed: false, Limit: 5, Remaining: 0, Reset: time.Now().Add(time.Minute)}, nil
		},
	}
	m := middleware.NewRateLimitMiddleware(limiter, nil)
	c, rec := newEchoContext(t, "")

	called := false
	err := m.Auth()(okHandler(&called))(c)
	requireHTTPError(t, err, http.StatusTooManyRequests)
	require.False(t, called)
	require.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
}

func TestLimiterFailsOpenOnStoreError(t *testing.T) {
	limiter := &mocks.MockRateLimiterService{
		AllowFn: func(ctx context.Context, scope cachekey.LimitScope, subject string) (*ports.RateLimitDecision, error) {
			return &ports.RateLimitDecision{Allowed: true, Limit: 100, Remaining: 100}, errors.New("connection refused")
		},
	}
	m := middleware.NewRateLimitMiddleware(limiter, nil)
	c, rec := newEchoContext(t, "")

	called := false
	err := m.General()(okHandler(&called))(c)
	require.NoError(t, err)
	require.True(t, called)
	// No headers when the ceiling could not be consulted.
	require.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}

func TestPerUserLimiterKeysBySubjectID(t *testing.T) {
	id := uuid.New()
	var gotSubject string
	limiter := &mocks.MockRateLimiterService{
		AllowFn: func(ctx context.Context, scope cachekey.LimitScope, subject string) (*ports.RateLimitDecision, error) {
			require.Equal(t, cachekey.ScopeUser, scope)
			gotSubject = subject
			return &ports.RateLimitDecision{Allowed: true, Limit: 200, Remaining: 199, Reset: time.Now()}, nil
		},
	}
	m := middleware.NewRateLimitMiddleware(limiter, nil)
	c, _ := newEchoContext(t, "")
	helpers.SetCurrentUser(c, &user.User{ID: id, Role: user.RoleStudent, IsActive: true})

	called := false
	err := m.PerUser()(okHandler(&called))(c)
	require.NoError(t, err)
	require.True(t, called)
	require.Equal(t, id.String(), gotSubject)
}

func TestPerUserLimiterSkipsAnonymousRequests(t *testing.T) {
	limiter := &mocks.MockRateLimiterService{
		AllowFn: func(ctx context.Context, scope cachekey.LimitScope, subject string) (*ports.RateLimitDecision, error) {
			t.Fatal("limiter must not be consulted without a principal")
			return nil, nil
		},
	}
	m := middleware.NewRateLimitMiddleware(limiter, nil)
	c, _ := newEchoContext(t, "")

	called := false
	err := m.PerUser()(okHandler(&called))(c)
	require.NoError(t, err)
	require.True(t, called)
}
