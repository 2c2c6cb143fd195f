package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/acmshq/acms/configs"
	"github.com/acmshq/acms/internal/core/domain/cachekey"
	"github.com/acmshq/acms/internal/core/ports"
)

// RateLimiterService enforces fixed-window ceilings against the shared
// counter store. Every server process increments the same keys, so the
// ceilings hold across the whole deployment.
type RateLimiterService struct {
	repo   ports.RateLimitRepository
	window time.Duration
	limits map[cachekey.LimitScope]int
	logger *logrus.Logger
}

func NewRateLimiterService(repo ports.RateLimitRepository, cfg *configs.RateLimitConfig, logger *logrus.Logger) ports.RateLimiterService {
	window := cfg.Window
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiterService{
		repo:   repo,
		window: window,
		limits: map[cachekey.LimitScope]int{
			cachekey.ScopeGeneral: cfg.GeneralPerWindow,
			cachekey.ScopeAuth:    cfg.AuthPerWindow,
			cachekey.ScopeUser:    cfg.PerUserPerWindow,
		},
		logger: logger,
	}
}

// Allow consumes one request unit for subject under scope. If the counter
// store is unreachable the limiter fails open: the decision allows the
// request and the store error is returned alongside it for logging.
func (s *RateLimiterService) Allow(ctx context.Context, scope cachekey.LimitScope, subject string) (*ports.RateLimitDecision, error) {
	limit := s.limits[scope]
	if limit <= 0 {
		// No ceiling configured for this scope.
		return &ports.RateLimitDecision{Allowed: true, Reset: time.Now().Add(s.window)}, nil
	}

	key := cachekey.RateLimit(scope, subject)
	count, reset, err := s.repo.Increment(ctx, key.String(), s.window)
	if err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"scope": scope, "subject": subject}).WithError(err).Warn("rate limiter: store unavailable, failing open")
		}
		return &ports.RateLimitDecision{
			Allowed:   true,
			Limit:     limit,
			Remaining: limit,
			Reset:     time.Now().Add(s.window),
		}, err
	}

	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	if count > int64(limit) {
		rateLimitRejections.WithLabelValues(string(scope)).Inc()
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"scope": scope, "subject": subject, "count": count, "limit": limit}).Info("rate limiter: request rejected")
		}
		return &ports.RateLimitDecision{Allowed: false, Limit: limit, Remaining: 0, Reset: reset}, nil
	}

	return &ports.RateLimitDecision{Allowed: true, Limit: limit, Remaining: remaining, Reset: reset}, nil
}

// ResetCounter removes the counter for subject under scope, reopening its
// window immediately. Admin-only escape hatch for counters orphaned without
// an expiry.
func (s *RateLimiterService) ResetCounter(ctx context.Context, scope cachekey.LimitScope, subject string) error {
	key := cachekey.RateLimit(scope, subject)
	if err := s.repo.Reset(ctx, key.String()); err != nil {
		return err
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"scope": scope, "subject": subject}).Info("rate limiter: counter reset")
	}
	return nil
}
