package middleware

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/acmshq/acms/internal/core/domain/cachekey"
	"github.com/acmshq/acms/internal/core/ports"
	"github.com/acmshq/acms/internal/infrastructure/httpserver/helpers"
)

type RateLimitMiddleware struct {
	rateLimiter ports.RateLimiterService
	logger      *logrus.Logger
}

func NewRateLimitMiddleware(rateLimiter ports.RateLimiterService, logger *logrus.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{rateLimiter: rateLimiter, logger: logger}
}

// General limits all traffic per client address.
func (r *RateLimitMiddleware) General() echo.MiddlewareFunc {
	return r.limit(cachekey.ScopeGeneral, func(c echo.Context) (string, bool) {
		return c.RealIP(), true
	})
}

// Auth applies the tighter per-address ceiling for credential endpoints.
func (r *RateLimitMiddleware) Auth() echo.MiddlewareFunc {
	return r.limit(cachekey.ScopeAuth, func(c echo.Context) (string, bool) {
		return c.RealIP(), true
	})
}

// PerUser limits authenticated traffic by user ID. Must run after
// RequireJWT; requests without a principal pass through untouched.
func (r *RateLimitMiddleware) PerUser() echo.MiddlewareFunc {
	return r.limit(cachekey.ScopeUser, func(c echo.Context) (string, bool) {
		u, ok := helpers.GetCurrentUserRaw(c)
		if !ok || u == nil {
			return "", false
		}
		return u.ID.String(), true
	})
}

func (r *RateLimitMiddleware) limit(scope cachekey.LimitScope, subject func(echo.Context) (string, bool)) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sub, ok := subject(c)
			if !ok {
				return next(c)
			}

			decision, err := r.rateLimiter.Allow(c.Request().Context(), scope, sub)
			if err != nil {
				// Fail open: the store being down must not take requests
				// down with it.
				if r.logger != nil {
					r.logger.WithFields(logrus.Fields{"scope": scope, "subject": sub}).WithError(err).Warn("rate limiter unavailable, allowing request")
				}
				return next(c)
			}

			header := c.Response().Header()
			header.Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
			header.Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
			header.Set("X-RateLimit-Reset", strconv.FormatInt(decision.Reset.Unix(), 10))

			if !decision.Allowed {
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded, try again later")
			}
			return next(c)
		}
	}
}
