package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/acmshq/acms/internal/core/domain/user"
	"github.com/acmshq/acms/internal/core/ports"
	"github.com/acmshq/acms/internal/infrastructure/httpserver/helpers"
)

type JWTMiddleware struct {
	authService ports.AuthService
	userService ports.UserService
	logger      *logrus.Logger
}

func NewJWTMiddleware(authService ports.AuthService, userService ports.UserService, logger *logrus.Logger) *JWTMiddleware {
	return &JWTMiddleware{authService: authService, userService: userService, logger: logger}
}

// RequireJWT validates the bearer token and resolves the caller through the
// principal cache. The resolved snapshot, not the token claims, is the
// source of truth for role checks: evicting the principal makes role and
// status changes visible on the next request even while old tokens live.
func (m *JWTMiddleware) RequireJWT() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString, err := helpers.GetJWTTokenFromContext(c)
			if err != nil {
				return err
			}

			claims, err := m.authService.ValidateToken(tokenString)
			if err != nil {
				if m.logger != nil {
					m.logger.WithFields(logrus.Fields{"ip": c.RealIP(), "path": c.Request().URL.Path}).WithError(err).Warn("token validation failed")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			principal, err := m.userService.GetPrincipal(c.Request().Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, user.ErrNotFound) {
					return echo.NewHTTPError(http.StatusUnauthorized, "unknown user")
				}
				if m.logger != nil {
					m.logger.WithFields(logrus.Fields{"user_id": claims.UserID}).WithError(err).Error("failed to resolve principal")
				}
				return echo.NewHTTPError(http.StatusInternalServerError, "failed to resolve user")
			}
			if !principal.IsActive {
				return echo.NewHTTPError(http.StatusForbidden, "account is deactivated")
			}

			helpers.SetCurrentUser(c, principal)
			return next(c)
		}
	}
}
