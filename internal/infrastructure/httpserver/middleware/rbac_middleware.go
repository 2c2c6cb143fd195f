package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/acmshq/acms/internal/core/domain/user"
	"github.com/acmshq/acms/internal/infrastructure/httpserver/helpers"
)

type RBACMiddleware struct {
	logger *logrus.Logger
}

func NewRBACMiddleware(logger *logrus.Logger) *RBACMiddleware {
	return &RBACMiddleware{logger: logger}
}

// RequireRoles allows the request through only if the cached principal's
// role is one of the given roles. Must run after RequireJWT.
func (m *RBACMiddleware) RequireRoles(roles ...user.UserRole) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, err := helpers.GetCurrentUserFromContext(c)
			if err != nil {
				return err
			}
			for _, role := range roles {
				if principal.Role == role {
					return next(c)
				}
			}
			if m.logger != nil {
				m.logger.WithFields(logrus.Fields{"user_id": principal.ID, "role": principal.Role, "path": c.Path()}).Warn("access denied by role")
			}
			return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
		}
	}
}
