package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/acmshq/acms/internal/core/domain/user"
	"github.com/acmshq/acms/internal/infrastructure/httpserver/helpers"
)

// getDashboard serves the role-specific cached stats view for the caller.
func (s *Server) getDashboard(c echo.Context) error {
	principal, err := helpers.GetCurrentUserFromContext(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	switch principal.Role {
	case user.RoleStudent:
		stats, err := s.dashboardSvc.StudentStats(ctx, principal)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to build dashboard")
		}
		return c.JSON(http.StatusOK, stats)
	case user.RoleCounsellor:
		stats, err := s.dashboardSvc.CounsellorStats(ctx, principal)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to build dashboard")
		}
		return c.JSON(http.StatusOK, stats)
	case user.RoleAdmin:
		stats, err := s.dashboardSvc.AdminStats(ctx, principal)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to build dashboard")
		}
		return c.JSON(http.StatusOK, stats)
	default:
		return echo.NewHTTPError(http.StatusForbidden, "unknown role")
	}
}
