package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/acmshq/acms/internal/application/services"
	"github.com/acmshq/acms/internal/core/domain/audit"
	"github.com/acmshq/acms/internal/core/domain/auth"
	"github.com/acmshq/acms/internal/infrastructure/httpserver/helpers"
)

// Auth handlers
func (s *Server) signup(c echo.Context) error {
	var req auth.SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email, password, first_name and last_name are required")
	}

	u, err := s.authSvc.Signup(c.Request().Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return echo.NewHTTPError(http.StatusConflict, "email is already registered")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if s.auditSvc != nil {
		_ = s.auditSvc.LogAction(c.Request().Context(), &audit.CreateAuditLogRequest{
			UserID:     &u.ID,
			Action:     audit.ActionUserCreated,
			Resource:   audit.ResourceUser,
			ResourceID: &u.ID,
			Details:    map[string]any{"method": "signup", "role": u.Role},
			IPAddress:  c.RealIP(),
			UserAgent:  c.Request().UserAgent(),
		})
	}

	return c.JSON(http.StatusCreated, u)
}

func (s *Server) login(c echo.Context) error {
	var req auth.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	resp, err := s.authSvc.Login(c.Request().Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrAccountDisabled) {
			return echo.NewHTTPError(http.StatusForbidden, "account is deactivated")
		}
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	if s.auditSvc != nil {
		_ = s.auditSvc.LogAction(c.Request().Context(), &audit.CreateAuditLogRequest{
			UserID:     &resp.User.ID,
			Action:     audit.ActionLogin,
			Resource:   audit.ResourceUser,
			ResourceID: &resp.User.ID,
			Details:    map[string]any{"method": "password"},
			IPAddress:  c.RealIP(),
			UserAgent:  c.Request().UserAgent(),
		})
	}

	return c.JSON(http.StatusOK, resp)
}

// getOwnProfile returns the cached principal of the caller.
func (s *Server) getOwnProfile(c echo.Context) error {
	principal, err := helpers.GetCurrentUserFromContext(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, principal)
}
