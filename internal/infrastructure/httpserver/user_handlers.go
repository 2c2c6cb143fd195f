package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/acmshq/acms/internal/core/domain/audit"
	"github.com/acmshq/acms/internal/core/domain/user"
	"github.com/acmshq/acms/internal/infrastructure/httpserver/helpers"
)

// User management handlers (admin only, enforced by route middleware)

func (s *Server) listUsers(c echo.Context) error {
	var role *user.UserRole
	if raw := c.QueryParam("role"); raw != "" {
		r := user.UserRole(raw)
		if !r.IsValid() {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid role filter")
		}
		role = &r
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	users, err := s.userService.ListUsers(c.Request().Context(), role, limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list users")
	}
	return c.JSON(http.StatusOK, map[string]any{"users": users, "count": len(users)})
}

func (s *Server) createUser(c echo.Context) error {
	var req user.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	u, err := s.userService.CreateUser(c.Request().Context(), &req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	s.auditUserAction(c, audit.ActionUserCreated, u.ID)
	return c.JSON(http.StatusCreated, u)
}

func (s *Server) getUser(c echo.Context) error {
	id, err := helpers.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	u, err := s.userService.GetUser(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get user")
	}
	return c.JSON(http.StatusOK, u)
}

func (s *Server) updateUser(c echo.Context) error {
	id, err := helpers.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req user.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	u, err := s.userService.UpdateUser(c.Request().Context(), id, &req)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	s.auditUserAction(c, audit.ActionUserUpdated, id)
	return c.JSON(http.StatusOK, u)
}

func (s *Server) deleteUser(c echo.Context) error {
	id, err := helpers.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	principal, err := helpers.GetCurrentUserFromContext(c)
	if err != nil {
		return err
	}
	if principal.ID == id {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot delete your own account")
	}

	if err := s.userService.DeleteUser(c.Request().Context(), id); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete user")
	}

	s.auditUserAction(c, audit.ActionUserDeleted, id)
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) assignCounsellor(c echo.Context) error {
	studentID, err := helpers.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	counsellorID, err := helpers.ParseUUIDParam(c, "counsellor_id")
	if err != nil {
		return err
	}

	u, err := s.userService.AssignCounsellor(c.Request().Context(), studentID, counsellorID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	s.auditUserAction(c, audit.ActionUserUpdated, studentID)
	return c.JSON(http.StatusOK, u)
}

func (s *Server) auditUserAction(c echo.Context, action audit.AuditAction, targetID uuid.UUID) {
	if s.auditSvc == nil {
		return
	}
	principal, err := helpers.GetCurrentUserFromContext(c)
	if err != nil {
		return
	}
	_ = s.auditSvc.LogAction(c.Request().Context(), &audit.CreateAuditLogRequest{
		UserID:     &principal.ID,
		Action:     action,
		Resource:   audit.ResourceUser,
		ResourceID: &targetID,
		IPAddress:  c.RealIP(),
		UserAgent:  c.Request().UserAgent(),
	})
}
