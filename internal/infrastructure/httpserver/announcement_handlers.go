package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/acmshq/acms/internal/core/domain/announcement"
	"github.com/acmshq/acms/internal/core/domain/audit"
	"github.com/acmshq/acms/internal/infrastructure/httpserver/helpers"
)

// Announcement handlers

func (s *Server) listAnnouncements(c echo.Context) error {
	principal, err := helpers.GetCurrentUserFromContext(c)
	if err != nil {
		return err
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	items, err := s.announcementSvc.ListForRole(c.Request().Context(), principal.Role, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list announcements")
	}
	return c.JSON(http.StatusOK, map[string]any{"announcements": items, "count": len(items)})
}

func (s *Server) createAnnouncement(c echo.Context) error {
	principal, err := helpers.GetCurrentUserFromContext(c)
	if err != nil {
		return err
	}

	var req announcement.CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	a, err := s.announcementSvc.Create(c.Request().Context(), principal.ID, &req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	s.auditAnnouncement(c, audit.ActionAnnouncementCreated, a.ID)
	return c.JSON(http.StatusCreated, a)
}

func (s *Server) updateAnnouncement(c echo.Context) error {
	id, err := helpers.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req announcement.UpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	a, err := s.announcementSvc.Update(c.Request().Context(), id, &req)
	if err != nil {
		if errors.Is(err, announcement.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "announcement not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	s.auditAnnouncement(c, audit.ActionAnnouncementUpdated, id)
	return c.JSON(http.StatusOK, a)
}

func (s *Server) deleteAnnouncement(c echo.Context) error {
	id, err := helpers.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := s.announcementSvc.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, announcement.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "announcement not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete announcement")
	}

	s.auditAnnouncement(c, audit.ActionAnnouncementDeleted, id)
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) auditAnnouncement(c echo.Context, action audit.AuditAction, id uuid.UUID) {
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
		Resource:   audit.ResourceAnnouncement,
		ResourceID: &id,
		IPAddress:  c.RealIP(),
		UserAgent:  c.Request().UserAgent(),
	})
}
