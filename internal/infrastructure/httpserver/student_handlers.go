package httpserver

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/acmshq/acms/internal/core/domain/audit"
	"github.com/acmshq/acms/internal/core/domain/student"
	"github.com/acmshq/acms/internal/infrastructure/httpserver/helpers"
)

// Student academic record handlers

func (s *Server) getOwnStudentProfile(c echo.Context) error {
	principal, err := helpers.GetCurrentUserFromContext(c)
	if err != nil {
		return err
	}
	return s.respondStudentProfile(c, principal.ID)
}

func (s *Server) getStudentProfile(c echo.Context) error {
	id, err := helpers.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	return s.respondStudentProfile(c, id)
}

func (s *Server) respondStudentProfile(c echo.Context, studentUserID uuid.UUID) error {
	p, err := s.studentService.GetProfile(c.Request().Context(), studentUserID)
	if err != nil {
		if errors.Is(err, student.ErrProfileNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "student profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get student profile")
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) getOwnAttendance(c echo.Context) error {
	principal, err := helpers.GetCurrentUserFromContext(c)
	if err != nil {
		return err
	}

	att, err := s.studentService.GetAttendance(c.Request().Context(), principal.ID)
	if err != nil {
		if errors.Is(err, student.ErrProfileNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "student profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get attendance")
	}
	return c.JSON(http.StatusOK, att)
}

func (s *Server) getOwnMarks(c echo.Context) error {
	principal, err := helpers.GetCurrentUserFromContext(c)
	if err != nil {
		return err
	}

	m, err := s.studentService.GetMarks(c.Request().Context(), principal.ID)
	if err != nil {
		if errors.Is(err, student.ErrProfileNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "student profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get marks")
	}
	return c.JSON(http.StatusOK, m)
}

func (s *Server) getOwnMarksSummary(c echo.Context) error {
	principal, err := helpers.GetCurrentUserFromContext(c)
	if err != nil {
		return err
	}

	summary, err := s.studentService.GetMarksSummary(c.Request().Context(), principal.ID)
	if err != nil {
		if errors.Is(err, student.ErrProfileNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "student profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get marks summary")
	}
	return c.JSON(http.StatusOK, summary)
}

func (s *Server) listAssignedStudents(c echo.Context) error {
	principal, err := helpers.GetCurrentUserFromContext(c)
	if err != nil {
		return err
	}

	profiles, err := s.studentService.ListAssigned(c.Request().Context(), principal.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list assigned students")
	}
	return c.JSON(http.StatusOK, map[string]any{"students": profiles, "count": len(profiles)})
}

func (s *Server) updateAttendance(c echo.Context) error {
	id, err := helpers.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req student.UpdateAttendanceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := s.studentService.UpdateAttendance(c.Request().Context(), id, &req); err != nil {
		if errors.Is(err, student.ErrProfileNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "student profile not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	s.auditProfileUpdate(c, id, "attendance")
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) updateMarks(c echo.Context) error {
	id, err := helpers.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req student.UpdateMarksRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := s.studentService.UpdateMarks(c.Request().Context(), id, &req); err != nil {
		if errors.Is(err, student.ErrProfileNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "student profile not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	s.auditProfileUpdate(c, id, "marks")
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) auditProfileUpdate(c echo.Context, studentID uuid.UUID, document string) {
	if s.auditSvc == nil {
		return
	}
	principal, err := helpers.GetCurrentUserFromContext(c)
	if err != nil {
		return
	}
	_ = s.auditSvc.LogAction(c.Request().Context(), &audit.CreateAuditLogRequest{
		UserID:     &principal.ID,
		Action:     audit.ActionProfileUpdated,
		Resource:   audit.ResourceStudentProfile,
		ResourceID: &studentID,
		Details:    map[string]any{"document": document},
		IPAddress:  c.RealIP(),
		UserAgent:  c.Request().UserAgent(),
	})
}
