package httpserver

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/acmshq/acms/internal/core/domain/audit"
	"github.com/acmshq/acms/internal/core/domain/onduty"
	"github.com/acmshq/acms/internal/infrastructure/httpserver/helpers"
)

// On-duty request handlers

func ondutyHTTPError(err error) error {
	switch {
	case errors.Is(err, onduty.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "on-duty request not found")
	case errors.Is(err, onduty.ErrAccessDenied):
		return echo.NewHTTPError(http.StatusForbidden, "not allowed to access this request")
	case errors.Is(err, onduty.ErrNotPending):
		return echo.NewHTTPError(http.StatusConflict, "request is no longer pending")
	case errors.Is(err, onduty.ErrInvalidDates):
		return echo.NewHTTPError(http.StatusBadRequest, "end date must not be before start date")
	case errors.Is(err, onduty.ErrNoCounsellor):
		return echo.NewHTTPError(http.StatusBadRequest, "no counsellor assigned")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "on-duty operation failed")
	}
}

func (s *Server) fileOnDutyRequest(c echo.Context) error {
	principal, err := helpers.GetCurrentUserFromContext(c)
	if err != nil {
		return err
	}

	var req onduty.CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	r, err := s.ondutyService.File(c.Request().Context(), principal.ID, &req)
	if err != nil {
		return ondutyHTTPError(err)
	}

	s.auditOnDuty(c, audit.ActionODCreated, r.ID)
	return c.JSON(http.StatusCreated, r)
}

func (s *Server) listOnDutyRequests(c echo.Context) error {
	principal, err := helpers.GetCurrentUserFromContext(c)
	if err != nil {
		return err
	}

	f := &onduty.ListFilter{}
	if raw := c.QueryParam("status"); raw != "" {
		status := onduty.Status(raw)
		if !status.IsValid() {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid status filter")
		}
		f.Status = &status
	}

	requests, err := s.ondutyService.List(c.Request().Context(), principal, f)
	if err != nil {
		return ondutyHTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"requests": requests, "count": len(requests)})
}

func (s *Server) getOnDutyRequest(c echo.Context) error {
	principal, err := helpers.GetCurrentUserFromContext(c)
	if err != nil {
		return err
	}
	id, err := helpers.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	r, err := s.ondutyService.Get(c.Request().Context(), id, principal)
	if err != nil {
		return ondutyHTTPError(err)
	}
	return c.JSON(http.StatusOK, r)
}

func (s *Server) editOnDutyRequest(c echo.Context) error {
	principal, err := helpers.GetCurrentUserFromContext(c)
	if err != nil {
		return err
	}
	id, err := helpers.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req onduty.UpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	r, err := s.ondutyService.Edit(c.Request().Context(), id, principal.ID, &req)
	if err != nil {
		return ondutyHTTPError(err)
	}

	s.auditOnDuty(c, audit.ActionODUpdated, r.ID)
	return c.JSON(http.StatusOK, r)
}

func (s *Server) approveOnDutyRequest(c echo.Context) error {
	return s.decideOnDutyRequest(c, true)
}

func (s *Server) rejectOnDutyRequest(c echo.Context) error {
	return s.decideOnDutyRequest(c, false)
}

func (s *Server) decideOnDutyRequest(c echo.Context, approve bool) error {
	principal, err := helpers.GetCurrentUserFromContext(c)
	if err != nil {
		return err
	}
	id, err := helpers.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req onduty.DecisionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	r, err := s.ondutyService.Decide(c.Request().Context(), id, principal.ID, approve, req.Remarks)
	if err != nil {
		return ondutyHTTPError(err)
	}

	action := audit.ActionODApproved
	if !approve {
		action = audit.ActionODRejected
	}
	s.auditOnDuty(c, action, r.ID)
	return c.JSON(http.StatusOK, r)
}

func (s *Server) auditOnDuty(c echo.Context, action audit.AuditAction, requestID uuid.UUID) {
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
		Resource:   audit.ResourceOnDutyRequest,
		ResourceID: &requestID,
		IPAddress:  c.RealIP(),
		UserAgent:  c.Request().UserAgent(),
	})
}
