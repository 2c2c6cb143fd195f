package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/acmshq/acms/internal/core/domain/audit"
	"github.com/acmshq/acms/internal/core/domain/cachekey"
	"github.com/acmshq/acms/internal/infrastructure/httpserver/helpers"
)

// Admin audit log and rate limiter handlers

func (s *Server) getAuditLogs(c echo.Context) error {
	filter := &audit.AuditLogFilter{Limit: 50}

	if raw := c.QueryParam("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid user_id")
		}
		filter.UserID = &id
	}
	if raw := c.QueryParam("action"); raw != "" {
		action := audit.AuditAction(raw)
		filter.Action = &action
	}
	if raw := c.QueryParam("resource"); raw != "" {
		resource := audit.AuditResource(raw)
		filter.Resource = &resource
	}
	if raw := c.QueryParam("start_time"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid start_time")
		}
		filter.StartTime = &t
	}
	if raw := c.QueryParam("end_time"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid end_time")
		}
		filter.EndTime = &t
	}
	if raw := c.QueryParam("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 500 {
			filter.Limit = n
		}
	}
	if raw := c.QueryParam("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			filter.Offset = n
		}
	}

	logs, total, err := s.auditSvc.GetAuditLogs(c.Request().Context(), filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get audit logs")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"logs":   logs,
		"total":  total,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})
}

// resetRateLimit deletes a rate-limit counter. This is the recovery path for
// counters left without an expiry by a crash between increment and expire.
func (s *Server) resetRateLimit(c echo.Context) error {
	scope := cachekey.LimitScope(c.Param("scope"))
	switch scope {
	case cachekey.ScopeGeneral, cachekey.ScopeAuth, cachekey.ScopeUser:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "invalid scope")
	}
	subject := c.Param("subject")
	if subject == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "subject is required")
	}

	if err := s.rateLimiterSvc.ResetCounter(c.Request().Context(), scope, subject); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to reset rate limit counter")
	}

	if s.auditSvc != nil {
		if principal, err := helpers.GetCurrentUserFromContext(c); err == nil {
			_ = s.auditSvc.LogAction(c.Request().Context(), &audit.CreateAuditLogRequest{
				UserID:    &principal.ID,
				Action:    audit.ActionRateLimitReset,
				Resource:  audit.ResourceRateLimiter,
				Details:   map[string]any{"scope": scope, "subject": subject},
				IPAddress: c.RealIP(),
				UserAgent: c.Request().UserAgent(),
			})
		}
	}

	return c.NoContent(http.StatusNoContent)
}
