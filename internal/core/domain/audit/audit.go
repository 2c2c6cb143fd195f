package audit

import (
	"time"

	"github.com/google/uuid"
)

type AuditLog struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	UserID     *uuid.UUID `json:"user_id" db:"user_id"`
	Action     string     `json:"action" db:"action"`
	Resource   string     `json:"resource" db:"resource"`
	ResourceID *uuid.UUID `json:"resource_id" db:"resource_id"`
	Details    any        `json:"details" db:"details"`
	IPAddress  string     `json:"ip_address" db:"ip_address"`
	UserAgent  string     `json:"user_agent" db:"user_agent"`
	Timestamp  time.Time  `json:"timestamp" db:"timestamp"`
}

type AuditAction string

const (
	ActionUserCreated         AuditAction = "user_created"
	ActionUserUpdated         AuditAction = "user_updated"
	ActionUserDeleted         AuditAction = "user_deleted"
	ActionLogin               AuditAction = "login"
	ActionODCreated           AuditAction = "od_created"
	ActionODUpdated           AuditAction = "od_updated"
	ActionODApproved          AuditAction = "od_approved"
	ActionODRejected          AuditAction = "od_rejected"
	ActionAnnouncementCreated AuditAction = "announcement_created"
	ActionAnnouncementUpdated AuditAction = "announcement_updated"
	ActionAnnouncementDeleted AuditAction = "announcement_deleted"
	ActionProfileUpdated      AuditAction = "profile_updated"
	ActionRateLimitReset      AuditAction = "rate_limit_reset"
)

type AuditResource string

const (
	ResourceUser           AuditResource = "user"
	ResourceOnDutyRequest  AuditResource = "onduty_request"
	ResourceAnnouncement   AuditResource = "announcement"
	ResourceStudentProfile AuditResource = "student_profile"
	ResourceRateLimiter    AuditResource = "rate_limiter"
)

// CreateAuditLogRequest represents the request to create an audit log entry
type CreateAuditLogRequest struct {
	UserID     *uuid.UUID    `json:"user_id,omitempty"`
	Action     AuditAction   `json:"action"`
	Resource   AuditResource `json:"resource"`
	ResourceID *uuid.UUID    `json:"resource_id,omitempty"`
	Details    any           `json:"details,omitempty"`
	IPAddress  string        `json:"ip_address"`
	UserAgent  string        `json:"user_agent"`
}

// AuditLogFilter represents filters for querying audit logs
type AuditLogFilter struct {
	UserID     *uuid.UUID     `json:"user_id,omitempty"`
	Action     *AuditAction   `json:"action,omitempty"`
	Resource   *AuditResource `json:"resource,omitempty"`
	ResourceID *uuid.UUID     `json:"resource_id,omitempty"`
	StartTime  *time.Time     `json:"start_time,omitempty"`
	EndTime    *time.Time     `json:"end_time,omitempty"`
	Limit      int            `json:"limit"`
	Offset     int            `json:"offset"`
}
