package announcement

import (
	"time"

	"github.com/google/uuid"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// TargetRole is the audience of an announcement: a specific role or "all".
type TargetRole string

const (
	TargetStudents    TargetRole = "student"
	TargetCounsellors TargetRole = "counsellor"
	TargetAll         TargetRole = "all"
)

type Announcement struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	AdminID    uuid.UUID  `json:"admin_id" db:"admin_id"`
	Title      string     `json:"title" db:"title"`
	Content    string     `json:"content" db:"content"`
	TargetRole TargetRole `json:"target_role" db:"target_role"`
	Department *string    `json:"department,omitempty" db:"department"`
	Priority   Priority   `json:"priority" db:"priority"`
	IsActive   bool       `json:"is_active" db:"is_active"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty" db:"expires_at"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

type CreateRequest struct {
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	TargetRole TargetRole `json:"target_role"`
	Department *string    `json:"department,omitempty"`
	Priority   Priority   `json:"priority"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

type UpdateRequest struct {
	Title      *string     `json:"title,omitempty"`
	Content    *string     `json:"content,omitempty"`
	TargetRole *TargetRole `json:"target_role,omitempty"`
	Priority   *Priority   `json:"priority,omitempty"`
	IsActive   *bool       `json:"is_active,omitempty"`
	ExpiresAt  *time.Time  `json:"expires_at,omitempty"`
}
