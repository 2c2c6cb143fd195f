package onduty

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// Request is an on-duty leave request filed by a student against their
// assigned counsellor.
type Request struct {
	ID                uuid.UUID  `json:"id" db:"id"`
	StudentID         uuid.UUID  `json:"student_id" db:"student_id"`
	CounsellorID      uuid.UUID  `json:"counsellor_id" db:"counsellor_id"`
	StartDate         time.Time  `json:"start_date" db:"start_date"`
	EndDate           time.Time  `json:"end_date" db:"end_date"`
	Reason            string     `json:"reason" db:"reason"`
	Status            Status     `json:"status" db:"status"`
	CounsellorRemarks *string    `json:"counsellor_remarks,omitempty" db:"counsellor_remarks"`
	DecidedAt         *time.Time `json:"decided_at,omitempty" db:"decided_at"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

// CreateRequest is the payload a student submits to file a request.
type CreateRequest struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Reason    string    `json:"reason"`
}

// UpdateRequest edits a pending request; only the owning student may do so.
type UpdateRequest struct {
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Reason    *string    `json:"reason,omitempty"`
}

// DecisionRequest records a counsellor's approve/reject decision.
type DecisionRequest struct {
	Remarks string `json:"remarks"`
}

// ListFilter narrows request listings; zero values mean "no filter".
type ListFilter struct {
	StudentID    *uuid.UUID
	CounsellorID *uuid.UUID
	Status       *Status
	From         *time.Time
	To           *time.Time
}

// StatusCounts aggregates a party's requests by status for dashboards.
type StatusCounts struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

func (c StatusCounts) Total() int {
	return c.Pending + c.Approved + c.Rejected
}
