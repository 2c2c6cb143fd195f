package ports

import (
	"context"

	"github.com/acmshq/acms/internal/core/domain/student"
	"github.com/google/uuid"
)

// StudentProfileRepository defines the interface for student profile data operations
type StudentProfileRepository interface {
	Create(ctx context.Context, p *student.Profile) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*student.Profile, error)
	ListByCounsellor(ctx context.Context, counsellorID uuid.UUID) ([]*student.Profile, error)
	UpdateAttendance(ctx context.Context, userID uuid.UUID, att *student.Attendance) error
	UpdateMarks(ctx context.Context, userID uuid.UUID, m *student.Marks) error
}

// StudentService exposes the cached academic record reads and the admin-side
// updates that invalidate them.
type StudentService interface {
	GetProfile(ctx context.Context, studentUserID uuid.UUID) (*student.Profile, error)
	GetAttendance(ctx context.Context, studentUserID uuid.UUID) (*student.Attendance, error)
	GetMarks(ctx context.Context, studentUserID uuid.UUID) (*student.Marks, error)
	GetMarksSummary(ctx context.Context, studentUserID uuid.UUID) (*student.MarksSummary, error)
	UpdateAttendance(ctx context.Context, studentUserID uuid.UUID, req *student.UpdateAttendanceRequest) error
	UpdateMarks(ctx context.Context, studentUserID uuid.UUID, req *student.UpdateMarksRequest) error
	ListAssigned(ctx context.Context, counsellorID uuid.UUID) ([]*student.Profile, error)
}
