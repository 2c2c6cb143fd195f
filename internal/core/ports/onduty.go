package ports

import (
	"context"

	"github.com/acmshq/acms/internal/core/domain/onduty"
	"github.com/acmshq/acms/internal/core/domain/user"
	"github.com/google/uuid"
)

// OnDutyRepository defines the interface for on-duty request data operations
type OnDutyRepository interface {
	Create(ctx context.Context, r *onduty.Request) error
	GetByID(ctx context.Context, id uuid.UUID) (*onduty.Request, error)
	Update(ctx context.Context, r *onduty.Request) error
	List(ctx context.Context, f *onduty.ListFilter) ([]*onduty.Request, error)
	CountByStatus(ctx context.Context, f *onduty.ListFilter) (*onduty.StatusCounts, error)
}

// OnDutyService implements the on-duty request lifecycle. Every mutation
// evicts the dashboard cache entries of both the student and the counsellor.
type OnDutyService interface {
	File(ctx context.Context, studentID uuid.UUID, req *onduty.CreateRequest) (*onduty.Request, error)
	Get(ctx context.Context, id uuid.UUID, actor *user.User) (*onduty.Request, error)
	List(ctx context.Context, actor *user.User, f *onduty.ListFilter) ([]*onduty.Request, error)
	Edit(ctx context.Context, id, studentID uuid.UUID, req *onduty.UpdateRequest) (*onduty.Request, error)
	Decide(ctx context.Context, id, counsellorID uuid.UUID, approve bool, remarks string) (*onduty.Request, error)
}
