package ports

import (
	"context"

	"github.com/acmshq/acms/internal/core/domain/announcement"
	"github.com/acmshq/acms/internal/core/domain/user"
	"github.com/google/uuid"
)

// AnnouncementRepository defines the interface for announcement data operations
type AnnouncementRepository interface {
	Create(ctx context.Context, a *announcement.Announcement) error
	GetByID(ctx context.Context, id uuid.UUID) (*announcement.Announcement, error)
	Update(ctx context.Context, a *announcement.Announcement) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListActive(ctx context.Context, role user.UserRole, limit int) ([]*announcement.Announcement, error)
	CountActive(ctx context.Context) (int, error)
}

// AnnouncementService serves the per-role cached announcement lists and the
// admin mutations that pattern-evict them.
type AnnouncementService interface {
	Create(ctx context.Context, adminID uuid.UUID, req *announcement.CreateRequest) (*announcement.Announcement, error)
	Update(ctx context.Context, id uuid.UUID, req *announcement.UpdateRequest) (*announcement.Announcement, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListForRole(ctx context.Context, role user.UserRole, limit int) ([]*announcement.Announcement, error)
}
