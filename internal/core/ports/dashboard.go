package ports

import (
	"context"

	"github.com/acmshq/acms/internal/core/domain/dashboard"
	"github.com/acmshq/acms/internal/core/domain/user"
)

// DashboardService assembles and caches the role-specific dashboard stats.
type DashboardService interface {
	StudentStats(ctx context.Context, studentID *user.User) (*dashboard.StudentStats, error)
	CounsellorStats(ctx context.Context, counsellor *user.User) (*dashboard.CounsellorStats, error)
	AdminStats(ctx context.Context, admin *user.User) (*dashboard.AdminStats, error)
}
