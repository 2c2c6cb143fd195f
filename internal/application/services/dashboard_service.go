package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/acmshq/acms/configs"
	"github.com/acmshq/acms/internal/core/domain/cachekey"
	"github.com/acmshq/acms/internal/core/domain/dashboard"
	"github.com/acmshq/acms/internal/core/domain/onduty"
	"github.com/acmshq/acms/internal/core/domain/student"
	"github.com/acmshq/acms/internal/core/domain/user"
	"github.com/acmshq/acms/internal/core/ports"
)

const lowAttendanceThreshold = 75.0

// DashboardService assembles role-specific stats. Every view is cached
// under dashboard:{role}:{id} with a short TTL and evicted by the domain
// mutations that change its inputs.
type DashboardService struct {
	profiles      ports.StudentProfileRepository
	users         ports.UserRepository
	onduty        ports.OnDutyRepository
	announcements ports.AnnouncementRepository
	cache         *CacheService
	ttl           configs.CacheConfig
	logger        *logrus.Logger
}

func NewDashboardService(profiles ports.StudentProfileRepository, users ports.UserRepository, od ports.OnDutyRepository, announcements ports.AnnouncementRepository, cache *CacheService, ttl configs.CacheConfig, logger *logrus.Logger) ports.DashboardService {
	return &DashboardService{
		profiles:      profiles,
		users:         users,
		onduty:        od,
		announcements: announcements,
		cache:         cache,
		ttl:           ttl,
		logger:        logger,
	}
}

func (s *DashboardService) StudentStats(ctx context.Context, st *user.User) (*dashboard.StudentStats, error) {
	if st.Role != user.RoleStudent {
		return nil, fmt.Errorf("user %s is not a student", st.ID)
	}
	return Lookup(ctx, s.cache, cachekey.Dashboard(user.RoleStudent, st.ID), s.ttl.DashboardTTL, func(ctx context.Context) (*dashboard.StudentStats, error) {
		stats := &dashboard.StudentStats{}

		p, err := s.profiles.GetByUserID(ctx, st.ID)
		switch {
		case err == nil:
			stats.AttendancePercentage = p.Attendance.Percentage
			stats.TotalClasses = p.Attendance.TotalClasses
			stats.ClassesAttended = p.Attendance.ClassesAttended
			stats.GPA = p.Marks.GPA
			stats.CGPA = p.Marks.CGPA
			stats.Semester = p.Marks.Semester
		case errors.Is(err, student.ErrProfileNotFound):
			// A freshly created account has no academic record yet.
		default:
			return nil, err
		}

		counts, err := s.onduty.CountByStatus(ctx, &onduty.ListFilter{StudentID: &st.ID})
		if err != nil {
			return nil, err
		}
		stats.OnDuty = *counts
		return stats, nil
	})
}

func (s *DashboardService) CounsellorStats(ctx context.Context, c *user.User) (*dashboard.CounsellorStats, error) {
	if c.Role != user.RoleCounsellor {
		return nil, fmt.Errorf("user %s is not a counsellor", c.ID)
	}
	return Lookup(ctx, s.cache, cachekey.Dashboard(user.RoleCounsellor, c.ID), s.ttl.DashboardTTL, func(ctx context.Context) (*dashboard.CounsellorStats, error) {
		profiles, err := s.profiles.ListByCounsellor(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		low := 0
		for _, p := range profiles {
			if p.Attendance.TotalClasses > 0 && p.Attendance.Percentage < lowAttendanceThreshold {
				low++
			}
		}

		counts, err := s.onduty.CountByStatus(ctx, &onduty.ListFilter{CounsellorID: &c.ID})
		if err != nil {
			return nil, err
		}
		return &dashboard.CounsellorStats{
			AssignedStudents: len(profiles),
			OnDuty:           *counts,
			LowAttendance:    low,
		}, nil
	})
}

func (s *DashboardService) AdminStats(ctx context.Context, admin *user.User) (*dashboard.AdminStats, error) {
	if admin.Role != user.RoleAdmin {
		return nil, fmt.Errorf("user %s is not an admin", admin.ID)
	}
	return Lookup(ctx, s.cache, cachekey.Dashboard(user.RoleAdmin, admin.ID), s.ttl.DashboardTTL, func(ctx context.Context) (*dashboard.AdminStats, error) {
		byRole, err := s.users.CountByRole(ctx)
		if err != nil {
			return nil, err
		}

		counts, err := s.onduty.CountByStatus(ctx, &onduty.ListFilter{})
		if err != nil {
			return nil, err
		}

		active, err := s.announcements.CountActive(ctx)
		if err != nil {
			return nil, err
		}

		return &dashboard.AdminStats{
			TotalUsers:          byRole[user.RoleStudent] + byRole[user.RoleCounsellor] + byRole[user.RoleAdmin],
			TotalStudents:       byRole[user.RoleStudent],
			TotalCounsellors:    byRole[user.RoleCounsellor],
			TotalAdmins:         byRole[user.RoleAdmin],
			OnDuty:              *counts,
			ActiveAnnouncements: active,
		}, nil
	})
}
