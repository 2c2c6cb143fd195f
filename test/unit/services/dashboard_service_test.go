package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/acmshq/acms/internal/application/services"
	"github.com/acmshq/acms/internal/core/domain/cachekey"
	"github.com/acmshq/acms/internal/core/domain/onduty"
	"github.com/acmshq/acms/internal/core/domain/student"
	"github.com/acmshq/acms/internal/core/domain/user"
	"github.com/acmshq/acms/test/mocks"
)

func TestStudentStatsCachedUntilEvicted(t *testing.T) {
	id := uuid.New()
	profileLoads := 0
	profiles := &mocks.MockStudentProfileRepository{
		GetByUserIDFn: func(ctx context.Context, userID uuid.UUID) (*student.Profile, error) {
			profileLoads++
			return &student.Profile{
				UserID: userID,
				Attendance: student.Attendance{
					TotalClasses:    80,
					ClassesAttended: 60,
					Percentage:      75.0,
				},
				Marks: student.Marks{Semester: 4, GPA: 8.1, CGPA: 8.4},
			}, nil
		},
	}
	od := &mocks.MockOnDutyRepository{
		CountByStatusFn: func(ctx context.Context, f *onduty.ListFilter) (*onduty.StatusCounts, error) {
			require.NotNil(t, f.StudentID)
			return &onduty.StatusCounts{Pending: 1, Approved: 2}, nil
		},
	}
	store := mocks.NewInMemoryCache()
	cache := services.NewCacheService(store, nil)
	svc := services.NewDashboardService(profiles, &mocks.MockUserRepository{}, od, &mocks.MockAnnouncementRepository{}, cache, testTTLs, nil)
	actor := &user.User{ID: id, Role: user.RoleStudent}
	ctx := context.Background()

	stats, err := svc.StudentStats(ctx, actor)
	require.NoError(t, err)
	require.Equal(t, 75.0, stats.AttendancePercentage)
	require.Equal(t, 1, stats.OnDuty.Pending)

	_, err = svc.StudentStats(ctx, actor)
	require.NoError(t, err)
	require.Equal(t, 1, profileLoads)

	// Eviction by pattern (what attendance or OD mutations do) forces a
	// rebuild on the next read.
	cache.DeleteByPattern(ctx, cachekey.DashboardPattern(id))
	_, err = svc.StudentStats(ctx, actor)
	require.NoError(t, err)
	require.Equal(t, 2, profileLoads)
}

func TestStudentStatsToleratesMissingProfile(t *testing.T) {
	profiles := &mocks.MockStudentProfileRepository{
		GetByUserIDFn: func(ctx context.Context, userID uuid.UUID) (*student.Profile, error) {
			return nil, student.ErrProfileNotFound
		},
	}
	od := &mocks.MockOnDutyRepository{
		CountByStatusFn: func(ctx context.Context, f *onduty.ListFilter) (*onduty.StatusCounts, error) {
			return &onduty.StatusCounts{}, nil
		},
	}
	svc := services.NewDashboardService(profiles, &mocks.MockUserRepository{}, od, &mocks.MockAnnouncementRepository{}, services.NewCacheService(mocks.NewInMemoryCache(), nil), testTTLs, nil)

	stats, err := svc.StudentStats(context.Background(), &user.User{ID: uuid.New(), Role: user.RoleStudent})
	require.NoError(t, err)
	require.Zero(t, stats.TotalClasses)
}

func TestStudentStatsRejectsWrongRole(t *testing.T) {
	svc := services.NewDashboardService(&mocks.MockStudentProfileRepository{}, &mocks.MockUserRepository{}, &mocks.MockOnDutyRepository{}, &mocks.MockAnnouncementRepository{}, services.NewCacheService(mocks.NewInMemoryCache(), nil), testTTLs, nil)

	_, err := svc.StudentStats(context.Background(), &user.User{ID: uuid.New(), Role: user.RoleAdmin})
	require.Error(t, err)
}

func TestCounsellorStatsCountsLowAttendance(t *testing.T) {
	id := uuid.New()
	profiles := &mocks.MockStudentProfileRepository{
		ListByCounsellorFn: func(ctx context.Context, counsellorID uuid.UUID) ([]*student.Profile, error) {
			return []*student.Profile{
				{Attendance: student.Attendance{TotalClasses: 80, ClassesAttended: 40, Percentage: 50.0}},
				{Attendance: student.Attendance{TotalClasses: 80, ClassesAttended: 76, Percentage: 95.0}},
				{Attendance: student.Attendance{}}, // no classes recorded yet
			}, nil
		},
	}
	od := &mocks.MockOnDutyRepository{
		CountByStatusFn: func(ctx context.Context, f *onduty.ListFilter) (*onduty.StatusCounts, error) {
			require.NotNil(t, f.CounsellorID)
			return &onduty.StatusCounts{Pending: 3}, nil
		},
	}
	svc := services.NewDashboardService(profiles, &mocks.MockUserRepository{}, od, &mocks.MockAnnouncementRepository{}, services.NewCacheService(mocks.NewInMemoryCache(), nil), testTTLs, nil)

	stats, err := svc.CounsellorStats(context.Background(), &user.User{ID: id, Role: user.RoleCounsellor})
	require.NoError(t, err)
	require.Equal(t, 3, stats.AssignedStudents)
	require.Equal(t, 1, stats.LowAttendance)
	require.Equal(t, 3, stats.OnDuty.Pending)
}

func TestAdminStatsAggregatesTotals(t *testing.T) {
	users := &mocks.MockUserRepository{
		CountByRoleFn: func(ctx context.Context) (map[user.UserRole]int, error) {
			return map[user.UserRole]int{
				user.RoleStudent:    120,
				user.RoleCounsellor: 8,
				user.RoleAdmin:      2,
			}, nil
		},
	}
	od := &mocks.MockOnDutyRepository{
		CountByStatusFn: func(ctx context.Context, f *onduty.ListFilter) (*onduty.StatusCounts, error) {
			return &onduty.StatusCounts{Pending: 5, Approved: 40, Rejected: 7}, nil
		},
	}
	announcements := &mocks.MockAnnouncementRepository{
		CountActiveFn: func(ctx context.Context) (int, error) {
			return 4, nil
		},
	}
	svc := services.NewDashboardService(&mocks.MockStudentProfileRepository{}, users, od, announcements, services.NewCacheService(mocks.NewInMemoryCache(), nil), testTTLs, nil)

	stats, err := svc.AdminStats(context.Background(), &user.User{ID: uuid.New(), Role: user.RoleAdmin})
	require.NoError(t, err)
	require.Equal(t, 130, stats.TotalUsers)
	require.Equal(t, 120, stats.TotalStudents)
	require.Equal(t, 8, stats.TotalCounsellors)
	require.Equal(t, 52, stats.OnDuty.Total())
	require.Equal(t, 4, stats.ActiveAnnouncements)
}
