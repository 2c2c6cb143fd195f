package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/acmshq/acms/internal/application/services"
	"github.com/acmshq/acms/internal/core/domain/cachekey"
	"github.com/acmshq/acms/internal/core/domain/student"
	"github.com/acmshq/acms/internal/core/domain/user"
	"github.com/acmshq/acms/test/mocks"
)

func TestGetAttendanceReadsThroughOnce(t *testing.T) {
	id := uuid.New()
	loads := 0
	profiles := &mocks.MockStudentProfileRepository{
		GetByUserIDFn: func(ctx context.Context, userID uuid.UUID) (*student.Profile, error) {
			loads++
			return &student.Profile{
				UserID:     userID,
				Attendance: student.Attendance{TotalClasses: 40, ClassesAttended: 36, Percentage: 90.0},
			}, nil
		},
	}
	store := mocks.NewInMemoryCache()
	svc := services.NewStudentService(profiles, services.NewCacheService(store, nil), testTTLs, nil)
	ctx := context.Background()

	att, err := svc.GetAttendance(ctx, id)
	require.NoError(t, err)
	require.Equal(t, 90.0, att.Percentage)

	_, err = svc.GetAttendance(ctx, id)
	require.NoError(t, err)
	require.Equal(t, 1, loads)
	require.True(t, store.Has(cachekey.Attendance(id).String()))
}

func TestGetAttendanceMissingProfile(t *testing.T) {
	profiles := &mocks.MockStudentProfileRepository{
		GetByUserIDFn: func(ctx context.Context, userID uuid.UUID) (*student.Profile, error) {
			return nil, student.ErrProfileNotFound
		},
	}
	svc := services.NewStudentService(profiles, services.NewCacheService(mocks.NewInMemoryCache(), nil), testTTLs, nil)

	_, err := svc.GetAttendance(context.Background(), uuid.New())
	require.ErrorIs(t, err, student.ErrProfileNotFound)
}

func TestUpdateAttendanceComputesPercentagesAndEvicts(t *testing.T) {
	id := uuid.New()
	var stored *student.Attendance
	profiles := &mocks.MockStudentProfileRepository{
		GetByUserIDFn: func(ctx context.Context, userID uuid.UUID) (*student.Profile, error) {
			return &student.Profile{UserID: userID}, nil
		},
		UpdateAttendanceFn: func(ctx context.Context, userID uuid.UUID, att *student.Attendance) error {
			stored = att
			return nil
		},
	}
	store := mocks.NewInMemoryCache()
	cache := services.NewCacheService(store, nil)
	svc := services.NewStudentService(profiles, cache, testTTLs, nil)
	ctx := context.Background()

	// Prime attendance and dashboard caches.
	_, err := svc.GetAttendance(ctx, id)
	require.NoError(t, err)
	require.True(t, cache.Set(ctx, cachekey.Dashboard(user.RoleStudent, id), 1, 0))

	err = svc.UpdateAttendance(ctx, id, &student.UpdateAttendanceRequest{
		TotalClasses:    50,
		ClassesAttended: 40,
		Subjects: []student.SubjectAttendance{
			{Name: "databases", Classes: 20, Attended: 15},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.InDelta(t, 80.0, stored.Percentage, 0.001)
	require.InDelta(t, 75.0, stored.Subjects[0].Percentage, 0.001)
	require.NotNil(t, stored.LastUpdated)

	require.False(t, store.Has(cachekey.Attendance(id).String()))
	require.False(t, store.Has(cachekey.Dashboard(user.RoleStudent, id).String()))
}

func TestUpdateAttendanceRejectsInconsistentCounts(t *testing.T) {
	svc := services.NewStudentService(&mocks.MockStudentProfileRepository{}, services.NewCacheService(mocks.NewInMemoryCache(), nil), testTTLs, nil)

	err := svc.UpdateAttendance(context.Background(), uuid.New(), &student.UpdateAttendanceRequest{
		TotalClasses:    10,
		ClassesAttended: 12,
	})
	require.Error(t, err)
}

func TestUpdateMarksEvictsMarksAndDashboards(t *testing.T) {
	id := uuid.New()
	profiles := &mocks.MockStudentProfileRepository{
		GetByUserIDFn: func(ctx context.Context, userID uuid.UUID) (*student.Profile, error) {
			return &student.Profile{UserID: userID, Marks: student.Marks{Semester: 3, GPA: 7.2}}, nil
		},
		UpdateMarksFn: func(ctx context.Context, userID uuid.UUID, m *student.Marks) error {
			return nil
		},
	}
	store := mocks.NewInMemoryCache()
	cache := services.NewCacheService(store, nil)
	svc := services.NewStudentService(profiles, cache, testTTLs, nil)
	ctx := context.Background()

	_, err := svc.GetMarks(ctx, id)
	require.NoError(t, err)
	require.True(t, cache.Set(ctx, cachekey.Dashboard(user.RoleStudent, id), 1, 0))

	err = svc.UpdateMarks(ctx, id, &student.UpdateMarksRequest{Semester: 4, GPA: 8.0, CGPA: 7.6})
	require.NoError(t, err)
	require.False(t, store.Has(cachekey.Marks(id).String()))
	require.False(t, store.Has(cachekey.Dashboard(user.RoleStudent, id).String()))
}

func TestGetMarksSummaryDerivesFromMarks(t *testing.T) {
	id := uuid.New()
	profiles := &mocks.MockStudentProfileRepository{
		GetByUserIDFn: func(ctx context.Context, userID uuid.UUID) (*student.Profile, error) {
			return &student.Profile{
				UserID: userID,
				Marks: student.Marks{
					Semester: 5,
					GPA:      8.5,
					CGPA:     8.2,
					Subjects: []student.SubjectMark{{Name: "networks"}, {Name: "compilers"}},
				},
			}, nil
		},
	}
	svc := services.NewStudentService(profiles, services.NewCacheService(mocks.NewInMemoryCache(), nil), testTTLs, nil)

	summary, err := svc.GetMarksSummary(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, 5, summary.Semester)
	require.Equal(t, 8.5, summary.GPA)
	require.Equal(t, 2, summary.TotalSubjects)
}
