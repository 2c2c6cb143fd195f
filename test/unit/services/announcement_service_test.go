package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/acmshq/acms/internal/application/services"
	"github.com/acmshq/acms/internal/core/domain/announcement"
	"github.com/acmshq/acms/internal/core/domain/cachekey"
	"github.com/acmshq/acms/internal/core/domain/user"
	"github.com/acmshq/acms/test/mocks"
)

func TestListForRoleCachesPerRole(t *testing.T) {
	listCalls := 0
	repo := &mocks.MockAnnouncementRepository{
		ListActiveFn: func(ctx context.Context, role user.UserRole, limit int) ([]*announcement.Announcement, error) {
			listCalls++
			return []*announcement.Announcement{
				{ID: uuid.New(), Title: "exam schedule", TargetRole: announcement.TargetAll},
			}, nil
		},
	}
	store := mocks.NewInMemoryCache()
	svc := services.NewAnnouncementService(repo, services.NewCacheService(store, nil), testTTLs, nil)
	ctx := context.Background()

	first, err := svc.ListForRole(ctx, user.RoleStudent, 0)
	require.NoError(t, err)
	require.Len(t, first, 1)

	_, err = svc.ListForRole(ctx, user.RoleStudent, 0)
	require.NoError(t, err)
	require.Equal(t, 1, listCalls)

	// A different role misses its own key.
	_, err = svc.ListForRole(ctx, user.RoleCounsellor, 0)
	require.NoError(t, err)
	require.Equal(t, 2, listCalls)
	require.True(t, store.Has(cachekey.Announcements(user.RoleStudent).String()))
	require.True(t, store.Has(cachekey.Announcements(user.RoleCounsellor).String()))
}

func TestListForRoleCachesEmptyList(t *testing.T) {
	listCalls := 0
	repo := &mocks.MockAnnouncementRepository{
		ListActiveFn: func(ctx context.Context, role user.UserRole, limit int) ([]*announcement.Announcement, error) {
			listCalls++
			return nil, nil
		},
	}
	svc := services.NewAnnouncementService(repo, services.NewCacheService(mocks.NewInMemoryCache(), nil), testTTLs, nil)
	ctx := context.Background()

	list, err := svc.ListForRole(ctx, user.RoleStudent, 0)
	require.NoError(t, err)
	require.NotNil(t, list)
	require.Empty(t, list)

	_, err = svc.ListForRole(ctx, user.RoleStudent, 0)
	require.NoError(t, err)
	require.Equal(t, 1, listCalls, "an empty list should be served from cache, not reloaded")
}

func TestCreateEvictsEveryRoleList(t *testing.T) {
	repo := &mocks.MockAnnouncementRepository{
		ListActiveFn: func(ctx context.Context, role user.UserRole, limit int) ([]*announcement.Announcement, error) {
			return nil, nil
		},
		CreateFn: func(ctx context.Context, a *announcement.Announcement) error {
			return nil
		},
	}
	store := mocks.NewInMemoryCache()
	svc := services.NewAnnouncementService(repo, services.NewCacheService(store, nil), testTTLs, nil)
	ctx := context.Background()

	_, err := svc.ListForRole(ctx, user.RoleStudent, 0)
	require.NoError(t, err)
	_, err = svc.ListForRole(ctx, user.RoleCounsellor, 0)
	require.NoError(t, err)

	a, err := svc.Create(ctx, uuid.New(), &announcement.CreateRequest{
		Title:      "holiday notice",
		Content:    "campus closed on friday",
		TargetRole: announcement.TargetStudents,
	})
	require.NoError(t, err)
	require.Equal(t, announcement.PriorityMedium, a.Priority)
	require.True(t, a.IsActive)

	// Even lists the new announcement does not target are evicted; the
	// target may have been widened or narrowed by a later edit.
	require.False(t, store.Has(cachekey.Announcements(user.RoleStudent).String()))
	require.False(t, store.Has(cachekey.Announcements(user.RoleCounsellor).String()))
}

func TestCreateValidatesTarget(t *testing.T) {
	svc := services.NewAnnouncementService(&mocks.MockAnnouncementRepository{}, services.NewCacheService(mocks.NewInMemoryCache(), nil), testTTLs, nil)

	_, err := svc.Create(context.Background(), uuid.New(), &announcement.CreateRequest{
		Title:      "notice",
		Content:    "content",
		TargetRole: announcement.TargetRole("faculty"),
	})
	require.Error(t, err)
}

func TestDeleteEvictsLists(t *testing.T) {
	repo := &mocks.MockAnnouncementRepository{
		ListActiveFn: func(ctx context.Context, role user.UserRole, limit int) ([]*announcement.Announcement, error) {
			return nil, nil
		},
		DeleteFn: func(ctx context.Context, id uuid.UUID) error {
			return nil
		},
	}
	store := mocks.NewInMemoryCache()
	svc := services.NewAnnouncementService(repo, services.NewCacheService(store, nil), testTTLs, nil)
	ctx := context.Background()

	_, err := svc.ListForRole(ctx, user.RoleAdmin, 0)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, uuid.New()))
	require.False(t, store.Has(cachekey.Announcements(user.RoleAdmin).String()))
}
