package cachekey

import (
	"path"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/acmshq/acms/internal/core/domain/user"
)

func TestKeyNamespaces(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

	require.Equal(t, "principal:"+id.String(), Principal(id).String())
	require.Equal(t, "attendance:"+id.String(), Attendance(id).String())
	require.Equal(t, "marks:"+id.String(), Marks(id).String())
	require.Equal(t, "dashboard:student:"+id.String(), Dashboard(user.RoleStudent, id).String())
	require.Equal(t, "announcements:counsellor", Announcements(user.RoleCounsellor).String())
}

func TestDashboardPatternMatchesEveryRole(t *testing.T) {
	id := uuid.New()
	pattern := DashboardPattern(id).String()

	for _, role := range []user.UserRole{user.RoleStudent, user.RoleCounsellor, user.RoleAdmin} {
		ok, err := path.Match(pattern, Dashboard(role, id).String())
		require.NoError(t, err)
		require.True(t, ok, "pattern should match the %s dashboard", role)
	}

	ok, err := path.Match(pattern, Dashboard(user.RoleStudent, uuid.New()).String())
	require.NoError(t, err)
	require.False(t, ok, "pattern must not match another user's dashboard")
}

func TestAnnouncementsPatternDoesNotReachOtherNamespaces(t *testing.T) {
	pattern := AnnouncementsPattern().String()

	ok, err := path.Match(pattern, Announcements(user.RoleStudent).String())
	require.NoError(t, err)
	require.True(t, ok)

	for _, key := range []string{
		Principal(uuid.New()).String(),
		RateLimit(ScopeGeneral, "10.0.0.1").String(),
	} {
		ok, err := path.Match(pattern, key)
		require.NoError(t, err)
		require.False(t, ok)
	}
}

func TestRateLimitKeysLiveUnderReservedPrefix(t *testing.T) {
	require.Equal(t, "rl:general:10.0.0.1", RateLimit(ScopeGeneral, "10.0.0.1").String())
	require.Equal(t, "rl:auth:10.0.0.1", RateLimit(ScopeAuth, "10.0.0.1").String())

	id := uuid.New()
	require.Equal(t, "rl:user:"+id.String(), RateLimit(ScopeUser, id.String()).String())
}
