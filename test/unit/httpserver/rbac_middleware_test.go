package httpserver_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/acmshq/acms/internal/core/domain/user"
	"github.com/acmshq/acms/internal/infrastructure/httpserver/helpers"
	"github.com/acmshq/acms/internal/infrastructure/httpserver/middleware"
)

func TestRequireRolesWithoutPrincipal(t *testing.T) {
	m := middleware.NewRBACMiddleware(nil)
	c, _ := newEchoContext(t, "")

	called := false
	err := m.RequireRoles(user.RoleAdmin)(okHandler(&called))(c)
	requireHTTPError(t, err, http.StatusUnauthorized)
	require.False(t, called)
}

func TestRequireRolesMismatch(t *testing.T) {
	m := middleware.NewRBACMiddleware(nil)
	c, _ := newEchoContext(t, "")
	helpers.SetCurrentUser(c, &user.User{ID: uuid.New(), Role: user.RoleStudent, IsActive: true})

	called := false
	err := m.RequireRoles(user.RoleAdmin)(okHandler(&called))(c)
	requireHTTPError(t, err, http.StatusForbidden)
	require.False(t, called)
}

func TestRequireRolesAllowsAnyListedRole(t *testing.T) {
	m := middleware.NewRBACMiddleware(nil)
	c, _ := newEchoContext(t, "")
	helpers.SetCurrentUser(c, &user.User{ID: uuid.New(), Role: user.RoleCounsellor, IsActive: true})

	called := false
	err := m.RequireRoles(user.RoleCounsellor, user.RoleAdmin)(okHandler(&called))(c)
	require.NoError(t, err)
	require.True(t, called)
}
