package httpserver_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/acmshq/acms/internal/core/domain/auth"
	"github.com/acmshq/acms/internal/core/domain/user"
	"github.com/acmshq/acms/internal/infrastructure/httpserver/helpers"
	"github.com/acmshq/acms/internal/infrastructure/httpserver/middleware"
	"github.com/acmshq/acms/test/mocks"
)

func newEchoContext(t *testing.T, authHeader string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okHandler(called *bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		*called = true
		return c.NoContent(http.StatusOK)
	}
}

func requireHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, code, httpErr.Code)
}

func TestRequireJWTMissingHeader(t *testing.T) {
	m := middleware.NewJWTMiddleware(&mocks.MockAuthService{}, &mocks.MockUserService{}, nil)
	c, _ := newEchoContext(t, "")

	called := false
	err := m.RequireJWT()(okHandler(&called))(c)
	requireHTTPError(t, err, http.StatusUnauthorized)
	require.False(t, called)
}

func TestRequireJWTInvalidToken(t *testing.T) {
	authSvc := &mocks.MockAuthService{
		ValidateTokenFn: func(tokenString string) (*auth.Claims, error) {
			return nil, errors.New("signature mismatch")
		},
	}
	m := middleware.NewJWTMiddleware(authSvc, &mocks.MockUserService{}, nil)
	c, _ := newEchoContext(t, "Bearer bogus")

	called := false
	err := m.RequireJWT()(okHandler(&called))(c)
	requireHTTPError(t, err, http.StatusUnauthorized)
	require.False(t, called)
}

func TestRequireJWTUnknownUser(t *testing.T) {
	id := uuid.New()
	authSvc := &mocks.MockAuthService{
		ValidateTokenFn: func(tokenString string) (*auth.Claims, error) {
			return &auth.Claims{UserID: id}, nil
		},
	}
	userSvc := &mocks.MockUserService{
		GetPrincipalFn: func(ctx context.Context, got uuid.UUID) (*user.User, error) {
			return nil, user.ErrNotFound
		},
	}
	m := middleware.NewJWTMiddleware(authSvc, userSvc, nil)
	c, _ := newEchoContext(t, "Bearer valid")

	called := false
	err := m.RequireJWT()(okHandler(&called))(c)
	requireHTTPError(t, err, http.StatusUnauthorized)
	require.False(t, called)
}

func TestRequireJWTDeactivatedUser(t *testing.T) {
	id := uuid.New()
	authSvc := &mocks.MockAuthService{
		ValidateTokenFn: func(tokenString string) (*auth.Claims, error) {
			return &auth.Claims{UserID: id}, nil
		},
	}
	userSvc := &mocks.MockUserService{
		GetPrincipalFn: func(ctx context.Context, got uuid.UUID) (*user.User, error) {
			return &user.User{ID: id, Role: user.RoleStudent, IsActive: false}, nil
		},
	}
	m := middleware.NewJWTMiddleware(authSvc, userSvc, nil)
	c, _ := newEchoContext(t, "Bearer valid")

	called := false
	err := m.RequireJWT()(okHandler(&called))(c)
	requireHTTPError(t, err, http.StatusForbidden)
	require.False(t, called)
}

func TestRequireJWTSetsPrincipalFromCache(t *testing.T) {
	id := uuid.New()
	authSvc := &mocks.MockAuthService{
		ValidateTokenFn: func(tokenString string) (*auth.Claims, error) {
			require.Equal(t, "valid", tokenString)
			// The token still claims the old role; the snapshot wins.
			return &auth.Claims{UserID: id, Role: user.RoleStudent}, nil
		},
	}
	userSvc := &mocks.MockUserService{
		GetPrincipalFn: func(ctx context.Context, got uuid.UUID) (*user.User, error) {
			require.Equal(t, id, got)
			return &user.User{ID: id, Role: user.RoleCounsellor, IsActive: true}, nil
		},
	}
	m := middleware.NewJWTMiddleware(authSvc, userSvc, nil)
	c, _ := newEchoContext(t, "Bearer valid")

	var seen *user.User
	err := m.RequireJWT()(func(c echo.Context) error {
		seen, _ = helpers.GetCurrentUserRaw(c)
		return c.NoContent(http.StatusOK)
	})(c)
	require.NoError(t, err)
	require.NotNil(t, seen)
	require.Equal(t, user.RoleCounsellor, seen.Role)
}
