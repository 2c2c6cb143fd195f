package ports

import (
	"context"

	"github.com/acmshq/acms/internal/core/domain/auth"
	"github.com/acmshq/acms/internal/core/domain/user"
)

// AuthService issues and validates the stateless JWTs the portal runs on.
type AuthService interface {
	Signup(ctx context.Context, req *auth.SignupRequest) (*user.User, error)
	Login(ctx context.Context, req *auth.LoginRequest) (*auth.LoginResponse, error)
	ValidateToken(tokenString string) (*auth.Claims, error)
}
