package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/acmshq/acms/configs"
	"github.com/acmshq/acms/internal/core/domain/auth"
	"github.com/acmshq/acms/internal/core/domain/user"
	"github.com/acmshq/acms/internal/core/ports"
	"github.com/acmshq/acms/internal/utils"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is deactivated")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// AuthService issues stateless HS256 tokens. There is no server-side session
// state; revocation latency is bounded by the token TTL plus the cached
// principal TTL.
type AuthService struct {
	users  ports.UserRepository
	emails ports.EmailService
	jwt    *configs.JWTConfig
	logger *logrus.Logger
}

func NewAuthService(users ports.UserRepository, emails ports.EmailService, jwtCfg *configs.JWTConfig, logger *logrus.Logger) ports.AuthService {
	return &AuthService{
		users:  users,
		emails: emails,
		jwt:    jwtCfg,
		logger: logger,
	}
}

// Signup creates a student or counsellor account. Admin accounts are only
// created through the admin user management API.
func (s *AuthService) Signup(ctx context.Context, req *auth.SignupRequest) (*user.User, error) {
	if req.Role != user.RoleStudent && req.Role != user.RoleCounsellor {
		return nil, fmt.Errorf("role %q cannot self-register", req.Role)
	}
	if err := utils.ValidatePasswordStrength(req.Password); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, user.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	u := &user.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         req.Role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if s.emails != nil {
		if err := s.emails.SendWelcomeEmail(ctx, u.Email, u.FullName()); err != nil && s.logger != nil {
			s.logger.WithFields(logrus.Fields{"user_id": u.ID}).WithError(err).Warn("failed to send welcome email")
		}
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"user_id": u.ID, "role": u.Role}).Info("user signed up")
	}
	u.PasswordHash = ""
	return u, nil
}

// Login verifies credentials and returns a signed token together with the
// password-stripped user.
func (s *AuthService) Login(ctx context.Context, req *auth.LoginRequest) (*auth.LoginResponse, error) {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrAccountDisabled
	}

	now := time.Now()
	u.LastLoginAt = &now
	if err := s.users.Update(ctx, u); err != nil && s.logger != nil {
		s.logger.WithFields(logrus.Fields{"user_id": u.ID}).WithError(err).Warn("failed to record last login")
	}

	token, err := s.signToken(u, now)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"user_id": u.ID, "role": u.Role}).Info("user logged in")
	}

	u.PasswordHash = ""
	return &auth.LoginResponse{
		Token:     token,
		ExpiresIn: int64(s.jwt.TokenTTL.Seconds()),
		User:      u,
	}, nil
}

func (s *AuthService) signToken(u *user.User, issuedAt time.Time) (string, error) {
	claims := &auth.Claims{
		UserID: u.ID,
		Email:  u.Email,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.jwt.TokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwt.Secret))
}

// ValidateToken parses and verifies a token string and returns its claims.
func (s *AuthService) ValidateToken(tokenString string) (*auth.Claims, error) {
	claims := &auth.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.jwt.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
