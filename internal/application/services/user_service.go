package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/acmshq/acms/configs"
	"github.com/acmshq/acms/internal/core/domain/cachekey"
	"github.com/acmshq/acms/internal/core/domain/student"
	"github.com/acmshq/acms/internal/core/domain/user"
	"github.com/acmshq/acms/internal/core/ports"
	"github.com/acmshq/acms/internal/utils"
)

// UserService owns account management and the principal cache. Mutations
// evict the affected user's principal entry before returning, so a request
// arriving after the call observes the new role, assignment or status.
type UserService struct {
	repo     ports.UserRepository
	profiles ports.StudentProfileRepository
	cache    *CacheService
	emails   ports.EmailService
	ttl      configs.CacheConfig
	logger   *logrus.Logger
}

func NewUserService(repo ports.UserRepository, profiles ports.StudentProfileRepository, cache *CacheService, emails ports.EmailService, ttl configs.CacheConfig, logger *logrus.Logger) ports.UserService {
	return &UserService{
		repo:     repo,
		profiles: profiles,
		cache:    cache,
		emails:   emails,
		ttl:      ttl,
		logger:   logger,
	}
}

// GetPrincipal resolves the caller identity for the auth middleware. The
// cached snapshot never carries the password hash. An unknown id returns
// user.ErrNotFound and is never cached.
func (s *UserService) GetPrincipal(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return Lookup(ctx, s.cache, cachekey.Principal(id), s.ttl.PrincipalTTL, func(ctx context.Context) (*user.User, error) {
		u, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		snapshot := *u
		snapshot.PasswordHash = ""
		return &snapshot, nil
	})
}

// CreateUser is the admin-side account creation; students also get an empty
// academic profile row.
func (s *UserService) CreateUser(ctx context.Context, req *user.CreateUserRequest) (*user.User, error) {
	if !req.Role.IsValid() {
		return nil, fmt.Errorf("invalid role %q", req.Role)
	}
	if err := utils.ValidatePasswordStrength(req.Password); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
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
		EnrollmentNo: req.EnrollmentNo,
		Department:   req.Department,
		Semester:     req.Semester,
		CounsellorID: req.CounsellorID,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if u.Role == user.RoleStudent {
		studentID := u.ID.String()
		if u.EnrollmentNo != nil {
			studentID = *u.EnrollmentNo
		}
		p := &student.Profile{
			ID:        uuid.New(),
			UserID:    u.ID,
			StudentID: studentID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.profiles.Create(ctx, p); err != nil {
			return nil, fmt.Errorf("failed to create student profile: %w", err)
		}
	}

	if s.emails != nil {
		if err := s.emails.SendWelcomeEmail(ctx, u.Email, u.FullName()); err != nil && s.logger != nil {
			s.logger.WithFields(logrus.Fields{"user_id": u.ID}).WithError(err).Warn("failed to send welcome email")
		}
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"user_id": u.ID, "role": u.Role}).Info("user created")
	}

	u.PasswordHash = ""
	return u, nil
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = ""
	return u, nil
}

// UpdateUser applies the patch and evicts the user's principal and dashboard
// entries. Eviction is unconditional: the patch may touch role, counsellor
// assignment or active status, and re-priming costs one extra load.
func (s *UserService) UpdateUser(ctx context.Context, id uuid.UUID, req *user.UpdateUserRequest) (*user.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}
	if req.Role != nil {
		if !req.Role.IsValid() {
			return nil, fmt.Errorf("invalid role %q", *req.Role)
		}
		u.Role = *req.Role
	}
	if req.Department != nil {
		u.Department = req.Department
	}
	if req.Semester != nil {
		u.Semester = req.Semester
	}
	if req.CounsellorID != nil {
		u.CounsellorID = req.CounsellorID
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}
	u.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	s.evictUser(ctx, id)

	u.PasswordHash = ""
	return u, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.evictUser(ctx, id)
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"user_id": id}).Info("user deleted")
	}
	return nil
}

func (s *UserService) ListUsers(ctx context.Context, role *user.UserRole, limit, offset int) ([]*user.User, error) {
	users, err := s.repo.List(ctx, role, limit, offset)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		u.PasswordHash = ""
	}
	return users, nil
}

// AssignCounsellor links a student to a counsellor and evicts the student's
// principal so their next request sees the new assignment.
func (s *UserService) AssignCounsellor(ctx context.Context, studentID, counsellorID uuid.UUID) (*user.User, error) {
	st, err := s.repo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if st.Role != user.RoleStudent {
		return nil, fmt.Errorf("user %s is not a student", studentID)
	}
	c, err := s.repo.GetByID(ctx, counsellorID)
	if err != nil {
		return nil, err
	}
	if c.Role != user.RoleCounsellor {
		return nil, fmt.Errorf("user %s is not a counsellor", counsellorID)
	}

	st.CounsellorID = &c.ID
	st.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, st); err != nil {
		return nil, fmt.Errorf("failed to assign counsellor: %w", err)
	}
	s.evictUser(ctx, studentID)
	s.cache.DeleteByPattern(ctx, cachekey.DashboardPattern(counsellorID))

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"student_id": studentID, "counsellor_id": counsellorID}).Info("counsellor assigned")
	}
	st.PasswordHash = ""
	return st, nil
}

func (s *UserService) evictUser(ctx context.Context, id uuid.UUID) {
	s.cache.Delete(ctx, cachekey.Principal(id))
	s.cache.DeleteByPattern(ctx, cachekey.DashboardPattern(id))
}
