package ports

import (
	"context"

	"github.com/acmshq/acms/internal/core/domain/user"
	"github.com/google/uuid"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	Update(ctx context.Context, u *user.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, role *user.UserRole, limit, offset int) ([]*user.User, error)
	ListByCounsellor(ctx context.Context, counsellorID uuid.UUID) ([]*user.User, error)
	CountByRole(ctx context.Context) (map[user.UserRole]int, error)
}

// UserService defines the user management business logic. GetPrincipal is the
// read-through identity resolution used on every authenticated request; the
// mutating operations evict the corresponding principal cache entry before
// returning.
type UserService interface {
	CreateUser(ctx context.Context, req *user.CreateUserRequest) (*user.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetPrincipal(ctx context.Context, id uuid.UUID) (*user.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, req *user.UpdateUserRequest) (*user.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	ListUsers(ctx context.Context, role *user.UserRole, limit, offset int) ([]*user.User, error)
	AssignCounsellor(ctx context.Context, studentID, counsellorID uuid.UUID) (*user.User, error)
}
