package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	FirstName    string     `json:"first_name" db:"first_name"`
	LastName     string     `json:"last_name" db:"last_name"`
	Role         UserRole   `json:"role" db:"role"`
	EnrollmentNo *string    `json:"enrollment_no,omitempty" db:"enrollment_no"`
	Department   *string    `json:"department,omitempty" db:"department"`
	Semester     *int       `json:"semester,omitempty" db:"semester"`
	CounsellorID *uuid.UUID `json:"counsellor_id,omitempty" db:"counsellor_id"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at" db:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

type UserRole string

const (
	RoleStudent    UserRole = "student"
	RoleCounsellor UserRole = "counsellor"
	RoleAdmin      UserRole = "admin"
)

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) IsValid() bool {
	switch r {
	case RoleStudent, RoleCounsellor, RoleAdmin:
		return true
	default:
		return false
	}
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// CreateUserRequest represents the request to create a new user
type CreateUserRequest struct {
	Email        string     `json:"email"`
	Password     string     `json:"password"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Role         UserRole   `json:"role"`
	EnrollmentNo *string    `json:"enrollment_no,omitempty"`
	Department   *string    `json:"department,omitempty"`
	Semester     *int       `json:"semester,omitempty"`
	CounsellorID *uuid.UUID `json:"counsellor_id,omitempty"`
}

// UpdateUserRequest represents the request to update a user. Role, counsellor
// assignment and active status are security-relevant: any change to them must
// evict the user's cached principal in the same call.
type UpdateUserRequest struct {
	FirstName    *string    `json:"first_name,omitempty"`
	LastName     *string    `json:"last_name,omitempty"`
	Role         *UserRole  `json:"role,omitempty"`
	Department   *string    `json:"department,omitempty"`
	Semester     *int       `json:"semester,omitempty"`
	CounsellorID *uuid.UUID `json:"counsellor_id,omitempty"`
	IsActive     *bool      `json:"is_active,omitempty"`
}
