package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/acmshq/acms/internal/core/domain/student"
	"github.com/acmshq/acms/internal/core/ports"
	"github.com/acmshq/acms/internal/infrastructure/db"
)

// The counsellor assignment lives on the users row; profile queries derive
// it through a join so there is a single source of truth.
const profileColumns = `p.id, p.user_id, p.student_id, u.counsellor_id, p.attendance, p.marks, p.created_at, p.updated_at`

// StudentProfileRepository implements the student profile repository
// interface on top of JSONB document columns.
type StudentProfileRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewStudentProfileRepository creates a new student profile repository
func NewStudentProfileRepository(database *db.Database, logger *logrus.Logger) ports.StudentProfileRepository {
	return &StudentProfileRepository{
		db:     database,
		logger: logger,
	}
}

// Create inserts an empty academic record for a new student
func (r *StudentProfileRepository) Create(ctx context.Context, p *student.Profile) error {
	query := `
		INSERT INTO student_profiles (id, user_id, student_id, attendance, marks, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.DB.ExecContext(ctx, query,
		p.ID, p.UserID, p.StudentID, p.Attendance, p.Marks, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"user_id": p.UserID}).WithError(err).Error("db: failed to create student profile")
		}
		return fmt.Errorf("failed to create student profile: %w", err)
	}

	return nil
}

// GetByUserID retrieves a profile by the owning user's ID
func (r *StudentProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*student.Profile, error) {
	var p student.Profile
	query := `
		SELECT ` + profileColumns + `
		FROM student_profiles p
		JOIN users u ON u.id = p.user_id
		WHERE p.user_id = $1`

	err := r.db.DB.GetContext(ctx, &p, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, student.ErrProfileNotFound
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"user_id": userID}).WithError(err).Error("db: failed to get student profile")
		}
		return nil, fmt.Errorf("failed to get student profile: %w", err)
	}

	return &p, nil
}

// ListByCounsellor retrieves the profiles of a counsellor's assigned students
func (r *StudentProfileRepository) ListByCounsellor(ctx context.Context, counsellorID uuid.UUID) ([]*student.Profile, error) {
	var profiles []*student.Profile
	query := `
		SELECT ` + profileColumns + `
		FROM student_profiles p
		JOIN users u ON u.id = p.user_id
		WHERE u.counsellor_id = $1
		ORDER BY p.student_id`

	if err := r.db.DB.SelectContext(ctx, &profiles, query, counsellorID); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"counsellor_id": counsellorID}).WithError(err).Error("db: failed to list profiles by counsellor")
		}
		return nil, fmt.Errorf("failed to list profiles by counsellor: %w", err)
	}

	return profiles, nil
}

// UpdateAttendance replaces the attendance document
func (r *StudentProfileRepository) UpdateAttendance(ctx context.Context, userID uuid.UUID, att *student.Attendance) error {
	return r.updateDocument(ctx, userID, "attendance", att)
}

// UpdateMarks replaces the marks document
func (r *StudentProfileRepository) UpdateMarks(ctx context.Context, userID uuid.UUID, m *student.Marks) error {
	return r.updateDocument(ctx, userID, "marks", m)
}

func (r *StudentProfileRepository) updateDocument(ctx context.Context, userID uuid.UUID, column string, doc any) error {
	// column is one of the two fixed JSONB column names, never user input.
	query := `UPDATE student_profiles SET ` + column + ` = $2, updated_at = NOW() WHERE user_id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, userID, doc)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"user_id": userID, "column": column}).WithError(err).Error("db: failed to update profile document")
		}
		return fmt.Errorf("failed to update %s: %w", column, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return student.ErrProfileNotFound
	}

	return nil
}
