package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/acmshq/acms/internal/core/domain/announcement"
	"github.com/acmshq/acms/internal/core/domain/user"
	"github.com/acmshq/acms/internal/core/ports"
	"github.com/acmshq/acms/internal/infrastructure/db"
)

const announcementColumns = `id, admin_id, title, content, target_role, department, priority,
	   is_active, expires_at, created_at, updated_at`

// AnnouncementRepository implements the announcement repository interface
type AnnouncementRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewAnnouncementRepository creates a new announcement repository
func NewAnnouncementRepository(database *db.Database, logger *logrus.Logger) ports.AnnouncementRepository {
	return &AnnouncementRepository{
		db:     database,
		logger: logger,
	}
}

// Create inserts a new announcement
func (r *AnnouncementRepository) Create(ctx context.Context, a *announcement.Announcement) error {
	query := `
		INSERT INTO announcements (id, admin_id, title, content, target_role, department, priority, is_active, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.DB.ExecContext(ctx, query,
		a.ID, a.AdminID, a.Title, a.Content, a.TargetRole, a.Department, a.Priority, a.IsActive, a.ExpiresAt, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"announcement_id": a.ID}).WithError(err).Error("db: failed to create announcement")
		}
		return fmt.Errorf("failed to create announcement: %w", err)
	}

	return nil
}

// GetByID retrieves an announcement by ID
func (r *AnnouncementRepository) GetByID(ctx context.Context, id uuid.UUID) (*announcement.Announcement, error) {
	var a announcement.Announcement
	query := `SELECT ` + announcementColumns + ` FROM announcements WHERE id = $1`

	err := r.db.DB.GetContext(ctx, &a, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, announcement.ErrNotFound
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"announcement_id": id}).WithError(err).Error("db: failed to get announcement")
		}
		return nil, fmt.Errorf("failed to get announcement: %w", err)
	}

	return &a, nil
}

// Update updates an existing announcement
func (r *AnnouncementRepository) Update(ctx context.Context, a *announcement.Announcement) error {
	query := `
		UPDATE announcements
		SET title = $2, content = $3, target_role = $4, priority = $5,
			is_active = $6, expires_at = $7, updated_at = $8
		WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query,
		a.ID, a.Title, a.Content, a.TargetRole, a.Priority, a.IsActive, a.ExpiresAt, a.UpdatedAt)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"announcement_id": a.ID}).WithError(err).Error("db: failed to update announcement")
		}
		return fmt.Errorf("failed to update announcement: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return announcement.ErrNotFound
	}

	return nil
}

// Delete removes an announcement
func (r *AnnouncementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"announcement_id": id}).WithError(err).Error("db: failed to delete announcement")
		}
		return fmt.Errorf("failed to delete announcement: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return announcement.ErrNotFound
	}

	return nil
}

// ListActive retrieves the active, unexpired announcements visible to a
// role, highest priority first
func (r *AnnouncementRepository) ListActive(ctx context.Context, role user.UserRole, limit int) ([]*announcement.Announcement, error) {
	var announcements []*announcement.Announcement
	query := `
		SELECT ` + announcementColumns + `
		FROM announcements
		WHERE is_active = true
		  AND (expires_at IS NULL OR expires_at > NOW())
		  AND (target_role = 'all' OR target_role = $1)
		ORDER BY CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END, created_at DESC
		LIMIT $2`

	if err := r.db.DB.SelectContext(ctx, &announcements, query, role, limit); err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"role": role}).WithError(err).Error("db: failed to list announcements")
		}
		return nil, fmt.Errorf("failed to list announcements: %w", err)
	}

	return announcements, nil
}

// CountActive returns the number of active, unexpired announcements
func (r *AnnouncementRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM announcements WHERE is_active = true AND (expires_at IS NULL OR expires_at > NOW())`

	if err := r.db.DB.GetContext(ctx, &count, query); err != nil {
		if r.logger != nil {
			r.logger.WithError(err).Error("db: failed to count announcements")
		}
		return 0, fmt.Errorf("failed to count announcements: %w", err)
	}

	return count, nil
}
