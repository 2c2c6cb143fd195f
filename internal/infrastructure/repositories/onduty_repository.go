package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/acmshq/acms/internal/core/domain/onduty"
	"github.com/acmshq/acms/internal/core/ports"
	"github.com/acmshq/acms/internal/infrastructure/db"
)

const ondutyColumns = `id, student_id, counsellor_id, start_date, end_date, reason, status,
	   counsellor_remarks, decided_at, created_at, updated_at`

// OnDutyRepository implements the on-duty request repository interface
type OnDutyRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewOnDutyRepository creates a new on-duty request repository
func NewOnDutyRepository(database *db.Database, logger *logrus.Logger) ports.OnDutyRepository {
	return &OnDutyRepository{
		db:     database,
		logger: logger,
	}
}

// Create inserts a new on-duty request
func (r *OnDutyRepository) Create(ctx context.Context, req *onduty.Request) error {
	query := `
		INSERT INTO onduty_requests (id, student_id, counsellor_id, start_date, end_date, reason, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.DB.ExecContext(ctx, query,
		req.ID, req.StudentID, req.CounsellorID, req.StartDate, req.EndDate, req.Reason, req.Status, req.CreatedAt, req.UpdatedAt)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"request_id": req.ID, "student_id": req.StudentID}).WithError(err).Error("db: failed to create on-duty request")
		}
		return fmt.Errorf("failed to create on-duty request: %w", err)
	}

	return nil
}

// GetByID retrieves an on-duty request by ID
func (r *OnDutyRepository) GetByID(ctx context.Context, id uuid.UUID) (*onduty.Request, error) {
	var req onduty.Request
	query := `SELECT ` + ondutyColumns + ` FROM onduty_requests WHERE id = $1`

	err := r.db.DB.GetContext(ctx, &req, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, onduty.ErrNotFound
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"request_id": id}).WithError(err).Error("db: failed to get on-duty request")
		}
		return nil, fmt.Errorf("failed to get on-duty request: %w", err)
	}

	return &req, nil
}

// Update updates an existing on-duty request
func (r *OnDutyRepository) Update(ctx context.Context, req *onduty.Request) error {
	query := `
		UPDATE onduty_requests
		SET start_date = $2, end_date = $3, reason = $4, status = $5,
			counsellor_remarks = $6, decided_at = $7, updated_at = $8
		WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query,
		req.ID, req.StartDate, req.EndDate, req.Reason, req.Status,
		req.CounsellorRemarks, req.DecidedAt, req.UpdatedAt)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"request_id": req.ID}).WithError(err).Error("db: failed to update on-duty request")
		}
		return fmt.Errorf("failed to update on-duty request: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return onduty.ErrNotFound
	}

	return nil
}

// List retrieves on-duty requests matching the filter, newest first
func (r *OnDutyRepository) List(ctx context.Context, f *onduty.ListFilter) ([]*onduty.Request, error) {
	query := `SELECT ` + ondutyColumns + ` FROM onduty_requests`
	conditions, args := buildOnDutyConditions(f)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	var requests []*onduty.Request
	if err := r.db.DB.SelectContext(ctx, &requests, query, args...); err != nil {
		if r.logger != nil {
			r.logger.WithError(err).Error("db: failed to list on-duty requests")
		}
		return nil, fmt.Errorf("failed to list on-duty requests: %w", err)
	}

	return requests, nil
}

// CountByStatus aggregates matching requests by status
func (r *OnDutyRepository) CountByStatus(ctx context.Context, f *onduty.ListFilter) (*onduty.StatusCounts, error) {
	query := `SELECT status, COUNT(*) FROM onduty_requests`
	conditions, args := buildOnDutyConditions(f)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " GROUP BY status"

	rows, err := r.db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		if r.logger != nil {
			r.logger.WithError(err).Error("db: failed to count on-duty requests")
		}
		return nil, fmt.Errorf("failed to count on-duty requests: %w", err)
	}
	defer rows.Close()

	counts := &onduty.StatusCounts{}
	for rows.Next() {
		var status onduty.Status
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		switch status {
		case onduty.StatusPending:
			counts.Pending = n
		case onduty.StatusApproved:
			counts.Approved = n
		case onduty.StatusRejected:
			counts.Rejected = n
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}

func buildOnDutyConditions(f *onduty.ListFilter) ([]string, []any) {
	var conditions []string
	var args []any
	if f == nil {
		return conditions, args
	}

	arg := 1
	if f.StudentID != nil {
		conditions = append(conditions, "student_id = $"+strconv.Itoa(arg))
		args = append(args, *f.StudentID)
		arg++
	}
	if f.CounsellorID != nil {
		conditions = append(conditions, "counsellor_id = $"+strconv.Itoa(arg))
		args = append(args, *f.CounsellorID)
		arg++
	}
	if f.Status != nil {
		conditions = append(conditions, "status = $"+strconv.Itoa(arg))
		args = append(args, *f.Status)
		arg++
	}
	if f.From != nil {
		conditions = append(conditions, "start_date >= $"+strconv.Itoa(arg))
		args = append(args, *f.From)
		arg++
	}
	if f.To != nil {
		conditions = append(conditions, "end_date <= $"+strconv.Itoa(arg))
		args = append(args, *f.To)
		arg++
	}

	return conditions, args
}
