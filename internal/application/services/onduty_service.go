package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/acmshq/acms/internal/core/domain/cachekey"
	"github.com/acmshq/acms/internal/core/domain/onduty"
	"github.com/acmshq/acms/internal/core/domain/user"
	"github.com/acmshq/acms/internal/core/ports"
)

// OnDutyService implements the request lifecycle: a student files against
// their assigned counsellor, who approves or rejects while the request is
// pending. Every mutation evicts both parties' dashboard caches.
type OnDutyService struct {
	repo   ports.OnDutyRepository
	users  ports.UserRepository
	cache  *CacheService
	emails ports.EmailService
	logger *logrus.Logger
}

func NewOnDutyService(repo ports.OnDutyRepository, users ports.UserRepository, cache *CacheService, emails ports.EmailService, logger *logrus.Logger) ports.OnDutyService {
	return &OnDutyService{
		repo:   repo,
		users:  users,
		cache:  cache,
		emails: emails,
		logger: logger,
	}
}

func validateDates(start, end time.Time) error {
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return onduty.ErrInvalidDates
	}
	return nil
}

// File creates a pending request for the student's assigned counsellor.
func (s *OnDutyService) File(ctx context.Context, studentID uuid.UUID, req *onduty.CreateRequest) (*onduty.Request, error) {
	if err := validateDates(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}
	if req.Reason == "" {
		return nil, fmt.Errorf("reason is required")
	}

	st, err := s.users.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if st.CounsellorID == nil {
		return nil, onduty.ErrNoCounsellor
	}

	now := time.Now()
	r := &onduty.Request{
		ID:           uuid.New(),
		StudentID:    studentID,
		CounsellorID: *st.CounsellorID,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Reason:       req.Reason,
		Status:       onduty.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to create on-duty request: %w", err)
	}
	s.evictDashboards(ctx, r)

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"request_id": r.ID, "student_id": studentID, "counsellor_id": r.CounsellorID}).Info("on-duty request filed")
	}
	return r, nil
}

// Get returns a request if the actor is the owning student, the assigned
// counsellor, or an admin.
func (s *OnDutyService) Get(ctx context.Context, id uuid.UUID, actor *user.User) (*onduty.Request, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAccess(r, actor) {
		return nil, onduty.ErrAccessDenied
	}
	return r, nil
}

func canAccess(r *onduty.Request, actor *user.User) bool {
	switch actor.Role {
	case user.RoleAdmin:
		return true
	case user.RoleCounsellor:
		return r.CounsellorID == actor.ID
	case user.RoleStudent:
		return r.StudentID == actor.ID
	default:
		return false
	}
}

// List returns requests visible to the actor: students see their own,
// counsellors their assignees', admins everything the filter allows.
func (s *OnDutyService) List(ctx context.Context, actor *user.User, f *onduty.ListFilter) ([]*onduty.Request, error) {
	if f == nil {
		f = &onduty.ListFilter{}
	}
	switch actor.Role {
	case user.RoleStudent:
		f.StudentID = &actor.ID
		f.CounsellorID = nil
	case user.RoleCounsellor:
		f.CounsellorID = &actor.ID
		f.StudentID = nil
	case user.RoleAdmin:
		// unrestricted
	default:
		return nil, onduty.ErrAccessDenied
	}
	return s.repo.List(ctx, f)
}

// Edit lets the owning student change a still-pending request.
func (s *OnDutyService) Edit(ctx context.Context, id, studentID uuid.UUID, req *onduty.UpdateRequest) (*onduty.Request, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.StudentID != studentID {
		return nil, onduty.ErrAccessDenied
	}
	if r.Status != onduty.StatusPending {
		return nil, onduty.ErrNotPending
	}

	if req.StartDate != nil {
		r.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		r.EndDate = *req.EndDate
	}
	if err := validateDates(r.StartDate, r.EndDate); err != nil {
		return nil, err
	}
	if req.Reason != nil {
		if *req.Reason == "" {
			return nil, fmt.Errorf("reason is required")
		}
		r.Reason = *req.Reason
	}
	r.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to update on-duty request: %w", err)
	}
	s.evictDashboards(ctx, r)
	return r, nil
}

// Decide records the assigned counsellor's approval or rejection of a
// pending request and notifies the student by email, best-effort.
func (s *OnDutyService) Decide(ctx context.Context, id, counsellorID uuid.UUID, approve bool, remarks string) (*onduty.Request, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.CounsellorID != counsellorID {
		return nil, onduty.ErrAccessDenied
	}
	if r.Status != onduty.StatusPending {
		return nil, onduty.ErrNotPending
	}

	now := time.Now()
	if approve {
		r.Status = onduty.StatusApproved
	} else {
		r.Status = onduty.StatusRejected
	}
	if remarks != "" {
		r.CounsellorRemarks = &remarks
	}
	r.DecidedAt = &now
	r.UpdatedAt = now

	if err := s.repo.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to record decision: %w", err)
	}
	s.evictDashboards(ctx, r)

	if s.emails != nil {
		if st, err := s.users.GetByID(ctx, r.StudentID); err == nil {
			if err := s.emails.SendODDecisionEmail(ctx, st.Email, st.FullName(), r.Status, remarks); err != nil && s.logger != nil {
				s.logger.WithFields(logrus.Fields{"request_id": r.ID}).WithError(err).Warn("failed to send decision email")
			}
		}
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"request_id": r.ID, "status": r.Status, "counsellor_id": counsellorID}).Info("on-duty request decided")
	}
	return r, nil
}

// evictDashboards drops both parties' cached dashboard views; their OD
// counters just changed.
func (s *OnDutyService) evictDashboards(ctx context.Context, r *onduty.Request) {
	s.cache.DeleteByPattern(ctx, cachekey.DashboardPattern(r.StudentID))
	s.cache.DeleteByPattern(ctx, cachekey.DashboardPattern(r.CounsellorID))
}
