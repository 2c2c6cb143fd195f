package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/acmshq/acms/configs"
	"github.com/acmshq/acms/internal/core/domain/announcement"
	"github.com/acmshq/acms/internal/core/domain/cachekey"
	"github.com/acmshq/acms/internal/core/domain/user"
	"github.com/acmshq/acms/internal/core/ports"
)

// AnnouncementService serves per-role cached announcement lists. Any
// mutation pattern-evicts every role's list: an announcement targeted at
// "all" lives in several cached lists at once.
type AnnouncementService struct {
	repo   ports.AnnouncementRepository
	cache  *CacheService
	ttl    configs.CacheConfig
	logger *logrus.Logger
}

func NewAnnouncementService(repo ports.AnnouncementRepository, cache *CacheService, ttl configs.CacheConfig, logger *logrus.Logger) ports.AnnouncementService {
	return &AnnouncementService{
		repo:   repo,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

func validTarget(t announcement.TargetRole) bool {
	switch t {
	case announcement.TargetStudents, announcement.TargetCounsellors, announcement.TargetAll:
		return true
	default:
		return false
	}
}

func (s *AnnouncementService) Create(ctx context.Context, adminID uuid.UUID, req *announcement.CreateRequest) (*announcement.Announcement, error) {
	if req.Title == "" || req.Content == "" {
		return nil, fmt.Errorf("title and content are required")
	}
	if !validTarget(req.TargetRole) {
		return nil, fmt.Errorf("invalid target role %q", req.TargetRole)
	}
	priority := req.Priority
	if priority == "" {
		priority = announcement.PriorityMedium
	}

	now := time.Now()
	a := &announcement.Announcement{
		ID:         uuid.New(),
		AdminID:    adminID,
		Title:      req.Title,
		Content:    req.Content,
		TargetRole: req.TargetRole,
		Department: req.Department,
		Priority:   priority,
		IsActive:   true,
		ExpiresAt:  req.ExpiresAt,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to create announcement: %w", err)
	}
	s.cache.DeleteByPattern(ctx, cachekey.AnnouncementsPattern())

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"announcement_id": a.ID, "target": a.TargetRole}).Info("announcement created")
	}
	return a, nil
}

func (s *AnnouncementService) Update(ctx context.Context, id uuid.UUID, req *announcement.UpdateRequest) (*announcement.Announcement, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		a.Title = *req.Title
	}
	if req.Content != nil {
		a.Content = *req.Content
	}
	if req.TargetRole != nil {
		if !validTarget(*req.TargetRole) {
			return nil, fmt.Errorf("invalid target role %q", *req.TargetRole)
		}
		a.TargetRole = *req.TargetRole
	}
	if req.Priority != nil {
		a.Priority = *req.Priority
	}
	if req.IsActive != nil {
		a.IsActive = *req.IsActive
	}
	if req.ExpiresAt != nil {
		a.ExpiresAt = req.ExpiresAt
	}
	a.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to update announcement: %w", err)
	}
	s.cache.DeleteByPattern(ctx, cachekey.AnnouncementsPattern())
	return a, nil
}

func (s *AnnouncementService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.DeleteByPattern(ctx, cachekey.AnnouncementsPattern())
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"announcement_id": id}).Info("announcement deleted")
	}
	return nil
}

// ListForRole returns the active announcements visible to a role, cached
// per role. An empty list is a legitimate cached value, distinct from a
// miss.
func (s *AnnouncementService) ListForRole(ctx context.Context, role user.UserRole, limit int) ([]*announcement.Announcement, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	list, err := Lookup(ctx, s.cache, cachekey.Announcements(role), s.ttl.AnnouncementTTL, func(ctx context.Context) (*[]*announcement.Announcement, error) {
		items, err := s.repo.ListActive(ctx, role, limit)
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []*announcement.Announcement{}
		}
		return &items, nil
	})
	if err != nil {
		return nil, err
	}
	return *list, nil
}
