package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/acmshq/acms/configs"
	"github.com/acmshq/acms/internal/core/domain/cachekey"
	"github.com/acmshq/acms/internal/core/domain/student"
	"github.com/acmshq/acms/internal/core/ports"
)

// StudentService serves the cached academic record reads and the admin
// updates that replace the underlying documents.
type StudentService struct {
	profiles ports.StudentProfileRepository
	cache    *CacheService
	ttl      configs.CacheConfig
	logger   *logrus.Logger
}

func NewStudentService(profiles ports.StudentProfileRepository, cache *CacheService, ttl configs.CacheConfig, logger *logrus.Logger) ports.StudentService {
	return &StudentService{
		profiles: profiles,
		cache:    cache,
		ttl:      ttl,
		logger:   logger,
	}
}

func (s *StudentService) GetProfile(ctx context.Context, studentUserID uuid.UUID) (*student.Profile, error) {
	return s.profiles.GetByUserID(ctx, studentUserID)
}

func (s *StudentService) GetAttendance(ctx context.Context, studentUserID uuid.UUID) (*student.Attendance, error) {
	return Lookup(ctx, s.cache, cachekey.Attendance(studentUserID), s.ttl.ProfileTTL, func(ctx context.Context) (*student.Attendance, error) {
		p, err := s.profiles.GetByUserID(ctx, studentUserID)
		if err != nil {
			return nil, err
		}
		att := p.Attendance
		return &att, nil
	})
}

func (s *StudentService) GetMarks(ctx context.Context, studentUserID uuid.UUID) (*student.Marks, error) {
	return Lookup(ctx, s.cache, cachekey.Marks(studentUserID), s.ttl.ProfileTTL, func(ctx context.Context) (*student.Marks, error) {
		p, err := s.profiles.GetByUserID(ctx, studentUserID)
		if err != nil {
			return nil, err
		}
		m := p.Marks
		return &m, nil
	})
}

func (s *StudentService) GetMarksSummary(ctx context.Context, studentUserID uuid.UUID) (*student.MarksSummary, error) {
	m, err := s.GetMarks(ctx, studentUserID)
	if err != nil {
		return nil, err
	}
	return &student.MarksSummary{
		GPA:           m.GPA,
		CGPA:          m.CGPA,
		Semester:      m.Semester,
		TotalSubjects: len(m.Subjects),
	}, nil
}

// UpdateAttendance replaces the attendance document and evicts the cached
// attendance and dashboard entries for the student.
func (s *StudentService) UpdateAttendance(ctx context.Context, studentUserID uuid.UUID, req *student.UpdateAttendanceRequest) error {
	if req.TotalClasses < 0 || req.ClassesAttended < 0 || req.ClassesAttended > req.TotalClasses {
		return fmt.Errorf("inconsistent attendance counts: %d attended of %d", req.ClassesAttended, req.TotalClasses)
	}

	now := time.Now()
	att := &student.Attendance{
		TotalClasses:    req.TotalClasses,
		ClassesAttended: req.ClassesAttended,
		Subjects:        req.Subjects,
		LastUpdated:     &now,
	}
	if req.TotalClasses > 0 {
		att.Percentage = float64(req.ClassesAttended) / float64(req.TotalClasses) * 100
	}
	for i := range att.Subjects {
		if att.Subjects[i].Classes > 0 {
			att.Subjects[i].Percentage = float64(att.Subjects[i].Attended) / float64(att.Subjects[i].Classes) * 100
		}
	}

	if err := s.profiles.UpdateAttendance(ctx, studentUserID, att); err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	s.cache.Delete(ctx, cachekey.Attendance(studentUserID))
	s.cache.DeleteByPattern(ctx, cachekey.DashboardPattern(studentUserID))

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"student_id": studentUserID, "percentage": att.Percentage}).Info("attendance updated")
	}
	return nil
}

// UpdateMarks replaces the marks document and evicts the cached marks and
// dashboard entries for the student.
func (s *StudentService) UpdateMarks(ctx context.Context, studentUserID uuid.UUID, req *student.UpdateMarksRequest) error {
	if req.Semester < 1 {
		return fmt.Errorf("invalid semester %d", req.Semester)
	}

	now := time.Now()
	m := &student.Marks{
		Semester:    req.Semester,
		Subjects:    req.Subjects,
		GPA:         req.GPA,
		CGPA:        req.CGPA,
		LastUpdated: &now,
	}
	if err := s.profiles.UpdateMarks(ctx, studentUserID, m); err != nil {
		return fmt.Errorf("failed to update marks: %w", err)
	}
	s.cache.Delete(ctx, cachekey.Marks(studentUserID))
	s.cache.DeleteByPattern(ctx, cachekey.DashboardPattern(studentUserID))

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"student_id": studentUserID, "semester": req.Semester}).Info("marks updated")
	}
	return nil
}

func (s *StudentService) ListAssigned(ctx context.Context, counsellorID uuid.UUID) ([]*student.Profile, error) {
	return s.profiles.ListByCounsellor(ctx, counsellorID)
}
