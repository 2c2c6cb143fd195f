package mocks

import (
	"context"
	"path"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/acmshq/acms/internal/core/domain/announcement"
	"github.com/acmshq/acms/internal/core/domain/audit"
	"github.com/acmshq/acms/internal/core/domain/auth"
	"github.com/acmshq/acms/internal/core/domain/cachekey"
	"github.com/acmshq/acms/internal/core/domain/onduty"
	"github.com/acmshq/acms/internal/core/domain/student"
	"github.com/acmshq/acms/internal/core/domain/user"
	"github.com/acmshq/acms/internal/core/ports"
)

// InMemoryCache is a ports.Cache backed by a map, with injectable errors to
// exercise the fail-open paths. TTLs are honored on read.
type InMemoryCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry

	GetErr    error
	SetErr    error
	DeleteErr error

	GetCalls    int
	SetCalls    int
	DeleteCalls int
}

type cacheEntry struct {
	value     []byte
	expiresAt time.Time
}

func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{entries: map[string]cacheEntry{}}
}

func (c *InMemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.GetCalls++
	if c.GetErr != nil {
		return nil, false, c.GetErr
	}
	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, false, nil
	}
	return e.value, true, nil
}

func (c *InMemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.SetCalls++
	if c.SetErr != nil {
		return c.SetErr
	}
	e := cacheEntry{value: value}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	c.entries[key] = e
	return nil
}

func (c *InMemoryCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.DeleteCalls++
	if c.DeleteErr != nil {
		return c.DeleteErr
	}
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

func (c *InMemoryCache) DeleteByPattern(ctx context.Context, pattern string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.DeleteErr != nil {
		return 0, c.DeleteErr
	}
	n := 0
	for k := range c.entries {
		if ok, _ := path.Match(pattern, k); ok {
			delete(c.entries, k)
			n++
		}
	}
	return n, nil
}

// Has reports whether key currently exists, for eviction assertions.
func (c *InMemoryCache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

// Put stores a raw value directly, bypassing error injection.
func (c *InMemoryCache) Put(key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: value}
}

var _ ports.Cache = (*InMemoryCache)(nil)

// MockUserRepository implements ports.UserRepository with function fields.
type MockUserRepository struct {
	CreateFn           func(ctx context.Context, u *user.User) error
	GetByIDFn          func(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByEmailFn       func(ctx context.Context, email string) (*user.User, error)
	UpdateFn           func(ctx context.Context, u *user.User) error
	DeleteFn           func(ctx context.Context, id uuid.UUID) error
	ListFn             func(ctx context.Context, role *user.UserRole, limit, offset int) ([]*user.User, error)
	ListByCounsellorFn func(ctx context.Context, counsellorID uuid.UUID) ([]*user.User, error)
	CountByRoleFn      func(ctx context.Context) (map[user.UserRole]int, error)
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	return m.CreateFn(ctx, u)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return m.GetByIDFn(ctx, id)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return m.GetByEmailFn(ctx, email)
}

func (m *MockUserRepository) Update(ctx context.Context, u *user.User) error {
	return m.UpdateFn(ctx, u)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.DeleteFn(ctx, id)
}

func (m *MockUserRepository) List(ctx context.Context, role *user.UserRole, limit, offset int) ([]*user.User, error) {
	return m.ListFn(ctx, role, limit, offset)
}

func (m *MockUserRepository) ListByCounsellor(ctx context.Context, counsellorID uuid.UUID) ([]*user.User, error) {
	return m.ListByCounsellorFn(ctx, counsellorID)
}

func (m *MockUserRepository) CountByRole(ctx context.Context) (map[user.UserRole]int, error) {
	return m.CountByRoleFn(ctx)
}

var _ ports.UserRepository = (*MockUserRepository)(nil)

// MockStudentProfileRepository implements ports.StudentProfileRepository.
type MockStudentProfileRepository struct {
	CreateFn           func(ctx context.Context, p *student.Profile) error
	GetByUserIDFn      func(ctx context.Context, userID uuid.UUID) (*student.Profile, error)
	ListByCounsellorFn func(ctx context.Context, counsellorID uuid.UUID) ([]*student.Profile, error)
	UpdateAttendanceFn func(ctx context.Context, userID uuid.UUID, att *student.Attendance) error
	UpdateMarksFn      func(ctx context.Context, userID uuid.UUID, m *student.Marks) error
}

func (m *MockStudentProfileRepository) Create(ctx context.Context, p *student.Profile) error {
	return m.CreateFn(ctx, p)
}

func (m *MockStudentProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*student.Profile, error) {
	return m.GetByUserIDFn(ctx, userID)
}

func (m *MockStudentProfileRepository) ListByCounsellor(ctx context.Context, counsellorID uuid.UUID) ([]*student.Profile, error) {
	return m.ListByCounsellorFn(ctx, counsellorID)
}

func (m *MockStudentProfileRepository) UpdateAttendance(ctx context.Context, userID uuid.UUID, att *student.Attendance) error {
	return m.UpdateAttendanceFn(ctx, userID, att)
}

func (m *MockStudentProfileRepository) UpdateMarks(ctx context.Context, userID uuid.UUID, mk *student.Marks) error {
	return m.UpdateMarksFn(ctx, userID, mk)
}

var _ ports.StudentProfileRepository = (*MockStudentProfileRepository)(nil)

// MockOnDutyRepository implements ports.OnDutyRepository.
type MockOnDutyRepository struct {
	CreateFn        func(ctx context.Context, r *onduty.Request) error
	GetByIDFn       func(ctx context.Context, id uuid.UUID) (*onduty.Request, error)
	UpdateFn        func(ctx context.Context, r *onduty.Request) error
	ListFn          func(ctx context.Context, f *onduty.ListFilter) ([]*onduty.Request, error)
	CountByStatusFn func(ctx context.Context, f *onduty.ListFilter) (*onduty.StatusCounts, error)
}

func (m *MockOnDutyRepository) Create(ctx context.Context, r *onduty.Request) error {
	return m.CreateFn(ctx, r)
}

func (m *MockOnDutyRepository) GetByID(ctx context.Context, id uuid.UUID) (*onduty.Request, error) {
	return m.GetByIDFn(ctx, id)
}

func (m *MockOnDutyRepository) Update(ctx context.Context, r *onduty.Request) error {
	return m.UpdateFn(ctx, r)
}

func (m *MockOnDutyRepository) List(ctx context.Context, f *onduty.ListFilter) ([]*onduty.Request, error) {
	return m.ListFn(ctx, f)
}

func (m *MockOnDutyRepository) CountByStatus(ctx context.Context, f *onduty.ListFilter) (*onduty.StatusCounts, error) {
	return m.CountByStatusFn(ctx, f)
}

var _ ports.OnDutyRepository = (*MockOnDutyRepository)(nil)

// MockAnnouncementRepository implements ports.AnnouncementRepository.
type MockAnnouncementRepository struct {
	CreateFn      func(ctx context.Context, a *announcement.Announcement) error
	GetByIDFn     func(ctx context.Context, id uuid.UUID) (*announcement.Announcement, error)
	UpdateFn      func(ctx context.Context, a *announcement.Announcement) error
	DeleteFn      func(ctx context.Context, id uuid.UUID) error
	ListActiveFn  func(ctx context.Context, role user.UserRole, limit int) ([]*announcement.Announcement, error)
	CountActiveFn func(ctx context.Context) (int, error)
}

func (m *MockAnnouncementRepository) Create(ctx context.Context, a *announcement.Announcement) error {
	return m.CreateFn(ctx, a)
}

func (m *MockAnnouncementRepository) GetByID(ctx context.Context, id uuid.UUID) (*announcement.Announcement, error) {
	return m.GetByIDFn(ctx, id)
}

func (m *MockAnnouncementRepository) Update(ctx context.Context, a *announcement.Announcement) error {
	return m.UpdateFn(ctx, a)
}

func (m *MockAnnouncementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.DeleteFn(ctx, id)
}

func (m *MockAnnouncementRepository) ListActive(ctx context.Context, role user.UserRole, limit int) ([]*announcement.Announcement, error) {
	return m.ListActiveFn(ctx, role, limit)
}

func (m *MockAnnouncementRepository) CountActive(ctx context.Context) (int, error) {
	return m.CountActiveFn(ctx)
}

var _ ports.AnnouncementRepository = (*MockAnnouncementRepository)(nil)

// MockEmailService implements ports.EmailService. Nil function fields make
// sends succeed silently.
type MockEmailService struct {
	SendWelcomeEmailFn    func(ctx context.Context, email, name string) error
	SendODDecisionEmailFn func(ctx context.Context, email, name string, status onduty.Status, remarks string) error

	WelcomeCalls  int
	DecisionCalls int
}

func (m *MockEmailService) SendWelcomeEmail(ctx context.Context, email, name string) error {
	m.WelcomeCalls++
	if m.SendWelcomeEmailFn != nil {
		return m.SendWelcomeEmailFn(ctx, email, name)
	}
	return nil
}

func (m *MockEmailService) SendODDecisionEmail(ctx context.Context, email, name string, status onduty.Status, remarks string) error {
	m.DecisionCalls++
	if m.SendODDecisionEmailFn != nil {
		return m.SendODDecisionEmailFn(ctx, email, name, status, remarks)
	}
	return nil
}

var _ ports.EmailService = (*MockEmailService)(nil)

// MockRateLimitRepository implements ports.RateLimitRepository with an
// in-memory counter map and injectable errors.
type MockRateLimitRepository struct {
	mu     sync.Mutex
	counts map[string]int64
	starts map[string]time.Time

	IncrementErr error
	ResetErr     error
}

func NewMockRateLimitRepository() *MockRateLimitRepository {
	return &MockRateLimitRepository{counts: map[string]int64{}, starts: map[string]time.Time{}}
}

func (m *MockRateLimitRepository) Increment(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.IncrementErr != nil {
		return 0, time.Time{}, m.IncrementErr
	}
	m.counts[key]++
	if m.counts[key] == 1 {
		m.starts[key] = time.Now()
	}
	return m.counts[key], m.starts[key].Add(window), nil
}

func (m *MockRateLimitRepository) Reset(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ResetErr != nil {
		return m.ResetErr
	}
	delete(m.counts, key)
	delete(m.starts, key)
	return nil
}

var _ ports.RateLimitRepository = (*MockRateLimitRepository)(nil)

// MockAuditRepository implements ports.AuditRepository, recording entries.
type MockAuditRepository struct {
	mu      sync.Mutex
	Entries []*audit.AuditLog

	CreateErr error
}

func (m *MockAuditRepository) Create(ctx context.Context, log *audit.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.Entries = append(m.Entries, log)
	return nil
}

func (m *MockAuditRepository) List(ctx context.Context, filter *audit.AuditLogFilter) ([]*audit.AuditLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Entries, nil
}

func (m *MockAuditRepository) Count(ctx context.Context, filter *audit.AuditLogFilter) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Entries), nil
}

var _ ports.AuditRepository = (*MockAuditRepository)(nil)

// MockAuthService implements ports.AuthService.
type MockAuthService struct {
	SignupFn        func(ctx context.Context, req *auth.SignupRequest) (*user.User, error)
	LoginFn         func(ctx context.Context, req *auth.LoginRequest) (*auth.LoginResponse, error)
	ValidateTokenFn func(tokenString string) (*auth.Claims, error)
}

func (m *MockAuthService) Signup(ctx context.Context, req *auth.SignupRequest) (*user.User, error) {
	return m.SignupFn(ctx, req)
}

func (m *MockAuthService) Login(ctx context.Context, req *auth.LoginRequest) (*auth.LoginResponse, error) {
	return m.LoginFn(ctx, req)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*auth.Claims, error) {
	return m.ValidateTokenFn(tokenString)
}

var _ ports.AuthService = (*MockAuthService)(nil)

// MockUserService implements ports.UserService; only the methods a given
// test needs must be populated.
type MockUserService struct {
	CreateUserFn       func(ctx context.Context, req *user.CreateUserRequest) (*user.User, error)
	GetUserFn          func(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetPrincipalFn     func(ctx context.Context, id uuid.UUID) (*user.User, error)
	UpdateUserFn       func(ctx context.Context, id uuid.UUID, req *user.UpdateUserRequest) (*user.User, error)
	DeleteUserFn       func(ctx context.Context, id uuid.UUID) error
	ListUsersFn        func(ctx context.Context, role *user.UserRole, limit, offset int) ([]*user.User, error)
	AssignCounsellorFn func(ctx context.Context, studentID, counsellorID uuid.UUID) (*user.User, error)
}

func (m *MockUserService) CreateUser(ctx context.Context, req *user.CreateUserRequest) (*user.User, error) {
	return m.CreateUserFn(ctx, req)
}

func (m *MockUserService) GetUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return m.GetUserFn(ctx, id)
}

func (m *MockUserService) GetPrincipal(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return m.GetPrincipalFn(ctx, id)
}

func (m *MockUserService) UpdateUser(ctx context.Context, id uuid.UUID, req *user.UpdateUserRequest) (*user.User, error) {
	return m.UpdateUserFn(ctx, id, req)
}

func (m *MockUserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return m.DeleteUserFn(ctx, id)
}

func (m *MockUserService) ListUsers(ctx context.Context, role *user.UserRole, limit, offset int) ([]*user.User, error) {
	return m.ListUsersFn(ctx, role, limit, offset)
}

func (m *MockUserService) AssignCounsellor(ctx context.Context, studentID, counsellorID uuid.UUID) (*user.User, error) {
	return m.AssignCounsellorFn(ctx, studentID, counsellorID)
}

var _ ports.UserService = (*MockUserService)(nil)

// MockRateLimiterService implements ports.RateLimiterService.
type MockRateLimiterService struct {
	AllowFn        func(ctx context.Context, scope cachekey.LimitScope, subject string) (*ports.RateLimitDecision, error)
	ResetCounterFn func(ctx context.Context, scope cachekey.LimitScope, subject string) error
}

func (m *MockRateLimiterService) Allow(ctx context.Context, scope cachekey.LimitScope, subject string) (*ports.RateLimitDecision, error) {
	return m.AllowFn(ctx, scope, subject)
}

func (m *MockRateLimiterService) ResetCounter(ctx context.Context, scope cachekey.LimitScope, subject string) error {
	if m.ResetCounterFn != nil {
		return m.ResetCounterFn(ctx, scope, subject)
	}
	return nil
}

var _ ports.RateLimiterService = (*MockRateLimiterService)(nil)
