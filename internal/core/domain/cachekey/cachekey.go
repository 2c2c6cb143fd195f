// Package cachekey builds every Redis key the portal uses. Cache keys and
// rate-limit keys are distinct Go types with disjoint prefixes, so a
// rate-limit counter can never be hit by a cache pattern eviction (or the
// other way around) without the compiler complaining first.
package cachekey

import (
	"github.com/acmshq/acms/internal/core/domain/user"
	"github.com/google/uuid"
)

// Key addresses a single cache entry.
type Key string

// Pattern is a glob matching a family of cache keys, used for bulk eviction.
type Pattern string

func (k Key) String() string     { return string(k) }
func (p Pattern) String() string { return string(p) }

// Principal keys the cached password-stripped snapshot of an authenticated
// user. Every request resolves its caller through this key; any mutation of
// role, counsellor assignment or active status must evict it synchronously.
func Principal(userID uuid.UUID) Key {
	return Key("principal:" + userID.String())
}

// Attendance keys a student's cached attendance record.
func Attendance(studentUserID uuid.UUID) Key {
	return Key("attendance:" + studentUserID.String())
}

// Marks keys a student's cached grade record.
func Marks(studentUserID uuid.UUID) Key {
	return Key("marks:" + studentUserID.String())
}

// Dashboard keys the cached dashboard statistics for one user in one role.
func Dashboard(role user.UserRole, userID uuid.UUID) Key {
	return Key("dashboard:" + role.String() + ":" + userID.String())
}

// DashboardPattern matches every cached dashboard view for a user regardless
// of role suffix.
func DashboardPattern(userID uuid.UUID) Pattern {
	return Pattern("dashboard:*:" + userID.String())
}

// Announcements keys the cached announcement list for a role audience.
func Announcements(role user.UserRole) Key {
	return Key("announcements:" + role.String())
}

// AnnouncementsPattern matches every cached announcement list.
func AnnouncementsPattern() Pattern {
	return Pattern("announcements:*")
}

// LimitScope enumerates the rate limiter scopes.
type LimitScope string

const (
	ScopeGeneral LimitScope = "general"
	ScopeAuth    LimitScope = "auth"
	ScopeUser    LimitScope = "user"
)

// LimitKey addresses a rate-limit counter. It deliberately is not a Key:
// counters live under the reserved rl: prefix and are never JSON values.
type LimitKey string

func (k LimitKey) String() string { return string(k) }

// RateLimit builds the counter key for a scope and subject (a client address
// for the general/auth scopes, a user ID for the user scope).
func RateLimit(scope LimitScope, subject string) LimitKey {
	return LimitKey("rl:" + string(scope) + ":" + subject)
}
