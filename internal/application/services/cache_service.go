package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/acmshq/acms/internal/core/domain/cachekey"
	"github.com/acmshq/acms/internal/core/ports"
)

// Outcome classifies a cache lookup. Error means the store or the codec
// failed; callers treat it exactly like a miss, the distinction exists for
// logging and metrics.
type Outcome int

const (
	OutcomeHit Outcome = iota
	OutcomeMiss
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeHit:
		return "hit"
	case OutcomeMiss:
		return "miss"
	default:
		return "error"
	}
}

// CacheService is the fail-open JSON cache every read path goes through.
// Store failures never fail a request: a broken cache degrades reads to
// their loaders and turns mutations' evictions into no-ops against keys
// that will expire anyway.
type CacheService struct {
	store  ports.Cache
	logger *logrus.Logger
	group  singleflight.Group
}

func NewCacheService(store ports.Cache, logger *logrus.Logger) *CacheService {
	return &CacheService{
		store:  store,
		logger: logger,
	}
}

// Get returns the raw cached bytes for key. Store errors degrade to a miss
// and are reported through the Outcome, never as an error value.
func (s *CacheService) Get(ctx context.Context, key cachekey.Key) ([]byte, Outcome) {
	data, ok, err := s.store.Get(ctx, key.String())
	ns := keyNamespace(key)
	if err != nil {
		cacheErrors.WithLabelValues(ns).Inc()
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"key": key}).WithError(err).Warn("cache: get failed, treating as miss")
		}
		return nil, OutcomeError
	}
	if !ok {
		cacheMisses.WithLabelValues(ns).Inc()
		return nil, OutcomeMiss
	}
	cacheHits.WithLabelValues(ns).Inc()
	return data, OutcomeHit
}

// GetJSON unmarshals the cached value for key into dest. A corrupt entry is
// deleted and reported as an error outcome so the caller reloads it.
func (s *CacheService) GetJSON(ctx context.Context, key cachekey.Key, dest any) Outcome {
	data, outcome := s.Get(ctx, key)
	if outcome != OutcomeHit {
		return outcome
	}
	if err := json.Unmarshal(data, dest); err != nil {
		cacheErrors.WithLabelValues(keyNamespace(key)).Inc()
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"key": key}).WithError(err).Warn("cache: corrupt entry, dropping")
		}
		s.Delete(ctx, key)
		return OutcomeError
	}
	return OutcomeHit
}

// Set JSON-marshals value under key. Failures are logged and swallowed; the
// return value exists for tests and diagnostics.
func (s *CacheService) Set(ctx context.Context, key cachekey.Key, value any, ttl time.Duration) bool {
	data, err := json.Marshal(value)
	if err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"key": key}).WithError(err).Error("cache: marshal failed")
		}
		return false
	}
	if err := s.store.Set(ctx, key.String(), data, ttl); err != nil {
		cacheErrors.WithLabelValues(keyNamespace(key)).Inc()
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"key": key}).WithError(err).Warn("cache: set failed")
		}
		return false
	}
	return true
}

// Delete evicts the given keys. Fail-open: a store error leaves the entries
// to die by TTL.
func (s *CacheService) Delete(ctx context.Context, keys ...cachekey.Key) bool {
	if len(keys) == 0 {
		return true
	}
	raw := make([]string, len(keys))
	for i, k := range keys {
		raw[i] = k.String()
	}
	if err := s.store.Delete(ctx, raw...); err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"keys": raw}).WithError(err).Warn("cache: delete failed")
		}
		return false
	}
	return true
}

// DeleteByPattern evicts every key matching the glob and returns how many
// were removed (0 on store error).
func (s *CacheService) DeleteByPattern(ctx context.Context, pattern cachekey.Pattern) int {
	n, err := s.store.DeleteByPattern(ctx, pattern.String())
	if err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"pattern": pattern}).WithError(err).Warn("cache: pattern delete failed")
		}
		return 0
	}
	if s.logger != nil && n > 0 {
		s.logger.WithFields(logrus.Fields{"pattern": pattern, "deleted": n}).Debug("cache: pattern eviction")
	}
	return n
}

// Lookup is the read-through path: a hit returns the cached value, a miss
// (or a degraded error) runs load and caches its non-nil result. Loader
// errors propagate untouched; a nil result is returned but never cached, so
// negative lookups cannot mask a later creation. Concurrent misses for the
// same key are coalesced per process.
func Lookup[T any](ctx context.Context, c *CacheService, key cachekey.Key, ttl time.Duration, load func(ctx context.Context) (*T, error)) (*T, error) {
	var cached T
	if c.GetJSON(ctx, key, &cached) == OutcomeHit {
		return &cached, nil
	}

	v, err, _ := c.group.Do(key.String(), func() (any, error) {
		// A concurrent caller may have populated the key while this one
		// waited on the flight group.
		var again T
		if c.GetJSON(ctx, key, &again) == OutcomeHit {
			return &again, nil
		}
		fresh, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if fresh != nil {
			c.Set(ctx, key, fresh, ttl)
		}
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}
	result, _ := v.(*T)
	return result, nil
}

func keyNamespace(key cachekey.Key) string {
	s := key.String()
	if i := strings.IndexByte(s, ':'); i > 0 {
		return s[:i]
	}
	return s
}
