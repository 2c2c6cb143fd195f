package services_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/acmshq/acms/internal/application/services"
	"github.com/acmshq/acms/internal/core/domain/cachekey"
	"github.com/acmshq/acms/test/mocks"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestCacheServiceSetAndGetJSON(t *testing.T) {
	store := mocks.NewInMemoryCache()
	cache := services.NewCacheService(store, nil)
	key := cachekey.Attendance(uuid.New())

	ok := cache.Set(context.Background(), key, &payload{Name: "x", Count: 3}, time.Minute)
	require.True(t, ok)

	var got payload
	outcome := cache.GetJSON(context.Background(), key, &got)
	require.Equal(t, services.OutcomeHit, outcome)
	require.Equal(t, "x", got.Name)
	require.Equal(t, 3, got.Count)
}

func TestCacheServiceMissOnAbsentKey(t *testing.T) {
	cache := services.NewCacheService(mocks.NewInMemoryCache(), nil)

	var got payload
	outcome := cache.GetJSON(context.Background(), cachekey.Attendance(uuid.New()), &got)
	require.Equal(t, services.OutcomeMiss, outcome)
}

func TestCacheServiceStoreErrorDegradesToErrorOutcome(t *testing.T) {
	store := mocks.NewInMemoryCache()
	store.GetErr = errors.New("connection refused")
	cache := services.NewCacheService(store, nil)

	var got payload
	outcome := cache.GetJSON(context.Background(), cachekey.Attendance(uuid.New()), &got)
	require.Equal(t, services.OutcomeError, outcome)
}

func TestCacheServiceCorruptEntryIsDropped(t *testing.T) {
	store := mocks.NewInMemoryCache()
	cache := services.NewCacheService(store, nil)
	key := cachekey.Attendance(uuid.New())
	store.Put(key.String(), []byte("{not json"))

	var got payload
	outcome := cache.GetJSON(context.Background(), key, &got)
	require.Equal(t, services.OutcomeError, outcome)
	require.False(t, store.Has(key.String()))
}

func TestCacheServiceSetFailureSwallowed(t *testing.T) {
	store := mocks.NewInMemoryCache()
	store.SetErr = errors.New("store down")
	cache := services.NewCacheService(store, nil)

	ok := cache.Set(context.Background(), cachekey.Attendance(uuid.New()), &payload{}, time.Minute)
	require.False(t, ok)
}

func TestLookupCachesLoaderResult(t *testing.T) {
	store := mocks.NewInMemoryCache()
	cache := services.NewCacheService(store, nil)
	key := cachekey.Attendance(uuid.New())

	loads := 0
	load := func(ctx context.Context) (*payload, error) {
		loads++
		return &payload{Name: "loaded", Count: 1}, nil
	}

	first, err := services.Lookup(context.Background(), cache, key, time.Minute, load)
	require.NoError(t, err)
	require.Equal(t, "loaded", first.Name)

	second, err := services.Lookup(context.Background(), cache, key, time.Minute, load)
	require.NoError(t, err)
	require.Equal(t, "loaded", second.Name)
	require.Equal(t, 1, loads)
}

func TestLookupLoaderErrorPropagates(t *testing.T) {
	cache := services.NewCacheService(mocks.NewInMemoryCache(), nil)
	wantErr := errors.New("row not found")

	_, err := services.Lookup(context.Background(), cache, cachekey.Attendance(uuid.New()), time.Minute, func(ctx context.Context) (*payload, error) {
		return nil, wantErr
	})
	require.ErrorIs(t, err, wantErr)
}

func TestLookupNilResultNotCached(t *testing.T) {
	store := mocks.NewInMemoryCache()
	cache := services.NewCacheService(store, nil)
	key := cachekey.Attendance(uuid.New())

	got, err := services.Lookup(context.Background(), cache, key, time.Minute, func(ctx context.Context) (*payload, error) {
		return nil, nil
	})
	require.NoError(t, err)
	require.Nil(t, got)
	require.False(t, store.Has(key.String()))
}

func TestLookupFallsThroughOnStoreError(t *testing.T) {
	store := mocks.NewInMemoryCache()
	store.GetErr = errors.New("store down")
	store.SetErr = errors.New("store down")
	cache := services.NewCacheService(store, nil)

	got, err := services.Lookup(context.Background(), cache, cachekey.Attendance(uuid.New()), time.Minute, func(ctx context.Context) (*payload, error) {
		return &payload{Name: "direct"}, nil
	})
	require.NoError(t, err)
	require.Equal(t, "direct", got.Name)
}

func TestLookupCoalescesConcurrentMisses(t *testing.T) {
	store := mocks.NewInMemoryCache()
	cache := services.NewCacheService(store, nil)
	key := cachekey.Attendance(uuid.New())

	var loads int64
	release := make(chan struct{})
	load := func(ctx context.Context) (*payload, error) {
		atomic.AddInt64(&loads, 1)
		<-release
		return &payload{Name: "slow"}, nil
	}

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			got, err := services.Lookup(context.Background(), cache, key, time.Minute, load)
			require.NoError(t, err)
			require.Equal(t, "slow", got.Name)
		}()
	}
	close(start)
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	require.Equal(t, int64(1), atomic.LoadInt64(&loads))
}

func TestDeleteByPatternRemovesFamilyOnly(t *testing.T) {
	store := mocks.NewInMemoryCache()
	cache := services.NewCacheService(store, nil)
	id := uuid.New()
	other := uuid.New()

	ctx := context.Background()
	require.True(t, cache.Set(ctx, cachekey.Dashboard("student", id), &payload{}, 0))
	require.True(t, cache.Set(ctx, cachekey.Dashboard("admin", id), &payload{}, 0))
	require.True(t, cache.Set(ctx, cachekey.Dashboard("student", other), &payload{}, 0))

	n := cache.DeleteByPattern(ctx, cachekey.DashboardPattern(id))
	require.Equal(t, 2, n)
	require.False(t, store.Has(cachekey.Dashboard("student", id).String()))
	require.False(t, store.Has(cachekey.Dashboard("admin", id).String()))
	require.True(t, store.Has(cachekey.Dashboard("student", other).String()))
}
