package services

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/centros-finder/app/models"
	"github.com/centros-finder/internal/ranking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteKey(t *testing.T) {
	key := RouteKey("calle sierpes 1 sevilla", "IES, Averroes, Córdoba")
	origin, dest := SplitRouteKey(key)
	assert.Equal(t, "calle sierpes 1 sevilla", origin)
	assert.Equal(t, "IES, Averroes, Córdoba", dest)
}

func TestCacheService_GetSet(t *testing.T) {
	ctx := context.Background()
	cs := NewCacheService(time.Hour)
	route := &models.Route{DistanceText: "5 km", DistanceMeters: 5000, DurationText: "9 min"}

	_, found, err := cs.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, cs.Set(ctx, "a", route))
	got, found, err := cs.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, route, got)

	ok, _ := cs.Exists(ctx, "a")
	assert.True(t, ok)
	ttl, _ := cs.GetTTL(ctx, "a")
	assert.Greater(t, ttl, 59*time.Minute)

	stats, _ := cs.GetStats(ctx)
	assert.Equal(t, "memory", stats.Backend)
	assert.EqualValues(t, 1, stats.TotalHits)
	assert.EqualValues(t, 1, stats.TotalMiss)
	assert.EqualValues(t, 1, stats.TotalItems)

	require.NoError(t, cs.Delete(ctx, "a"))
	assert.Equal(t, 0, cs.Size())
}

func TestCacheService_Expiry(t *testing.T) {
	ctx := context.Background()
	cs := NewCacheService(10 * time.Millisecond)
	require.NoError(t, cs.Set(ctx, "a", &models.Route{}))
	require.NoError(t, cs.Set(ctx, "b", &models.Route{}))

	time.Sleep(20 * time.Millisecond)

	_, found, _ := cs.Get(ctx, "a")
	assert.False(t, found)
	cs.CleanupExpired()
	assert.Equal(t, 0, cs.Size())
}

func TestHybridCacheService_BackfillsFastLevel(t *testing.T) {
	ctx := context.Background()
	fast := NewCacheService(time.Hour)
	slow := NewCacheService(time.Hour)
	h := NewHybridCacheService(fast, slow, testLogger())

	route := &models.Route{DurationText: "20 min"}
	require.NoError(t, slow.Set(ctx, "k", route))

	got, found, err := h.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, route, got)

	assert.Eventually(t, func() bool {
		ok, _ := fast.Exists(ctx, "k")
		return ok
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, h.Clear(ctx))
	assert.Equal(t, 0, fast.Size())
	assert.Equal(t, 0, slow.Size())
}

func TestHybridCacheService_SetWritesBoth(t *testing.T) {
	ctx := context.Background()
	fast := NewCacheService(time.Hour)
	slow := NewCacheService(time.Hour)
	h := NewHybridCacheService(fast, slow, testLogger())

	require.NoError(t, h.Set(ctx, "k", &models.Route{}))
	assert.Equal(t, 1, fast.Size())
	assert.Equal(t, 1, slow.Size())

	stats, err := h.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hybrid", stats.Backend)
}

func TestCachedLookup_CachesSuccess(t *testing.T) {
	var calls atomic.Int32
	next := ranking.LookupFunc(func(ctx context.Context, origin, destination string) (models.Route, error) {
		calls.Add(1)
		return models.Route{DurationText: "12 min"}, nil
	})
	cache := NewCacheService(time.Hour)
	cl := NewCachedLookup(next, cache, func(s string) string { return "canon" }, testLogger())

	for _, origin := range []string{"Calle Sierpes 1", "calle sierpes, 1"} {
		route, err := cl.Lookup(context.Background(), origin, "IES Averroes")
		require.NoError(t, err)
		assert.Equal(t, "12 min", route.DurationText)
	}
	assert.EqualValues(t, 1, calls.Load())

	ok, _ := cache.Exists(context.Background(), RouteKey("canon", "IES Averroes"))
	assert.True(t, ok)
}

func TestCachedLookup_FailuresNotCached(t *testing.T) {
	var calls atomic.Int32
	next := ranking.LookupFunc(func(ctx context.Context, origin, destination string) (models.Route, error) {
		calls.Add(1)
		return models.Route{}, ranking.ErrNoRoute
	})
	cache := NewCacheService(time.Hour)
	cl := NewCachedLookup(next, cache, nil, testLogger())

	for i := 0; i < 2; i++ {
		_, err := cl.Lookup(context.Background(), "Sevilla", "Nowhere")
		assert.True(t, errors.Is(err, ranking.ErrNoRoute))
	}
	assert.EqualValues(t, 2, calls.Load())
	assert.Equal(t, 0, cache.Size())
}

func TestCachedLookup_SharesConcurrentCalls(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	next := ranking.LookupFunc(func(ctx context.Context, origin, destination string) (models.Route, error) {
		calls.Add(1)
		<-release
		return models.Route{DurationText: "3 min"}, nil
	})
	cl := NewCachedLookup(next, NewCacheService(time.Hour), nil, testLogger())

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = cl.Lookup(context.Background(), "Sevilla", "IES Averroes")
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, calls.Load(), int32(5))
	assert.GreaterOrEqual(t, calls.Load(), int32(1))
}

func TestRedisCacheService(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	ctx := context.Background()
	rc, err := NewRedisCacheService(url, time.Minute, testLogger())
	require.NoError(t, err)
	defer rc.Close()
	require.NoError(t, rc.Clear(ctx))

	require.NoError(t, rc.Set(ctx, "k", &models.Route{DurationText: "7 min"}))
	got, found, err := rc.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "7 min", got.DurationText)

	ttl, err := rc.GetTTL(ctx, "k")
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, rc.Clear(ctx))
	ok, _ := rc.Exists(ctx, "k")
	assert.False(t, ok)
}

func TestCachedLookup_CancelledCallerDoesNotFailOthers(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var sharedErr atomic.Value
	next := ranking.LookupFunc(func(ctx context.Context, origin, destination string) (models.Route, error) {
		close(entered)
		<-release
		if err := ctx.Err(); err != nil {
			sharedErr.Store(err)
			return models.Route{}, err
		}
		return models.Route{DurationText: "7 min"}, nil
	})
	cache := NewCacheService(time.Hour)
	cl := NewCachedLookup(next, cache, nil, testLogger())

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := cl.Lookup(ctxA, "Sevilla", "IES Averroes")
		errA <- err
	}()
	<-entered

	type result struct {
		route models.Route
		err   error
	}
	resB := make(chan result, 1)
	go func() {
		route, err := cl.Lookup(context.Background(), "Sevilla", "IES Averroes")
		resB <- result{route, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelA()
	assert.ErrorIs(t, <-errA, context.Canceled)

	close(release)
	b := <-resB
	require.NoError(t, b.err)
	assert.Equal(t, "7 min", b.route.DurationText)
	assert.Nil(t, sharedErr.Load())

	ok, _ := cache.Exists(context.Background(), RouteKey("Sevilla", "IES Averroes"))
	assert.True(t, ok)
}
