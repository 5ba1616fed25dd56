package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/centros-finder/app/models"
)

// CacheService in-memory route cache with TTL
type CacheService struct {
	cache      map[string]*models.Route
	timestamps map[string]time.Time
	mu         sync.RWMutex
	ttl        time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

// NewCacheService creates a CacheService. A zero ttl never expires.
func NewCacheService(ttl time.Duration) *CacheService {
	return &CacheService{
		cache:      make(map[string]*models.Route),
		timestamps: make(map[string]time.Time),
		ttl:        ttl,
	}
}

// Get returns a cached route.
func (cs *CacheService) Get(ctx context.Context, key string) (*models.Route, bool, error) {
	cs.mu.RLock()
	route, exists := cs.cache[key]
	expired := exists && cs.isExpired(key)
	cs.mu.RUnlock()

	if !exists || expired {
		if expired {
			cs.deleteExpired(key)
		}
		cs.misses.Add(1)
		return nil, false, nil
	}

	cs.hits.Add(1)
	return route, true, nil
}

// Set stores a route.
func (cs *CacheService) Set(ctx context.Context, key string, route *models.Route) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.timestamps[key] = time.Now()
	cs.cache[key] = route
	return nil
}

// Delete removes a key.
func (cs *CacheService) Delete(ctx context.Context, key string) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	delete(cs.cache, key)
	delete(cs.timestamps, key)
	return nil
}

// Clear removes everything.
func (cs *CacheService) Clear(ctx context.Context) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.cache = make(map[string]*models.Route)
	cs.timestamps = make(map[string]time.Time)
	return nil
}

// Size returns the number of entries, expired ones included.
func (cs *CacheService) Size() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	return len(cs.cache)
}

// GetStats returns hit/miss counters.
func (cs *CacheService) GetStats(ctx context.Context) (*CacheStats, error) {
	return newCacheStats("memory", cs.hits.Load(), cs.misses.Load(), int64(cs.Size())), nil
}

// Exists reports whether a live entry exists.
func (cs *CacheService) Exists(ctx context.Context, key string) (bool, error) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	_, ok := cs.cache[key]
	return ok && !cs.isExpired(key), nil
}

// GetTTL returns the remaining lifetime of key.
func (cs *CacheService) GetTTL(ctx context.Context, key string) (time.Duration, error) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	ts, ok := cs.timestamps[key]
	if !ok || cs.ttl <= 0 {
		return 0, nil
	}
	if left := cs.ttl - time.Since(ts); left > 0 {
		return left, nil
	}
	return 0, nil
}

// Close is a no-op.
func (cs *CacheService) Close() error { return nil }

// CleanupExpired removes expired entries.
func (cs *CacheService) CleanupExpired() {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	for key := range cs.cache {
		if cs.isExpired(key) {
			delete(cs.cache, key)
			delete(cs.timestamps, key)
		}
	}
}

// isExpired must be called with mu held.
func (cs *CacheService) isExpired(key string) bool {
	if cs.ttl <= 0 {
		return false
	}
	ts, ok := cs.timestamps[key]
	return ok && time.Since(ts) > cs.ttl
}

func (cs *CacheService) deleteExpired(key string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.isExpired(key) {
		delete(cs.cache, key)
		delete(cs.timestamps, key)
	}
}
