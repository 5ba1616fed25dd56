package services

import (
	"context"
	"strings"
	"time"

	"github.com/centros-finder/app/models"
)

const routeKeySep = " | "

// CacheStats cache counters
type CacheStats struct {
	Backend    string  `json:"backend"`
	HitRate    float64 `json:"hit_rate"`
	TotalHits  int64   `json:"total_hits"`
	TotalMiss  int64   `json:"total_miss"`
	TotalItems int64   `json:"total_items"`
}

func newCacheStats(backend string, hits, misses, items int64) *CacheStats {
	hitRate := float64(0)
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}
	return &CacheStats{
		Backend:    backend,
		HitRate:    hitRate,
		TotalHits:  hits,
		TotalMiss:  misses,
		TotalItems: items,
	}
}

// IRouteCache stores distance lookup results by route key.
type IRouteCache interface {
	// Get returns the cached route for key.
	Get(ctx context.Context, key string) (*models.Route, bool, error)

	// Set stores a route.
	Set(ctx context.Context, key string, route *models.Route) error

	// Delete removes one key.
	Delete(ctx context.Context, key string) error

	// Clear removes every cached route.
	Clear(ctx context.Context) error

	// GetStats returns hit/miss counters.
	GetStats(ctx context.Context) (*CacheStats, error)

	// Exists reports whether key is cached.
	Exists(ctx context.Context, key string) (bool, error)

	// GetTTL returns the remaining lifetime of key, 0 when it does not expire.
	GetTTL(ctx context.Context, key string) (time.Duration, error)

	// Close releases connections owned by the cache.
	Close() error
}

// RouteKey builds the cache key of an origin/destination pair.
func RouteKey(originKey, destination string) string {
	return originKey + routeKeySep + destination
}

// SplitRouteKey is the inverse of RouteKey.
func SplitRouteKey(key string) (originKey, destination string) {
	originKey, destination, _ = strings.Cut(key, routeKeySep)
	return originKey, destination
}
