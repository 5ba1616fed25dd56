package services

import (
	"context"
	"fmt"
	"runtime"
	"time"
)

// SystemStats service statistics
type SystemStats struct {
	Centers     int64                  `json:"centers"`
	RouteCache  *CacheStats            `json:"route_cache,omitempty"`
	Uptime      string                 `json:"uptime"`
	MemoryUsage map[string]interface{} `json:"memory_usage"`
}

// CollectSystemStats gathers store, cache and runtime figures.
func CollectSystemStats(ctx context.Context, store CenterStore, cache IRouteCache, startedAt time.Time) (*SystemStats, error) {
	count, err := store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count centers: %w", err)
	}

	var cacheStats *CacheStats
	if cache != nil {
		if cacheStats, err = cache.GetStats(ctx); err != nil {
			return nil, fmt.Errorf("route cache stats: %w", err)
		}
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return &SystemStats{
		Centers:    count,
		RouteCache: cacheStats,
		Uptime:     time.Since(startedAt).Round(time.Second).String(),
		MemoryUsage: map[string]interface{}{
			"alloc_mb":       bToMb(m.Alloc),
			"total_alloc_mb": bToMb(m.TotalAlloc),
			"sys_mb":         bToMb(m.Sys),
			"num_gc":         m.NumGC,
		},
	}, nil
}

func bToMb(b uint64) uint64 {
	return b / 1024 / 1024
}
