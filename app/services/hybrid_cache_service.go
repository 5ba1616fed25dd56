package services

import (
	"context"
	"errors"
	"time"

	"github.com/centros-finder/app/models"
	"go.uber.org/zap"
)

// HybridCacheService Redis in front of the Mongo route cache
type HybridCacheService struct {
	redisCache IRouteCache
	mongoCache IRouteCache
	logger     *zap.Logger
}

// NewHybridCacheService combines two caches, the first one being the faster.
func NewHybridCacheService(redisCache, mongoCache IRouteCache, logger *zap.Logger) *HybridCacheService {
	return &HybridCacheService{
		redisCache: redisCache,
		mongoCache: mongoCache,
		logger:     logger,
	}
}

// Get tries Redis, then MongoDB, copying MongoDB hits back to Redis.
func (hcs *HybridCacheService) Get(ctx context.Context, key string) (*models.Route, bool, error) {
	route, found, err := hcs.redisCache.Get(ctx, key)
	if err != nil {
		hcs.logger.Warn("Redis cache failed, falling back to MongoDB", zap.Error(err))
	} else if found {
		return route, true, nil
	}

	route, found, err = hcs.mongoCache.Get(ctx, key)
	if err != nil || !found {
		return nil, false, err
	}

	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := hcs.redisCache.Set(bgCtx, key, route); err != nil {
			hcs.logger.Warn("Cannot sync MongoDB->Redis", zap.Error(err), zap.String("key", key))
		}
	}()

	return route, true, nil
}

// Set writes to both caches concurrently.
func (hcs *HybridCacheService) Set(ctx context.Context, key string, route *models.Route) error {
	return hcs.both(func(c IRouteCache) error { return c.Set(ctx, key, route) })
}

// Delete removes key from both caches.
func (hcs *HybridCacheService) Delete(ctx context.Context, key string) error {
	return hcs.both(func(c IRouteCache) error { return c.Delete(ctx, key) })
}

// Clear empties both caches.
func (hcs *HybridCacheService) Clear(ctx context.Context) error {
	return hcs.both(func(c IRouteCache) error { return c.Clear(ctx) })
}

// GetStats reports the persistent level, with hits from both.
func (hcs *HybridCacheService) GetStats(ctx context.Context) (*CacheStats, error) {
	redisStats, err := hcs.redisCache.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	mongoStats, err := hcs.mongoCache.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	hits := redisStats.TotalHits + mongoStats.TotalHits
	return newCacheStats("hybrid", hits, mongoStats.TotalMiss, mongoStats.TotalItems), nil
}

// Exists checks Redis, then MongoDB.
func (hcs *HybridCacheService) Exists(ctx context.Context, key string) (bool, error) {
	if ok, err := hcs.redisCache.Exists(ctx, key); err == nil && ok {
		return true, nil
	}
	return hcs.mongoCache.Exists(ctx, key)
}

// GetTTL returns the Redis TTL of key.
func (hcs *HybridCacheService) GetTTL(ctx context.Context, key string) (time.Duration, error) {
	return hcs.redisCache.GetTTL(ctx, key)
}

// Close closes both caches.
func (hcs *HybridCacheService) Close() error {
	return errors.Join(hcs.redisCache.Close(), hcs.mongoCache.Close())
}

func (hcs *HybridCacheService) both(op func(IRouteCache) error) error {
	errCh := make(chan error, 2)
	for _, c := range []IRouteCache{hcs.redisCache, hcs.mongoCache} {
		go func(c IRouteCache) { errCh <- op(c) }(c)
	}

	var errs []error
	for i := 0; i < 2; i++ {
		if err := <-errCh; err != nil {
			hcs.logger.Warn("Hybrid cache operation failed", zap.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
