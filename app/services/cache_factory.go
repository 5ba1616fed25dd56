package services

import (
	"context"
	"fmt"

	"github.com/centros-finder/app/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// NewRouteCache builds the configured route cache backend. Mongo-backed
// caches are warmed with half their L1 size.
func NewRouteCache(ctx context.Context, cfg config.CacheConfig, redisURL string, db *mongo.Database, logger *zap.Logger) (IRouteCache, error) {
	newMongo := func() (*MongoCacheService, error) {
		mc, err := NewMongoCacheService(db, cfg.L1Size, cfg.TTL, logger)
		if err != nil {
			return nil, err
		}
		if err := mc.WarmUp(ctx, cfg.L1Size/2); err != nil {
			logger.Warn("Failed to warm up route cache", zap.Error(err))
		}
		return mc, nil
	}

	switch cfg.Backend {
	case "", "memory":
		return NewCacheService(cfg.TTL), nil
	case "redis":
		return NewRedisCacheService(redisURL, cfg.TTL, logger)
	case "mongo":
		return newMongo()
	case "hybrid":
		redisCache, err := NewRedisCacheService(redisURL, cfg.TTL, logger)
		if err != nil {
			return nil, err
		}
		mongoCache, err := newMongo()
		if err != nil {
			redisCache.Close()
			return nil, err
		}
		return NewHybridCacheService(redisCache, mongoCache, logger), nil
	}
	return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
}
