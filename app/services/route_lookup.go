package services

import (
	"context"
	"time"

	"github.com/centros-finder/app/models"
	"github.com/centros-finder/internal/ranking"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// sharedLookupTimeout bounds a lookup shared by concurrent callers. The
// shared call does not inherit any single caller's cancellation.
const sharedLookupTimeout = 10 * time.Second

// CachedLookup serves distance lookups from a route cache and shares
// concurrent identical lookups. Failed lookups are never cached.
type CachedLookup struct {
	next      ranking.DistanceLookup
	cache     IRouteCache
	originKey func(string) string
	group     singleflight.Group
	logger    *zap.Logger
}

// NewCachedLookup wraps next. originKey canonicalizes the origin part of
// the cache key; nil keeps the origin as given.
func NewCachedLookup(next ranking.DistanceLookup, cache IRouteCache, originKey func(string) string, logger *zap.Logger) *CachedLookup {
	if originKey == nil {
		originKey = func(s string) string { return s }
	}
	return &CachedLookup{next: next, cache: cache, originKey: originKey, logger: logger}
}

// Lookup implements ranking.DistanceLookup.
func (cl *CachedLookup) Lookup(ctx context.Context, origin, destination string) (models.Route, error) {
	key := RouteKey(cl.originKey(origin), destination)

	if route, found, err := cl.cache.Get(ctx, key); err != nil {
		cl.logger.Warn("Route cache read failed", zap.Error(err))
	} else if found {
		return *route, nil
	}

	ch := cl.group.DoChan(key, func() (interface{}, error) {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedLookupTimeout)
		defer cancel()

		route, err := cl.next.Lookup(sctx, origin, destination)
		if err != nil {
			return models.Route{}, err
		}
		if err := cl.cache.Set(sctx, key, &route); err != nil {
			cl.logger.Warn("Route cache write failed", zap.Error(err))
		}
		return route, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return models.Route{}, res.Err
		}
		return res.Val.(models.Route), nil
	case <-ctx.Done():
		return models.Route{}, ctx.Err()
	}
}
