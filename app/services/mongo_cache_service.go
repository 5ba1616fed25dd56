package services

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/centros-finder/app/models"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const routeCacheCollection = "route_cache"

// MongoCacheService persistent route cache: LRU in memory, MongoDB behind it
type MongoCacheService struct {
	collection *mongo.Collection
	l1Cache    *lru.Cache[string, *models.Route]
	ttl        time.Duration
	logger     *zap.Logger

	l1Hits    atomic.Int64
	mongoHits atomic.Int64
	misses    atomic.Int64
}

// NewMongoCacheService creates the cache and its indexes. Entries older
// than ttl are removed by a Mongo TTL index; a zero ttl keeps them.
func NewMongoCacheService(db *mongo.Database, l1Size int, ttl time.Duration, logger *zap.Logger) (*MongoCacheService, error) {
	l1Cache, err := lru.New[string, *models.Route](l1Size)
	if err != nil {
		return nil, fmt.Errorf("create lru cache: %w", err)
	}

	collection := db.Collection(routeCacheCollection)

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "fingerprint", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{bson.E{Key: "origin_key", Value: 1}},
		},
		{
			Keys: bson.D{bson.E{Key: "access_count", Value: -1}},
		},
	}
	if ttl > 0 {
		indexModels = append(indexModels, mongo.IndexModel{
			Keys:    bson.D{bson.E{Key: "created_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(ttl.Seconds())),
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, indexModels); err != nil {
		logger.Warn("Cannot create route_cache indexes", zap.Error(err))
	}

	return &MongoCacheService{
		collection: collection,
		l1Cache:    l1Cache,
		ttl:        ttl,
		logger:     logger,
	}, nil
}

// Get looks in the LRU first, then in MongoDB.
func (mcs *MongoCacheService) Get(ctx context.Context, key string) (*models.Route, bool, error) {
	if route, found := mcs.l1Cache.Get(key); found {
		mcs.l1Hits.Add(1)
		return route, true, nil
	}

	var entry models.RouteCache
	err := mcs.collection.FindOne(ctx, bson.M{"fingerprint": fingerprint(key)}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		mcs.misses.Add(1)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query route cache: %w", err)
	}
	if entry.IsExpired(mcs.ttl) {
		mcs.misses.Add(1)
		return nil, false, nil
	}

	mcs.mongoHits.Add(1)
	go mcs.updateAccessStats(entry.ID)

	route := entry.Route
	mcs.l1Cache.Add(key, &route)
	return &route, true, nil
}

// Set writes through to the LRU and MongoDB.
func (mcs *MongoCacheService) Set(ctx context.Context, key string, route *models.Route) error {
	mcs.l1Cache.Add(key, route)

	originKey, destination := SplitRouteKey(key)
	fp := fingerprint(key)
	entry := models.NewRouteCache(fp, originKey, destination, *route)

	opts := options.Replace().SetUpsert(true)
	if _, err := mcs.collection.ReplaceOne(ctx, bson.M{"fingerprint": fp}, entry, opts); err != nil {
		mcs.logger.Error("Cannot store route", zap.Error(err), zap.String("fingerprint", fp))
		return fmt.Errorf("store route: %w", err)
	}
	return nil
}

// Delete removes a key from both levels.
func (mcs *MongoCacheService) Delete(ctx context.Context, key string) error {
	mcs.l1Cache.Remove(key)
	if _, err := mcs.collection.DeleteOne(ctx, bson.M{"fingerprint": fingerprint(key)}); err != nil {
		return fmt.Errorf("delete route: %w", err)
	}
	return nil
}

// Clear removes every route and resets counters.
func (mcs *MongoCacheService) Clear(ctx context.Context) error {
	mcs.l1Cache.Purge()
	if _, err := mcs.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("clear route cache: %w", err)
	}
	mcs.l1Hits.Store(0)
	mcs.mongoHits.Store(0)
	mcs.misses.Store(0)
	return nil
}

// GetStats returns counters and the persisted entry count.
func (mcs *MongoCacheService) GetStats(ctx context.Context) (*CacheStats, error) {
	count, err := mcs.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("count route cache: %w", err)
	}

	mcs.logger.Debug("Route cache stats",
		zap.Int("l1_size", mcs.l1Cache.Len()),
		zap.Int64("l1_hits", mcs.l1Hits.Load()),
		zap.Int64("mongo_hits", mcs.mongoHits.Load()),
		zap.Int64("mongo_count", count))

	hits := mcs.l1Hits.Load() + mcs.mongoHits.Load()
	return newCacheStats("mongo", hits, mcs.misses.Load(), count), nil
}

// Exists checks the LRU, then MongoDB.
func (mcs *MongoCacheService) Exists(ctx context.Context, key string) (bool, error) {
	if mcs.l1Cache.Contains(key) {
		return true, nil
	}
	n, err := mcs.collection.CountDocuments(ctx, bson.M{"fingerprint": fingerprint(key)})
	if err != nil {
		return false, fmt.Errorf("check route: %w", err)
	}
	return n > 0, nil
}

// GetTTL returns the configured TTL; MongoDB expires entries itself.
func (mcs *MongoCacheService) GetTTL(ctx context.Context, key string) (time.Duration, error) {
	return mcs.ttl, nil
}

// Close is a no-op; the Mongo client belongs to the caller.
func (mcs *MongoCacheService) Close() error { return nil }

// WarmUp loads the most used routes into the LRU.
func (mcs *MongoCacheService) WarmUp(ctx context.Context, limit int) error {
	opts := options.Find().
		SetSort(bson.D{bson.E{Key: "access_count", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := mcs.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return fmt.Errorf("warm up route cache: %w", err)
	}
	defer cursor.Close(ctx)

	count := 0
	for cursor.Next(ctx) {
		var entry models.RouteCache
		if err := cursor.Decode(&entry); err != nil {
			mcs.logger.Warn("Cannot decode route cache entry", zap.Error(err))
			continue
		}
		route := entry.Route
		mcs.l1Cache.Add(RouteKey(entry.OriginKey, entry.Destination), &route)
		count++
	}

	mcs.logger.Info("Route cache warmed up", zap.Int("loaded_items", count))
	return cursor.Err()
}

func (mcs *MongoCacheService) updateAccessStats(id primitive.ObjectID) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := bson.M{
		"$set": bson.M{"last_accessed": time.Now()},
		"$inc": bson.M{"access_count": 1},
	}
	if _, err := mcs.collection.UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
		mcs.logger.Warn("Cannot update route access stats", zap.Error(err))
	}
}

func fingerprint(key string) string {
	return fmt.Sprintf("sha256:%x", sha256.Sum256([]byte(key)))
}
