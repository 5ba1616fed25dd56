package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/centros-finder/app/models"
	"github.com/centros-finder/internal/filter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ErrNoCenters is returned when an import would leave the store empty.
var ErrNoCenters = errors.New("no centers to store")

// CenterStore persists merged centers.
type CenterStore interface {
	// Find returns the centers matching every predicate, in load order.
	Find(ctx context.Context, set filter.Set) ([]models.EducationalCenter, error)
	// DistinctTypes returns the sorted distinct center types.
	DistinctTypes(ctx context.Context) ([]string, error)
	// ReplaceAll swaps the stored centers for the given ones.
	ReplaceAll(ctx context.Context, centers []models.EducationalCenter) error
	// Count returns the number of stored centers.
	Count(ctx context.Context) (int64, error)
}

// MongoCenterStore CenterStore over a MongoDB collection
type MongoCenterStore struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

// NewMongoCenterStore creates the store and its indexes.
func NewMongoCenterStore(db *mongo.Database, collectionName string, logger *zap.Logger) *MongoCenterStore {
	collection := db.Collection(collectionName)

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: filter.FieldNormalizedCode, Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{bson.E{Key: filter.FieldProvince, Value: 1}}},
		{Keys: bson.D{bson.E{Key: filter.FieldLocality, Value: 1}}},
		{Keys: bson.D{bson.E{Key: filter.FieldCenterType, Value: 1}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, indexModels); err != nil {
		logger.Warn("Cannot create center indexes", zap.Error(err))
	}

	return &MongoCenterStore{collection: collection, logger: logger}
}

// Find runs the filter with _id order, which is load order.
func (s *MongoCenterStore) Find(ctx context.Context, set filter.Set) ([]models.EducationalCenter, error) {
	opts := options.Find().SetSort(bson.D{bson.E{Key: "_id", Value: 1}})

	cursor, err := s.collection.Find(ctx, set.BSON(), opts)
	if err != nil {
		return nil, fmt.Errorf("find centers: %w", err)
	}
	defer cursor.Close(ctx)

	centers := []models.EducationalCenter{}
	if err := cursor.All(ctx, &centers); err != nil {
		return nil, fmt.Errorf("decode centers: %w", err)
	}
	return centers, nil
}

// DistinctTypes returns the distinct D_DENOMINA values.
func (s *MongoCenterStore) DistinctTypes(ctx context.Context) ([]string, error) {
	values, err := s.collection.Distinct(ctx, filter.FieldCenterType, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("distinct center types: %w", err)
	}

	types := make([]string, 0, len(values))
	for _, v := range values {
		if t, ok := v.(string); ok && t != "" {
			types = append(types, t)
		}
	}
	sort.Strings(types)
	return types, nil
}

// ReplaceAll deletes the stored centers and inserts the new set in order.
func (s *MongoCenterStore) ReplaceAll(ctx context.Context, centers []models.EducationalCenter) error {
	if len(centers) == 0 {
		return ErrNoCenters
	}

	if _, err := s.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("clear centers: %w", err)
	}

	docs := make([]interface{}, len(centers))
	for i := range centers {
		c := centers[i]
		c.ID = primitive.NilObjectID
		docs[i] = c
	}

	opts := options.InsertMany().SetOrdered(false)
	res, err := s.collection.InsertMany(ctx, docs, opts)
	if err != nil {
		var bulkErr mongo.BulkWriteException
		if errors.As(err, &bulkErr) && res != nil && len(res.InsertedIDs) > 0 {
			s.logger.Warn("Some centers were not stored",
				zap.Int("inserted", len(res.InsertedIDs)),
				zap.Int("failed", len(bulkErr.WriteErrors)))
			return nil
		}
		return fmt.Errorf("insert centers: %w", err)
	}

	s.logger.Info("Centers stored", zap.Int("count", len(res.InsertedIDs)))
	return nil
}

// Count returns the number of stored centers.
func (s *MongoCenterStore) Count(ctx context.Context) (int64, error) {
	return s.collection.CountDocuments(ctx, bson.M{})
}
