package services

import (
	"context"
	"errors"

	"github.com/centros-finder/app/config"
	"github.com/centros-finder/internal/external"
	"github.com/centros-finder/internal/ranking"
	"github.com/centros-finder/internal/search"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Components are the dependencies shared by the API server and the importer.
// Searcher and Ranker are nil when their backends are not configured.
type Components struct {
	Settings *config.Settings
	Logger   *zap.Logger
	Mongo    *mongo.Client
	Store    *MongoCenterStore
	Cache    IRouteCache
	Searcher *search.CenterSearcher
	Ranker   *ranking.Ranker
}

// NewComponents connects MongoDB and builds the optional backends.
// Only the store connection is mandatory.
func NewComponents(ctx context.Context, cfg *config.Settings, logger *zap.Logger) (*Components, error) {
	client, err := ConnectMongo(ctx, cfg.Mongo.URL, logger)
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.Mongo.Database)

	comp := &Components{
		Settings: cfg,
		Logger:   logger,
		Mongo:    client,
		Store:    NewMongoCenterStore(db, cfg.Mongo.Collection, logger),
	}

	comp.Cache, err = NewRouteCache(ctx, cfg.Cache, cfg.Redis.URL, db, logger)
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	if cfg.Meili.Enabled {
		comp.Searcher, err = newSearcher(cfg.Meili, logger)
		if err != nil {
			logger.Warn("Center suggestions disabled", zap.Error(err))
		}
	}

	comp.Ranker, err = newRanker(cfg, comp.Cache, logger)
	if err != nil {
		logger.Warn("Distance ranking disabled", zap.Error(err))
	}

	return comp, nil
}

func newSearcher(cfg config.MeiliConfig, logger *zap.Logger) (*search.CenterSearcher, error) {
	searcher, err := search.NewCenterSearcher(search.SearchConfig{
		Host:      cfg.URL,
		APIKey:    cfg.MasterKey,
		IndexName: cfg.Index,
		Timeout:   cfg.Timeout,
	}, logger)
	if err != nil {
		return nil, err
	}
	if err := searcher.ConfigureIndex(); err != nil {
		return nil, err
	}
	return searcher, nil
}

func newRanker(cfg *config.Settings, cache IRouteCache, logger *zap.Logger) (*ranking.Ranker, error) {
	dm, err := external.NewDistanceMatrix(external.DistanceMatrixConfig{
		APIKey:            cfg.Maps.APIKey,
		Language:          cfg.Maps.Language,
		Mode:              cfg.Maps.Mode,
		RequestsPerSecond: cfg.Maps.RequestsPerSecond,
	}, logger)
	if err != nil {
		return nil, err
	}

	lookup := NewCachedLookup(dm, cache, external.CanonicalOrigin, logger)
	return ranking.NewRanker(lookup, ranking.Options{
		Workers:       cfg.Ranking.Workers,
		LookupTimeout: cfg.Ranking.LookupTimeout,
		Timeout:       cfg.Ranking.Timeout,
	}, logger), nil
}

// Suggester returns the searcher as a Suggester, nil when disabled.
func (c *Components) Suggester() Suggester {
	if c.Searcher == nil {
		return nil
	}
	return c.Searcher
}

// Indexer returns the searcher as a CenterIndexer, nil when disabled.
func (c *Components) Indexer() CenterIndexer {
	if c.Searcher == nil {
		return nil
	}
	return c.Searcher
}

// Sources returns the configured dataset paths.
func (c *Components) Sources() ImportSources {
	return ImportSources{
		Base:         c.Settings.Datasets.Base,
		Bilingual:    c.Settings.Datasets.Bilingual,
		Compensatory: c.Settings.Datasets.Compensatory,
	}
}

// Close releases the cache and the MongoDB connection.
func (c *Components) Close(ctx context.Context) error {
	return errors.Join(c.Cache.Close(), c.Mongo.Disconnect(ctx))
}
