// Package external holds adapters for third-party services.
package external

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/centros-finder/app/models"
	"github.com/centros-finder/internal/ranking"
	"go.uber.org/zap"
	"googlemaps.github.io/maps"
)

const elementOK = "OK"

// DistanceMatrixConfig configures the Google Distance Matrix client.
type DistanceMatrixConfig struct {
	APIKey            string
	Language          string // e.g. "es"
	Mode              string // driving, walking, bicycling, transit
	RequestsPerSecond int
	BaseURL           string // overrides the API host, tests only
}

// DistanceMatrix resolves routes through the Google Distance Matrix API.
type DistanceMatrix struct {
	client   *maps.Client
	language string
	mode     maps.Mode
	logger   *zap.Logger
}

// NewDistanceMatrix creates a client. An empty API key is an error.
func NewDistanceMatrix(cfg DistanceMatrixConfig, logger *zap.Logger) (*DistanceMatrix, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("maps api key is not configured")
	}

	opts := []maps.ClientOption{maps.WithAPIKey(cfg.APIKey)}
	if cfg.RequestsPerSecond > 0 {
		opts = append(opts, maps.WithRateLimit(cfg.RequestsPerSecond))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, maps.WithBaseURL(cfg.BaseURL))
	}

	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("create maps client: %w", err)
	}

	if cfg.Language == "" {
		cfg.Language = "es"
	}
	if cfg.Mode == "" {
		cfg.Mode = string(maps.TravelModeDriving)
	}

	return &DistanceMatrix{
		client:   client,
		language: cfg.Language,
		mode:     maps.Mode(cfg.Mode),
		logger:   logger,
	}, nil
}

// Lookup implements ranking.DistanceLookup.
func (d *DistanceMatrix) Lookup(ctx context.Context, origin, destination string) (models.Route, error) {
	req := &maps.DistanceMatrixRequest{
		Origins:      []string{origin},
		Destinations: []string{destination},
		Mode:         d.mode,
		Language:     d.language,
	}

	resp, err := d.client.DistanceMatrix(ctx, req)
	if err != nil {
		return models.Route{}, &ranking.LookupFailure{Destination: destination, Err: err}
	}

	route, err := routeFromResponse(resp, destination)
	if err != nil {
		return models.Route{}, err
	}

	d.logger.Debug("Distance resolved",
		zap.String("destination", destination),
		zap.String("distance", route.DistanceText),
		zap.String("duration", route.DurationText))
	return route, nil
}

// routeFromResponse extracts the single origin/destination element.
func routeFromResponse(resp *maps.DistanceMatrixResponse, destination string) (models.Route, error) {
	if resp == nil || len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 || resp.Rows[0].Elements[0] == nil {
		return models.Route{}, &ranking.LookupFailure{Destination: destination, Err: ranking.ErrNoRoute}
	}

	el := resp.Rows[0].Elements[0]
	if el.Status != elementOK {
		return models.Route{}, &ranking.LookupFailure{Destination: destination, Status: el.Status, Err: ranking.ErrNoRoute}
	}

	return models.Route{
		DistanceText:   el.Distance.HumanReadable,
		DistanceMeters: el.Distance.Meters,
		DurationText:   ranking.FormatDuration(el.Duration),
	}, nil
}
