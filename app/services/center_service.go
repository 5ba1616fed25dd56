package services

import (
	"context"
	"errors"
	"strings"

	"github.com/centros-finder/app/models"
	"github.com/centros-finder/internal/filter"
	"github.com/centros-finder/internal/paginate"
	"github.com/centros-finder/internal/ranking"
	"github.com/centros-finder/internal/search"
	"go.uber.org/zap"
)

var (
	// ErrRankingUnavailable is returned when an origin is given but no distance lookup is configured.
	ErrRankingUnavailable = errors.New("distance ranking is not configured")
	// ErrSearchUnavailable is returned when suggestions are requested without a search index.
	ErrSearchUnavailable = errors.New("search index is not configured")
)

// Suggester proposes centers for a partial name.
type Suggester interface {
	Suggest(ctx context.Context, query, province, centerType string, limit int) ([]search.Suggestion, error)
}

// CenterQuery is one list request.
type CenterQuery struct {
	Criteria filter.Criteria
	Origin   string // rank by travel time from here when set
	Page     int
	PageSize int
}

// CenterService runs filter, rank and paginate over the center store.
type CenterService struct {
	store     CenterStore
	ranker    *ranking.Ranker
	suggester Suggester
	logger    *zap.Logger
}

// NewCenterService creates a CenterService. ranker and suggester may be nil.
func NewCenterService(store CenterStore, ranker *ranking.Ranker, suggester Suggester, logger *zap.Logger) *CenterService {
	return &CenterService{store: store, ranker: ranker, suggester: suggester, logger: logger}
}

// RankingEnabled reports whether origin ranking is available.
func (s *CenterService) RankingEnabled() bool { return s.ranker != nil }

// Search returns one page of matching centers, ranked when an origin is set.
func (s *CenterService) Search(ctx context.Context, q CenterQuery) (paginate.Result[models.EducationalCenter], error) {
	if err := paginate.Validate(q.Page, q.PageSize); err != nil {
		return paginate.Result[models.EducationalCenter]{}, err
	}

	centers, err := s.Matching(ctx, q.Criteria, q.Origin, s.ranker)
	if err != nil {
		return paginate.Result[models.EducationalCenter]{}, err
	}

	return paginate.Paginate(centers, q.Page, q.PageSize)
}

// Matching returns every center matching criteria, ranked from origin by
// ranker when origin is set.
func (s *CenterService) Matching(ctx context.Context, criteria filter.Criteria, origin string, ranker *ranking.Ranker) ([]models.EducationalCenter, error) {
	set, err := filter.Build(criteria)
	if err != nil {
		return nil, err
	}

	centers, err := s.store.Find(ctx, set)
	if err != nil {
		return nil, err
	}

	origin = strings.TrimSpace(origin)
	if origin == "" {
		return centers, nil
	}
	if ranker == nil {
		return nil, ErrRankingUnavailable
	}

	ranked := ranker.Rank(ctx, centers, origin)
	s.logger.Debug("Centers ranked",
		zap.Int("matched", len(centers)),
		zap.Int("ranked", len(ranked)))
	return ranked, nil
}

// Ranker returns the configured ranker, nil when ranking is disabled.
func (s *CenterService) Ranker() *ranking.Ranker { return s.ranker }

// Types returns the distinct center types.
func (s *CenterService) Types(ctx context.Context) ([]string, error) {
	return s.store.DistinctTypes(ctx)
}

// Suggest proposes centers by name.
func (s *CenterService) Suggest(ctx context.Context, query, province, centerType string, limit int) ([]search.Suggestion, error) {
	if s.suggester == nil {
		return nil, ErrSearchUnavailable
	}
	return s.suggester.Suggest(ctx, query, province, centerType, limit)
}
