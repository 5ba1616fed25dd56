package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/centros-finder/app/models"
	"github.com/centros-finder/internal/normalizer"
	"github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap"
)

const batchSize = 1000

// SearchConfig configures the Meilisearch connection.
type SearchConfig struct {
	Host           string
	APIKey         string
	IndexName      string
	Timeout        time.Duration
	MaxSuggestions int
}

// Suggestion is one center proposed for a partial name.
type Suggestion struct {
	Code         string `json:"codigo"`
	Name         string `json:"nombre"`
	CenterType   string `json:"tipo"`
	Municipality string `json:"municipio"`
	Province     string `json:"provincia"`
}

// CenterSearcher indexes centers and answers name suggestions.
type CenterSearcher struct {
	client         meilisearch.ServiceManager
	logger         *zap.Logger
	indexName      string
	maxSuggestions int
}

// NewCenterSearcher connects to Meilisearch and checks its health.
func NewCenterSearcher(config SearchConfig, logger *zap.Logger) (*CenterSearcher, error) {
	client := newClient(config.Host, config.APIKey, config.Timeout)

	if _, err := client.Health(); err != nil {
		return nil, fmt.Errorf("meilisearch unreachable: %w", err)
	}

	if config.MaxSuggestions <= 0 {
		config.MaxSuggestions = 10
	}

	return &CenterSearcher{
		client:         client,
		logger:         logger,
		indexName:      config.IndexName,
		maxSuggestions: config.MaxSuggestions,
	}, nil
}

// ConfigureIndex applies searchable, filterable and synonym settings.
func (cs *CenterSearcher) ConfigureIndex() error {
	index := cs.client.Index(cs.indexName)

	task, err := index.UpdateSettings(&meilisearch.Settings{
		SearchableAttributes: []string{"specific_name", "normalized_name", "center_type", "municipality"},
		FilterableAttributes: []string{"province_normalized", "center_type", "bilingual", "compensatory"},
		SortableAttributes:   []string{"specific_name"},
		RankingRules:         []string{"words", "typo", "proximity", "attribute", "sort", "exactness"},
		StopWords:            []string{"de", "del", "la", "el", "los", "las", "y"},
		Synonyms: map[string][]string{
			"ies":  {"instituto de educacion secundaria"},
			"ceip": {"colegio de educacion infantil y primaria"},
			"cepr": {"colegio de educacion primaria"},
			"eei":  {"escuela de educacion infantil"},
			"sag":  {"sagrado"},
		},
		TypoTolerance: &meilisearch.TypoTolerance{
			Enabled: true,
			MinWordSizeForTypos: meilisearch.MinWordSizeForTypos{
				OneTypo:  4,
				TwoTypos: 8,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("configure index %s: %w", cs.indexName, err)
	}

	cs.logger.Info("Meilisearch index configured", zap.String("index", cs.indexName), zap.Int64("task_uid", task.TaskUID))
	return nil
}

// CenterDocument converts a center into its search document.
func CenterDocument(c *models.EducationalCenter) map[string]interface{} {
	return map[string]interface{}{
		"id":                  c.NormalizedCode,
		"codigo":              c.CenterCode,
		"specific_name":       c.SpecificName,
		"normalized_name":     normalizer.Unaccent(c.DisplayName()),
		"center_type":         c.CenterType,
		"municipality":        c.Municipality,
		"province":            c.Province,
		"province_normalized": normalizer.Fold(c.Province),
		"bilingual":           c.Bilingual.IsYes(),
		"compensatory":        c.Compensatory.IsYes(),
	}
}

// IndexCenters upserts the centers in batches.
func (cs *CenterSearcher) IndexCenters(centers []models.EducationalCenter) error {
	if len(centers) == 0 {
		return errors.New("no centers to index")
	}

	index := cs.client.Index(cs.indexName)

	documents := make([]map[string]interface{}, 0, len(centers))
	for i := range centers {
		documents = append(documents, CenterDocument(&centers[i]))
	}

	for i := 0; i < len(documents); i += batchSize {
		end := i + batchSize
		if end > len(documents) {
			end = len(documents)
		}

		task, err := index.AddDocuments(documents[i:end], "id")
		if err != nil {
			return fmt.Errorf("add documents %d-%d: %w", i, end, err)
		}

		cs.logger.Debug("Indexed center batch",
			zap.Int("from", i),
			zap.Int("to", end),
			zap.Int64("task_uid", task.TaskUID))
	}

	cs.logger.Info("Centers indexed", zap.Int("total_documents", len(documents)))
	return nil
}

// Suggest returns centers whose names resemble query, optionally within a
// province and of one center type.
func (cs *CenterSearcher) Suggest(ctx context.Context, query, province, centerType string, limit int) ([]Suggestion, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", normalizer.ErrInvalidInput)
	}
	if limit <= 0 || limit > cs.maxSuggestions {
		limit = cs.maxSuggestions
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := &meilisearch.SearchRequest{Limit: int64(limit)}
	if f := suggestFilter(province, centerType); f != "" {
		req.Filter = f
	}

	result, err := cs.client.Index(cs.indexName).Search(query, req)
	if err != nil {
		return nil, fmt.Errorf("meilisearch search: %w", err)
	}

	return parseHits(result.Hits), nil
}

func suggestFilter(province, centerType string) string {
	return And(FilterProvince(province), FilterCenterType(centerType))
}

func parseHits(hits []interface{}) []Suggestion {
	out := make([]Suggestion, 0, len(hits))
	for _, hit := range hits {
		m, ok := hit.(map[string]interface{})
		if !ok {
			continue
		}
		out = append(out, Suggestion{
			Code:         str(m["codigo"]),
			Name:         str(m["specific_name"]),
			CenterType:   str(m["center_type"]),
			Municipality: str(m["municipality"]),
			Province:     str(m["province"]),
		})
	}
	return out
}

func str(v interface{}) string {
	s, _ := v.(string)
	return s
}
