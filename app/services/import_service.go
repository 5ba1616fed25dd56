package services

import (
	"context"
	"fmt"
	"time"

	"github.com/centros-finder/app/models"
	"github.com/centros-finder/internal/dataset"
	"github.com/centros-finder/internal/linker"
	"go.uber.org/zap"
)

// CenterIndexer receives the merged centers after an import.
type CenterIndexer interface {
	IndexCenters(centers []models.EducationalCenter) error
}

// ImportSources are the dataset paths of one import. Secondary paths may be empty.
type ImportSources struct {
	Base         string
	Bilingual    string
	Compensatory string
}

// ImportResult summarizes an import.
type ImportResult struct {
	Centers          int                `json:"centers"`
	BaseSkipped      int                `json:"base_skipped"`
	Collisions       []linker.Collision `json:"collisions,omitempty"`
	Reports          []linker.Report    `json:"reports"`
	Indexed          bool               `json:"indexed"`
	DryRun           bool               `json:"dry_run"`
	ProcessingTimeMs int64              `json:"processing_time_ms"`
}

// ImportService loads datasets, links them and stores the result.
type ImportService struct {
	store    CenterStore
	indexer  CenterIndexer
	linker   *linker.Linker
	profiles map[string]dataset.Profile
	logger   *zap.Logger
}

// NewImportService creates an ImportService. indexer may be nil.
func NewImportService(store CenterStore, indexer CenterIndexer, logger *zap.Logger) (*ImportService, error) {
	profiles, err := dataset.LoadProfiles()
	if err != nil {
		return nil, err
	}
	return &ImportService{
		store:    store,
		indexer:  indexer,
		linker:   linker.New(logger),
		profiles: profiles,
		logger:   logger,
	}, nil
}

// Link reads the datasets and merges the secondary flags into the base set.
// Bad rows are skipped; unreadable files and an empty base set are errors.
func (s *ImportService) Link(src ImportSources) ([]models.EducationalCenter, *ImportResult, error) {
	start := time.Now()
	baseProfile := s.profiles[dataset.ProfileBase]

	tbl, err := dataset.ReadFile(src.Base)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Info("Base dataset read",
		zap.String("path", src.Base),
		zap.String("encoding", tbl.Encoding),
		zap.Int("rows", len(tbl.Rows)))

	parsed, errs := dataset.ParseCenters(tbl, baseProfile)
	for _, err := range errs {
		s.logger.Warn("Skipping base row", zap.Error(err))
	}
	if len(parsed) == 0 {
		return nil, nil, fmt.Errorf("%s: %w", src.Base, ErrNoCenters)
	}

	ix, collisions := s.linker.BuildIndex(parsed)
	result := &ImportResult{
		BaseSkipped: len(errs),
		Collisions:  collisions,
		Reports:     []linker.Report{},
	}

	secondary := []struct {
		path    string
		profile string
		update  linker.Updater
		flag    func(*models.EducationalCenter) *models.Flag
	}{
		{src.Bilingual, dataset.ProfileBilingual, linker.MarkBilingual, linker.BilingualFlag},
		{src.Compensatory, dataset.ProfileCompensatory, linker.MarkCompensatory, linker.CompensatoryFlag},
	}
	for _, sec := range secondary {
		if sec.path == "" {
			continue
		}
		t, err := dataset.ReadFile(sec.path)
		if err != nil {
			return nil, nil, err
		}
		p := s.profiles[sec.profile]
		if !t.HasColumn(p.CodeColumn) {
			return nil, nil, fmt.Errorf("%s: missing column %q", sec.path, p.CodeColumn)
		}
		result.Reports = append(result.Reports, s.linker.MergeTable(ix, t, p, sec.update))
		ix.Settle(sec.flag)
	}

	centers := ix.Centers()
	result.Centers = len(centers)
	result.ProcessingTimeMs = time.Since(start).Milliseconds()
	return centers, result, nil
}

// Run links the datasets and, unless dryRun, replaces the stored centers
// and refreshes the search index.
func (s *ImportService) Run(ctx context.Context, src ImportSources, dryRun bool) (*ImportResult, error) {
	start := time.Now()

	centers, result, err := s.Link(src)
	if err != nil {
		return nil, err
	}
	result.DryRun = dryRun
	if dryRun {
		return result, nil
	}

	if err := s.store.ReplaceAll(ctx, centers); err != nil {
		return nil, err
	}

	if s.indexer != nil {
		if err := s.indexer.IndexCenters(centers); err != nil {
			s.logger.Warn("Search index not updated", zap.Error(err))
		} else {
			result.Indexed = true
		}
	}

	result.ProcessingTimeMs = time.Since(start).Milliseconds()
	s.logger.Info("Import finished",
		zap.Int("centers", result.Centers),
		zap.Int("base_skipped", result.BaseSkipped),
		zap.Int64("processing_time_ms", result.ProcessingTimeMs))
	return result, nil
}
