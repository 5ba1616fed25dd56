package services

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/centros-finder/app/models"
	"github.com/centros-finder/internal/filter"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memoryStore is a CenterStore over a slice.
type memoryStore struct {
	mu      sync.Mutex
	centers []models.EducationalCenter
	err     error
}

func (m *memoryStore) Find(ctx context.Context, set filter.Set) ([]models.EducationalCenter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return set.Apply(m.centers), nil
}

func (m *memoryStore) DistinctTypes(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[string]bool{}
	var out []string
	for _, c := range m.centers {
		if c.CenterType != "" && !seen[c.CenterType] {
			seen[c.CenterType] = true
			out = append(out, c.CenterType)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *memoryStore) ReplaceAll(ctx context.Context, centers []models.EducationalCenter) error {
	if len(centers) == 0 {
		return ErrNoCenters
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.centers = append([]models.EducationalCenter(nil), centers...)
	return nil
}

func (m *memoryStore) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.centers)), nil
}

func testLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func sampleCenters() []models.EducationalCenter {
	return []models.EducationalCenter{
		{CenterCode: "14700651", NormalizedCode: "14700651", SpecificName: "Santa María", CenterType: "CEIP", Locality: "Córdoba", Province: "Córdoba", Stages: map[string]string{"primaria": models.StageYes}},
		{CenterCode: "18001234", NormalizedCode: "18001234", SpecificName: "Juan Ramón Jiménez", CenterType: "IES", Locality: "Granada", Province: "Granada", Stages: map[string]string{"eso": models.StageYes}},
		{CenterCode: "14002222", NormalizedCode: "14002222", SpecificName: "Averroes", CenterType: "IES", Locality: "Cordoba", Province: "Córdoba", Stages: map[string]string{"eso": models.StageYes}},
	}
}
