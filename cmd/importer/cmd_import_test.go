package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/centros-finder/app/models"
	"github.com/centros-finder/app/services"
	"github.com/centros-finder/internal/dataset"
	"github.com/centros-finder/internal/linker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSources(t *testing.T) {
	t.Cleanup(func() { sourceFlags = services.ImportSources{} })
	sourceFlags = services.ImportSources{Bilingual: "otro.csv"}

	got := resolveSources(services.ImportSources{Base: "a.csv", Bilingual: "b.csv", Compensatory: "c.csv"})
	assert.Equal(t, services.ImportSources{Base: "a.csv", Bilingual: "otro.csv", Compensatory: "c.csv"}, got)
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	printReport(&buf, &services.ImportResult{
		Centers: 2,
		Reports: []linker.Report{{Dataset: "bilingual", Total: 3, Matched: 2, Unmatched: []linker.Unmatched{{Code: "1"}}}},
		DryRun:  true,
	})

	out := buf.String()
	assert.Contains(t, out, "Centros")
	assert.Contains(t, out, "bilingual")
	assert.Contains(t, out, "2/3 cruzados, 1 sin cruzar")
	assert.NotContains(t, out, "Meilisearch")
}

func TestWriteExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, writeExport(path, []models.EducationalCenter{{CenterCode: "14700651"}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	tbl, err := dataset.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, dataset.ExportHeader, tbl.Header)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "14700651", tbl.Rows[0].Get("Center Code"))
}
