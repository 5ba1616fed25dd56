package linker

import (
	"testing"

	"github.com/centros-finder/app/models"
	"github.com/centros-finder/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func baseCenters() []models.EducationalCenter {
	return []models.EducationalCenter{
		{CenterCode: "14700651", SpecificName: "Santa María", Bilingual: models.FlagUnknown, Compensatory: models.FlagUnknown},
		{CenterCode: "18001234", SpecificName: "Juan Ramón", Bilingual: models.FlagUnknown, Compensatory: models.FlagUnknown},
		{CenterCode: "C29000111", SpecificName: "Los Olivos", Bilingual: models.FlagUnknown, Compensatory: models.FlagUnknown},
	}
}

func rows(column string, codes ...string) []dataset.Row {
	out := make([]dataset.Row, 0, len(codes))
	for i, code := range codes {
		out = append(out, dataset.NewRow(i+2, map[string]string{column: code}))
	}
	return out
}

func newLinker(t *testing.T) *Linker {
	logger, _ := zap.NewDevelopment()
	return New(logger)
}

func TestBuildIndex_PreservesOrder(t *testing.T) {
	l := newLinker(t)
	ix, collisions := l.BuildIndex(baseCenters())

	assert.Empty(t, collisions)
	assert.Equal(t, 3, ix.Len())
	assert.Equal(t, []string{"14700651", "18001234", "29000111"}, ix.Codes())

	c, ok := ix.Get("29000111X")
	require.True(t, ok)
	assert.Equal(t, "Los Olivos", c.SpecificName)
	assert.Equal(t, "29000111", c.NormalizedCode)
}

func TestBuildIndex_CollisionLaterWins(t *testing.T) {
	l := newLinker(t)
	centers := []models.EducationalCenter{
		{CenterCode: "14700651C", SpecificName: "Santa María"},
		{CenterCode: "18001234", SpecificName: "Juan Ramón"},
		{CenterCode: "C14700651", SpecificName: "Otro Centro"},
	}

	ix, collisions := l.BuildIndex(centers)
	require.Len(t, collisions, 1)
	assert.Equal(t, "14700651", collisions[0].NormalizedCode)
	assert.Equal(t, "C14700651", collisions[0].KeptCode)
	assert.Equal(t, "14700651C", collisions[0].ReplacedCode)
	assert.Less(t, collisions[0].NameSimilarity, 1.0)

	out := ix.Centers()
	require.Len(t, out, 2)
	assert.Equal(t, "Otro Centro", out[0].SpecificName)
	assert.Equal(t, "Juan Ramón", out[1].SpecificName)
}

func TestMerge_BilingualByNormalizedCode(t *testing.T) {
	l := newLinker(t)
	ix, _ := l.BuildIndex(baseCenters())
	p := dataset.MustProfile(dataset.ProfileBilingual)

	report := l.Merge(ix, rows(p.CodeColumn, "018001234"), p, MarkBilingual)

	assert.Equal(t, 1, report.Matched)
	assert.Empty(t, report.Unmatched)

	c, ok := ix.Get("18001234")
	require.True(t, ok)
	assert.Equal(t, models.FlagYes, c.Bilingual)
	assert.Equal(t, models.FlagUnknown, c.Compensatory)
}

func TestMerge_SuggestsNearCode(t *testing.T) {
	l := newLinker(t)
	ix, _ := l.BuildIndex(baseCenters())
	p := dataset.MustProfile(dataset.ProfileBilingual)

	report := l.Merge(ix, rows(p.CodeColumn, "14700652"), p, MarkBilingual)

	require.Len(t, report.Unmatched, 1)
	assert.Equal(t, "14700651", report.Unmatched[0].Suggestion)
}

func TestMerge_MatchesAndReportsUnmatched(t *testing.T) {
	l := newLinker(t)
	ix, _ := l.BuildIndex(baseCenters())
	p := dataset.MustProfile(dataset.ProfileBilingual)

	report := l.Merge(ix, rows(p.CodeColumn, "018001234", "99999999", "29000111"), p, MarkBilingual)

	assert.Equal(t, dataset.ProfileBilingual, report.Dataset)
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 2, report.Matched)
	require.Len(t, report.Unmatched, 1)
	assert.Equal(t, "99999999", report.Unmatched[0].Code)
	assert.Empty(t, report.Unmatched[0].Suggestion)

	out := ix.Centers()
	require.Len(t, out, 3, "unmatched rows are never inserted")
	assert.Equal(t, models.FlagUnknown, out[0].Bilingual)
	assert.Equal(t, models.FlagYes, out[1].Bilingual)
	assert.Equal(t, models.FlagYes, out[2].Bilingual)
	assert.Equal(t, models.FlagUnknown, out[1].Compensatory, "only the targeted field changes")
}

func TestMerge_SkipsRowsWithoutCode(t *testing.T) {
	l := newLinker(t)
	ix, _ := l.BuildIndex(baseCenters())
	p := dataset.MustProfile(dataset.ProfileCompensatory)

	in := rows(p.CodeColumn, "", "14700651")
	in = append(in, dataset.NewRow(9, map[string]string{"other": "x"}))

	report := l.Merge(ix, in, p, MarkCompensatory)
	assert.Equal(t, 1, report.Matched)
	assert.Equal(t, 2, report.SkippedCount())
	assert.Empty(t, report.Unmatched)

	c, _ := ix.Get("14700651")
	assert.Equal(t, models.FlagYes, c.Compensatory)
}

func TestMerge_Idempotent(t *testing.T) {
	l := newLinker(t)
	ix, _ := l.BuildIndex(baseCenters())
	p := dataset.MustProfile(dataset.ProfileBilingual)
	in := rows(p.CodeColumn, "14700651", "C29000111")

	l.Merge(ix, in, p, MarkBilingual)
	once := ix.Centers()
	l.Merge(ix, in, p, MarkBilingual)
	twice := ix.Centers()

	assert.Equal(t, once, twice)
}

func TestMergeTable_CountsReaderErrors(t *testing.T) {
	l := newLinker(t)
	ix, _ := l.BuildIndex(baseCenters())
	p := dataset.MustProfile(dataset.ProfileBilingual)

	tbl := &dataset.Table{
		Header: []string{p.CodeColumn},
		Rows:   rows(p.CodeColumn, "14700651"),
		Errors: []*dataset.ParseError{{Line: 5}},
	}

	report := l.MergeTable(ix, tbl, p, MarkBilingual)
	assert.Equal(t, 1, report.Matched)
	assert.Equal(t, 1, report.SkippedCount())
}

func TestSettle_UnmatchedBecomeNo(t *testing.T) {
	l := newLinker(t)
	ix, _ := l.BuildIndex(baseCenters())
	p := dataset.MustProfile(dataset.ProfileBilingual)

	l.Merge(ix, rows(p.CodeColumn, "018001234"), p, MarkBilingual)
	ix.Settle(BilingualFlag)

	matched, _ := ix.Get("18001234")
	other, _ := ix.Get("14700651")
	assert.Equal(t, models.FlagYes, matched.Bilingual)
	assert.Equal(t, models.FlagNo, other.Bilingual)
	assert.Equal(t, models.FlagUnknown, other.Compensatory)
}
