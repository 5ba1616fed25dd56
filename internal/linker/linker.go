// Package linker joins secondary datasets onto the base center set by
// normalized center code.
package linker

import (
	"github.com/agnivade/levenshtein"
	"github.com/centros-finder/app/models"
	"github.com/centros-finder/internal/dataset"
	"github.com/centros-finder/internal/normalizer"
	"go.uber.org/zap"
)

const (
	defaultCollisionThreshold = 0.85
	maxSuggestDistance        = 1
)

// Updater mutates the matched base center. It must only touch the field
// its dataset owns so that merging twice is harmless.
type Updater func(base *models.EducationalCenter, row dataset.Row)

// MarkBilingual flags a center as bilingual.
func MarkBilingual(base *models.EducationalCenter, _ dataset.Row) {
	base.Bilingual = models.FlagYes
}

// MarkCompensatory flags a center as compensatory.
func MarkCompensatory(base *models.EducationalCenter, _ dataset.Row) {
	base.Compensatory = models.FlagYes
}

// Unmatched is an incoming row whose code is not in the base set.
type Unmatched struct {
	Line           int    `json:"line"`
	Code           string `json:"code"`
	NormalizedCode string `json:"normalized_code"`
	Name           string `json:"name,omitempty"`
	Suggestion     string `json:"suggestion,omitempty"` // closest base code, if any
}

// Report summarizes one merge.
type Report struct {
	Dataset   string      `json:"dataset"`
	Total     int         `json:"total"`
	Matched   int         `json:"matched"`
	Unmatched []Unmatched `json:"unmatched"`
	Skipped   []error     `json:"-"`
}

// SkippedCount returns the number of rows that could not be read.
func (r Report) SkippedCount() int { return len(r.Skipped) }

// Linker merges datasets and logs what it could not link.
type Linker struct {
	logger             *zap.Logger
	collisionThreshold float64
}

// New creates a Linker.
func New(logger *zap.Logger) *Linker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Linker{logger: logger, collisionThreshold: defaultCollisionThreshold}
}

// Merge applies update to every base center whose normalized code appears in
// rows. Unknown codes are reported, never inserted. Rows without a code are
// skipped with a warning.
func (l *Linker) Merge(ix *Index, rows []dataset.Row, p dataset.Profile, update Updater) Report {
	report := Report{Dataset: p.Name, Total: len(rows)}

	for _, row := range rows {
		raw := row.Get(p.CodeColumn)
		if raw == "" {
			perr := &dataset.ParseError{Line: row.Line, Column: p.CodeColumn, Err: dataset.ErrMissingField}
			report.Skipped = append(report.Skipped, perr)
			l.logger.Warn("Skipping row without center code",
				zap.String("dataset", p.Name),
				zap.Error(perr))
			continue
		}

		code := normalizer.NormalizeCode(raw)
		base, ok := ix.byCode[code]
		if !ok {
			report.Unmatched = append(report.Unmatched, Unmatched{
				Line:           row.Line,
				Code:           raw,
				NormalizedCode: code,
				Name:           row.Get(p.NameColumn),
				Suggestion:     ix.suggest(code),
			})
			continue
		}

		update(base, row)
		report.Matched++
	}

	l.logger.Info("Dataset merged",
		zap.String("dataset", p.Name),
		zap.Int("total", report.Total),
		zap.Int("matched", report.Matched),
		zap.Int("unmatched", len(report.Unmatched)),
		zap.Int("skipped", len(report.Skipped)))

	for _, u := range report.Unmatched {
		l.logger.Debug("Unmatched center code",
			zap.String("dataset", p.Name),
			zap.Int("line", u.Line),
			zap.String("codigo", u.Code),
			zap.String("suggestion", u.Suggestion))
	}

	return report
}

// MergeTable is Merge over a decoded table; malformed lines already found by
// the reader are counted as skipped.
func (l *Linker) MergeTable(ix *Index, t *dataset.Table, p dataset.Profile, update Updater) Report {
	report := l.Merge(ix, t.Rows, p, update)
	for _, perr := range t.Errors {
		report.Skipped = append(report.Skipped, perr)
	}
	return report
}

// suggest returns the first base code within edit distance one.
func (ix *Index) suggest(code string) string {
	for _, candidate := range ix.order {
		d := len(candidate) - len(code)
		if d > maxSuggestDistance || d < -maxSuggestDistance {
			continue
		}
		if levenshtein.ComputeDistance(code, candidate) <= maxSuggestDistance {
			return candidate
		}
	}
	return ""
}
