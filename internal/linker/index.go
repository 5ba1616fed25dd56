package linker

import (
	"github.com/centros-finder/app/models"
	"github.com/centros-finder/internal/normalizer"
	"github.com/xrash/smetrics"
	"go.uber.org/zap"
)

// Index holds base centers keyed by normalized code, in load order.
type Index struct {
	order  []string
	byCode map[string]*models.EducationalCenter
}

// Collision records two base rows that share a normalized code.
type Collision struct {
	NormalizedCode string  `json:"normalized_code"`
	KeptCode       string  `json:"kept_code"`       // raw code of the record that stays
	ReplacedCode   string  `json:"replaced_code"`   // raw code of the record that was overwritten
	NameSimilarity float64 `json:"name_similarity"` // Jaro-Winkler over folded specific names
}

// Len returns the number of distinct codes.
func (ix *Index) Len() int { return len(ix.order) }

// Get looks a center up by raw or normalized code.
func (ix *Index) Get(code string) (*models.EducationalCenter, bool) {
	c, ok := ix.byCode[normalizer.NormalizeCode(code)]
	return c, ok
}

// Codes returns the normalized codes in load order.
func (ix *Index) Codes() []string {
	out := make([]string, len(ix.order))
	copy(out, ix.order)
	return out
}

// Centers returns a copy of the indexed centers in load order.
func (ix *Index) Centers() []models.EducationalCenter {
	out := make([]models.EducationalCenter, 0, len(ix.order))
	for _, code := range ix.order {
		out = append(out, *ix.byCode[code])
	}
	return out
}

// BuildIndex keys centers by normalized code. When two centers share a
// code the later one replaces the earlier, keeping the earlier position.
func (l *Linker) BuildIndex(centers []models.EducationalCenter) (*Index, []Collision) {
	ix := &Index{
		order:  make([]string, 0, len(centers)),
		byCode: make(map[string]*models.EducationalCenter, len(centers)),
	}

	var collisions []Collision
	for i := range centers {
		c := centers[i]
		c.NormalizedCode = normalizer.NormalizeCode(c.CenterCode)

		if prev, ok := ix.byCode[c.NormalizedCode]; ok {
			col := Collision{
				NormalizedCode: c.NormalizedCode,
				KeptCode:       c.CenterCode,
				ReplacedCode:   prev.CenterCode,
				NameSimilarity: nameSimilarity(prev.SpecificName, c.SpecificName),
			}
			collisions = append(collisions, col)

			log := l.logger.Debug
			if col.NameSimilarity < l.collisionThreshold {
				log = l.logger.Warn
			}
			log("Normalized code collision, later record wins",
				zap.String("codigo_normalizado", col.NormalizedCode),
				zap.String("kept", col.KeptCode),
				zap.String("replaced", col.ReplacedCode),
				zap.Float64("name_similarity", col.NameSimilarity))

			*prev = c
			continue
		}

		ix.order = append(ix.order, c.NormalizedCode)
		ix.byCode[c.NormalizedCode] = &c
	}

	return ix, collisions
}

func nameSimilarity(a, b string) float64 {
	a, b = normalizer.Fold(a), normalizer.Fold(b)
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	return smetrics.JaroWinkler(a, b, 0.7, 4)
}

// Settle sets flag to FlagNo on every center where it is still unknown.
// Call it after merging a dataset that was actually loaded.
func (ix *Index) Settle(flag func(*models.EducationalCenter) *models.Flag) {
	for _, c := range ix.byCode {
		if f := flag(c); f.OrUnknown() == models.FlagUnknown {
			*f = models.FlagNo
		}
	}
}

// BilingualFlag selects the bilingual flag for Settle.
func BilingualFlag(c *models.EducationalCenter) *models.Flag { return &c.Bilingual }

// CompensatoryFlag selects the compensatory flag for Settle.
func CompensatoryFlag(c *models.EducationalCenter) *models.Flag { return &c.Compensatory }
