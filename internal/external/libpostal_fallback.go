//go:build !cgo

package external

import (
	"strings"

	"github.com/centros-finder/internal/normalizer"
)

// CanonicalOrigin folds raw without libpostal: lowercase, no diacritics,
// punctuation reduced to spaces.
func CanonicalOrigin(raw string) string {
	s := normalizer.Fold(raw)
	s = strings.Map(func(r rune) rune {
		if r == ',' || r == '/' || r == '.' {
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

