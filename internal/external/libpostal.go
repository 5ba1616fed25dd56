//go:build cgo

package external

import (
	"strings"

	"github.com/centros-finder/internal/normalizer"
	"github.com/openvenues/gopostal/expand"
)

// CanonicalOrigin returns the first libpostal expansion of raw, so that
// "C/ Mayor 1, Córdoba" and "calle mayor 1 cordoba" share a cache key.
func CanonicalOrigin(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	opts := expand.DefaultOptions()
	opts.Languages = []string{"es"}
	if exps := expand.ExpandAddress(raw, opts); len(exps) > 0 {
		return exps[0]
	}
	return normalizer.Fold(raw)
}

