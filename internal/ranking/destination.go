package ranking

import (
	"strings"

	"github.com/centros-finder/app/models"
)

// DestinationAddress joins the address parts of a center in the order the
// distance service resolves best: type, name, street, postal code,
// municipality, province. Empty parts are skipped.
func DestinationAddress(c *models.EducationalCenter) string {
	parts := []string{
		c.CenterType,
		c.SpecificName,
		c.Address,
		c.PostalCode,
		c.Municipality,
		c.Province,
	}
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}
