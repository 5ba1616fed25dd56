// Package filter turns user query parameters into a conjunction of field
// predicates usable both against MongoDB and in memory.
package filter

import (
	"fmt"
	"strings"

	"github.com/centros-finder/app/models"
	"github.com/centros-finder/internal/normalizer"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Stored field names
const (
	FieldLocality       = "D_LOCALIDAD"
	FieldProvince       = "D_PROVINCIA"
	FieldNormalizedCode = "codigo_normalizado"
	FieldSpecificName   = "D_ESPECIFICA"
	FieldCenterType     = "D_DENOMINA"
	FieldStages         = "etapas"
)

// Criteria are the optional user filters. An empty field is no constraint.
type Criteria struct {
	Locality     string `json:"localidad,omitempty"`
	Stage        string `json:"etapa,omitempty"`
	Province     string `json:"provincia,omitempty"`
	Code         string `json:"codigo,omitempty"`
	SpecificName string `json:"nombreCentro,omitempty"`
	CenterType   string `json:"tipoCentro,omitempty"`
}

// IsEmpty reports whether no criterion is set.
func (c Criteria) IsEmpty() bool {
	return c == Criteria{}
}

// Predicate constrains one stored field.
type Predicate struct {
	Field   string
	Pattern *normalizer.MatchPattern // set for pattern predicates
	Equals  string                   // literal value otherwise

	value func(*models.EducationalCenter) string
}

// Match evaluates the predicate against a center.
func (p Predicate) Match(c *models.EducationalCenter) bool {
	v := p.value(c)
	if p.Pattern != nil {
		return p.Pattern.MatchString(v)
	}
	return v == p.Equals
}

// BSON returns the Mongo condition for the field.
func (p Predicate) BSON() interface{} {
	if p.Pattern != nil {
		return primitive.Regex{Pattern: p.Pattern.Expr(), Options: p.Pattern.Options()}
	}
	return p.Equals
}

// Set is a conjunction of predicates. The zero Set matches everything.
type Set []Predicate

// BSON renders the set as a Mongo filter document.
func (s Set) BSON() bson.M {
	m := bson.M{}
	for _, p := range s {
		m[p.Field] = p.BSON()
	}
	return m
}

// Match reports whether every predicate holds for c.
func (s Set) Match(c *models.EducationalCenter) bool {
	for _, p := range s {
		if !p.Match(c) {
			return false
		}
	}
	return true
}

// Apply returns the centers matching the set, in input order.
func (s Set) Apply(centers []models.EducationalCenter) []models.EducationalCenter {
	out := make([]models.EducationalCenter, 0, len(centers))
	for i := range centers {
		if s.Match(&centers[i]) {
			out = append(out, centers[i])
		}
	}
	return out
}

// Build converts criteria into predicates. It has no side effects.
func Build(c Criteria) (Set, error) {
	var set Set

	addPattern := func(field, text string, mode normalizer.Mode, value func(*models.EducationalCenter) string) error {
		p, err := normalizer.BuildPattern(text, mode)
		if err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
		set = append(set, Predicate{Field: field, Pattern: p, value: value})
		return nil
	}

	if v := strings.TrimSpace(c.Locality); v != "" {
		if err := addPattern(FieldLocality, v, normalizer.Exact, func(c *models.EducationalCenter) string { return c.Locality }); err != nil {
			return nil, err
		}
	}

	if v := strings.TrimSpace(c.Stage); v != "" {
		if strings.ContainsAny(v, "$.") {
			return nil, fmt.Errorf("%w: stage name %q", normalizer.ErrInvalidInput, v)
		}
		stage := v
		set = append(set, Predicate{
			Field:  FieldStages + "." + stage,
			Equals: models.StageYes,
			value:  func(c *models.EducationalCenter) string { return c.Stages[stage] },
		})
	}

	if v := strings.TrimSpace(c.Province); v != "" {
		if err := addPattern(FieldProvince, v, normalizer.Exact, func(c *models.EducationalCenter) string { return c.Province }); err != nil {
			return nil, err
		}
	}

	if v := strings.TrimSpace(c.Code); v != "" {
		code := normalizer.NormalizeCode(v)
		if err := addPattern(FieldNormalizedCode, code, normalizer.Exact, func(c *models.EducationalCenter) string { return c.NormalizedCode }); err != nil {
			return nil, err
		}
	}

	if v := strings.TrimSpace(c.SpecificName); v != "" {
		if err := addPattern(FieldSpecificName, v, normalizer.Partial, func(c *models.EducationalCenter) string { return c.SpecificName }); err != nil {
			return nil, err
		}
	}

	if v := strings.TrimSpace(c.CenterType); v != "" {
		set = append(set, Predicate{
			Field:  FieldCenterType,
			Equals: v,
			value:  func(c *models.EducationalCenter) string { return c.CenterType },
		})
	}

	return set, nil
}
