package dataset

import (
	"github.com/centros-finder/app/models"
	"github.com/centros-finder/internal/normalizer"
)

// ParseCenter maps a base dataset row to a center.
func ParseCenter(row Row, p Profile) (models.EducationalCenter, error) {
	code := row.Get(p.CodeColumn)
	if code == "" {
		return models.EducationalCenter{}, &ParseError{Line: row.Line, Column: p.CodeColumn, Err: ErrMissingField}
	}

	c := models.EducationalCenter{
		Address:        row.Get(p.Column("address")),
		PostalCode:     row.Get(p.Column("postal_code")),
		Municipality:   row.Get(p.Column("municipality")),
		Locality:       row.Get(p.Column("locality")),
		Province:       row.Get(p.Column("province")),
		CenterCode:     code,
		NormalizedCode: normalizer.NormalizeCode(code),
		CenterType:     row.Get(p.Column("center_type")),
		SpecificName:   row.Get(p.Column("specific_name")),
		Ownership:      row.Get(p.Column("ownership")),
		Bilingual:      models.FlagUnknown,
		Compensatory:   models.FlagUnknown,
	}

	for key, column := range p.Stages {
		if v := row.Get(column); v != "" {
			if c.Stages == nil {
				c.Stages = make(map[string]string)
			}
			c.Stages[key] = v
		}
	}

	return c, nil
}

// ParseCenters parses every row of a base table. Bad rows are returned
// as errors alongside the good centers.
func ParseCenters(t *Table, p Profile) ([]models.EducationalCenter, []error) {
	centers := make([]models.EducationalCenter, 0, len(t.Rows))
	var errs []error
	for _, pe := range t.Errors {
		errs = append(errs, pe)
	}
	for _, row := range t.Rows {
		c, err := ParseCenter(row, p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		centers = append(centers, c)
	}
	return centers, errs
}
