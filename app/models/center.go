package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Flag is a three-valued attribute taken from a secondary dataset.
type Flag string

const (
	FlagUnknown Flag = "unknown"
	FlagYes     Flag = "yes"
	FlagNo      Flag = "no"
)

// StageYes is the source value marking that a center teaches a stage.
const StageYes = "Sí"

// IsYes reports whether the flag is set.
func (f Flag) IsYes() bool {
	return f == FlagYes
}

// OrUnknown maps the empty value to FlagUnknown.
func (f Flag) OrUnknown() Flag {
	if f == "" {
		return FlagUnknown
	}
	return f
}

// EducationalCenter one institution of the merged dataset
type EducationalCenter struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Address        string             `bson:"D_DOMICILIO" json:"address"`               // Street address
	PostalCode     string             `bson:"C_POSTAL" json:"postalCode"`               // Postal code
	Municipality   string             `bson:"D_MUNICIPIO" json:"municipality"`          // Municipality
	Locality       string             `bson:"D_LOCALIDAD" json:"locality"`              // Locality
	Province       string             `bson:"D_PROVINCIA" json:"province"`              // Province
	CenterCode     string             `bson:"codigo" json:"centerCode"`                 // Raw code as published
	NormalizedCode string             `bson:"codigo_normalizado" json:"normalizedCode"` // Join key
	CenterType     string             `bson:"D_DENOMINA" json:"centerType"`             // Generic denomination
	SpecificName   string             `bson:"D_ESPECIFICA" json:"specificName"`         // Specific name
	Ownership      string             `bson:"D_TIPO" json:"ownership"`                  // Público / Privado
	Stages         map[string]string  `bson:"etapas,omitempty" json:"stages,omitempty"` // Stage -> source flag
	Bilingual      Flag               `bson:"bilingue" json:"bilingual"`                // From the bilingual dataset
	Compensatory   Flag               `bson:"compensatoria" json:"compensatory"`        // From the compensatory dataset

	// Filled per request by the ranking step, never persisted.
	DistanceKm      *float64 `bson:"-" json:"distanceKm,omitempty"`
	DistanceText    string   `bson:"-" json:"distanceText,omitempty"`
	DurationText    string   `bson:"-" json:"durationText,omitempty"`
	DurationMinutes *int     `bson:"-" json:"durationMinutes,omitempty"`
}

// DisplayName returns type and specific name joined.
func (c *EducationalCenter) DisplayName() string {
	switch {
	case c.CenterType == "":
		return c.SpecificName
	case c.SpecificName == "":
		return c.CenterType
	}
	return c.CenterType + " " + c.SpecificName
}

// HasStage reports whether the center is marked for the stage.
func (c *EducationalCenter) HasStage(stage string) bool {
	return c.Stages[stage] == StageYes
}

// ApplyRoute sets the route annotations.
func (c *EducationalCenter) ApplyRoute(r Route, minutes int) {
	km := float64(r.DistanceMeters) / 1000
	c.DistanceKm = &km
	c.DistanceText = r.DistanceText
	c.DurationText = r.DurationText
	c.DurationMinutes = &minutes
}

// Route result of a successful distance lookup
type Route struct {
	DistanceText   string `bson:"distance_text" json:"distance_text"`       // e.g. "12,4 km"
	DistanceMeters int    `bson:"distance_meters" json:"distance_meters"`   // Meters
	DurationText   string `bson:"duration_text" json:"duration_text"`       // e.g. "1 h 5 min"
}
