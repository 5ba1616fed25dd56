package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/centros-finder/app/models"
)

// ExportHeader is the fixed column order of exported files.
var ExportHeader = []string{
	"Address",
	"Postal Code",
	"Municipality",
	"Province",
	"Center Type",
	"Specific Name",
	"Center Code",
	"Ownership",
	"Languages",
	"Distance(Km)",
	"Duration",
	"Compensatory",
}

// Labels written for set flags
const (
	LabelBilingual    = "Es bilingüe"
	LabelCompensatory = "Es compensatorio"
)

// WriteCSV writes centers in the export layout.
func WriteCSV(w io.Writer, centers []models.EducationalCenter) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range centers {
		if err := cw.Write(ExportRecord(&centers[i])); err != nil {
			return fmt.Errorf("write center %s: %w", centers[i].CenterCode, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportRecord returns the export fields of one center in header order.
func ExportRecord(c *models.EducationalCenter) []string {
	distance := ""
	if c.DistanceKm != nil {
		distance = strconv.FormatFloat(*c.DistanceKm, 'f', 2, 64)
	}
	return []string{
		c.Address,
		c.PostalCode,
		c.Municipality,
		c.Province,
		c.CenterType,
		c.SpecificName,
		c.CenterCode,
		c.Ownership,
		flagLabel(c.Bilingual, LabelBilingual),
		distance,
		c.DurationText,
		flagLabel(c.Compensatory, LabelCompensatory),
	}
}

func flagLabel(f models.Flag, yes string) string {
	if f.IsYes() {
		return yes
	}
	return ""
}
