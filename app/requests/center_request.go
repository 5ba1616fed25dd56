package requests

import (
	"github.com/centros-finder/internal/filter"
	"github.com/centros-finder/internal/paginate"
)

// CentersQuery query string of the center list and export
type CentersQuery struct {
	Page         *int   `form:"page"`            // 1-based page
	RowsPerPage  *int   `form:"rowsPerPage"`     // Page size
	Locality     string `form:"localidad"`       // Exact, accent-insensitive
	Stage        string `form:"etapa"`           // Stage key, e.g. eso
	Province     string `form:"provincia"`       // Exact, accent-insensitive
	Code         string `form:"codigo"`          // Center code, any prefix
	SpecificName string `form:"nombreCentro"`    // Substring, accent-insensitive
	CenterType   string `form:"tipoCentro"`      // Literal center type
	Origin       string `form:"direccionOrigen"` // Rank by travel time from here
}

// Criteria returns the filter part of the query.
func (q *CentersQuery) Criteria() filter.Criteria {
	return filter.Criteria{
		Locality:     q.Locality,
		Stage:        q.Stage,
		Province:     q.Province,
		Code:         q.Code,
		SpecificName: q.SpecificName,
		CenterType:   q.CenterType,
	}
}

// Paging returns page and page size, defaulting those left out.
func (q *CentersQuery) Paging() (page, pageSize int) {
	page, pageSize = paginate.DefaultPage, paginate.DefaultPageSize
	if q.Page != nil {
		page = *q.Page
	}
	if q.RowsPerPage != nil {
		pageSize = *q.RowsPerPage
	}
	return page, pageSize
}

// SuggestQuery query string of the suggestions endpoint
type SuggestQuery struct {
	Query      string `form:"q" binding:"required"`
	Province   string `form:"provincia"`
	CenterType string `form:"tipoCentro"`
	Limit      int    `form:"limit" binding:"omitempty,min=1,max=50"`
}
