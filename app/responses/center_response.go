package responses

import (
	"github.com/centros-finder/app/models"
	"github.com/centros-finder/app/services"
	"github.com/centros-finder/internal/linker"
	"github.com/centros-finder/internal/search"
)

// CentersResponse one page of centers
type CentersResponse struct {
	Centers     []models.EducationalCenter `json:"centros"`
	Total       int                        `json:"total"`
	Page        int                        `json:"page"`
	RowsPerPage int                        `json:"rowsPerPage"`
	TotalPages  int                        `json:"totalPages"`
}

// TypesResponse distinct center types
type TypesResponse struct {
	Types []string `json:"tipos"`
}

// SuggestionsResponse name suggestions
type SuggestionsResponse struct {
	Query       string              `json:"q"`
	Suggestions []search.Suggestion `json:"sugerencias"`
}

// ImportResponse result of an import run
type ImportResponse struct {
	Centers          int                `json:"centers"`
	BaseSkipped      int                `json:"base_skipped"`
	Collisions       int                `json:"collisions"`
	Datasets         []DatasetReport    `json:"datasets"`
	Indexed          bool               `json:"indexed"`
	DryRun           bool               `json:"dry_run"`
	ProcessingTimeMs int64              `json:"processing_time_ms"`
	Unmatched        []linker.Unmatched `json:"unmatched,omitempty"`
	Message          string             `json:"message"`
}

// DatasetReport merge counts of one secondary dataset
type DatasetReport struct {
	Dataset   string `json:"dataset"`
	Total     int    `json:"total"`
	Matched   int    `json:"matched"`
	Unmatched int    `json:"unmatched"`
	Skipped   int    `json:"skipped"`
}

// NewImportResponse flattens an import result.
func NewImportResponse(r *services.ImportResult, message string) ImportResponse {
	resp := ImportResponse{
		Centers:          r.Centers,
		BaseSkipped:      r.BaseSkipped,
		Collisions:       len(r.Collisions),
		Datasets:         make([]DatasetReport, 0, len(r.Reports)),
		Indexed:          r.Indexed,
		DryRun:           r.DryRun,
		ProcessingTimeMs: r.ProcessingTimeMs,
		Message:          message,
	}
	for _, rep := range r.Reports {
		resp.Datasets = append(resp.Datasets, DatasetReport{
			Dataset:   rep.Dataset,
			Total:     rep.Total,
			Matched:   rep.Matched,
			Unmatched: len(rep.Unmatched),
			Skipped:   rep.SkippedCount(),
		})
		resp.Unmatched = append(resp.Unmatched, rep.Unmatched...)
	}
	return resp
}

// ErrorResponse error body
type ErrorResponse struct {
	Error     string      `json:"error"`                // Error code
	Message   string      `json:"message"`              // Human readable message
	Details   interface{} `json:"details,omitempty"`    // Extra context
	Timestamp string      `json:"timestamp"`            // RFC3339
	RequestID string      `json:"request_id,omitempty"` // X-Request-ID
}

// SuccessResponse generic success body
type SuccessResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// HealthCheckResponse health probe body
type HealthCheckResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Uptime    string            `json:"uptime"`
	Version   string            `json:"version"`
	Services  map[string]string `json:"services"`
}
