package controllers

import (
	"net/http"
	"time"

	"github.com/centros-finder/app/requests"
	"github.com/centros-finder/app/responses"
	"github.com/centros-finder/app/services"
	"github.com/centros-finder/internal/dataset"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	defaultSuggestions = 10
	exportFilename     = "centros.csv"
	version            = "1.0.0"
)

// CenterController serves center queries.
type CenterController struct {
	centers   *services.CenterService
	logger    *zap.Logger
	startedAt time.Time
}

// NewCenterController creates a CenterController.
func NewCenterController(centers *services.CenterService, logger *zap.Logger) *CenterController {
	return &CenterController{
		centers:   centers,
		logger:    logger,
		startedAt: time.Now(),
	}
}

// List returns one page of filtered, optionally ranked centers.
func (cc *CenterController) List(c *gin.Context) {
	var q requests.CentersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid query: "+err.Error(), nil)
		return
	}

	page, pageSize := q.Paging()
	start := time.Now()
	res, err := cc.centers.Search(c.Request.Context(), services.CenterQuery{
		Criteria: q.Criteria(),
		Origin:   q.Origin,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		cc.fail(c, "Center search failed", err)
		return
	}

	cc.logger.Debug("Centers listed",
		zap.Int("total", res.TotalCount),
		zap.Int("page", res.Page),
		zap.Bool("ranked", q.Origin != ""),
		zap.Duration("duration", time.Since(start)))

	c.JSON(http.StatusOK, responses.CentersResponse{
		Centers:     res.Items,
		Total:       res.TotalCount,
		Page:        res.Page,
		RowsPerPage: res.PageSize,
		TotalPages:  res.TotalPages(),
	})
}

// Types returns the distinct center types.
func (cc *CenterController) Types(c *gin.Context) {
	types, err := cc.centers.Types(c.Request.Context())
	if err != nil {
		cc.fail(c, "Listing center types failed", err)
		return
	}
	if types == nil {
		types = []string{}
	}
	c.JSON(http.StatusOK, responses.TypesResponse{Types: types})
}

// Suggest proposes centers for a partial name.
func (cc *CenterController) Suggest(c *gin.Context) {
	var q requests.SuggestQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid query: "+err.Error(), nil)
		return
	}
	if q.Limit == 0 {
		q.Limit = defaultSuggestions
	}

	suggestions, err := cc.centers.Suggest(c.Request.Context(), q.Query, q.Province, q.CenterType, q.Limit)
	if err != nil {
		cc.fail(c, "Suggestion lookup failed", err)
		return
	}
	c.JSON(http.StatusOK, responses.SuggestionsResponse{Query: q.Query, Suggestions: suggestions})
}

// Export streams every matching center as CSV.
func (cc *CenterController) Export(c *gin.Context) {
	var q requests.CentersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid query: "+err.Error(), nil)
		return
	}

	centers, err := cc.centers.Matching(c.Request.Context(), q.Criteria(), q.Origin, cc.centers.Ranker())
	if err != nil {
		cc.fail(c, "Center export failed", err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+exportFilename+`"`)
	c.Status(http.StatusOK)
	if err := dataset.WriteCSV(c.Writer, centers); err != nil {
		cc.logger.Error("Writing CSV export failed", zap.Error(err))
	}
}

// HealthCheck reports service health.
func (cc *CenterController) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, responses.HealthCheckResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Uptime:    time.Since(cc.startedAt).Round(time.Second).String(),
		Version:   version,
		Services: map[string]string{
			"store":   "healthy",
			"ranking": enabled(cc.centers.RankingEnabled()),
		},
	})
}

func (cc *CenterController) fail(c *gin.Context, msg string, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		cc.logger.Error(msg, zap.Error(err))
	} else {
		cc.logger.Warn(msg, zap.Error(err))
	}
	writeError(c, status, code, err.Error(), nil)
}

func enabled(ok bool) string {
	if ok {
		return "enabled"
	}
	return "disabled"
}
