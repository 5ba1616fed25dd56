package controllers

import (
	"net/http"
	"time"

	"github.com/centros-finder/app/responses"
	"github.com/centros-finder/app/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminController serves maintenance endpoints.
type AdminController struct {
	importer  *services.ImportService
	sources   services.ImportSources
	store     services.CenterStore
	cache     services.IRouteCache
	logger    *zap.Logger
	startedAt time.Time
}

// NewAdminController creates an AdminController that imports from sources.
func NewAdminController(importer *services.ImportService, sources services.ImportSources, store services.CenterStore, cache services.IRouteCache, logger *zap.Logger) *AdminController {
	return &AdminController{
		importer:  importer,
		sources:   sources,
		store:     store,
		cache:     cache,
		logger:    logger,
		startedAt: time.Now(),
	}
}

// Import reloads the configured datasets. With dry_run=true only the
// linking report is returned.
func (ac *AdminController) Import(c *gin.Context) {
	dryRun := c.Query("dry_run") == "true"

	result, err := ac.importer.Run(c.Request.Context(), ac.sources, dryRun)
	if err != nil {
		status, code := statusFor(err)
		ac.logger.Error("Import failed", zap.Error(err))
		writeError(c, status, code, "Import failed: "+err.Error(), nil)
		return
	}

	message := "Import finished"
	if dryRun {
		message = "Dry run finished, store unchanged"
	}
	c.JSON(http.StatusOK, responses.NewImportResponse(result, message))
}

// InvalidateCache empties the route cache.
func (ac *AdminController) InvalidateCache(c *gin.Context) {
	start := time.Now()
	if err := ac.cache.Clear(c.Request.Context()); err != nil {
		ac.logger.Error("Route cache invalidation failed", zap.Error(err))
		writeError(c, http.StatusInternalServerError, "INVALIDATE_ERROR", "Route cache invalidation failed: "+err.Error(), nil)
		return
	}

	ac.logger.Info("Route cache cleared", zap.Duration("duration", time.Since(start)))
	c.JSON(http.StatusOK, responses.SuccessResponse{
		Success:   true,
		Message:   "Route cache cleared",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// GetStats returns store, cache and runtime statistics.
func (ac *AdminController) GetStats(c *gin.Context) {
	stats, err := services.CollectSystemStats(c.Request.Context(), ac.store, ac.cache, ac.startedAt)
	if err != nil {
		ac.logger.Error("Collecting stats failed", zap.Error(err))
		writeError(c, http.StatusInternalServerError, "STATS_ERROR", err.Error(), nil)
		return
	}
	c.JSON(http.StatusOK, stats)
}
