package routes

import (
	"github.com/gin-gonic/gin"
)

// SetupWebRoutes registers the service index.
func SetupWebRoutes(router *gin.Engine) {
	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Centros Educativos Finder",
			"version": "1.0.0",
			"docs":    "/docs",
		})
	})

	router.GET("/docs", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"api": "Centros API v1",
			"endpoints": map[string]string{
				"list":        "GET /v1/centros",
				"types":       "GET /v1/centros/tipos",
				"suggestions": "GET /v1/centros/sugerencias?q=",
				"export":      "GET /v1/centros/export",
				"import":      "POST /v1/admin/import[?dry_run=true]",
				"invalidate":  "POST /v1/admin/cache/invalidate",
				"stats":       "GET /v1/admin/stats",
				"health":      "GET /v1/health",
			},
		})
	})
}
