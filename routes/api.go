package routes

import (
	"github.com/centros-finder/app/controllers"
	"github.com/gin-gonic/gin"
)

// SetupAPIRoutes registers the /v1 routes.
func SetupAPIRoutes(router *gin.Engine, centerController *controllers.CenterController, adminController *controllers.AdminController) {
	v1 := router.Group("/v1")
	{
		centros := v1.Group("/centros")
		{
			centros.GET("", centerController.List)
			centros.GET("/tipos", centerController.Types)
			centros.GET("/sugerencias", centerController.Suggest)
			centros.GET("/export", centerController.Export)
		}

		admin := v1.Group("/admin")
		{
			admin.POST("/import", adminController.Import)
			admin.POST("/cache/invalidate", adminController.InvalidateCache)
			admin.GET("/stats", adminController.GetStats)
		}

		v1.GET("/health", centerController.HealthCheck)
	}
}

// SetupHealthRoutes registers the probe routes.
func SetupHealthRoutes(router *gin.Engine, centerController *controllers.CenterController) {
	router.GET("/health", centerController.HealthCheck)
	router.GET("/ready", centerController.HealthCheck)
	router.GET("/live", centerController.HealthCheck)
}

// SetupAllRoutes installs middleware and every route.
func SetupAllRoutes(router *gin.Engine, centerController *controllers.CenterController, adminController *controllers.AdminController) {
	setupMiddleware(router)

	SetupWebRoutes(router)
	SetupHealthRoutes(router, centerController)
	SetupAPIRoutes(router, centerController, adminController)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"error":  "Route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})
}

func setupMiddleware(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(RequestID())
}
