package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/centros-finder/app/config"
	"github.com/centros-finder/app/controllers"
	"github.com/centros-finder/app/services"
	"github.com/centros-finder/routes"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Cannot load configuration: %v", err)
	}

	// 2. Logger
	logger, err := config.NewLogger(cfg.App.Env)
	if err != nil {
		log.Fatalf("Cannot initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting Centros Finder",
		zap.String("env", cfg.App.Env),
		zap.String("cache_backend", cfg.Cache.Backend))

	// 3. Store, caches, search and ranking
	ctx := context.Background()
	comp, err := services.NewComponents(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := comp.Close(closeCtx); err != nil {
			logger.Error("Error closing components", zap.Error(err))
		}
	}()

	// 4. Services
	centerService := services.NewCenterService(comp.Store, comp.Ranker, comp.Suggester(), logger)
	importService, err := services.NewImportService(comp.Store, comp.Indexer(), logger)
	if err != nil {
		logger.Fatal("Failed to load dataset profiles", zap.Error(err))
	}

	// 5. Controllers and routes
	centerController := controllers.NewCenterController(centerService, logger)
	adminController := controllers.NewAdminController(importService, comp.Sources(), comp.Store, comp.Cache, logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	routes.SetupAllRoutes(router, centerController, adminController)

	// 6. Serve until SIGINT/SIGTERM
	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server exited")
}
