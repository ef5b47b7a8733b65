// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/voltline/inventory-backend/internal/api"
	"github.com/voltline/inventory-backend/internal/cache"
	"github.com/voltline/inventory-backend/internal/config"
	"github.com/voltline/inventory-backend/internal/mail"
	"github.com/voltline/inventory-backend/internal/repository/postgres"
	"github.com/voltline/inventory-backend/internal/service"
	"github.com/voltline/inventory-backend/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	dashboardCache, err := cache.NewDashboardCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("cache unavailable, continuing without it")
		dashboardCache = cache.NewNoopDashboardCache()
	}

	transport, err := buildTransport(cfg.Mail)
	if err != nil {
		log.Fatalf("Failed to set up mail transport: %v", err)
	}

	componentRepo := postgres.NewComponentRepository(db.DB)
	supplierRepo := postgres.NewSupplierRepository(db.DB)
	offerRepo := postgres.NewOfferRepository(db.DB)
	usageRepo := postgres.NewUsageRepository(db.DB)
	orderRepo := postgres.NewOrderRepository(db.DB)
	alertRepo := postgres.NewAlertRepository(db.DB)
	metricsRepo := postgres.NewMetricsRepository(db.DB)

	alertService := service.NewAlertService(db, componentRepo, offerRepo, orderRepo, alertRepo, transport)
	inventoryService := service.NewInventoryService(componentRepo, supplierRepo, offerRepo, usageRepo, orderRepo, alertService, dashboardCache)
	procurementService := service.NewProcurementService(componentRepo, offerRepo, orderRepo)
	dashboardService := service.NewDashboardService(metricsRepo, dashboardCache)

	router := api.NewRouter(&api.Services{
		Inventory:   inventoryService,
		Alerts:      alertService,
		Procurement: procurementService,
		Dashboard:   dashboardService,
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

func buildTransport(cfg config.MailConfig) (mail.Transport, error) {
	if !cfg.Enabled {
		logger.Log.Info().Msg("mail delivery disabled, alerts will be logged only")
		return mail.NewLogTransport(), nil
	}

	return mail.NewResendTransport(cfg)
}
