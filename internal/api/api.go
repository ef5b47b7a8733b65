// internal/api/api.go
package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/voltline/inventory-backend/internal/api/handlers"
	"github.com/voltline/inventory-backend/internal/api/middleware"
	"github.com/voltline/inventory-backend/internal/service"
)

type Services struct {
	Inventory   *service.InventoryService
	Alerts      *service.AlertService
	Procurement *service.ProcurementService
	Dashboard   *service.DashboardService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(gin.Recovery())

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services == nil {
		return router
	}

	if services.Inventory != nil {
		componentHandler := handlers.NewComponentHandler(services.Inventory)
		componentGroup := apiGroup.Group("/components")
		{
			componentGroup.GET("", componentHandler.List)
			componentGroup.POST("", componentHandler.Create)
			componentGroup.GET("/:id", componentHandler.Get)
			componentGroup.PUT("/:id", componentHandler.Update)
			componentGroup.DELETE("/:id", componentHandler.Delete)
			componentGroup.POST("/:id/usage", componentHandler.LogUsage)
			componentGroup.GET("/:id/usage", componentHandler.ListUsage)
			componentGroup.GET("/:id/offers", componentHandler.ListOffers)
			componentGroup.PUT("/:id/offers", componentHandler.UpsertOffer)
		}
		apiGroup.DELETE("/offers/:id", componentHandler.DeleteOffer)

		supplierHandler := handlers.NewSupplierHandler(services.Inventory)
		supplierGroup := apiGroup.Group("/suppliers")
		{
			supplierGroup.GET("", supplierHandler.List)
			supplierGroup.POST("", supplierHandler.Create)
			supplierGroup.GET("/:id", supplierHandler.Get)
			supplierGroup.PUT("/:id", supplierHandler.Update)
			supplierGroup.DELETE("/:id", supplierHandler.Delete)
		}

		orderHandler := handlers.NewOrderHandler(services.Inventory)
		orderGroup := apiGroup.Group("/orders")
		{
			orderGroup.GET("", orderHandler.List)
			orderGroup.POST("", orderHandler.Create)
			orderGroup.GET("/:id", orderHandler.Get)
			orderGroup.PUT("/:id/status", orderHandler.UpdateStatus)
		}
	}

	if services.Procurement != nil {
		procurementHandler := handlers.NewProcurementHandler(services.Procurement)
		procurementGroup := apiGroup.Group("/procurement")
		{
			procurementGroup.GET("/worklist", procurementHandler.Worklist)
			procurementGroup.GET("/components/:id", procurementHandler.ComponentDetail)
		}
	}

	if services.Alerts != nil {
		alertHandler := handlers.NewAlertHandler(services.Alerts)
		alertGroup := apiGroup.Group("/alerts")
		{
			alertGroup.GET("/history", alertHandler.History)
			alertGroup.POST("/send", alertHandler.Send)
			alertGroup.POST("/evaluate/:id", alertHandler.Evaluate)
		}
	}

	if services.Dashboard != nil {
		dashboardHandler := handlers.NewDashboardHandler(services.Dashboard)
		dashboardGroup := apiGroup.Group("/dashboard")
		{
			dashboardGroup.GET("/metrics", dashboardHandler.Metrics)
			dashboardGroup.GET("/usage_trend", dashboardHandler.UsageTrend)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
