// cmd/webhook/main.go
//
// Standalone receiver for mail provider delivery webhooks. Runs apart
// from the API server so delivery callbacks keep working during API
// deploys.
package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/viper"

	"github.com/voltline/inventory-backend/internal/config"
	"github.com/voltline/inventory-backend/internal/repository"
	"github.com/voltline/inventory-backend/internal/repository/postgres"
	"github.com/voltline/inventory-backend/pkg/logger"
)

// deliveryEvent is the subset of the Resend webhook payload we use.
type deliveryEvent struct {
	Type string `json:"type"`
	Data struct {
		EmailID string `json:"email_id"`
	} `json:"data"`
}

var statusByEventType = map[string]string{
	"email.sent":       "sent",
	"email.delivered":  "delivered",
	"email.bounced":    "bounced",
	"email.complained": "complained",
}

type webhookHandler struct {
	alerts repository.AlertRepository
}

func (h *webhookHandler) handleDelivery(w http.ResponseWriter, r *http.Request) {
	var event deliveryEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	status, ok := statusByEventType[event.Type]
	if !ok {
		// unknown event types are acknowledged and dropped
		w.WriteHeader(http.StatusOK)
		return
	}
	if event.Data.EmailID == "" {
		http.Error(w, "missing email_id", http.StatusBadRequest)
		return
	}

	if err := h.alerts.UpdateEventStatus(r.Context(), event.Data.EmailID, status); err != nil {
		logger.Log.Warn().
			Err(err).
			Str("message_id", event.Data.EmailID).
			Str("status", status).
			Msg("delivery status update failed")
		// the provider retries on 5xx; a message we never sent is not an error
		w.WriteHeader(http.StatusOK)
		return
	}

	logger.Log.Info().
		Str("message_id", event.Data.EmailID).
		Str("status", status).
		Msg("delivery status recorded")
	w.WriteHeader(http.StatusOK)
}

func main() {
	cfg := config.Load()
	logger.SetLevel(cfg.Server.Mode)

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	handler := &webhookHandler{alerts: postgres.NewAlertRepository(db.DB)}

	router := mux.NewRouter()
	router.HandleFunc("/webhooks/mail", handler.handleDelivery).Methods(http.MethodPost)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	viper.SetDefault("WEBHOOK_PORT", "8081")
	port := viper.GetString("WEBHOOK_PORT")

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", port).Msg("Starting webhook receiver")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start webhook receiver")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down webhook receiver...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Webhook receiver forced to shutdown")
	}
}
