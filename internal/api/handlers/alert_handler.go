package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/voltline/inventory-backend/internal/domain"
	"github.com/voltline/inventory-backend/internal/service"
)

type AlertHandler struct {
	service *service.AlertService
}

func NewAlertHandler(service *service.AlertService) *AlertHandler {
	return &AlertHandler{service: service}
}

func (h *AlertHandler) History(c *gin.Context) {
	filter := domain.AlertFilter{
		Page:     1,
		PageSize: 50,
	}

	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && page > 0 {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("page_size", "50")); err == nil && size > 0 {
		filter.PageSize = size
	}
	if tier := strings.TrimSpace(c.Query("tier")); tier != "" {
		filter.Tier = strings.ToLower(tier)
	}
	if raw := strings.TrimSpace(c.Query("component_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid component_id, expected a UUID"})
			return
		}
		filter.ComponentID = &id
	}

	events, total, err := h.service.History(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"total":  total,
	})
}

// Send handles manager-initiated alert emails, including previews.
func (h *AlertHandler) Send(c *gin.Context) {
	var req service.ManualAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid alert payload", "details": err.Error()})
		return
	}
	if req.ComponentID == uuid.Nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "component_id is required"})
		return
	}

	outcome, err := h.service.SendManual(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, outcome)
}

// Evaluate re-runs the automatic pipeline for one component.
func (h *AlertHandler) Evaluate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	outcome, err := h.service.HandleStockChanged(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, outcome)
}
