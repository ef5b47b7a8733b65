package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/voltline/inventory-backend/internal/domain"
	"github.com/voltline/inventory-backend/internal/service"
)

type ComponentHandler struct {
	service *service.InventoryService
}

func NewComponentHandler(service *service.InventoryService) *ComponentHandler {
	return &ComponentHandler{service: service}
}

func (h *ComponentHandler) parseFilter(c *gin.Context) domain.ComponentFilter {
	filter := domain.ComponentFilter{
		Page:     1,
		PageSize: 50,
	}

	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && page > 0 {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("page_size", "50")); err == nil && size > 0 {
		filter.PageSize = size
	}
	if category := strings.TrimSpace(c.Query("category")); category != "" {
		filter.Category = category
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		filter.Search = search
	}

	return filter
}

func (h *ComponentHandler) List(c *gin.Context) {
	filter := h.parseFilter(c)
	components, total, err := h.service.ListComponents(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"components": components,
		"total":      total,
	})
}

func (h *ComponentHandler) Create(c *gin.Context) {
	var component domain.Component
	if err := c.ShouldBindJSON(&component); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid component payload", "details": err.Error()})
		return
	}

	if err := h.service.CreateComponent(c.Request.Context(), &component); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, component)
}

func (h *ComponentHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	component, err := h.service.GetComponent(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, component)
}

func (h *ComponentHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var component domain.Component
	if err := c.ShouldBindJSON(&component); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid component payload", "details": err.Error()})
		return
	}
	component.ID = id

	outcome, err := h.service.UpdateComponent(c.Request.Context(), &component)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"component": component,
		"alert":     outcome,
	})
}

func (h *ComponentHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.service.DeleteComponent(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type logUsageRequest struct {
	UnitsUsed int    `json:"units_used"`
	Date      string `json:"date"`
}

func (h *ComponentHandler) LogUsage(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req logUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid usage payload", "details": err.Error()})
		return
	}

	var date time.Time
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	outcome, err := h.service.LogUsage(c.Request.Context(), id, req.UnitsUsed, date)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"alert": outcome})
}

func (h *ComponentHandler) ListUsage(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	days, _ := strconv.Atoi(c.DefaultQuery("days", "90"))
	if days <= 0 {
		days = 90
	}
	since := time.Now().UTC().AddDate(0, 0, -days)

	records, err := h.service.ListUsage(c.Request.Context(), id, since)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"usage": records})
}

func (h *ComponentHandler) ListOffers(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	offers, err := h.service.ListOffers(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"offers": offers})
}

func (h *ComponentHandler) UpsertOffer(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var offer domain.SupplierOffer
	if err := c.ShouldBindJSON(&offer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offer payload", "details": err.Error()})
		return
	}
	offer.ComponentID = id

	if err := h.service.UpsertOffer(c.Request.Context(), &offer); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, offer)
}

func (h *ComponentHandler) DeleteOffer(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.service.DeleteOffer(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
