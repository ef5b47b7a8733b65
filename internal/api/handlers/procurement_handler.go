package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voltline/inventory-backend/internal/service"
)

type ProcurementHandler struct {
	service *service.ProcurementService
}

func NewProcurementHandler(service *service.ProcurementService) *ProcurementHandler {
	return &ProcurementHandler{service: service}
}

func (h *ProcurementHandler) Worklist(c *gin.Context) {
	items, err := h.service.Worklist(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": len(items),
	})
}

func (h *ProcurementHandler) ComponentDetail(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	item, err := h.service.ComponentDetail(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}
