package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voltline/inventory-backend/internal/domain"
	"github.com/voltline/inventory-backend/internal/service"
)

type SupplierHandler struct {
	service *service.InventoryService
}

func NewSupplierHandler(service *service.InventoryService) *SupplierHandler {
	return &SupplierHandler{service: service}
}

func (h *SupplierHandler) List(c *gin.Context) {
	suppliers, err := h.service.ListSuppliers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"suppliers": suppliers})
}

func (h *SupplierHandler) Create(c *gin.Context) {
	var supplier domain.Supplier
	if err := c.ShouldBindJSON(&supplier); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid supplier payload", "details": err.Error()})
		return
	}

	if err := h.service.CreateSupplier(c.Request.Context(), &supplier); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, supplier)
}

func (h *SupplierHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	supplier, err := h.service.GetSupplier(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, supplier)
}

func (h *SupplierHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var supplier domain.Supplier
	if err := c.ShouldBindJSON(&supplier); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid supplier payload", "details": err.Error()})
		return
	}
	supplier.ID = id

	if err := h.service.UpdateSupplier(c.Request.Context(), &supplier); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, supplier)
}

func (h *SupplierHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.service.DeleteSupplier(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
