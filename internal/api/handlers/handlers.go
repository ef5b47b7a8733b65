// Package handlers holds the gin HTTP handlers. Each handler is a thin
// shim over a service; domain errors map onto HTTP statuses here and
// nowhere else.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/voltline/inventory-backend/internal/domain"
)

func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrTransportFailure):
		status = http.StatusBadGateway
	}

	c.JSON(status, gin.H{"error": err.Error()})
}

func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id, expected a UUID"})
		return uuid.Nil, false
	}
	return id, true
}
