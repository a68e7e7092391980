package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/janhq/image-storage-api/internal/domain/image"
)

// healthServiceName is part of the /health contract and does not follow SERVICE_NAME.
const healthServiceName = "image-storage-api"

// HealthHandler answers liveness and readiness probes.
type HealthHandler struct {
	service *domain.Service
}

func NewHealthHandler(service *domain.Service) *HealthHandler {
	return &HealthHandler{service: service}
}

// Health godoc
// @Summary      Service health
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": healthServiceName})
}

// Ready reports 503 until both the metadata store and storage respond.
func (h *HealthHandler) Ready(c *gin.Context) {
	if err := h.service.Ready(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "content_sniffing": h.service.SnifferMode()})
}
