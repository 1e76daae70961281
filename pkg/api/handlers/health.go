package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/ashv2/pkg/api/types"
	"github.com/urmzd/ashv2/pkg/ash"
)

// HealthHandler handles the root and API health endpoints.
type HealthHandler struct {
	transceiver *ash.Transceiver
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(transceiver *ash.Transceiver) *HealthHandler {
	return &HealthHandler{transceiver: transceiver}
}

// Health handles GET /health and GET /api/v1/health.
func (h *HealthHandler) Health(c *gin.Context) {
	linkStatus := h.transceiver.Status().String()

	status := "healthy"
	httpStatus := http.StatusOK
	if h.transceiver.Status() != ash.StatusConnected {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, types.HealthResponse{
		Status:    status,
		Link:      linkStatus,
		Timestamp: time.Now(),
	})
}
