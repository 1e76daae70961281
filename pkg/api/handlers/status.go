package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/ashv2/pkg/api/types"
	"github.com/urmzd/ashv2/pkg/ash"
	"github.com/urmzd/ashv2/pkg/config"
)

// StatusHandler reports live connection status and the most recent
// handshake diagnostics for the active link profile.
type StatusHandler struct {
	transceiver *ash.Transceiver
	store       *config.Store
	profileID   int64
}

// NewStatusHandler creates a new status handler.
func NewStatusHandler(transceiver *ash.Transceiver, store *config.Store, profileID int64) *StatusHandler {
	return &StatusHandler{transceiver: transceiver, store: store, profileID: profileID}
}

// Status handles GET /api/v1/status.
func (h *StatusHandler) Status(c *gin.Context) {
	resp := types.StatusResponse{
		Status:    h.transceiver.Status().String(),
		RTOMillis: h.transceiver.RTO().Milliseconds(),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if diag, err := h.store.LatestHandshake(ctx, h.profileID); err == nil {
		resp.LastResetCode = ash.ResetCode(diag.ResetCode).String()
		resp.HandshakeTries = diag.Attempts
		resp.HandshakeTookMs = diag.Elapsed.Milliseconds()
	}

	c.JSON(http.StatusOK, resp)
}
