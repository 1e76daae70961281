package handlers

import (
	"encoding/hex"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/ashv2/pkg/api/types"
	"github.com/urmzd/ashv2/pkg/ash"
)

// CallbacksHandler drains unsolicited DATA payloads the transceiver
// received with no request awaiting them.
type CallbacksHandler struct {
	transceiver *ash.Transceiver
}

// NewCallbacksHandler creates a new callbacks handler.
func NewCallbacksHandler(transceiver *ash.Transceiver) *CallbacksHandler {
	return &CallbacksHandler{transceiver: transceiver}
}

// Next handles GET /api/v1/callbacks: returns one pending payload, or 204
// if none is currently buffered. Non-blocking.
func (h *CallbacksHandler) Next(c *gin.Context) {
	select {
	case payload := <-h.transceiver.Callbacks():
		c.JSON(http.StatusOK, types.CallbackResponse{PayloadHex: hex.EncodeToString(payload)})
	default:
		c.Status(http.StatusNoContent)
	}
}
