package handlers

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/ashv2/pkg/api/envelope"
	"github.com/urmzd/ashv2/pkg/api/types"
	"github.com/urmzd/ashv2/pkg/ash"
)

// FramesHandler submits host payloads to the transceiver and returns the
// reassembled response.
type FramesHandler struct {
	transceiver *ash.Transceiver
	validator   *envelope.Validator
}

// NewFramesHandler creates a new frames handler.
func NewFramesHandler(transceiver *ash.Transceiver, validator *envelope.Validator) *FramesHandler {
	return &FramesHandler{transceiver: transceiver, validator: validator}
}

// Submit handles POST /api/v1/frames.
func (h *FramesHandler) Submit(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "invalid_body", Message: err.Error()})
		return
	}

	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "invalid_json", Message: err.Error()})
		return
	}
	if err := h.validator.Validate(body); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "invalid_envelope", Message: err.Error()})
		return
	}

	var req types.FrameRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "invalid_envelope", Message: err.Error()})
		return
	}

	payload, err := hex.DecodeString(req.PayloadHex)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "invalid_hex", Message: err.Error()})
		return
	}

	resp, err := h.transceiver.Submit(payload)
	if err != nil {
		c.JSON(statusForSubmitError(err), types.ErrorResponse{Error: "submit_failed", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, types.FrameResponse{PayloadHex: hex.EncodeToString(resp)})
}

func statusForSubmitError(err error) int {
	switch {
	case errors.Is(err, ash.ErrTerminated), errors.Is(err, ash.ErrNotConnected):
		return http.StatusServiceUnavailable
	case errors.Is(err, ash.ErrPayloadTooSmall), errors.Is(err, ash.ErrCannotFragment):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}
