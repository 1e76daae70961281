// Package types holds the request/response DTOs for the REST host.
package types

import "time"

// FrameRequest is the request body for POST /api/v1/frames: an opaque
// payload, hex-encoded so it survives JSON transport unambiguously.
type FrameRequest struct {
	PayloadHex string `json:"payload_hex"`
}

// FrameResponse is returned from POST /api/v1/frames on success.
type FrameResponse struct {
	PayloadHex string `json:"payload_hex"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// StatusResponse is returned from GET /api/v1/status.
type StatusResponse struct {
	Status          string `json:"status"`
	RTOMillis       int64  `json:"rto_ms"`
	LastResetCode   string `json:"last_reset_code,omitempty"`
	HandshakeTries  int    `json:"handshake_attempts,omitempty"`
	HandshakeTookMs int64  `json:"handshake_elapsed_ms,omitempty"`
}

// CallbackResponse is returned from GET /api/v1/callbacks when a pending
// unsolicited DATA payload is available.
type CallbackResponse struct {
	PayloadHex string `json:"payload_hex"`
}

// HealthResponse is returned from GET /health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Link      string    `json:"link"`
	Timestamp time.Time `json:"timestamp"`
}
