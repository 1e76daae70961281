package mcp

// SubmitFrameOutput is the output for the submit_frame tool.
type SubmitFrameOutput struct {
	PayloadHex string `json:"payload_hex" jsonschema:"description=Reassembled response payload, hex-encoded"`
}

// GetStatusOutput is the output for the get_status tool.
type GetStatusOutput struct {
	Status          string `json:"status" jsonschema:"description=Connection status (disconnected/connected/failed)"`
	RTOMillis       int64  `json:"rto_ms" jsonschema:"description=Current adaptive retransmit timeout in milliseconds"`
	LastResetCode   string `json:"last_reset_code,omitempty" jsonschema:"description=Reset/error code reported by the NCP at the last handshake"`
	HandshakeTries  int    `json:"handshake_attempts,omitempty" jsonschema:"description=RST attempts the last handshake took"`
	HandshakeTookMs int64  `json:"handshake_elapsed_ms,omitempty" jsonschema:"description=Elapsed time of the last handshake in milliseconds"`
}
