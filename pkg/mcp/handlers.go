package mcp

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/urmzd/ashv2/pkg/ash"
)

func (s *Server) handleSubmitFrame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	payloadHex, err := requiredString(request, "payload_hex")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	payload, err := hex.DecodeString(payloadHex)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("payload_hex is not valid hex: %s", err)), nil
	}

	resp, err := s.transceiver.Submit(payload)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("submit failed: %s", err)), nil
	}

	out := SubmitFrameOutput{PayloadHex: hex.EncodeToString(resp)}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out := GetStatusOutput{
		Status:    s.transceiver.Status().String(),
		RTOMillis: s.transceiver.RTO().Milliseconds(),
	}

	queryCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if diag, err := s.store.LatestHandshake(queryCtx, s.profileID); err == nil {
		out.LastResetCode = ash.ResetCode(diag.ResetCode).String()
		out.HandshakeTries = diag.Attempts
		out.HandshakeTookMs = diag.Elapsed.Milliseconds()
	}

	return mcp.NewToolResultText(formatJSON(out)), nil
}

// --- helpers ---

func requiredString(request mcp.CallToolRequest, key string) (string, error) {
	args := request.GetArguments()
	v, ok := args[key]
	if !ok || v == nil {
		return "", fmt.Errorf("required parameter %q is missing", key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("parameter %q must be a non-empty string", key)
	}
	return s, nil
}

func formatJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error":"failed to marshal response: %s"}`, err)
	}
	return string(b)
}
