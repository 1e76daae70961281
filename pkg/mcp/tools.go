package mcp

import "github.com/mark3labs/mcp-go/mcp"

// registerTools registers all MCP tools with the server.
func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("submit_frame",
			mcp.WithDescription("Submit a hex-encoded payload to the NCP over the ASH link and wait for the reassembled response"),
			mcp.WithString("payload_hex",
				mcp.Required(),
				mcp.Description("Payload to send, hex-encoded (two characters per byte)"),
			),
		),
		s.handleSubmitFrame,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("get_status",
			mcp.WithDescription("Report the current ASH link status, adaptive retransmit timeout, and last handshake diagnostics"),
		),
		s.handleGetStatus,
	)
}
