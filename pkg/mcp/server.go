package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/urmzd/ashv2/pkg/ash"
	"github.com/urmzd/ashv2/pkg/config"
)

// Server wraps the MCP server, exposing the transceiver's submit/status
// contract as tools for an MCP client.
type Server struct {
	mcpServer   *server.MCPServer
	transceiver *ash.Transceiver
	store       *config.Store
	profileID   int64
}

// NewServer creates a new MCP server over a running transceiver. store and
// profileID back get_status's handshake diagnostics, matching the REST
// host's status endpoint.
func NewServer(transceiver *ash.Transceiver, store *config.Store, profileID int64) *Server {
	s := &Server{
		transceiver: transceiver,
		store:       store,
		profileID:   profileID,
	}

	s.mcpServer = server.NewMCPServer(
		"ashd",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s.registerTools()

	return s
}

// ServeStdio starts the MCP server using stdio transport.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
