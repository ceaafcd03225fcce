// ABOUTME: MCP server exposing the 90-day tracker to agents over stdio.
// ABOUTME: Acts as the long-lived background host sharing one Gate and Store with the CLI.
package mcp

import (
	"context"

	"github.com/harperreed/salesquest/internal/app"
	"github.com/harperreed/salesquest/internal/logging"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is reported in the MCP implementation info.
const Version = "1.0.0"

// Server wraps the MCP server with a loaded session.
type Server struct {
	mcpServer *mcp.Server
	session   *app.Session
	log       logging.Logger
}

// NewServer creates a new MCP server over session.
func NewServer(session *app.Session, log logging.Logger) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "salesquest",
			Version: Version,
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		session:   session,
		log:       log,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	s.log.Info().Str("version", Version).Msg("mcp server starting on stdio")
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
