// Package mcptools serves the user operations to MCP hosts.
package mcptools

import (
	"context"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"
	"github.com/userfront/userfront/client"
)

// ServerName identifies this server to MCP hosts.
const ServerName = "userfront-mcp"

// NewServer builds an MCP server with every user tool registered.
func NewServer(c *client.Client, version string) (*server.MCPServer, error) {
	s := server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(true),
	)
	if err := NewUserHandler(c).RegisterTools(s); err != nil {
		return nil, err
	}
	return s, nil
}

// SessionExpired is the client hook for MCP sessions: there is no page to
// navigate to, so the host is only told through the log and the tool error.
func SessionExpired(ctx context.Context) {
	log.Warn().Msg("backend rejected the stored token; run `userfront login` again")
}

// ServeStdio serves s over stdin/stdout until the host disconnects.
func ServeStdio(s *server.MCPServer) error {
	log.Info().Msg("Starting userfront MCP server (stdio transport)")
	return server.ServeStdio(s)
}
