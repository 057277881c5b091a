package mcp

import (
	"context"
	"errors"
	"io"

	"github.com/mark3labs/mcp-go/server"
	"github.com/urmzd/roombridge/pkg/device"
	"github.com/urmzd/roombridge/pkg/device/schema"
)

// Server wraps the MCP server with the vacuum control tools
type Server struct {
	mcpServer  *server.MCPServer
	controller device.Controller
	validator  *schema.Validator
}

// NewServer creates a new MCP server for vacuum control
func NewServer(controller device.Controller, validator *schema.Validator, version string) *Server {
	s := &Server{
		controller: controller,
		validator:  validator,
	}

	s.mcpServer = server.NewMCPServer(
		"roombridge",
		version,
		server.WithToolCapabilities(true),
	)

	s.registerTools()

	return s
}

// Serve runs the stdio transport over in and out until in is exhausted or
// ctx is done. Cancellation is not reported as an error.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	err := server.NewStdioServer(s.mcpServer).Listen(ctx, in, out)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
