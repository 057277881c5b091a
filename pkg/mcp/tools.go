package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/urmzd/roombridge/pkg/vacuum"
)

// registerTools registers all MCP tools with the server
func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("get_health",
			mcp.WithDescription("Check the bus connection, telemetry freshness and maintenance mode of the vacuum bridge"),
		),
		s.handleGetHealth,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("get_status",
			mcp.WithDescription("Get the latest vacuum telemetry: battery level, cleaning, docked, charging, voltage, current and charge"),
		),
		s.handleGetStatus,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("get_descriptor",
			mcp.WithDescription("Get the discovery descriptor the bridge announces on the message bus"),
		),
		s.handleGetDescriptor,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("send_command",
			mcp.WithDescription("Send a command to the vacuum. The call returns once the command bytes were written to the device."),
			mcp.WithString("command",
				mcp.Required(),
				mcp.Description("Command token"),
				mcp.Enum(vacuum.Tokens()...),
			),
		),
		s.handleSendCommand,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("set_maintenance",
			mcp.WithDescription("Pause (enabled=true) or resume (enabled=false) the telemetry stream and scheduler"),
			mcp.WithBoolean("enabled",
				mcp.Required(),
				mcp.Description("Whether maintenance mode is active"),
			),
		),
		s.handleSetMaintenance,
	)
}
