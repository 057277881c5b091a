package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/urmzd/roombridge/pkg/device"
	"github.com/urmzd/roombridge/pkg/vacuum"
)

func (s *Server) handleGetHealth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	health := s.controller.Health()

	bus := "disconnected"
	if health.Bus {
		bus = "connected"
	}
	link := "stale"
	if health.Link {
		link = "streaming"
	}

	status := "healthy"
	switch {
	case health.Maintenance:
		status = "maintenance"
	case !health.Bus || !health.Link:
		status = "degraded"
	}

	out := GetHealthOutput{
		Status:      status,
		Bus:         bus,
		Link:        link,
		SampleAgeMs: health.SampleAgeMs,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}

	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := s.controller.Status(ctx)
	if err != nil {
		if errors.Is(err, vacuum.ErrCapacityUnknown) {
			return mcp.NewToolResultError("no telemetry sample with battery capacity yet; try again in a few seconds"), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to get status: %s", err)), nil
	}

	out := GetStatusOutput{
		Entity: s.controller.Info().EntityID,
		Status: status,
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleGetDescriptor(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out := GetDescriptorOutput{
		Device:     s.controller.Info(),
		Descriptor: s.controller.Descriptor(),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleSendCommand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	token, err := requiredString(request, "command")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.validator.Validate(device.CommandSchema(), map[string]any{"command": token}); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid command %q: %s", token, err)), nil
	}

	if err := s.controller.SendCommand(ctx, token); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to send command: %s", err)), nil
	}

	out := SendCommandOutput{
		Success: true,
		Command: token,
		Message: fmt.Sprintf("Command %q sent", token),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleSetMaintenance(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, ok := request.GetArguments()["enabled"]
	enabled, isBool := v.(bool)
	if !ok || !isBool {
		return mcp.NewToolResultError(`parameter "enabled" must be a boolean`), nil
	}

	if err := s.controller.SetMaintenance(ctx, enabled); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to set maintenance mode: %s", err)), nil
	}

	msg := "Maintenance mode disabled, telemetry resumed"
	if enabled {
		msg = "Maintenance mode enabled, telemetry paused"
	}
	out := SetMaintenanceOutput{
		Success: true,
		Enabled: enabled,
		Message: msg,
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
