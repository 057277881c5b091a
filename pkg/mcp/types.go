package mcp

import (
	"github.com/urmzd/roombridge/pkg/device"
	"github.com/urmzd/roombridge/pkg/vacuum"
)

// GetHealthOutput is the output for the get_health tool
type GetHealthOutput struct {
	Status      string `json:"status" jsonschema:"description=Overall health status (healthy, degraded or maintenance)"`
	Bus         string `json:"bus" jsonschema:"description=Message bus connection status"`
	Link        string `json:"link" jsonschema:"description=Telemetry stream status (streaming or stale)"`
	SampleAgeMs uint32 `json:"sample_age_ms" jsonschema:"description=Age of the latest decoded sample in milliseconds"`
	Timestamp   string `json:"timestamp" jsonschema:"description=ISO8601 timestamp"`
}

// GetStatusOutput is the output for the get_status tool
type GetStatusOutput struct {
	Entity string        `json:"entity" jsonschema:"description=Bus entity ID of the vacuum"`
	Status vacuum.Status `json:"status" jsonschema:"description=Latest telemetry in the published status format"`
}

// GetDescriptorOutput is the output for the get_descriptor tool
type GetDescriptorOutput struct {
	Device     device.Info       `json:"device" jsonschema:"description=Vacuum summary and accepted commands"`
	Descriptor vacuum.Descriptor `json:"descriptor" jsonschema:"description=Discovery descriptor"`
}

// SendCommandOutput is the output for the send_command tool
type SendCommandOutput struct {
	Success bool   `json:"success" jsonschema:"description=Whether the command was sent"`
	Command string `json:"command" jsonschema:"description=Command token"`
	Message string `json:"message" jsonschema:"description=Status message"`
}

// SetMaintenanceOutput is the output for the set_maintenance tool
type SetMaintenanceOutput struct {
	Success bool   `json:"success" jsonschema:"description=Whether the mode change succeeded"`
	Enabled bool   `json:"enabled" jsonschema:"description=Maintenance mode after the call"`
	Message string `json:"message" jsonschema:"description=Status message"`
}
