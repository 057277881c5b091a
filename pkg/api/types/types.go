package types

import (
	"time"

	"github.com/urmzd/roombridge/pkg/device"
	"github.com/urmzd/roombridge/pkg/vacuum"
)

// --- Request DTOs ---

// CommandRequest is the request body for POST /commands
type CommandRequest struct {
	Command string `json:"command" example:"start"`
}

// MaintenanceRequest is the request body for PUT /maintenance
type MaintenanceRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// --- Response DTOs ---

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is returned from GET /health
type HealthResponse struct {
	Status      string    `json:"status"`
	Bus         string    `json:"bus"`
	Link        string    `json:"link"`
	Maintenance bool      `json:"maintenance"`
	SampleAgeMs uint32    `json:"sample_age_ms"`
	Timestamp   time.Time `json:"timestamp"`
}

// StatusResponse is returned from GET /status
type StatusResponse struct {
	Entity    string        `json:"entity"`
	Status    vacuum.Status `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
}

// DescriptorResponse is returned from GET /descriptor
type DescriptorResponse struct {
	Device     device.Info       `json:"device"`
	Descriptor vacuum.Descriptor `json:"descriptor"`
	Topics     TopicsResponse    `json:"topics"`
}

// TopicsResponse lists the absolute bus topics of the entity
type TopicsResponse struct {
	Command string `json:"command"`
	State   string `json:"state"`
}

// CommandResponse is returned from POST /commands
type CommandResponse struct {
	Command   string    `json:"command"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// MaintenanceResponse is returned from PUT /maintenance
type MaintenanceResponse struct {
	Enabled   bool      `json:"enabled"`
	Timestamp time.Time `json:"timestamp"`
}
