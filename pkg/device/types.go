package device

import (
	"encoding/json"
	"time"

	"github.com/urmzd/roombridge/pkg/vacuum"
)

// Info describes the bridged vacuum.
type Info struct {
	EntityID      string          `json:"entity_id"`      // Bus entity ID (prefix + MAC)
	Name          string          `json:"name"`           // Friendly name
	Manufacturer  string          `json:"manufacturer"`   // Device manufacturer
	Model         string          `json:"model"`          // Device model
	Transport     string          `json:"transport"`      // serial or websocket
	Commands      []string        `json:"commands"`       // Accepted command tokens
	CommandSchema json.RawMessage `json:"command_schema"` // JSON Schema for command requests
}

// Health summarizes the state of the bridge links.
type Health struct {
	Link        bool   `json:"link"`          // A sample has been decoded recently
	Bus         bool   `json:"bus"`           // Message bus connected
	Maintenance bool   `json:"maintenance"`   // Link paused for maintenance
	SampleAgeMs uint32 `json:"sample_age_ms"` // Age of the latest decoded sample
}

// StatusEvent is pushed to subscribers
type StatusEvent struct {
	Type        string         `json:"type"`                  // Event type (status, maintenance)
	Status      *vacuum.Status `json:"status,omitempty"`      // Published status, for status events
	Maintenance *bool          `json:"maintenance,omitempty"` // New mode, for maintenance events
	Timestamp   time.Time      `json:"timestamp"`             // When the event occurred
}

// Event type constants
const (
	EventStatus      = "status"
	EventMaintenance = "maintenance"
)

// Transport constants
const (
	TransportSerial    = "serial"
	TransportWebSocket = "websocket"
	TransportNone      = "none"
)
