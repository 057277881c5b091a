package device

import (
	"context"

	"github.com/urmzd/roombridge/pkg/vacuum"
)

// Controller is the control surface of a bridged vacuum, shared by the
// HTTP API and the MCP server.
type Controller interface {
	// Info describes the vacuum and the commands it accepts
	Info() Info

	// Health reports link, bus and maintenance status
	Health() Health

	// Status returns the latest decoded telemetry as a status document
	Status(ctx context.Context) (vacuum.Status, error)

	// Descriptor returns the discovery document announced on the bus
	Descriptor() vacuum.Descriptor

	// SendCommand queues a command token and waits for it to run
	SendCommand(ctx context.Context, token string) error

	// SetMaintenance pauses or resumes the telemetry link
	SetMaintenance(ctx context.Context, enabled bool) error

	// IsConnected returns true if the message bus is connected
	IsConnected() bool

	// Close disconnects the controller
	Close()
}

// EventSubscriber defines the interface for subscribing to status events
type EventSubscriber interface {
	// Subscribe returns a channel that receives status events
	Subscribe() chan StatusEvent

	// Unsubscribe removes a subscription
	Unsubscribe(ch chan StatusEvent)
}
