package link

import (
	"context"
	"errors"
	"time"

	"github.com/urmzd/roombridge/pkg/vacuum"
)

// ErrLinkDown indicates the connection to the vacuum is gone for good.
// Device.Poll wraps it once buffered frames have been drained.
var ErrLinkDown = errors.New("vacuum link down")

// Device is the serial link to the vacuum.
type Device interface {
	// Wake pulses the wake line, settles and sends Start.
	Wake() error

	// WakeOnDock wakes a docked device without letting it fall asleep.
	WakeOnDock() error

	// Run executes actions in order, sleeping for each settle delay.
	Run(actions []vacuum.Action) error

	// RequestStream asks the device to (re)start the sensor stream.
	RequestStream() error

	// Poll returns the next complete stream frame body, or nil when none
	// has arrived. It never blocks.
	Poll() ([]byte, error)

	// DroppedBytes is the running count of bytes discarded while the
	// stream parser hunted for a frame header.
	DroppedBytes() int
}

// Bus is the message bus link.
type Bus interface {
	Connected() bool
	Connect(ctx context.Context) error
	Publish(topic string, payload []byte, retained bool) error
}

// SupplyMonitor samples the supply voltage.
type SupplyMonitor interface {
	ReadMillivolts() (float64, error)
}

// Suspender halts the bridge to protect a low battery.
type Suspender interface {
	Suspend(ctx context.Context, d time.Duration) error
}

// Maintenance reports whether a maintenance task owns the link.
type Maintenance interface {
	Active() bool
}

// Observer is notified of every published status.
type Observer interface {
	StatusPublished(status vacuum.Status)
}
