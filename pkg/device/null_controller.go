package device

import (
	"context"

	"github.com/urmzd/roombridge/pkg/vacuum"
)

// NullController is a no-op controller used when the vacuum link is
// unavailable. It lets the API run in limited mode.
type NullController struct{}

// NewNullController creates a new NullController.
func NewNullController() *NullController {
	return &NullController{}
}

func (c *NullController) Info() Info {
	return Info{
		Manufacturer:  vacuum.Manufacturer,
		Transport:     TransportNone,
		Commands:      vacuum.Tokens(),
		CommandSchema: CommandSchema(),
	}
}

func (c *NullController) Health() Health {
	return Health{}
}

func (c *NullController) Status(ctx context.Context) (vacuum.Status, error) {
	return vacuum.Status{}, ErrNotConnected
}

func (c *NullController) Descriptor() vacuum.Descriptor {
	return vacuum.Descriptor{}
}

func (c *NullController) SendCommand(ctx context.Context, token string) error {
	return ErrNotConnected
}

func (c *NullController) SetMaintenance(ctx context.Context, enabled bool) error {
	return ErrNotConnected
}

func (c *NullController) IsConnected() bool {
	return false
}

func (c *NullController) Close() {}

// NullEventSubscriber is a no-op event subscriber used with NullController.
type NullEventSubscriber struct{}

// NewNullEventSubscriber creates a new NullEventSubscriber.
func NewNullEventSubscriber() *NullEventSubscriber {
	return &NullEventSubscriber{}
}

func (s *NullEventSubscriber) Subscribe() chan StatusEvent {
	// Never sent to; callers should check IsConnected() on the controller
	return make(chan StatusEvent)
}

func (s *NullEventSubscriber) Unsubscribe(ch chan StatusEvent) {
	close(ch)
}
