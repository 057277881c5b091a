package bridge

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/urmzd/roombridge/pkg/device"
	"github.com/urmzd/roombridge/pkg/link"
	"github.com/urmzd/roombridge/pkg/metrics"
	"github.com/urmzd/roombridge/pkg/vacuum"
)

// Device is the vacuum link the bridge owns.
type Device interface {
	link.Device
	Init() error
	PauseStream() error
	ResumeStream() error
	Close() error
}

// Bus is the message bus client the bridge owns.
type Bus interface {
	link.Bus
	Close()
}

// Config holds the identity and timing of one bridged vacuum.
type Config struct {
	Options    link.Options
	Topics     vacuum.Topics
	Descriptor vacuum.Descriptor
	Info       device.Info

	// TickInterval is the outer loop period.
	TickInterval time.Duration

	// CommandTimeout bounds how long SendCommand waits for the loop.
	CommandTimeout time.Duration
}

// Deps are optional collaborators. Clock defaults to a SystemClock.
type Deps struct {
	Clock     link.Clock
	Supply    link.SupplyMonitor
	Suspender link.Suspender
	Metrics   *metrics.Recorder
}

// Bridge runs the link scheduler loop and implements device.Controller
// and device.EventSubscriber for the HTTP and MCP surfaces.
type Bridge struct {
	cfg     Config
	device  Device
	bus     Bus
	clock   link.Clock
	sched   *link.Scheduler
	metrics *metrics.Recorder

	maintenance atomic.Bool

	subscribers   []chan device.StatusEvent
	subscribersMu sync.Mutex

	closeOnce sync.Once
}

// New wires a bridge. Nothing touches the device or bus until Run.
func New(cfg Config, dev Device, bus Bus, deps Deps) *Bridge {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = 10 * time.Millisecond
	}
	if cfg.CommandTimeout <= 0 {
		cfg.CommandTimeout = 30 * time.Second
	}
	if deps.Clock == nil {
		deps.Clock = link.NewSystemClock()
	}

	b := &Bridge{
		cfg:     cfg,
		device:  dev,
		bus:     bus,
		clock:   deps.Clock,
		metrics: deps.Metrics,
	}
	b.sched = link.NewScheduler(cfg.Options, link.Deps{
		Clock:       deps.Clock,
		Device:      dev,
		Bus:         bus,
		Topics:      cfg.Topics,
		Descriptor:  cfg.Descriptor,
		Supply:      deps.Supply,
		Suspender:   deps.Suspender,
		Maintenance: b,
		Observer:    b,
		Metrics:     deps.Metrics,
	})
	return b
}

// Run checks the supply, initializes the vacuum, connects the bus and
// ticks the scheduler until ctx is done. It returns an error wrapping
// link.ErrLinkDown if the vacuum connection is lost.
func (b *Bridge) Run(ctx context.Context) error {
	log.Info().Str("entity", b.cfg.Topics.EntityID).Msg("Initializing vacuum")
	if err := b.sched.Start(ctx, b.device.Init); err != nil {
		return fmt.Errorf("init vacuum: %w", err)
	}
	log.Info().Dur("tick", b.cfg.TickInterval).Msg("Bridge running")

	ticker := time.NewTicker(b.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Bridge stopped")
			return nil
		case <-ticker.C:
			if err := b.sched.Tick(ctx); err != nil {
				log.Error().Err(err).Msg("Vacuum link lost")
				return fmt.Errorf("vacuum link: %w", err)
			}
		}
	}
}

// HandleCommand queues a token received from the bus. It never blocks.
func (b *Bridge) HandleCommand(token string) {
	if err := b.sched.Submit(link.Request{Token: token, Source: "mqtt"}); err != nil {
		log.Warn().Err(err).Str("command", token).Msg("Dropping bus command")
		b.metrics.Command("dropped", err)
	}
}

// Active reports whether maintenance mode holds the link.
func (b *Bridge) Active() bool {
	return b.maintenance.Load()
}

// StatusPublished fans a published status out to subscribers.
func (b *Bridge) StatusPublished(status vacuum.Status) {
	b.publishEvent(device.StatusEvent{
		Type:      device.EventStatus,
		Status:    &status,
		Timestamp: time.Now(),
	})
}

// publishEvent sends an event to all subscribers. Slow subscribers miss events.
func (b *Bridge) publishEvent(evt device.StatusEvent) {
	b.subscribersMu.Lock()
	defer b.subscribersMu.Unlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- evt:
		default:
		}
	}
}

// --- device.Controller interface ---

func (b *Bridge) Info() device.Info {
	return b.cfg.Info
}

func (b *Bridge) Health() device.Health {
	state := b.sched.Store().Load()
	age := b.clock.Millis() - state.Timestamp
	fresh := state != (vacuum.State{}) && time.Duration(age)*time.Millisecond <= b.cfg.Options.StaleAfter

	return device.Health{
		Link:        fresh,
		Bus:         b.bus.Connected(),
		Maintenance: b.Active(),
		SampleAgeMs: age,
	}
}

func (b *Bridge) Status(_ context.Context) (vacuum.Status, error) {
	return vacuum.NewStatus(b.sched.Store().Load())
}

func (b *Bridge) Descriptor() vacuum.Descriptor {
	return b.cfg.Descriptor
}

// SendCommand queues token and waits until the loop has executed it.
// A command that times out is dropped by the loop rather than run late.
func (b *Bridge) SendCommand(ctx context.Context, token string) error {
	if b.Active() {
		return device.ErrMaintenance
	}

	ctx, cancel := context.WithTimeout(ctx, b.cfg.CommandTimeout)
	defer cancel()

	done := make(chan error, 1)
	if err := b.sched.Submit(link.Request{Token: token, Source: "api", Ctx: ctx, Done: done}); err != nil {
		if errors.Is(err, link.ErrQueueFull) {
			return fmt.Errorf("%w: %v", device.ErrBusy, err)
		}
		return err
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", device.ErrTimeout, ctx.Err())
	}
}

// SetMaintenance pauses the sensor stream and the scheduler, or resumes
// both. Queued commands wait until maintenance ends. If the stream cannot
// be toggled the previous mode is kept.
func (b *Bridge) SetMaintenance(_ context.Context, enabled bool) error {
	if b.maintenance.Swap(enabled) == enabled {
		return nil
	}

	var err error
	if enabled {
		log.Info().Msg("Entering maintenance mode")
		err = b.device.PauseStream()
	} else {
		log.Info().Msg("Leaving maintenance mode")
		err = b.device.ResumeStream()
	}
	if err != nil {
		b.maintenance.Store(!enabled)
		return fmt.Errorf("toggle stream: %w", err)
	}

	b.metrics.Maintenance(enabled)
	b.publishEvent(device.StatusEvent{
		Type:        device.EventMaintenance,
		Maintenance: &enabled,
		Timestamp:   time.Now(),
	})
	return nil
}

func (b *Bridge) IsConnected() bool {
	return b.bus.Connected()
}

func (b *Bridge) Close() {
	b.closeOnce.Do(func() {
		b.bus.Close()
		if err := b.device.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close vacuum link")
		}

		b.subscribersMu.Lock()
		for _, ch := range b.subscribers {
			close(ch)
		}
		b.subscribers = nil
		b.subscribersMu.Unlock()

		log.Info().Msg("Bridge closed")
	})
}

// --- device.EventSubscriber interface ---

func (b *Bridge) Subscribe() chan device.StatusEvent {
	ch := make(chan device.StatusEvent, 16)
	b.subscribersMu.Lock()
	b.subscribers = append(b.subscribers, ch)
	b.subscribersMu.Unlock()
	return ch
}

func (b *Bridge) Unsubscribe(ch chan device.StatusEvent) {
	b.subscribersMu.Lock()
	defer b.subscribersMu.Unlock()

	for i, sub := range b.subscribers {
		if sub == ch {
			b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
			close(ch)
			return
		}
	}
}
