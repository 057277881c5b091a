package link

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/urmzd/roombridge/pkg/metrics"
	"github.com/urmzd/roombridge/pkg/oi"
	"github.com/urmzd/roombridge/pkg/vacuum"
)

// ErrQueueFull indicates the command queue cannot take another request.
var ErrQueueFull = errors.New("command queue full")

// ScheduleState holds the last-run uptimes of the periodic tasks.
type ScheduleState struct {
	LastPublish uint32
	LastWake    uint32
	LastConnect uint32
	ConfigLoop  int
}

// Deps are the collaborators a Scheduler drives. Supply, Suspender,
// Maintenance, Observer and Metrics are optional.
type Deps struct {
	Clock       Clock
	Device      Device
	Bus         Bus
	Store       *vacuum.Store
	Topics      vacuum.Topics
	Descriptor  vacuum.Descriptor
	Supply      SupplyMonitor
	Suspender   Suspender
	Maintenance Maintenance
	Observer    Observer
	Metrics     *metrics.Recorder
}

// Scheduler runs the periodic link tasks. Tick and everything it calls
// must only be used from one goroutine; Submit is safe from any goroutine.
type Scheduler struct {
	opts  Options
	deps  Deps
	sched ScheduleState
	queue chan Request
}

// NewScheduler creates a scheduler. Deps.Clock defaults to a SystemClock
// and Deps.Store to an empty store.
func NewScheduler(opts Options, deps Deps) *Scheduler {
	if deps.Clock == nil {
		deps.Clock = NewSystemClock()
	}
	if deps.Store == nil {
		deps.Store = vacuum.NewStore()
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 1
	}
	if opts.MaxFramesPerTick <= 0 {
		opts.MaxFramesPerTick = 1
	}
	return &Scheduler{
		opts:  opts,
		deps:  deps,
		queue: make(chan Request, opts.QueueSize),
	}
}

// Store returns the shared telemetry state.
func (s *Scheduler) Store() *vacuum.Store {
	return s.deps.Store
}

// Schedule returns a copy of the task timers.
func (s *Scheduler) Schedule() ScheduleState {
	return s.sched
}

// Start runs the startup low-power check before anything touches the
// device or the network, then runs init, connects the bus and announces
// the descriptor. init may be nil.
func (s *Scheduler) Start(ctx context.Context, init func() error) error {
	s.CheckLowPower(ctx)

	if init != nil {
		if err := init(); err != nil {
			return err
		}
	}

	s.sched.LastConnect = s.deps.Clock.Millis()
	s.connect(ctx)
	return nil
}

// Tick runs one pass of the periodic tasks in their fixed order. It
// returns an error wrapping ErrLinkDown once the device connection is lost.
func (s *Scheduler) Tick(ctx context.Context) error {
	if s.deps.Maintenance != nil && s.deps.Maintenance.Active() {
		return nil
	}

	now := s.deps.Clock.Millis()

	if now-s.sched.LastConnect > millis(s.opts.ReconnectPeriod) {
		s.sched.LastConnect = now
		s.checkConnection(ctx)
	}

	if now-s.sched.LastWake > millis(s.opts.WakePeriod) {
		s.sched.LastWake = now
		s.keepAwake()
	}

	if now-s.sched.LastPublish > millis(s.opts.PublishPeriod) {
		s.sched.LastPublish = now
		s.publishTick(ctx, now)
	}

	err := s.poll()
	s.pump()
	return err
}

func (s *Scheduler) checkConnection(ctx context.Context) {
	if !s.deps.Bus.Connected() {
		log.Info().Msg("Bus disconnected, reconnecting")
		s.connect(ctx)
		return
	}

	// Re-announce now and then so a restarted broker or consumer relearns the entity.
	if s.sched.ConfigLoop >= s.opts.ConfigEvery-1 {
		s.SendConfig()
		s.sched.ConfigLoop = 0
	} else {
		s.sched.ConfigLoop++
	}
}

func (s *Scheduler) connect(ctx context.Context) {
	err := s.deps.Bus.Connect(ctx)
	s.deps.Metrics.Reconnected(err)
	s.deps.Metrics.BusConnected(err == nil)
	if err != nil {
		log.Warn().Err(err).Msg("Bus connect failed")
	}
	s.SendConfig()
}

func (s *Scheduler) keepAwake() {
	state := s.deps.Store.Load()

	var err error
	switch {
	case !state.Cleaning && state.Docked && s.opts.DockSleepFix:
		log.Debug().Msg("Waking vacuum on dock")
		err = s.deps.Device.WakeOnDock()
		s.deps.Metrics.Woke("dock")
	default:
		log.Debug().Msg("Waking vacuum")
		err = s.deps.Device.Wake()
		s.deps.Metrics.Woke("pulse")
	}
	if err != nil {
		log.Warn().Err(err).Msg("Keep-awake failed")
	}
}

func (s *Scheduler) publishTick(ctx context.Context, now uint32) {
	state := s.deps.Store.Load()
	age := now - state.Timestamp

	if age > millis(s.opts.StaleAfter) || state.Sent {
		log.Debug().
			Bool("sent", state.Sent).
			Float64("age_s", float64(age)/1000).
			Msg("Sample already sent or stale, requesting stream")
		s.requestStream()
	} else {
		s.sendStatus(state)
	}

	s.CheckLowPower(ctx)
}

func (s *Scheduler) requestStream() {
	s.deps.Metrics.StreamRequested()
	if err := s.deps.Device.RequestStream(); err != nil {
		log.Warn().Err(err).Msg("Stream request failed")
	}
}

// sendStatus publishes the sample and marks it sent. A sample that cannot
// be published stays unsent and is retried on the next interval.
func (s *Scheduler) sendStatus(state vacuum.State) {
	status, err := vacuum.NewStatus(state)
	if err != nil {
		log.Warn().Err(err).Msg("Not sending status")
		s.requestStream()
		return
	}

	if !s.deps.Bus.Connected() {
		log.Debug().Msg("Bus disconnected, not sending status")
		s.deps.Metrics.BusConnected(false)
		return
	}

	payload, err := json.Marshal(status)
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode status")
		return
	}

	if err := s.deps.Bus.Publish(s.deps.Topics.StateTopic(), payload, false); err != nil {
		log.Warn().Err(err).Msg("Failed to publish status")
		return
	}
	log.Debug().RawJSON("status", payload).Msg("Reported status")

	s.deps.Store.MarkSent()
	s.deps.Metrics.Published("status")
	if s.deps.Observer != nil {
		s.deps.Observer.StatusPublished(status)
	}
}

// SendConfig publishes the device descriptor if the bus is connected.
func (s *Scheduler) SendConfig() {
	if !s.deps.Bus.Connected() {
		log.Debug().Msg("Bus disconnected, not sending config")
		return
	}

	payload, err := json.Marshal(s.deps.Descriptor)
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode descriptor")
		return
	}

	if err := s.deps.Bus.Publish(s.deps.Topics.ConfigTopic(), payload, false); err != nil {
		log.Warn().Err(err).Msg("Failed to publish config")
		return
	}
	log.Debug().RawJSON("config", payload).Msg("Reported config")
	s.deps.Metrics.Published("config")
}

func (s *Scheduler) poll() error {
	defer func() { s.deps.Metrics.StreamDropped(s.deps.Device.DroppedBytes()) }()

	for i := 0; i < s.opts.MaxFramesPerTick; i++ {
		body, err := s.deps.Device.Poll()
		if errors.Is(err, ErrLinkDown) {
			return err
		}
		if err != nil {
			log.Debug().Err(err).Msg("Dropped stream frame")
			s.deps.Metrics.PacketFailed("framing")
			continue
		}
		if body == nil {
			return nil
		}
		_ = s.Ingest(body)
	}
	return nil
}

// Ingest decodes one packet body and, on success, replaces the shared state.
// On failure the previous state is kept.
func (s *Scheduler) Ingest(body []byte) error {
	readings, err := oi.DecodeSensors(body)
	if err != nil {
		log.Debug().Err(err).Hex("packet", body).Msg("Failed to parse packet")
		s.deps.Metrics.PacketFailed("decode")
		return fmt.Errorf("decode packet: %w", err)
	}

	state := vacuum.Estimate(readings, s.deps.Clock.Millis())
	s.deps.Store.Replace(state)
	s.deps.Metrics.ObserveState(state)

	log.Trace().
		Int("len", len(body)).
		Int16("distance", state.Distance).
		Str("charging_state", state.ChargingState.String()).
		Uint16("voltage", state.Voltage).
		Int16("current", state.Current).
		Int16("charge", state.Charge).
		Uint16("capacity", state.Capacity).
		Msg("Got packet")
	return nil
}
