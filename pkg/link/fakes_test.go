package link

import (
	"context"
	"errors"
	"time"

	"github.com/urmzd/roombridge/pkg/oi"
	"github.com/urmzd/roombridge/pkg/vacuum"
)

// events is a shared call log so tests can assert cross-collaborator order.
type events struct {
	log []string
}

func (e *events) add(name string) {
	e.log = append(e.log, name)
}

type fakeClock struct {
	now    uint32
	slept  []time.Duration
	events *events
}

func (c *fakeClock) Millis() uint32 { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.slept = append(c.slept, d)
	c.now += millis(d)
	c.events.add("sleep")
}

type fakeDevice struct {
	events  *events
	frames  [][]byte
	actions []vacuum.Action
	wakeErr error
	runErr  error
	pollErr error
	dropped int
}

func (d *fakeDevice) Wake() error {
	d.events.add("wake")
	return d.wakeErr
}

func (d *fakeDevice) WakeOnDock() error {
	d.events.add("wake_dock")
	return d.wakeErr
}

func (d *fakeDevice) Run(actions []vacuum.Action) error {
	d.events.add("run")
	d.actions = append(d.actions, actions...)
	return d.runErr
}

func (d *fakeDevice) RequestStream() error {
	d.events.add("stream")
	return nil
}

func (d *fakeDevice) Poll() ([]byte, error) {
	d.events.add("poll")
	if len(d.frames) == 0 {
		return nil, d.pollErr
	}
	body := d.frames[0]
	d.frames = d.frames[1:]
	return body, nil
}

func (d *fakeDevice) DroppedBytes() int { return d.dropped }

type published struct {
	topic    string
	payload  string
	retained bool
}

type fakeBus struct {
	events     *events
	connected  bool
	connectErr error
	connects   int
	published  []published
}

func (b *fakeBus) Connected() bool { return b.connected }

func (b *fakeBus) Connect(ctx context.Context) error {
	b.events.add("connect")
	b.connects++
	if b.connectErr != nil {
		return b.connectErr
	}
	b.connected = true
	return nil
}

func (b *fakeBus) Publish(topic string, payload []byte, retained bool) error {
	if !b.connected {
		return errors.New("not connected")
	}
	b.events.add("publish " + topic)
	b.published = append(b.published, published{topic, string(payload), retained})
	return nil
}

func (b *fakeBus) count(topic string) int {
	n := 0
	for _, p := range b.published {
		if p.topic == topic {
			n++
		}
	}
	return n
}

type fakeSupply struct {
	mv    float64
	err   error
	reads int
}

func (s *fakeSupply) ReadMillivolts() (float64, error) {
	s.reads++
	return s.mv, s.err
}

type fakeSuspender struct {
	events *events
	calls  []time.Duration
}

func (s *fakeSuspender) Suspend(ctx context.Context, d time.Duration) error {
	s.events.add("suspend")
	s.calls = append(s.calls, d)
	return nil
}

type fakeMaintenance struct {
	active bool
}

func (m *fakeMaintenance) Active() bool { return m.active }

type fakeObserver struct {
	statuses []vacuum.Status
}

func (o *fakeObserver) StatusPublished(status vacuum.Status) {
	o.statuses = append(o.statuses, status)
}

type harness struct {
	s           *Scheduler
	events      *events
	clock       *fakeClock
	device      *fakeDevice
	bus         *fakeBus
	supply      *fakeSupply
	suspender   *fakeSuspender
	maintenance *fakeMaintenance
	observer    *fakeObserver
	topics      vacuum.Topics
}

func newHarness(opts Options) *harness {
	ev := &events{}
	h := &harness{
		events:      ev,
		clock:       &fakeClock{events: ev},
		device:      &fakeDevice{events: ev},
		bus:         &fakeBus{events: ev, connected: true},
		supply:      &fakeSupply{mv: 14000},
		suspender:   &fakeSuspender{events: ev},
		maintenance: &fakeMaintenance{},
		observer:    &fakeObserver{},
		topics:      vacuum.DefaultTopics("roomba1a2b3c"),
	}
	h.s = NewScheduler(opts, Deps{
		Clock:       h.clock,
		Device:      h.device,
		Bus:         h.bus,
		Topics:      h.topics,
		Descriptor:  vacuum.NewDescriptor(h.topics, "1a2b3c", "650"),
		Supply:      h.supply,
		Suspender:   h.suspender,
		Maintenance: h.maintenance,
		Observer:    h.observer,
	})
	return h
}

// sample returns an encoded packet body for the given current draw.
func sample(current int16) []byte {
	body, err := oi.EncodeSensors(oi.Readings{
		ChargingState: oi.NotCharging,
		Voltage:       15000,
		Current:       current,
		Charge:        1500,
		Capacity:      3000,
	}, oi.StreamSensors...)
	if err != nil {
		panic(err)
	}
	return body
}

// at moves the clock and clears the event log.
func (h *harness) at(ms uint32) {
	h.clock.now = ms
	h.events.log = nil
}
