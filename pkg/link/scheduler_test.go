package link

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/urmzd/roombridge/pkg/metrics"
	"github.com/urmzd/roombridge/pkg/vacuum"
)

func TestTick_PublishesFreshSampleOnce(t *testing.T) {
	h := newHarness(DefaultOptions())
	ctx := context.Background()

	h.at(1000)
	if err := h.s.Ingest(sample(-600)); err != nil {
		t.Fatal(err)
	}

	h.at(10001)
	h.s.Tick(ctx)
	if got := h.bus.count(h.topics.StateTopic()); got != 1 {
		t.Fatalf("expected 1 status publish, got %d", got)
	}
	if !h.s.Store().Load().Sent {
		t.Error("published sample must be marked sent")
	}

	var status vacuum.Status
	if err := json.Unmarshal([]byte(h.bus.published[0].payload), &status); err != nil {
		t.Fatal(err)
	}
	if status.State != vacuum.ModeCleaning || status.BatteryLevel != 50 {
		t.Errorf("unexpected status %+v", status)
	}
	if len(h.observer.statuses) != 1 {
		t.Errorf("observer saw %d statuses", len(h.observer.statuses))
	}

	h.at(20002)
	h.s.Tick(ctx)
	if got := h.bus.count(h.topics.StateTopic()); got != 1 {
		t.Errorf("sent sample republished, %d publishes", got)
	}
	if !contains(h.events.log, "stream") {
		t.Errorf("expected stream re-request, got %v", h.events.log)
	}
}

func TestTick_NewDecodeIsPublishedAgain(t *testing.T) {
	h := newHarness(DefaultOptions())
	ctx := context.Background()

	h.at(1000)
	_ = h.s.Ingest(sample(-600))
	h.at(10001)
	h.s.Tick(ctx)

	h.at(15000)
	_ = h.s.Ingest(sample(10))
	h.at(20002)
	h.s.Tick(ctx)

	if got := h.bus.count(h.topics.StateTopic()); got != 2 {
		t.Errorf("expected 2 status publishes, got %d", got)
	}
}

func TestTick_StaleSampleRequestsStream(t *testing.T) {
	h := newHarness(DefaultOptions())

	h.at(1000)
	_ = h.s.Ingest(sample(-600))

	h.at(31001)
	h.s.Tick(context.Background())

	if got := h.bus.count(h.topics.StateTopic()); got != 0 {
		t.Errorf("stale sample published %d times", got)
	}
	if !contains(h.events.log, "stream") {
		t.Errorf("expected stream re-request, got %v", h.events.log)
	}
}

func TestTick_DisconnectedKeepsSampleUnsent(t *testing.T) {
	h := newHarness(DefaultOptions())
	h.bus.connected = false
	h.bus.connectErr = errors.New("refused")

	h.at(1000)
	_ = h.s.Ingest(sample(-600))
	h.at(10001)
	h.s.Tick(context.Background())

	if h.s.Store().Load().Sent {
		t.Error("sample must stay unsent while the bus is down")
	}

	h.bus.connected = true
	h.at(20002)
	h.s.Tick(context.Background())
	if got := h.bus.count(h.topics.StateTopic()); got != 1 {
		t.Errorf("expected retry to publish, got %d publishes", got)
	}
}

func TestTick_ZeroCapacityNotPublished(t *testing.T) {
	h := newHarness(DefaultOptions())

	h.at(10001)
	h.s.Tick(context.Background())

	if got := h.bus.count(h.topics.StateTopic()); got != 0 {
		t.Errorf("published %d statuses without a capacity", got)
	}
	if !contains(h.events.log, "stream") {
		t.Errorf("expected stream re-request, got %v", h.events.log)
	}
}

func TestTick_Order(t *testing.T) {
	opts := DefaultOptions()
	opts.ReconnectPeriod = opts.PublishPeriod
	opts.WakePeriod = opts.PublishPeriod
	h := newHarness(opts)
	h.bus.connected = false

	h.at(1000)
	_ = h.s.Ingest(sample(-600))

	h.at(10001)
	h.s.Tick(context.Background())

	want := []string{
		"connect",
		"publish " + h.topics.ConfigTopic(),
		"wake",
		"publish " + h.topics.StateTopic(),
		"poll",
	}
	if !reflect.DeepEqual(h.events.log, want) {
		t.Errorf("got %v\nwant %v", h.events.log, want)
	}
}

func TestTick_ReconnectWhenDown(t *testing.T) {
	h := newHarness(DefaultOptions())
	h.bus.connected = false

	h.at(29999)
	h.s.Tick(context.Background())
	if h.bus.connects != 0 {
		t.Fatalf("connected before the reconnect period")
	}

	h.at(30001)
	h.s.Tick(context.Background())
	if h.bus.connects != 1 {
		t.Errorf("expected 1 connect, got %d", h.bus.connects)
	}
	if got := h.bus.count(h.topics.ConfigTopic()); got != 1 {
		t.Errorf("expected descriptor after reconnect, got %d", got)
	}
}

func TestTick_ConfigReannouncedEveryTwentiethInterval(t *testing.T) {
	h := newHarness(DefaultOptions())

	now := uint32(0)
	for i := 1; i <= 40; i++ {
		now += 30001
		h.at(now)
		h.s.Tick(context.Background())

		want := i / 20
		if got := h.bus.count(h.topics.ConfigTopic()); got != want {
			t.Fatalf("interval %d: %d config publishes, want %d", i, got, want)
		}
	}
	if h.bus.connects != 0 {
		t.Errorf("connected bus must not reconnect")
	}
}

func TestTick_KeepAwake(t *testing.T) {
	tests := []struct {
		name    string
		current int16
		fix     bool
		want    string
	}{
		{"docked with fix", 100, true, "wake_dock"},
		{"docked without fix", 100, false, "wake"},
		{"cleaning", -900, true, "wake"},
		{"idle", -200, true, "wake"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.DockSleepFix = tt.fix
			h := newHarness(opts)
			_ = h.s.Ingest(sample(tt.current))

			h.at(50001)
			h.s.Tick(context.Background())

			var wakes []string
			for _, e := range h.events.log {
				if e == "wake" || e == "wake_dock" {
					wakes = append(wakes, e)
				}
			}
			if !reflect.DeepEqual(wakes, []string{tt.want}) {
				t.Errorf("wakes = %v, want [%s]", wakes, tt.want)
			}
		})
	}
}

func TestTick_MaintenanceSkipsEverything(t *testing.T) {
	h := newHarness(DefaultOptions())
	h.maintenance.active = true
	_ = h.s.Submit(Request{Token: "start"})

	h.at(60000)
	h.s.Tick(context.Background())

	if len(h.events.log) != 0 {
		t.Errorf("expected no activity during maintenance, got %v", h.events.log)
	}

	h.maintenance.active = false
	h.s.Tick(context.Background())
	if !contains(h.events.log, "run") {
		t.Errorf("queued command not executed after maintenance, got %v", h.events.log)
	}
}

func TestTick_WrapAround(t *testing.T) {
	h := newHarness(DefaultOptions())
	start := ^uint32(0) - 5000

	h.at(start)
	_ = h.s.Ingest(sample(-600))
	h.s.sched.LastPublish = start

	h.at(start + 10001) // wraps past zero
	h.s.Tick(context.Background())

	if got := h.bus.count(h.topics.StateTopic()); got != 1 {
		t.Errorf("expected publish across wrap-around, got %d", got)
	}
}

func TestTick_PollDecodesQueuedFrames(t *testing.T) {
	h := newHarness(DefaultOptions())
	h.device.frames = [][]byte{sample(-900), {99, 1, 2}, sample(20)}

	h.at(500)
	h.s.Tick(context.Background())

	state := h.s.Store().Load()
	if !state.Docked || state.Cleaning {
		t.Errorf("expected last good frame to win, got %+v", state)
	}
	if state.Timestamp != 500 {
		t.Errorf("timestamp = %d, want 500", state.Timestamp)
	}
}

func TestIngest_FailureKeepsPreviousState(t *testing.T) {
	h := newHarness(DefaultOptions())

	h.at(100)
	_ = h.s.Ingest(sample(-900))
	h.s.Store().MarkSent()
	before := h.s.Store().Load()

	h.at(200)
	for _, body := range [][]byte{{2}, {22, 0x01}, {22, 0x01, 0x02, 200, 0}} {
		if err := h.s.Ingest(body); err == nil {
			t.Errorf("%v: expected decode error", body)
		}
	}

	if got := h.s.Store().Load(); got != before {
		t.Errorf("state changed on failed decode: %+v", got)
	}
}

func TestStart_ConnectsAndAnnounces(t *testing.T) {
	h := newHarness(DefaultOptions())
	h.bus.connected = false

	h.at(1200)
	if err := h.s.Start(context.Background(), nil); err != nil {
		t.Fatal(err)
	}

	if h.bus.connects != 1 {
		t.Errorf("expected 1 connect, got %d", h.bus.connects)
	}
	if got := h.bus.count(h.topics.ConfigTopic()); got != 1 {
		t.Errorf("expected descriptor on start, got %d", got)
	}
	if h.s.Schedule().LastConnect != 1200 {
		t.Errorf("LastConnect = %d", h.s.Schedule().LastConnect)
	}
}

func TestStart_InitFailureSkipsConnect(t *testing.T) {
	h := newHarness(DefaultOptions())
	h.bus.connected = false

	err := h.s.Start(context.Background(), func() error { return errors.New("no response") })
	if err == nil {
		t.Fatal("expected init error")
	}
	if h.bus.connects != 0 {
		t.Errorf("connected %d times after failed init", h.bus.connects)
	}
}

func TestTick_LinkDown(t *testing.T) {
	h := newHarness(DefaultOptions())
	h.device.frames = [][]byte{sample(-900)}
	h.device.pollErr = fmt.Errorf("%w: %v", ErrLinkDown, io.EOF)
	done := make(chan error, 1)
	_ = h.s.Submit(Request{Token: "locate", Done: done})

	h.at(500)
	err := h.s.Tick(context.Background())
	if !errors.Is(err, ErrLinkDown) {
		t.Fatalf("Tick() = %v, want ErrLinkDown", err)
	}
	if !h.s.Store().Load().Cleaning {
		t.Error("frame buffered before the loss was not decoded")
	}
	select {
	case <-done:
	default:
		t.Error("queued command not answered on the failing tick")
	}
}

func TestTick_FramingErrorsKeepPolling(t *testing.T) {
	h := newHarness(DefaultOptions())
	h.device.pollErr = errors.New("bad checksum")
	h.device.dropped = 4
	reg := prometheus.NewRegistry()
	h.s.deps.Metrics = metrics.NewRecorder(reg)

	h.at(500)
	if err := h.s.Tick(context.Background()); err != nil {
		t.Errorf("Tick() = %v, want framing errors absorbed", err)
	}
	polls := 0
	for _, e := range h.events.log {
		if e == "poll" {
			polls++
		}
	}
	if polls != DefaultOptions().MaxFramesPerTick {
		t.Errorf("polled %d times, want %d", polls, DefaultOptions().MaxFramesPerTick)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	var dropped float64 = -1
	for _, mf := range families {
		if mf.GetName() == "roombridge_stream_dropped_bytes" {
			dropped = mf.GetMetric()[0].GetGauge().GetValue()
		}
	}
	if dropped != 4 {
		t.Errorf("dropped bytes gauge = %v, want 4", dropped)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
