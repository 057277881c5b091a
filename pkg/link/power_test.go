package link

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

func lowPowerOptions() Options {
	opts := DefaultOptions()
	opts.LowPowerCutoff = true
	return opts
}

func TestCheckLowPower_BelowThreshold(t *testing.T) {
	h := newHarness(lowPowerOptions())
	h.supply.mv = 10500

	if !h.s.CheckLowPower(context.Background()) {
		t.Fatal("expected suspend")
	}

	want := []string{"publish " + h.topics.StateTopic(), "sleep", "suspend"}
	if !reflect.DeepEqual(h.events.log, want) {
		t.Errorf("got %v, want %v", h.events.log, want)
	}

	p := h.bus.published[0]
	if !p.retained {
		t.Error("low-power status must be retained")
	}
	wantPayload := `{"battery_level":0,"cleaning":false,"docked":false,"charging":false,"voltage":10.5,"charge":0}`
	if p.payload != wantPayload {
		t.Errorf("payload = %s", p.payload)
	}
	if !reflect.DeepEqual(h.clock.slept, []time.Duration{200 * time.Millisecond}) {
		t.Errorf("settle = %v", h.clock.slept)
	}
	if !reflect.DeepEqual(h.suspender.calls, []time.Duration{10 * time.Minute}) {
		t.Errorf("suspend = %v", h.suspender.calls)
	}
}

func TestCheckLowPower_Disconnected(t *testing.T) {
	h := newHarness(lowPowerOptions())
	h.bus.connected = false
	h.supply.mv = 9000

	if !h.s.CheckLowPower(context.Background()) {
		t.Fatal("expected suspend")
	}
	if len(h.bus.published) != 0 {
		t.Error("published while disconnected")
	}
	if len(h.suspender.calls) != 1 {
		t.Error("expected suspend without a bus")
	}
}

func TestCheckLowPower_Threshold(t *testing.T) {
	tests := []struct {
		mv      float64
		suspend bool
	}{
		{10799.9, true},
		{10800, false},
		{16000, false},
	}

	for _, tt := range tests {
		h := newHarness(lowPowerOptions())
		h.supply.mv = tt.mv
		if got := h.s.CheckLowPower(context.Background()); got != tt.suspend {
			t.Errorf("%v mV: suspend = %v, want %v", tt.mv, got, tt.suspend)
		}
	}
}

func TestCheckLowPower_Disabled(t *testing.T) {
	h := newHarness(DefaultOptions())
	h.supply.mv = 1000

	if h.s.CheckLowPower(context.Background()) {
		t.Error("suspended with cutoff disabled")
	}
	if h.supply.reads != 0 {
		t.Error("supply read with cutoff disabled")
	}
}

func TestCheckLowPower_ReadError(t *testing.T) {
	h := newHarness(lowPowerOptions())
	h.supply.err = errors.New("no adc")

	if h.s.CheckLowPower(context.Background()) {
		t.Error("suspended on read error")
	}
}

func TestStart_LowPowerBeforeConnect(t *testing.T) {
	h := newHarness(lowPowerOptions())
	h.bus.connected = false
	h.supply.mv = 10000

	err := h.s.Start(context.Background(), func() error {
		h.events.add("init")
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"sleep", "suspend", "init", "connect"}
	if len(h.events.log) < len(want) || !reflect.DeepEqual(h.events.log[:len(want)], want) {
		t.Errorf("expected suspend before init and connect, got %v", h.events.log)
	}
}

func TestTick_LowPowerAfterPublish(t *testing.T) {
	h := newHarness(lowPowerOptions())
	h.at(1000)
	_ = h.s.Ingest(sample(-600))
	h.supply.mv = 10000

	h.at(10001)
	h.s.Tick(context.Background())

	want := []string{
		"publish " + h.topics.StateTopic(),
		"publish " + h.topics.StateTopic(),
		"sleep",
		"suspend",
		"poll",
	}
	if !reflect.DeepEqual(h.events.log, want) {
		t.Errorf("got %v\nwant %v", h.events.log, want)
	}
}
