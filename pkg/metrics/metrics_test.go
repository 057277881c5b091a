package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/urmzd/roombridge/pkg/oi"
	"github.com/urmzd/roombridge/pkg/vacuum"
)

func TestRecorder_ObserveState(t *testing.T) {
	r := NewRecorder(prometheus.NewRegistry())
	r.ObserveState(vacuum.Estimate(oi.Readings{Voltage: 15500, Current: -600, Charge: 1200, Capacity: 2400}, 900))

	if got := testutil.ToFloat64(r.voltage); got != 15500 {
		t.Errorf("voltage = %v", got)
	}
	if got := testutil.ToFloat64(r.cleaning); got != 1 {
		t.Errorf("cleaning = %v", got)
	}
	if got := testutil.ToFloat64(r.docked); got != 0 {
		t.Errorf("docked = %v", got)
	}
	if got := testutil.ToFloat64(r.packets.WithLabelValues("decoded")); got != 1 {
		t.Errorf("decoded packets = %v", got)
	}
}

func TestRecorder_Counters(t *testing.T) {
	r := NewRecorder(prometheus.NewRegistry())
	r.Command("locate", nil)
	r.Command("locate", errors.New("boom"))
	r.Reconnected(nil)
	r.StreamRequested()
	r.StreamRequested()

	if got := testutil.ToFloat64(r.commands.WithLabelValues("locate", "ok")); got != 1 {
		t.Errorf("ok commands = %v", got)
	}
	if got := testutil.ToFloat64(r.commands.WithLabelValues("locate", "error")); got != 1 {
		t.Errorf("failed commands = %v", got)
	}
	if got := testutil.ToFloat64(r.streams); got != 2 {
		t.Errorf("stream requests = %v", got)
	}
}

func TestRecorder_ExpiredAndDropped(t *testing.T) {
	r := NewRecorder(prometheus.NewRegistry())
	r.CommandExpired("turn_on")
	r.StreamDropped(3)
	r.StreamDropped(7)

	if got := testutil.ToFloat64(r.commands.WithLabelValues("turn_on", "expired")); got != 1 {
		t.Errorf("expired commands = %v", got)
	}
	if got := testutil.ToFloat64(r.commands.WithLabelValues("turn_on", "ok")); got != 0 {
		t.Errorf("expired command counted as ok: %v", got)
	}
	if got := testutil.ToFloat64(r.dropped); got != 7 {
		t.Errorf("dropped bytes = %v, want the latest total", got)
	}
}

func TestRecorder_NilSafe(t *testing.T) {
	var r *Recorder
	r.ObserveState(vacuum.State{})
	r.PacketFailed("checksum")
	r.Published("status")
	r.Woke("dock")
	r.Command("start", nil)
	r.StreamRequested()
	r.Reconnected(nil)
	r.BusConnected(true)
	r.Maintenance(true)
	r.LowPower()
	r.CommandExpired("start")
	r.StreamDropped(1)
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)
	r.Published("status")

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if !strings.Contains(rec.Body.String(), `roombridge_publishes_total{kind="status"} 1`) {
		t.Errorf("metrics output missing publish counter:\n%s", rec.Body.String())
	}
}
