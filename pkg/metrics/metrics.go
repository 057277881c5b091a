package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/urmzd/roombridge/pkg/vacuum"
)

// Recorder tracks bridge telemetry and link activity.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	voltage      prometheus.Gauge
	current      prometheus.Gauge
	charge       prometheus.Gauge
	capacity     prometheus.Gauge
	cleaning     prometheus.Gauge
	docked       prometheus.Gauge
	charging     prometheus.Gauge
	lastDecode   prometheus.Gauge
	busConnected prometheus.Gauge
	maintenance  prometheus.Gauge
	dropped      prometheus.Gauge

	packets   *prometheus.CounterVec
	publishes *prometheus.CounterVec
	wakes     *prometheus.CounterVec
	commands  *prometheus.CounterVec
	streams   prometheus.Counter
	reconnect *prometheus.CounterVec
	lowPower  prometheus.Counter
}

// NewRecorder creates a Recorder and registers its collectors.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		voltage: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "roombridge_battery_voltage_millivolts",
			Help: "Battery voltage from the last decoded sample (mV)",
		}),
		current: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "roombridge_battery_current_milliamps",
			Help: "Battery current from the last decoded sample (mA, negative when discharging)",
		}),
		charge: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "roombridge_battery_charge_mah",
			Help: "Battery charge from the last decoded sample (mAh)",
		}),
		capacity: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "roombridge_battery_capacity_mah",
			Help: "Battery capacity from the last decoded sample (mAh)",
		}),
		cleaning: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "roombridge_cleaning",
			Help: "1 if the vacuum is estimated to be cleaning",
		}),
		docked: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "roombridge_docked",
			Help: "1 if the vacuum is estimated to be docked",
		}),
		charging: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "roombridge_charging",
			Help: "1 if the battery is taking charge",
		}),
		lastDecode: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "roombridge_last_decode_uptime_milliseconds",
			Help: "Bridge uptime at the last successful packet decode (ms)",
		}),
		busConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "roombridge_bus_connected",
			Help: "1 if the MQTT client is connected",
		}),
		maintenance: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "roombridge_maintenance",
			Help: "1 while maintenance mode suspends the scheduler",
		}),
		dropped: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "roombridge_stream_dropped_bytes",
			Help: "Bytes discarded while resynchronizing the sensor stream since the link opened",
		}),
		packets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roombridge_packets_total",
			Help: "Sensor packets received, by result",
		}, []string{"result"}),
		publishes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roombridge_publishes_total",
			Help: "Messages published to the bus, by kind",
		}, []string{"kind"}),
		wakes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roombridge_wakes_total",
			Help: "Keep-awake pulses, by variant",
		}, []string{"variant"}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roombridge_commands_total",
			Help: "Inbound commands, by command and result",
		}, []string{"command", "result"}),
		streams: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "roombridge_stream_requests_total",
			Help: "Sensor stream re-requests",
		}),
		reconnect: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roombridge_reconnects_total",
			Help: "Bus reconnect attempts, by result",
		}, []string{"result"}),
		lowPower: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "roombridge_low_power_suspends_total",
			Help: "Low-power suspends entered",
		}),
	}

	reg.MustRegister(
		r.voltage, r.current, r.charge, r.capacity,
		r.cleaning, r.docked, r.charging, r.lastDecode,
		r.busConnected, r.maintenance, r.dropped,
		r.packets, r.publishes, r.wakes, r.commands,
		r.streams, r.reconnect, r.lowPower,
	)
	return r
}

// Handler exposes the registry over HTTP.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// ObserveState records a freshly decoded sample.
func (r *Recorder) ObserveState(s vacuum.State) {
	if r == nil {
		return
	}
	r.voltage.Set(float64(s.Voltage))
	r.current.Set(float64(s.Current))
	r.charge.Set(float64(s.Charge))
	r.capacity.Set(float64(s.Capacity))
	r.cleaning.Set(boolToFloat(s.Cleaning))
	r.docked.Set(boolToFloat(s.Docked))
	r.charging.Set(boolToFloat(s.Charging()))
	r.lastDecode.Set(float64(s.Timestamp))
	r.packets.WithLabelValues("decoded").Inc()
}

// PacketFailed counts a packet that could not be framed or decoded.
func (r *Recorder) PacketFailed(reason string) {
	if r == nil {
		return
	}
	r.packets.WithLabelValues(reason).Inc()
}

// Published counts a message published to the bus.
func (r *Recorder) Published(kind string) {
	if r == nil {
		return
	}
	r.publishes.WithLabelValues(kind).Inc()
}

// Woke counts a keep-awake pulse.
func (r *Recorder) Woke(variant string) {
	if r == nil {
		return
	}
	r.wakes.WithLabelValues(variant).Inc()
}

// Command counts an executed command.
func (r *Recorder) Command(command string, err error) {
	if r == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.commands.WithLabelValues(command, result).Inc()
}

// CommandExpired counts a command whose caller gave up before the loop
// reached it.
func (r *Recorder) CommandExpired(command string) {
	if r == nil {
		return
	}
	r.commands.WithLabelValues(command, "expired").Inc()
}

// StreamDropped records the link's running count of discarded stream bytes.
func (r *Recorder) StreamDropped(total int) {
	if r == nil {
		return
	}
	r.dropped.Set(float64(total))
}

// StreamRequested counts a sensor stream re-request.
func (r *Recorder) StreamRequested() {
	if r == nil {
		return
	}
	r.streams.Inc()
}

// Reconnected counts a bus reconnect attempt.
func (r *Recorder) Reconnected(err error) {
	if r == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.reconnect.WithLabelValues(result).Inc()
}

// BusConnected records the bus link state.
func (r *Recorder) BusConnected(connected bool) {
	if r == nil {
		return
	}
	r.busConnected.Set(boolToFloat(connected))
}

// Maintenance records whether maintenance mode is active.
func (r *Recorder) Maintenance(active bool) {
	if r == nil {
		return
	}
	r.maintenance.Set(boolToFloat(active))
}

// LowPower counts a low-power suspend.
func (r *Recorder) LowPower() {
	if r == nil {
		return
	}
	r.lowPower.Inc()
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
