package link

import "time"

// Options selects scheduler periods and optional behaviors at startup.
type Options struct {
	PublishPeriod   time.Duration
	WakePeriod      time.Duration
	ReconnectPeriod time.Duration
	StaleAfter      time.Duration

	// ConfigEvery re-announces the descriptor on every Nth connected
	// reconnect interval.
	ConfigEvery int

	// DockSleepFix uses the dock-aware wake sequence while docked.
	DockSleepFix bool

	LowPowerCutoff     bool
	LowPowerMillivolts float64
	LowPowerSettle     time.Duration
	SuspendFor         time.Duration

	// MaxFramesPerTick bounds how many stream frames one tick decodes.
	MaxFramesPerTick int
	QueueSize        int
}

// DefaultOptions returns the stock timings.
func DefaultOptions() Options {
	return Options{
		PublishPeriod:      10 * time.Second,
		WakePeriod:         50 * time.Second,
		ReconnectPeriod:    30 * time.Second,
		StaleAfter:         30 * time.Second,
		ConfigEvery:        20,
		DockSleepFix:       true,
		LowPowerCutoff:     false,
		LowPowerMillivolts: 10800,
		LowPowerSettle:     200 * time.Millisecond,
		SuspendFor:         10 * time.Minute,
		MaxFramesPerTick:   8,
		QueueSize:          16,
	}
}

func millis(d time.Duration) uint32 {
	return uint32(d / time.Millisecond)
}
