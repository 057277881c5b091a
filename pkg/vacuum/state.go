package vacuum

import (
	"sync/atomic"

	"github.com/urmzd/roombridge/pkg/oi"
)

// State is the last successfully decoded telemetry sample plus the
// flags derived from it. It is always replaced as a whole value.
type State struct {
	Distance      int16
	ChargingState oi.ChargingState
	Voltage       uint16
	Current       int16
	Charge        int16
	Capacity      uint16

	Cleaning bool
	Docked   bool

	// Timestamp is the uptime in milliseconds when the sample was decoded.
	Timestamp uint32
	Sent      bool
}

// Charging reports whether the battery is actively taking charge.
func (s State) Charging() bool {
	return s.ChargingState.Charging()
}

// BatteryPercent returns charge*100/capacity using integer arithmetic.
// The result is not clamped; an underflowed charge yields a negative value.
func (s State) BatteryPercent() (int, error) {
	if s.Capacity == 0 {
		return 0, ErrCapacityUnknown
	}
	return int(s.Charge) * 100 / int(s.Capacity), nil
}

// Mode resolves the published state string. Docked wins over cleaning.
func (s State) Mode() string {
	switch {
	case s.Docked:
		return ModeDocked
	case s.Cleaning:
		return ModeCleaning
	default:
		return ModeIdle
	}
}

// Published state strings.
const (
	ModeIdle     = "idle"
	ModeCleaning = "cleaning"
	ModeDocked   = "docked"
)

// Store holds the shared State. Writers replace the whole value so
// readers never observe a partially updated sample.
type Store struct {
	current atomic.Pointer[State]
}

// NewStore creates a store holding the zero State.
func NewStore() *Store {
	s := &Store{}
	s.current.Store(&State{})
	return s
}

// Load returns a copy of the current state.
func (s *Store) Load() State {
	return *s.current.Load()
}

// Replace swaps in a new state.
func (s *Store) Replace(state State) {
	s.current.Store(&state)
}

// MarkSent flags the current sample as published.
func (s *Store) MarkSent() {
	state := s.Load()
	state.Sent = true
	s.Replace(state)
}
