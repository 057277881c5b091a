package vacuum

import "github.com/urmzd/roombridge/pkg/oi"

// Current draw thresholds in mA. Both are exclusive.
const (
	CleaningCurrentBelow = -400
	DockedCurrentAbove   = -50
)

// Estimate builds a fresh, unsent State from decoded readings.
// The device reports no cleaning flag, so activity is inferred from
// current draw: a heavy draw means the motors are running, a near-zero
// or positive draw means it sits on the dock.
func Estimate(r oi.Readings, now uint32) State {
	s := State{
		Distance:      r.Distance,
		ChargingState: r.ChargingState,
		Voltage:       r.Voltage,
		Current:       r.Current,
		Charge:        r.Charge,
		Capacity:      r.Capacity,
		Timestamp:     now,
	}

	switch {
	case r.Current < CleaningCurrentBelow:
		s.Cleaning = true
	case r.Current > DockedCurrentAbove:
		s.Docked = true
	}

	return s
}
