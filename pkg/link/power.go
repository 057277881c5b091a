package link

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/urmzd/roombridge/pkg/vacuum"
)

// CheckLowPower suspends the bridge when the supply is below the cutoff.
// A retained empty status is published first if the bus is up.
// It reports whether a suspend happened.
func (s *Scheduler) CheckLowPower(ctx context.Context) bool {
	if !s.opts.LowPowerCutoff || s.deps.Supply == nil {
		return false
	}

	mv, err := s.deps.Supply.ReadMillivolts()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read supply voltage")
		return false
	}
	log.Trace().Float64("millivolts", mv).Msg("Supply voltage")
	if mv >= s.opts.LowPowerMillivolts {
		return false
	}

	log.Warn().
		Float64("volts", mv/1000).
		Dur("suspend", s.opts.SuspendFor).
		Msg("Battery voltage is low, suspending")

	if s.deps.Bus.Connected() {
		payload, err := json.Marshal(vacuum.NewLowPowerStatus(mv))
		if err == nil {
			err = s.deps.Bus.Publish(s.deps.Topics.StateTopic(), payload, true)
		}
		if err != nil {
			log.Warn().Err(err).Msg("Failed to publish low-power status")
		} else {
			s.deps.Metrics.Published("low_power")
		}
	}
	s.deps.Clock.Sleep(s.opts.LowPowerSettle)

	s.deps.Metrics.LowPower()
	if s.deps.Suspender != nil {
		if err := s.deps.Suspender.Suspend(ctx, s.opts.SuspendFor); err != nil {
			log.Warn().Err(err).Msg("Suspend interrupted")
		}
	}
	return true
}
