package power

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Sleeper suspends by halting the caller for the whole period.
type Sleeper struct{}

// Suspend blocks for d or until ctx is done.
func (Sleeper) Suspend(ctx context.Context, d time.Duration) error {
	log.Warn().Dur("duration", d).Msg("Entering low-power suspend")

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		log.Info().Msg("Resuming after low-power suspend")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
