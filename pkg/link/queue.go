package link

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/urmzd/roombridge/pkg/vacuum"
)

// Request is an inbound command token waiting for the scheduler.
type Request struct {
	Token  string
	Source string

	// Ctx, when set, bounds how long the caller waits. A request whose
	// Ctx is done by the time the loop reaches it is never executed.
	Ctx context.Context

	// Done, when set, receives the execution result. It must be buffered.
	Done chan error
}

// Submit queues a request for the next tick. It never blocks.
func (s *Scheduler) Submit(req Request) error {
	select {
	case s.queue <- req:
		return nil
	default:
		return ErrQueueFull
	}
}

// pump executes every request queued at the start of the call, skipping
// requests whose caller has already given up.
func (s *Scheduler) pump() {
	for n := len(s.queue); n > 0; n-- {
		req := <-s.queue
		if req.Ctx != nil && req.Ctx.Err() != nil {
			err := req.Ctx.Err()
			log.Warn().Err(err).Str("source", req.Source).Str("command", req.Token).Msg("Command expired before execution")
			s.deps.Metrics.CommandExpired(commandLabel(req.Token))
			if req.Done != nil {
				req.Done <- err
			}
			continue
		}

		err := s.Execute(req.Token)
		if err != nil {
			log.Warn().Err(err).Str("source", req.Source).Str("command", req.Token).Msg("Command failed")
		}
		if req.Done != nil {
			req.Done <- err
		}
	}
}

// Execute wakes the device, then translates and runs one command token.
// The wake happens even for tokens that turn out to be unknown.
func (s *Scheduler) Execute(token string) error {
	if err := s.deps.Device.Wake(); err != nil {
		s.deps.Metrics.Command("wake", err)
		return fmt.Errorf("wake: %w", err)
	}

	cmd, err := vacuum.ParseCommand(token)
	if err != nil {
		s.deps.Metrics.Command("unknown", err)
		return err
	}

	plan, err := vacuum.Translate(cmd, s.deps.Store.Load())
	if err != nil {
		s.deps.Metrics.Command(cmd.String(), err)
		return err
	}

	log.Info().Str("command", cmd.String()).Int("actions", len(plan.Actions)).Msg("Executing command")
	if err := s.deps.Device.Run(plan.Actions); err != nil {
		s.deps.Metrics.Command(cmd.String(), err)
		return fmt.Errorf("run %s: %w", cmd, err)
	}

	if plan.SetCleaning {
		s.deps.Store.Replace(plan.Apply(s.deps.Store.Load()))
	}
	s.deps.Metrics.Command(cmd.String(), nil)
	return nil
}

// commandLabel keeps metric labels to the known command names.
func commandLabel(token string) string {
	cmd, err := vacuum.ParseCommand(token)
	if err != nil {
		return "unknown"
	}
	return cmd.String()
}
