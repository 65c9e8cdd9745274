package rsp

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Supervisor drives one RSP task to completion per kick, grounded on
// coprocessor_manager.go's ticket/worker lifecycle but collapsed from a
// goroutine-per-ticket pool down to a single supervised goroutine: RSP and
// CPU execution never interleave here, so there is never more than one task
// in flight, but running it through errgroup keeps the same
// cancellation/panic-containment contract the worker pool relies on
// elsewhere in this codebase.
type Supervisor struct {
	sp *SP

	// MaxInstructionsPerKick bounds a single task's run length as a runaway
	// safety valve; real microcode always halts itself via BREAK long before
	// this is reached.
	MaxInstructionsPerKick int
}

// NewSupervisor wires a Supervisor to drive sp, with a generous default
// instruction budget per kick.
func NewSupervisor(sp *SP) *Supervisor {
	return &Supervisor{sp: sp, MaxInstructionsPerKick: 1 << 20}
}

// Kick starts (or resumes) the task: it runs the scalar core synchronously
// until it halts again or the instruction budget is exhausted. Returns the
// number of instructions retired.
//
// Kick does not touch HALT itself; a CLR_HALT write through SP_STATUS
// clears it, and machine.Run calls Kick whenever the SP is not halted —
// there is no separate "go" signal.
func (s *Supervisor) Kick(ctx context.Context) (int, error) {
	g, ctx := errgroup.WithContext(ctx)
	var retired int
	g.Go(func() error {
		retired = s.sp.Run(s.MaxInstructionsPerKick)
		return ctx.Err()
	})
	if err := g.Wait(); err != nil && err != context.Canceled {
		return retired, err
	}
	return retired, nil
}
