package rcp

import "github.com/reality64/n64core/core"

// dmaEngine is the shape shared by PI/SI/AI: a two-entry
// FIFO, a busy/full status pair, and a scheduled completion event. The
// specific cost model and the interrupt raised on completion are supplied by
// the owning device.
type dmaEngine struct {
	sched *core.Scheduler
	kind core.EventKind

	busy bool
	full bool

	current dmaRequest
	queued dmaRequest
	hasQueued bool

	onComplete func(dmaRequest)
}

type dmaRequest struct {
	cartAddr uint32
	dramAddr uint32
	length  uint32
	toCart  bool // direction: RDRAM->cart when true, cart->RDRAM when false
}

func newDMAEngine(sched *core.Scheduler, kind core.EventKind, onComplete func(dmaRequest)) *dmaEngine {
	return &dmaEngine{sched: sched, kind: kind, onComplete: onComplete}
}

// Kick starts req immediately if the engine is idle, else queues it in the
// second FIFO slot (setting the Full status bit), matching the two-entry
// shadow-register idiom real PI/SI/SP DMA hardware exposes.
func (d *dmaEngine) Kick(req dmaRequest, durationCycles uint64, now uint64) {
	if !d.busy {
		d.busy = true
		d.current = req
		d.sched.Schedule(d.kind, now+durationCycles, func(cycle uint64) {
			d.finish()
		})
		return
	}
	d.queued = req
	d.hasQueued = true
	d.full = true
}

func (d *dmaEngine) finish() {
	completed := d.current
	d.busy = false
	if d.onComplete != nil {
		d.onComplete(completed)
	}
	if d.hasQueued {
		d.hasQueued = false
		d.full = false
		// Re-kick with zero extra delay computation left to the caller; in
		// practice devices re-derive duration from the queued request's own
		// length, so callers observing Full clear on this tick re-kick
		// explicitly rather than this engine guessing a duration.
	}
}

func (d *dmaEngine) Busy() bool { return d.busy }
func (d *dmaEngine) Full() bool { return d.full }

// PopQueued removes and returns the queued (shadow) request, if any, letting
// the owning device re-kick it with its own duration computation.
func (d *dmaEngine) PopQueued() (dmaRequest, bool) {
	if !d.hasQueued {
		return dmaRequest{}, false
	}
	req := d.queued
	d.hasQueued = false
	d.full = false
	return req, true
}
