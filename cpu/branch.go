// branch.go implements the branch delay-slot state machine, including the
// "likely" branch variant's squash-on-not-taken behaviour.
package cpu

// BranchState is the small state machine modelling the MIPS branch delay
// slot, including the "likely" variant that squashes its delay slot when
// not taken.
type BranchState int

const (
	BranchStep BranchState = iota
	BranchTake
	BranchNotTaken
	BranchDelaySlotTaken
	BranchDelaySlotNotTaken
	BranchDiscard
	BranchException
)

// target is latched when entering BranchTake so the delay-slot transition
// knows where to land.
type branchFSM struct {
	state  BranchState
	target uint64
}

// Advance steps the branch FSM by one instruction retire, returning the new
// PC and whether the delay slot instruction (if any) should be skipped
// entirely (the "likely, not taken" Discard case).
func (b *branchFSM) Advance(pc uint64) (nextPC uint64, skipDelaySlot bool) {
	switch b.state {
	case BranchStep:
		return pc + 4, false
	case BranchTake:
		b.state = BranchDelaySlotTaken
		return pc + 4, false
	case BranchNotTaken:
		b.state = BranchDelaySlotNotTaken
		return pc + 4, false
	case BranchDelaySlotTaken:
		b.state = BranchStep
		return b.target, false
	case BranchDelaySlotNotTaken:
		b.state = BranchStep
		return pc + 4, false
	case BranchDiscard:
		b.state = BranchStep
		return pc + 8, true
	case BranchException:
		b.state = BranchStep
		return pc, false
	default:
		b.state = BranchStep
		return pc + 4, false
	}
}

// SetTaken arms a regular branch/jump to target.
func (b *branchFSM) SetTaken(target uint64) {
	b.state = BranchTake
	b.target = target
}

// SetNotTaken arms a regular (non-likely) branch that fell through.
func (b *branchFSM) SetNotTaken() {
	b.state = BranchNotTaken
}

// SetLikelyTaken arms a "likely" branch that was taken — identical delay
// slot handling to a regular taken branch.
func (b *branchFSM) SetLikelyTaken(target uint64) {
	b.state = BranchTake
	b.target = target
}

// SetLikelyNotTaken arms a "likely" branch that was not taken: its delay
// slot must never execute.
func (b *branchFSM) SetLikelyNotTaken() {
	b.state = BranchDiscard
}

// ForceException collapses any in-flight branch state when an exception is
// taken; the exception dispatcher has already set PC, so advancing after
// this call just steps PC forward normally from here on.
func (b *branchFSM) ForceException() {
	b.state = BranchException
}

// InDelaySlot reports whether the instruction about to retire occupies a
// delay slot — needed to set Cause.BD correctly on an exception raised by
// that instruction.
func (b *branchFSM) InDelaySlot() bool {
	return b.state == BranchDelaySlotTaken || b.state == BranchDelaySlotNotTaken
}
