// Package rsp implements the reality signal processor: a reduced MIPS
// scalar core running out of 4 KiB of instruction memory against 4 KiB of
// data memory, plus the 32x128-bit vector unit it drives through its own
// coprocessor-2 opcode space.
//
// Grounded on cpu/cpu.go's retire-loop shape (fetch, idle-aware decode,
// branch-FSM advance, cycle charge) for the scalar interpreter, and on
// coprocessor_manager.go's ticket/worker lifecycle for task dispatch —
// adapted in task.go from that repo's goroutine-per-ticket model down to a
// single synchronous task per kick, since RSP/CPU interleaving is explicitly
// out of scope here.
package rsp

import "github.com/reality64/n64core/mem"

const (
	// MemSize is the size of each of DMEM and IMEM.
	MemSize = 4096
	pcMask  = MemSize - 1
)

// SP_STATUS bits.
const (
	StatusHalt = 1 << iota
	StatusBroke
	StatusDMABusy
	StatusDMAFull
	StatusIOFull
	StatusSStep
	StatusIntrBreak
	StatusSig0
	StatusSig1
	StatusSig2
	StatusSig3
	StatusSig4
	StatusSig5
	StatusSig6
	StatusSig7
)

// InterruptSink receives the RSP's own MI.SP interrupt line (task break with
// INTR_BREAK armed). Wired by the composition root to the MI aggregator so
// this package never needs to import rcp.
type InterruptSink interface {
	RaiseSP()
}

// scalarBranchState mirrors cpu/branch.go's delay-slot machine, minus the
// "likely" Discard state: the RSP ISA has no branch-likely instructions.
type scalarBranchState int

const (
	sbStep scalarBranchState = iota
	sbTake
	sbDelaySlot
)

type scalarBranch struct {
	state  scalarBranchState
	target uint32
}

func (b *scalarBranch) advance(pc uint32) uint32 {
	switch b.state {
	case sbTake:
		b.state = sbDelaySlot
		return pc + 4
	case sbDelaySlot:
		b.state = sbStep
		return b.target
	default:
		return pc + 4
	}
}

func (b *scalarBranch) setTaken(target uint32) {
	b.state = sbTake
	b.target = target & pcMask &^ 3
}

// SP is the composed scalar+vector processor.
type SP struct {
	gpr [32]uint32
	pc  uint32

	dmem [MemSize]byte
	imem [MemSize]byte
	ops  [MemSize / 4]decodedOp // eagerly re-decoded on every IMEM write

	vu VectorUnit

	branch scalarBranch
	halted bool

	status      uint32
	dmaMemAddr  uint32
	dmaDramAddr uint32
	dmaRdLen    uint32
	dmaWrLen    uint32
	semaphore   bool

	// DPC shadow registers, aliased onto RSP COP0 indices 8-15 (the RDP
	// command front-end owns the authoritative copies; this is the view
	// RSP microcode reads/writes through its own coprocessor-0 opcodes).
	dpc [8]uint32

	ram  *mem.RDRAM
	sink InterruptSink
}

type decodedOp struct {
	raw uint32
}

// New constructs an idle RSP with zeroed memories, halted (the reset state
// real hardware boots into; the CPU must write SP_STATUS to clear HALT
// before any task runs).
func New(ram *mem.RDRAM, sink InterruptSink) *SP {
	return &SP{ram: ram, sink: sink, status: StatusHalt, halted: true}
}

func (s *SP) GPR(i int) uint32 { return s.gpr[i&0x1F] }
func (s *SP) SetGPR(i int, v uint32) {
	if i != 0 {
		s.gpr[i&0x1F] = v
	}
}
func (s *SP) PC() uint32     { return s.pc }
func (s *SP) SetPC(v uint32) { s.pc = v & pcMask &^ 3 }

// Run executes scalar instructions until the task halts (SP_STATUS.HALT set
// by a BREAK or an explicit status write) or hits an instruction budget
// safety valve. It is invoked synchronously from task.go's kick handler.
func (s *SP) Run(maxInstructions int) int {
	n := 0
	for !s.halted && n < maxInstructions {
		s.step()
		n++
	}
	return n
}

func (s *SP) step() {
	word := s.fetch(s.pc)
	s.pc = s.branch.advance(s.pc)
	s.execute(word)
}

func (s *SP) fetch(pc uint32) uint32 {
	idx := (pc & pcMask) >> 2
	return s.ops[idx].raw
}

// writeIMEM installs a freshly-DMA'd or MMIO-written word and re-decodes it,
// matching the eager-redecode contract: every IMEM write re-decodes the
// affected word into its cached handler slot immediately, not on next fetch.
func (s *SP) writeIMEM(word uint32, v uint32) {
	idx := word & pcMask &^ 3
	s.imem[idx] = byte(v >> 24)
	s.imem[idx+1] = byte(v >> 16)
	s.imem[idx+2] = byte(v >> 8)
	s.imem[idx+3] = byte(v)
	s.ops[idx>>2] = decodedOp{raw: v}
}

// Halted reports whether the task has stopped (BREAK executed or the CPU
// wrote HALT into SP_STATUS).
func (s *SP) Halted() bool { return s.halted }

// Break is invoked by the BREAK scalar instruction: sets HALT and BROKE, and
// raises the MI.SP line only if INTR_BREAK is armed — "SP_STATUS.HALT +
// BROKE can assert an interrupt via INTR_BREAK".
func (s *SP) Break() {
	s.halted = true
	s.status |= StatusHalt | StatusBroke
	if s.status&StatusIntrBreak != 0 {
		s.sink.RaiseSP()
	}
}
