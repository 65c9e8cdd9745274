// cpu.go is the MIPS III interpreter: the fetch/decode/execute/retire loop,
// wired to the TLB, caches, COP0/1/2 and the scheduler.
//
// Grounded on cpu_m68k.go's ExecuteInstruction/StepOne pair (a retire loop
// that fetches, dispatches through a nested group-decode switch, then lets
// the caller decide whether to keep stepping) and on that file's
// primary/secondary opcode table design (tagged dispatch over a switch
// rather than carrying raw function pointers in state).
package cpu

import (
	"github.com/reality64/n64core/cache"
	"github.com/reality64/n64core/core"
	"github.com/reality64/n64core/logx"
	"github.com/reality64/n64core/mem"
)

// Timing contracts (integer multiply/divide and cache fill costs).
const (
	cyclesMultiply        = 4
	cyclesDivide          = 36
	cyclesDoublewordMul   = 7
	cyclesDoublewordDiv   = 68
	cyclesICacheFill      = 41 // approx 31 + 32/3 at CPU clock
	cyclesDCacheFillOrHit = 1
)

// COP2 is the CPU-facing latch interface onto the RSP vector register file
// (the RSP's CFC2/CTC2 and the plain MFC2/MTC2 data latch). The RSP
// package implements this; the CPU package only depends on the interface so
// the two can be built and tested independently.
type COP2 interface {
	MFC2(reg int) uint32
	MTC2(reg int, v uint32)
	CFC2(reg int) uint32
	CTC2(reg int, v uint32)
}

// CPU is the composed MIPS III core.
type CPU struct {
	regs   Regs
	cop0   *COP0
	tlb    *TLB
	fpu    *FPU
	cop2   COP2
	branch branchFSM

	icache *cache.ICache
	dcache *cache.DCache
	bus    mem.Bus
	sched  *core.Scheduler

	running      bool
	extraCycles  uint64
	instrCount   uint64
}

// New composes a CPU over the given bus and scheduler. cop2 may be nil
// until the RSP is constructed; callers must AttachCOP2 before executing
// any COP2 instruction.
func New(bus mem.Bus, sched *core.Scheduler) *CPU {
	tlb := NewTLB()
	c := &CPU{
		cop0:   NewCOP0(tlb),
		tlb:    tlb,
		fpu:    NewFPU(),
		icache: cache.NewICache(),
		dcache: cache.NewDCache(),
		bus:    bus,
		sched:  sched,
	}
	c.Reset()
	return c
}

// AttachCOP2 wires the RSP vector-latch interface in after construction,
// breaking the cpu<->rcp import cycle.
func (c *CPU) AttachCOP2(cop2 COP2) { c.cop2 = cop2 }

// Reset restores power-on register state: PC at the PIF boot vector,
// Status.BEV set (boot ROM uncached), TLB cleared.
func (c *CPU) Reset() {
	c.regs = Regs{PC: 0xFFFFFFFFBFC00000}
	c.cop0.SetStatus(StatusBEV | StatusERL)
	*c.tlb = TLB{}
}

func (c *CPU) Running() bool     { return c.running }
func (c *CPU) SetRunning(v bool) { c.running = v }
func (c *CPU) COP0() *COP0       { return c.cop0 }
func (c *CPU) TLB() *TLB         { return c.tlb }
func (c *CPU) FPU() *FPU         { return c.fpu }
func (c *CPU) GPR(i int) uint64  { return c.regs.Get(i) }
func (c *CPU) SetGPR(i int, v uint64) { c.regs.Set(i, v) }
func (c *CPU) PC() uint64        { return c.regs.PC }
func (c *CPU) SetPC(v uint64)    { c.regs.PC = v }

// Execute runs the retire loop until SetRunning(false). machine.Run does not
// use it; it drives the CPU by calling Step itself.
func (c *CPU) Execute() {
	c.running = true
	for c.running {
		c.Step()
	}
}

// Step retires exactly one instruction: fetch, idle-loop check, decode and
// execute, advance PC through the branch FSM, charge cycles, run the
// scheduler if due.
func (c *CPU) Step() {
	c.extraCycles = 0

	phys, cached, fault := c.translateFetch(uint32(c.regs.PC))
	if fault != NoFault {
		c.RaiseTLB(fault, uint32(c.regs.PC), AccessExec)
		return
	}
	c.regs.PCPhys = phys

	var word uint32
	if cached {
		word = c.fetchCached(phys)
	} else {
		word = c.bus.Read32(phys)
	}

	if c.detectIdleLoop(phys, word) {
		return
	}

	c.decodeAndExecute(word)

	nextPC, _ := c.branch.Advance(c.regs.PC)
	c.regs.PC = nextPC

	c.cop0.AdvanceWide(1 + c.extraCycles)
	c.instrCount++

	if c.cop0.WideCount() > c.sched.NextDeadline() {
		c.sched.Tick(c.cop0.WideCount())
		c.checkInterrupt()
	}
}

func (c *CPU) translateFetch(vaddr uint32) (phys uint32, cached bool, fault FaultCode) {
	return c.tlb.Translate(vaddr, AccessExec)
}

func (c *CPU) fetchCached(phys uint32) uint32 {
	line, hit := c.icache.Lookup(phys)
	if !hit {
		words := cache.FillFromBusI(c.bus, phys&^uint32(cache.LineBytes()-1))
		line = c.icache.Fill(phys&^uint32(cache.LineBytes()-1), words, [8]func(){})
		c.extraCycles += cyclesICacheFill
	}
	idx := (phys & uint32(cache.LineBytes()-1)) / 4
	return line.Words[idx]
}

// detectIdleLoop recognises `BEQ r,r,-1 ; NOP` (a branch-to-self whose delay
// slot is a NOP) and fast-forwards Count to the next scheduled event. It
// only fires when no branch is in flight (a BEQ sitting in another branch's
// delay slot is left alone); the loop can be recognised on its first fetch.
func (c *CPU) detectIdleLoop(phys uint32, word uint32) bool {
	if c.branch.state != BranchStep {
		return false
	}
	const opBEQ = 0x04
	opcode := word >> 26
	rs := (word >> 21) & 0x1F
	rt := (word >> 16) & 0x1F
	offset := int32(int16(word & 0xFFFF))
	if opcode != opBEQ || rs != rt || offset != -1 {
		return false
	}
	delaySlot := c.bus.Read32(phys + 4)
	if delaySlot != 0 {
		return false
	}
	deadline := c.sched.NextDeadline()
	cur := c.cop0.WideCount()
	if deadline <= cur {
		return false
	}
	delta := deadline - cur
	c.cop0.AdvanceWide((delta + 1) / 2) // AdvanceWide multiplies by 2 internally
	c.instrCount += (delta + 1) / 2
	c.sched.Tick(c.cop0.WideCount())
	c.checkInterrupt()
	return true
}

func (c *CPU) checkInterrupt() {
	if c.cop0.InterruptsEnabled() {
		c.raise(ExcInt, 0, false)
	}
}

// InstructionCount exposes the retired-instruction count the idle-loop
// testable property checks against the event deadline delta.
func (c *CPU) InstructionCount() uint64 { return c.instrCount }

// chargeMemoryAccess implements the D-cache hit/miss/writeback cost model;
// byte/half accesses reuse it at word granularity since the cache only ever
// holds whole words.
func (c *CPU) chargeMemoryAccess(phys uint32, isWrite bool) {
	_, hit := c.dcache.Lookup(phys)
	if hit {
		c.extraCycles += cyclesDCacheFillOrHit
		return
	}
	if c.dcache.WriteBack(c.bus, phys>>4) {
		c.extraCycles += cyclesICacheFill
	}
	words := cache.FillFromBusD(c.bus, phys&^0xF)
	c.dcache.Fill(phys&^0xF, words)
	c.extraCycles += cyclesICacheFill
}

// readMem charges D-cache hit/miss cycles for cached sub-doubleword
// accesses; the value itself is always read from the bus.
func (c *CPU) readMem(vaddr uint32, access Access, width int) (uint64, bool) {
	phys, cached, fault := c.tlb.Translate(vaddr, access)
	if fault != NoFault {
		if access == AccessWrite && fault == FaultTLBRefill {
			fault = c.tlb.ClassifyWriteFault(vaddr)
		}
		c.RaiseTLB(fault, vaddr, access)
		return 0, false
	}
	if cached && width != 8 {
		c.chargeMemoryAccess(phys&^3, false)
	}
	switch width {
	case 1:
		return uint64(c.bus.Read8(phys)), true
	case 2:
		return uint64(c.bus.Read16(phys)), true
	case 4:
		return uint64(c.bus.Read32(phys)), true
	case 8:
		return c.bus.Read64(phys), true
	}
	return 0, false
}

func (c *CPU) writeMem(vaddr uint32, access Access, width int, value uint64) bool {
	phys, cached, fault := c.tlb.Translate(vaddr, access)
	if fault != NoFault {
		if fault == FaultTLBRefill {
			fault = c.tlb.ClassifyWriteFault(vaddr)
		}
		c.RaiseTLB(fault, vaddr, access)
		return false
	}
	if cached && width != 8 {
		c.chargeMemoryAccess(phys&^3, true)
	}
	switch width {
	case 1:
		c.bus.Write8(phys, uint8(value))
	case 2:
		c.bus.Write16(phys, uint16(value))
	case 4:
		c.bus.Write32(phys, uint32(value))
	case 8:
		c.bus.Write64(phys, value)
	}
	if cached && width != 8 {
		c.dcache.WriteWord(phys&^3, c.bus.Read32(phys&^3))
	}
	return true
}

// LoadProgram is a debug/test convenience that stages a flat binary at base
// and points PC at it, so it is reachable without going through the full
// PIF boot handshake (package pif models that path for real boot).
func (c *CPU) LoadProgram(words []uint32, base uint32) {
	for i, w := range words {
		c.bus.Write32(base+uint32(i*4), w)
	}
	c.regs.PC = uint64(base)
	logx.Infof("loaded %d-word test program at 0x%08X", len(words), base)
}
