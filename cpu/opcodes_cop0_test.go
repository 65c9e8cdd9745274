package cpu

import (
	"testing"

	"github.com/reality64/n64core/core"
)

func newCOP0DispatchCPU() *CPU {
	tlb := NewTLB()
	return &CPU{cop0: NewCOP0(tlb), tlb: tlb, fpu: NewFPU(), sched: core.NewScheduler()}
}

func encodeR(opcode, rs, rt, rd, sa, function uint32) uint32 {
	return opcode<<26 | rs<<21 | rt<<16 | rd<<11 | sa<<6 | function
}

func TestMTC0ThenMFC0RoundTrip(t *testing.T) {
	c := newCOP0DispatchCPU()
	c.SetGPR(2, 0x12345678)
	c.decodeAndExecute(encodeR(opCOP0, cop0MT, 2, Cop0EntryHi, 0, 0))
	c.decodeAndExecute(encodeR(opCOP0, cop0MF, 3, Cop0EntryHi, 0, 0))
	if c.GPR(3) != 0x12345678 {
		t.Fatalf("GPR3 = 0x%X, want 0x12345678", c.GPR(3))
	}
}

func TestMFC0SignExtendsThe32BitValue(t *testing.T) {
	c := newCOP0DispatchCPU()
	c.SetGPR(2, 0xFFFFFFFF80000000) // only the low 32 bits are written by MTC0
	c.decodeAndExecute(encodeR(opCOP0, cop0MT, 2, Cop0EntryHi, 0, 0))
	c.decodeAndExecute(encodeR(opCOP0, cop0MF, 3, Cop0EntryHi, 0, 0))
	want := uint64(0xFFFFFFFF80000000)
	if c.GPR(3) != want {
		t.Fatalf("GPR3 = 0x%X, want sign-extended 0x%X", c.GPR(3), want)
	}
}

func TestTLBWIThenTLBPFindsTheInstalledEntry(t *testing.T) {
	c := newCOP0DispatchCPU()
	c.cop0.Write(Cop0EntryHi, 0x00002000) // VPN2 for vaddr 0x00002000-ish, ASID 0
	c.cop0.Write(Cop0EntryLo0, (0x1000<<6)|0x2) // PFN 0x1000, valid
	c.cop0.Write(Cop0EntryLo1, (0x1001<<6)|0x2)
	c.cop0.Write(Cop0Index, 5)
	c.decodeAndExecute(encodeR(opCOP0, cop0CO, 0, 0, 0, cop0fnTLBWI))

	if !c.tlb.Entries[5].VEven {
		t.Fatal("TLBWI did not install the entry at the Index register's slot")
	}

	c.cop0.Write(Cop0EntryHi, 0x00002000)
	c.decodeAndExecute(encodeR(opCOP0, cop0CO, 0, 0, 0, cop0fnTLBP))
	if c.cop0.Read(Cop0Index) != 5 {
		t.Fatalf("TLBP Index = %d, want 5", c.cop0.Read(Cop0Index))
	}
}

func TestTLBPMissesSetsIndexHighBit(t *testing.T) {
	c := newCOP0DispatchCPU()
	c.cop0.Write(Cop0EntryHi, 0x12340000)
	c.decodeAndExecute(encodeR(opCOP0, cop0CO, 0, 0, 0, cop0fnTLBP))
	if c.cop0.Read(Cop0Index)&(1<<31) == 0 {
		t.Fatal("TLBP on a miss must set the Index high bit")
	}
}

func TestERETViaDispatchRestoresEPCAndClearsEXL(t *testing.T) {
	c := newCOP0DispatchCPU()
	c.cop0.Write(Cop0EPC, 0x80010000)
	c.cop0.SetStatus(StatusEXL)
	c.decodeAndExecute(encodeR(opCOP0, cop0CO, 0, 0, 0, cop0fnERET))
	if c.PC() != 0x80010000 {
		t.Fatalf("PC = 0x%X, want 0x80010000", c.PC())
	}
	if c.cop0.Status()&StatusEXL != 0 {
		t.Fatal("ERET must clear StatusEXL")
	}
}

func TestCountWriteRebasesScheduler(t *testing.T) {
	c := newCOP0DispatchCPU()
	c.sched.Schedule(core.EventVI, 500, func(uint64) {})
	c.SetGPR(2, 1000)
	c.decodeAndExecute(encodeR(opCOP0, cop0MT, 2, Cop0Count, 0, 0))
	if c.cop0.GuestCount() != 1000 {
		t.Fatalf("Count = %d, want 1000", c.cop0.GuestCount())
	}
	// wide count moved from 0 to 2000, so the VI deadline moves by +2000.
	if d, _ := c.sched.Peek(core.EventVI); d != 2500 {
		t.Fatalf("VI deadline = %d, want 2500 after rebase", d)
	}
}
