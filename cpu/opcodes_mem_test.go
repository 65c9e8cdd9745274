package cpu

import "testing"

// flatBus is a minimal mem.Bus test double: a flat byte array addressed
// directly by physical address, enough to exercise load/store/LL-SC
// without pulling in the dispatch table.
type flatBus struct {
	data [1 << 16]byte
}

func (b *flatBus) Read8(addr uint32) uint8     { return b.data[addr] }
func (b *flatBus) Write8(addr uint32, v uint8) { b.data[addr] = v }
func (b *flatBus) Read16(addr uint32) uint16 {
	return uint16(b.data[addr])<<8 | uint16(b.data[addr+1])
}
func (b *flatBus) Write16(addr uint32, v uint16) {
	b.data[addr] = byte(v >> 8)
	b.data[addr+1] = byte(v)
}
func (b *flatBus) Read32(addr uint32) uint32 {
	return uint32(b.data[addr])<<24 | uint32(b.data[addr+1])<<16 | uint32(b.data[addr+2])<<8 | uint32(b.data[addr+3])
}
func (b *flatBus) Write32(addr uint32, v uint32) {
	b.data[addr] = byte(v >> 24)
	b.data[addr+1] = byte(v >> 16)
	b.data[addr+2] = byte(v >> 8)
	b.data[addr+3] = byte(v)
}
func (b *flatBus) Read64(addr uint32) uint64 {
	return uint64(b.Read32(addr))<<32 | uint64(b.Read32(addr+4))
}
func (b *flatBus) Write64(addr uint32, v uint64) {
	b.Write32(addr, uint32(v>>32))
	b.Write32(addr+4, uint32(v))
}

// newMemCPU composes a bare CPU with a flatBus reachable through the KSEG1
// direct-mapped, uncached window so load/store opcodes can be exercised
// without a dispatch table or TLB entries.
func newMemCPU() (*CPU, *flatBus) {
	tlb := NewTLB()
	bus := &flatBus{}
	c := &CPU{cop0: NewCOP0(tlb), tlb: tlb, fpu: NewFPU(), bus: bus, dcache: nil}
	return c, bus
}

const kseg1Base = 0xA0001000

func TestLoadWordSignExtends(t *testing.T) {
	c, bus := newMemCPU()
	bus.Write32(0x1000, 0xFFFFFFF0)
	c.SetGPR(1, kseg1Base)
	word := encodeI(opLW, 1, 2, 0)
	c.decodeAndExecute(word)
	if c.GPR(2) != 0xFFFFFFFFFFFFFFF0 {
		t.Fatalf("GPR2 = 0x%X, want sign-extended 0xFFFFFFFFFFFFFFF0", c.GPR(2))
	}
}

func TestLoadByteUnsignedZeroExtends(t *testing.T) {
	c, bus := newMemCPU()
	bus.Write8(0x1000, 0xF0)
	c.SetGPR(1, kseg1Base)
	word := encodeI(opLBU, 1, 2, 0)
	c.decodeAndExecute(word)
	if c.GPR(2) != 0xF0 {
		t.Fatalf("GPR2 = 0x%X, want 0xF0", c.GPR(2))
	}
}

func TestStoreWordThenLoadRoundTrip(t *testing.T) {
	c, _ := newMemCPU()
	c.SetGPR(1, kseg1Base)
	c.SetGPR(2, 0xCAFEBABE)
	c.decodeAndExecute(encodeI(opSW, 1, 2, 0))
	c.decodeAndExecute(encodeI(opLW, 1, 3, 0))
	if c.GPR(3) != 0xFFFFFFFFCAFEBABE {
		t.Fatalf("round-tripped GPR3 = 0x%X, want sign-extended 0xCAFEBABE", c.GPR(3))
	}
}

func TestLoadEffectiveAddressAddsSignedImmediate(t *testing.T) {
	c, bus := newMemCPU()
	bus.Write32(0x1010, 0x11223344)
	c.SetGPR(1, kseg1Base)
	word := encodeI(opLW, 1, 2, 0x10)
	c.decodeAndExecute(word)
	if c.GPR(2) != uint64(int64(int32(0x11223344))) {
		t.Fatalf("GPR2 = 0x%X, want sign-extended 0x11223344", c.GPR(2))
	}
}

func TestLLThenMatchingSCSucceeds(t *testing.T) {
	c, _ := newMemCPU()
	c.SetGPR(1, kseg1Base)
	c.decodeAndExecute(encodeI(opLL, 1, 2, 0))
	if !c.regs.LLBit {
		t.Fatal("LL must arm the LL-bit reservation")
	}
	c.SetGPR(3, 0x5555)
	c.decodeAndExecute(encodeI(opSC, 1, 3, 0))
	if c.GPR(3) != 1 {
		t.Fatalf("SC result = %d, want 1 (success)", c.GPR(3))
	}
	if c.regs.LLBit {
		t.Fatal("SC must clear the LL-bit reservation regardless of outcome")
	}
}

func TestSCFailsWithoutPriorLL(t *testing.T) {
	c, _ := newMemCPU()
	c.SetGPR(1, kseg1Base)
	c.SetGPR(3, 0x5555)
	c.decodeAndExecute(encodeI(opSC, 1, 3, 0))
	if c.GPR(3) != 0 {
		t.Fatalf("SC result = %d, want 0 (failure) with no armed reservation", c.GPR(3))
	}
}

// A store to a TLB-mapped page that is valid but not dirty must raise
// TLBMod, not a generic TLB-refill/store miss, per spec.md §8.
func TestStoreToValidButCleanTLBPageRaisesMod(t *testing.T) {
	c, _ := newMemCPU()
	c.tlb.WriteEntry(0, TLBEntry{
		Mask: 0, VPN2: 0x00002000,
		PFNEven: 0x1, VEven: true, DEven: false, CEven: 2, // valid, clean, uncached
	})
	c.cop0.SetStatus(0)
	c.SetGPR(1, 0x00002000)
	c.SetGPR(2, 0xCAFEBABE)
	c.decodeAndExecute(encodeI(opSW, 1, 2, 0))
	if c.cop0.Cause()&ExcCodeMask != uint32(ExcMod<<2) {
		t.Fatalf("ExcCode = 0x%X, want ExcMod", c.cop0.Cause()&ExcCodeMask)
	}
}

func TestLWLMergesHighBytesPreservingLowBytes(t *testing.T) {
	c, bus := newMemCPU()
	bus.Write32(0x1000, 0x11223344)
	c.SetGPR(1, kseg1Base+1) // unaligned: shift = 1
	c.SetGPR(2, 0xAABBCCDD)
	c.decodeAndExecute(encodeI(opLWL, 1, 2, 0))
	want := uint32(0x223344DD)
	if uint32(c.GPR(2)) != want {
		t.Fatalf("GPR2 = 0x%X, want 0x%X", uint32(c.GPR(2)), want)
	}
}
