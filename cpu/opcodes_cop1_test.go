package cpu

import "testing"

func newCOP1DispatchCPU() *CPU {
	tlb := NewTLB()
	c := &CPU{cop0: NewCOP0(tlb), tlb: tlb, fpu: NewFPU()}
	c.fpu.SetFR(true)
	return c
}

func TestMTC1ThenMFC1RoundTrip(t *testing.T) {
	c := newCOP1DispatchCPU()
	c.SetGPR(4, 0xDEADBEEF)
	c.decodeAndExecute(encodeR(opCOP1, cop1MT, 4, 2, 0, 0)) // MTC1 $4, f2
	c.decodeAndExecute(encodeR(opCOP1, cop1MF, 5, 2, 0, 0)) // MFC1 $5, f2
	want := uint64(0xFFFFFFFFDEADBEEF) // 0xDEADBEEF sign-extended
	if c.GPR(5) != want {
		t.Fatalf("GPR5 = 0x%X, want 0x%X", c.GPR(5), want)
	}
}

func TestFPUAddDotSingle(t *testing.T) {
	c := newCOP1DispatchCPU()
	c.fpu.WriteFloat32(1, 2.5)
	c.fpu.WriteFloat32(2, 1.5)
	// ADD.S f3, f1, f2: fmt=single(rs), ft=rt=2, fs=rd=1, fd=sa=3
	c.decodeAndExecute(encodeR(opCOP1, fmtSingle, 2, 1, 3, cop1fnADD))
	if got := c.fpu.ReadFloat32(3); got != 4.0 {
		t.Fatalf("f3 = %v, want 4.0", got)
	}
}

func TestFPUCompareSetsConditionBitForCOP1Branch(t *testing.T) {
	c := newCOP1DispatchCPU()
	c.fpu.WriteFloat32(1, 1.0)
	c.fpu.WriteFloat32(2, 1.0)
	// a compare predicate selecting "equal" only (bit 0 of the function's
	// low nibble, per fpuCompare's bit layout)
	c.decodeAndExecute(encodeR(opCOP1, fmtSingle, 2, 1, 0, cop1fnCLTFirst|0x1))
	if !c.fpu.Compare() {
		t.Fatal("the equal-only compare predicate on equal operands must set the compare flag")
	}

	c.SetPC(0x80001000)
	// BC1T, offset 4
	c.decodeAndExecute(encodeI(opCOP1, cop1BC, 1, 4))
	if c.branch.state != BranchTake {
		t.Fatalf("branch state = %v, want BranchTake after BC1T with compare true", c.branch.state)
	}
}

func TestCVTWSRoundsTowardZeroWhenConfigured(t *testing.T) {
	c := newCOP1DispatchCPU()
	c.fpu.SetFCR31(RoundZero)
	c.fpu.WriteFloat32(1, 3.9)
	// CVT.W.S f2, f1: fmt=single, fs=rd=1, fd=sa=2
	c.decodeAndExecute(encodeR(opCOP1, fmtSingle, 0, 1, 2, cop1fnCVTW))
	if got := int32(c.fpu.ReadWord32(2)); got != 3 {
		t.Fatalf("CVT.W.S(3.9) truncated = %d, want 3", got)
	}
}
