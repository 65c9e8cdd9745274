package cpu

import "testing"

func newDecodeCPU() *CPU {
	tlb := NewTLB()
	return &CPU{cop0: NewCOP0(tlb), tlb: tlb, fpu: NewFPU()}
}

func encodeI(opcode, rs, rt uint32, imm int16) uint32 {
	return opcode<<26 | rs<<21 | rt<<16 | uint32(uint16(imm))
}

func TestExecADDITrapsOnPositiveOverflow(t *testing.T) {
	c := newDecodeCPU()
	c.SetGPR(1, 0x7FFFFFFF)
	word := encodeI(opADDI, 1, 2, 1)
	c.decodeAndExecute(word)

	if (c.cop0.Cause()&ExcCodeMask)>>2 != ExcOv {
		t.Fatalf("ExcCode = %d, want ExcOv", (c.cop0.Cause()&ExcCodeMask)>>2)
	}
	if c.GPR(2) != 0 {
		t.Fatalf("GPR2 = 0x%X, want untouched 0 after a trapped ADDI", c.GPR(2))
	}
}

func TestExecADDITrapsOnNegativeOverflow(t *testing.T) {
	c := newDecodeCPU()
	c.SetGPR(1, 0xFFFFFFFF80000000) // int32 -2147483648, sign-extended
	word := encodeI(opADDI, 1, 2, -1)
	c.decodeAndExecute(word)

	if (c.cop0.Cause()&ExcCodeMask)>>2 != ExcOv {
		t.Fatalf("ExcCode = %d, want ExcOv", (c.cop0.Cause()&ExcCodeMask)>>2)
	}
}

func TestExecADDIDoesNotTrapWithinRange(t *testing.T) {
	c := newDecodeCPU()
	c.SetGPR(1, 10)
	word := encodeI(opADDI, 1, 2, 5)
	c.decodeAndExecute(word)

	if (c.cop0.Cause() & ExcCodeMask) != 0 {
		t.Fatal("non-overflowing ADDI must not raise an exception")
	}
	if c.GPR(2) != 15 {
		t.Fatalf("GPR2 = %d, want 15", c.GPR(2))
	}
}

func TestExecADDIUWrapsWithoutTrap(t *testing.T) {
	c := newDecodeCPU()
	c.SetGPR(1, 0x7FFFFFFF)
	word := encodeI(opADDIU, 1, 2, 1)
	c.decodeAndExecute(word)

	if (c.cop0.Cause() & ExcCodeMask) != 0 {
		t.Fatal("ADDIU must never raise an overflow exception")
	}
	want := uint64(0xFFFFFFFF80000000) // sign-extended int32(-2147483648)
	if c.GPR(2) != want {
		t.Fatalf("GPR2 = 0x%X, want 0x%X", c.GPR(2), want)
	}
}

func TestDecodeAndExecuteDefaultCaseRaisesReservedInstruction(t *testing.T) {
	c := newDecodeCPU()
	word := uint32(0x1C) << 26 // unused primary opcode
	c.decodeAndExecute(word)

	if (c.cop0.Cause()&ExcCodeMask)>>2 != ExcRI {
		t.Fatalf("ExcCode = %d, want ExcRI", (c.cop0.Cause()&ExcCodeMask)>>2)
	}
}

func TestBranchIfArmsTakenWithComputedTarget(t *testing.T) {
	c := newDecodeCPU()
	c.SetPC(0x80001000)
	in := decode(encodeI(opBEQ, 0, 0, 4))
	c.branchIf(in, true, false)

	if c.branch.state != BranchTake {
		t.Fatalf("branch state = %v, want BranchTake", c.branch.state)
	}
	want := uint64(0x80001000 + 4 + (4 << 2))
	if c.branch.target != want {
		t.Fatalf("branch target = 0x%X, want 0x%X", c.branch.target, want)
	}
}

func TestBranchIfNotTakenLeavesFallThroughState(t *testing.T) {
	c := newDecodeCPU()
	c.SetPC(0x80001000)
	in := decode(encodeI(opBNE, 0, 0, 4))
	c.branchIf(in, false, false)

	if c.branch.state != BranchNotTaken {
		t.Fatalf("branch state = %v, want BranchNotTaken", c.branch.state)
	}
}

func TestBranchIfLikelyNotTakenArmsDiscard(t *testing.T) {
	c := newDecodeCPU()
	in := decode(encodeI(opBEQL, 0, 1, 4))
	c.branchIf(in, false, true)

	if c.branch.state != BranchDiscard {
		t.Fatalf("branch state = %v, want BranchDiscard for a likely-not-taken branch", c.branch.state)
	}
}

func TestDecodeAndExecuteLUILoadsUpperImmediate(t *testing.T) {
	c := newDecodeCPU()
	word := encodeI(opLUI, 0, 3, 0x1234)
	c.decodeAndExecute(word)

	if c.GPR(3) != 0x12340000 {
		t.Fatalf("GPR3 = 0x%X, want 0x12340000", c.GPR(3))
	}
}

func TestDecodeAndExecuteORIIsLogicalNotArithmetic(t *testing.T) {
	c := newDecodeCPU()
	c.SetGPR(1, 0xFFFFFFFFFFFF0000)
	word := encodeI(opORI, 1, 2, 0x00FF)
	c.decodeAndExecute(word)

	if c.GPR(2) != 0xFFFFFFFFFFFF00FF {
		t.Fatalf("GPR2 = 0x%X, want 0xFFFFFFFFFFFF00FF", c.GPR(2))
	}
}
