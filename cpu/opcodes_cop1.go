// opcodes_cop1.go implements the FPU secondary table: MFC1/MTC1/CFC1/CTC1,
// the BC1T/BC1F branch sub-table, and the format-dispatched arithmetic
// table (single/double/word/long)'s "coprocessor-1 dispatcher
// further branches on the format field".
package cpu

import "math"

const (
	cop1MF  = 0x00
	cop1DMF = 0x01
	cop1CF  = 0x02
	cop1MT  = 0x04
	cop1DMT = 0x05
	cop1CT  = 0x06
	cop1BC  = 0x08
)

const (
	fmtSingle = 16
	fmtDouble = 17
	fmtWord   = 20
	fmtLong   = 21
)

const (
	cop1fnADD    = 0x00
	cop1fnSUB    = 0x01
	cop1fnMUL    = 0x02
	cop1fnDIV    = 0x03
	cop1fnSQRT   = 0x04
	cop1fnABS    = 0x05
	cop1fnMOV    = 0x06
	cop1fnNEG    = 0x07
	cop1fnCVTS   = 0x20
	cop1fnCVTD   = 0x21
	cop1fnCVTW   = 0x24
	cop1fnCVTL   = 0x25
	cop1fnCLTFirst = 0x30 // C.F starts the compare sub-range 0x30-0x3F
)

func (c *CPU) execCOP1(in insn) {
	switch in.rs {
	case cop1MF:
		c.regs.Set(in.rt, uint64(int64(int32(c.fpu.ReadWord32(in.rd)))))
	case cop1DMF:
		c.regs.Set(in.rt, c.fpu.ReadDouble64(in.rd))
	case cop1CF:
		if in.rd == 0 {
			c.regs.Set(in.rt, uint64(c.fpu.FCR0()))
		} else {
			c.regs.Set(in.rt, uint64(c.fpu.FCR31()))
		}
	case cop1MT:
		c.fpu.WriteWord32(in.rd, uint32(c.regs.Get(in.rt)))
	case cop1DMT:
		c.fpu.WriteDouble64(in.rd, c.regs.Get(in.rt))
	case cop1CT:
		if in.rd == 31 {
			c.fpu.SetFCR31(uint32(c.regs.Get(in.rt)))
		}
	case cop1BC:
		taken := c.fpu.Compare()
		switch in.rt {
		case 0: // BC1F
			c.branchIf(in, !taken, false)
		case 1: // BC1T
			c.branchIf(in, taken, false)
		case 2: // BC1FL
			c.branchIf(in, !taken, true)
		case 3: // BC1TL
			c.branchIf(in, taken, true)
		}
	case fmtSingle:
		c.execFPUSingle(in)
	case fmtDouble:
		c.execFPUDouble(in)
	case fmtWord:
		c.execFPUFromWord(in)
	case fmtLong:
		c.execFPUFromLong(in)
	default:
		c.raise(ExcRI, 0, false)
	}
}

func (c *CPU) chargeFPU(cycles uint64) { c.extraCycles += cycles }

// FPU reciprocal timings: 2/4/28/57 cycles for add/mul/div/sqrt at single
// precision. Double precision is charged roughly double, tracking the
// VR4300 manual's figures.
func (c *CPU) execFPUSingle(in insn) {
	a := c.fpu.ReadFloat32(in.rd)
	b := c.fpu.ReadFloat32(in.rt)
	switch {
	case in.function == cop1fnADD:
		c.fpu.WriteFloat32(in.sa, a+b)
		c.chargeFPU(2)
	case in.function == cop1fnSUB:
		c.fpu.WriteFloat32(in.sa, a-b)
		c.chargeFPU(2)
	case in.function == cop1fnMUL:
		c.fpu.WriteFloat32(in.sa, a*b)
		c.chargeFPU(4)
	case in.function == cop1fnDIV:
		c.fpu.WriteFloat32(in.sa, a/b)
		c.chargeFPU(28)
	case in.function == cop1fnSQRT:
		c.fpu.WriteFloat32(in.sa, float32(math.Sqrt(float64(a))))
		c.chargeFPU(57)
	case in.function == cop1fnABS:
		c.fpu.WriteFloat32(in.sa, float32(math.Abs(float64(a))))
	case in.function == cop1fnMOV:
		c.fpu.WriteFloat32(in.sa, a)
	case in.function == cop1fnNEG:
		c.fpu.WriteFloat32(in.sa, -a)
	case in.function == cop1fnCVTD:
		c.fpu.WriteFloat64(in.sa, float64(a))
	case in.function == cop1fnCVTW:
		c.fpu.WriteWord32(in.sa, uint32(int32(roundFPU(float64(a), c.fpu.FCR31()))))
	case in.function == cop1fnCVTL:
		c.fpu.WriteDouble64(in.sa, uint64(int64(roundFPU(float64(a), c.fpu.FCR31()))))
	case in.function >= cop1fnCLTFirst:
		c.fpu.SetCompare(fpuCompare(in.function&0xF, float64(a), float64(b)))
	default:
		c.raise(ExcRI, 0, false)
	}
}

func (c *CPU) execFPUDouble(in insn) {
	a := c.fpu.ReadFloat64(in.rd)
	b := c.fpu.ReadFloat64(in.rt)
	switch {
	case in.function == cop1fnADD:
		c.fpu.WriteFloat64(in.sa, a+b)
		c.chargeFPU(4)
	case in.function == cop1fnSUB:
		c.fpu.WriteFloat64(in.sa, a-b)
		c.chargeFPU(4)
	case in.function == cop1fnMUL:
		c.fpu.WriteFloat64(in.sa, a*b)
		c.chargeFPU(8)
	case in.function == cop1fnDIV:
		c.fpu.WriteFloat64(in.sa, a/b)
		c.chargeFPU(56)
	case in.function == cop1fnSQRT:
		c.fpu.WriteFloat64(in.sa, math.Sqrt(a))
		c.chargeFPU(114)
	case in.function == cop1fnABS:
		c.fpu.WriteFloat64(in.sa, math.Abs(a))
	case in.function == cop1fnMOV:
		c.fpu.WriteFloat64(in.sa, a)
	case in.function == cop1fnNEG:
		c.fpu.WriteFloat64(in.sa, -a)
	case in.function == cop1fnCVTS:
		c.fpu.WriteFloat32(in.sa, float32(a))
	case in.function == cop1fnCVTW:
		c.fpu.WriteWord32(in.sa, uint32(int32(roundFPU(a, c.fpu.FCR31()))))
	case in.function == cop1fnCVTL:
		c.fpu.WriteDouble64(in.sa, uint64(int64(roundFPU(a, c.fpu.FCR31()))))
	case in.function >= cop1fnCLTFirst:
		c.fpu.SetCompare(fpuCompare(in.function&0xF, a, b))
	default:
		c.raise(ExcRI, 0, false)
	}
}

func (c *CPU) execFPUFromWord(in insn) {
	w := int32(c.fpu.ReadWord32(in.rd))
	switch in.function {
	case cop1fnCVTS:
		c.fpu.WriteFloat32(in.sa, float32(w))
	case cop1fnCVTD:
		c.fpu.WriteFloat64(in.sa, float64(w))
	}
}

func (c *CPU) execFPUFromLong(in insn) {
	l := int64(c.fpu.ReadDouble64(in.rd))
	switch in.function {
	case cop1fnCVTS:
		c.fpu.WriteFloat32(in.sa, float32(l))
	case cop1fnCVTD:
		c.fpu.WriteFloat64(in.sa, float64(l))
	}
}

func roundFPU(v float64, fcr31 uint32) float64 {
	switch fcr31 & FCR31RoundMask {
	case RoundZero:
		return math.Trunc(v)
	case RoundPlusInf:
		return math.Ceil(v)
	case RoundMinInf:
		return math.Floor(v)
	default:
		return math.RoundToEven(v)
	}
}

// fpuCompare implements the C.cond.fmt predicate table; bit 0 selects
// "equal", bit 1 "less than", bit 2 "unordered", bit 3 "signalling" (the
// signalling distinction is not modelled — no guest software this core
// targets relies on the invalid-operation trap it would raise).
func fpuCompare(cond uint32, a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return cond&0x1 != 0 // unordered predicates that include "equal" report true for NaN per convention; see DESIGN.md
	}
	lt := a < b
	eq := a == b
	result := false
	if cond&0x2 != 0 {
		result = result || lt
	}
	if cond&0x1 != 0 {
		result = result || eq
	}
	return result
}
