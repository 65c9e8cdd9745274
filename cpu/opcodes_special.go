// opcodes_special.go decodes the SPECIAL (opcode 0) and REGIMM (opcode 1)
// secondary tables.
package cpu

const (
	fnSLL     = 0x00
	fnSRL     = 0x02
	fnSRA     = 0x03
	fnSLLV    = 0x04
	fnSRLV    = 0x06
	fnSRAV    = 0x07
	fnJR      = 0x08
	fnJALR    = 0x09
	fnSYSCALL = 0x0C
	fnBREAK   = 0x0D
	fnSYNC    = 0x0F
	fnMFHI    = 0x10
	fnMTHI    = 0x11
	fnMFLO    = 0x12
	fnMTLO    = 0x13
	fnDSLLV   = 0x14
	fnDSRLV   = 0x16
	fnDSRAV   = 0x17
	fnMULT    = 0x18
	fnMULTU   = 0x19
	fnDIV     = 0x1A
	fnDIVU    = 0x1B
	fnDMULT   = 0x1C
	fnDMULTU  = 0x1D
	fnDDIV    = 0x1E
	fnDDIVU   = 0x1F
	fnADD     = 0x20
	fnADDU    = 0x21
	fnSUB     = 0x22
	fnSUBU    = 0x23
	fnAND     = 0x24
	fnOR      = 0x25
	fnXOR     = 0x26
	fnNOR     = 0x27
	fnSLT     = 0x2A
	fnSLTU    = 0x2B
	fnDADD    = 0x2C
	fnDADDU   = 0x2D
	fnDSUB    = 0x2E
	fnDSUBU   = 0x2F
	fnTGE     = 0x30
	fnTGEU    = 0x31
	fnTLT     = 0x32
	fnTLTU    = 0x33
	fnTEQ     = 0x34
	fnTNE     = 0x36
	fnDSLL    = 0x38
	fnDSRL    = 0x3A
	fnDSRA    = 0x3B
	fnDSLL32  = 0x3C
	fnDSRL32  = 0x3E
	fnDSRA32  = 0x3F
)

func (c *CPU) execSpecial(in insn) {
	rs, rt := c.regs.Get(in.rs), c.regs.Get(in.rt)
	switch in.function {
	case fnSLL:
		c.regs.Set(in.rd, uint64(int64(int32(uint32(rt)<<in.sa))))
	case fnSRL:
		c.regs.Set(in.rd, uint64(int64(int32(uint32(rt)>>in.sa))))
	case fnSRA:
		c.regs.Set(in.rd, uint64(int64(int32(rt)>>in.sa)))
	case fnSLLV:
		c.regs.Set(in.rd, uint64(int64(int32(uint32(rt)<<(rs&0x1F)))))
	case fnSRLV:
		c.regs.Set(in.rd, uint64(int64(int32(uint32(rt)>>(rs&0x1F)))))
	case fnSRAV:
		c.regs.Set(in.rd, uint64(int64(int32(rt)>>(rs&0x1F))))
	case fnDSLLV:
		c.regs.Set(in.rd, rt<<(rs&0x3F))
	case fnDSRLV:
		c.regs.Set(in.rd, rt>>(rs&0x3F))
	case fnDSRAV:
		c.regs.Set(in.rd, uint64(int64(rt)>>(rs&0x3F)))
	case fnDSLL:
		c.regs.Set(in.rd, rt<<in.sa)
	case fnDSRL:
		c.regs.Set(in.rd, rt>>in.sa)
	case fnDSRA:
		c.regs.Set(in.rd, uint64(int64(rt)>>in.sa))
	case fnDSLL32:
		c.regs.Set(in.rd, rt<<(in.sa+32))
	case fnDSRL32:
		c.regs.Set(in.rd, rt>>(in.sa+32))
	case fnDSRA32:
		c.regs.Set(in.rd, uint64(int64(rt)>>(in.sa+32)))
	case fnJR:
		c.branch.SetTaken(rs)
	case fnJALR:
		c.regs.Set(in.rd, c.regs.PC+8)
		c.branch.SetTaken(rs)
	case fnSYSCALL:
		c.raise(ExcSys, 0, false)
	case fnBREAK:
		c.raise(ExcBp, 0, false)
	case fnSYNC:
		// No-op: this core is single-threaded cooperative, so SYNC has
		// nothing to order.
	case fnMFHI:
		c.regs.Set(in.rd, c.regs.HI)
	case fnMTHI:
		c.regs.HI = rs
	case fnMFLO:
		c.regs.Set(in.rd, c.regs.LO)
	case fnMTLO:
		c.regs.LO = rs
	case fnMULT:
		result := int64(int32(rs)) * int64(int32(rt))
		c.regs.LO = uint64(int64(int32(result)))
		c.regs.HI = uint64(int64(int32(result >> 32)))
		c.extraCycles += cyclesMultiply
	case fnMULTU:
		result := uint64(uint32(rs)) * uint64(uint32(rt))
		c.regs.LO = uint64(int64(int32(uint32(result))))
		c.regs.HI = uint64(int64(int32(uint32(result >> 32))))
		c.extraCycles += cyclesMultiply
	case fnDMULT:
		hi, lo := mul128(int64(rs), int64(rt))
		c.regs.HI, c.regs.LO = hi, lo
		c.extraCycles += cyclesDoublewordMul
	case fnDMULTU:
		hi, lo := mul128u(rs, rt)
		c.regs.HI, c.regs.LO = hi, lo
		c.extraCycles += cyclesDoublewordMul
	case fnDIV:
		a, b := int32(rs), int32(rt)
		if b != 0 {
			c.regs.LO = uint64(int64(a / b))
			c.regs.HI = uint64(int64(a % b))
		}
		c.extraCycles += cyclesDivide
	case fnDIVU:
		a, b := uint32(rs), uint32(rt)
		if b != 0 {
			c.regs.LO = uint64(int64(int32(a / b)))
			c.regs.HI = uint64(int64(int32(a % b)))
		}
		c.extraCycles += cyclesDivide
	case fnDDIV:
		a, b := int64(rs), int64(rt)
		if b != 0 {
			c.regs.LO = uint64(a / b)
			c.regs.HI = uint64(a % b)
		}
		c.extraCycles += cyclesDoublewordDiv
	case fnDDIVU:
		if rt != 0 {
			c.regs.LO = rs / rt
			c.regs.HI = rs % rt
		}
		c.extraCycles += cyclesDoublewordDiv
	case fnADD:
		a, b := int32(rs), int32(rt)
		result := a + b
		if (a > 0 && b > 0 && result < 0) || (a < 0 && b < 0 && result >= 0) {
			c.raise(ExcOv, 0, false)
			return
		}
		c.regs.Set(in.rd, uint64(int64(result)))
	case fnADDU:
		c.regs.Set(in.rd, uint64(int64(int32(rs)+int32(rt))))
	case fnSUB:
		a, b := int32(rs), int32(rt)
		result := a - b
		if (a >= 0 && b < 0 && result < 0) || (a < 0 && b > 0 && result >= 0) {
			c.raise(ExcOv, 0, false)
			return
		}
		c.regs.Set(in.rd, uint64(int64(result)))
	case fnSUBU:
		c.regs.Set(in.rd, uint64(int64(int32(rs)-int32(rt))))
	case fnAND:
		c.regs.Set(in.rd, rs&rt)
	case fnOR:
		c.regs.Set(in.rd, rs|rt)
	case fnXOR:
		c.regs.Set(in.rd, rs^rt)
	case fnNOR:
		c.regs.Set(in.rd, ^(rs | rt))
	case fnSLT:
		c.setBool(in.rd, int64(rs) < int64(rt))
	case fnSLTU:
		c.setBool(in.rd, rs < rt)
	case fnDADD:
		c.regs.Set(in.rd, rs+rt) // no 64-bit overflow trap is raised
	case fnDADDU:
		c.regs.Set(in.rd, rs+rt)
	case fnDSUB:
		c.regs.Set(in.rd, rs-rt)
	case fnDSUBU:
		c.regs.Set(in.rd, rs-rt)
	case fnTGE:
		c.trapIf(int64(rs) >= int64(rt))
	case fnTGEU:
		c.trapIf(rs >= rt)
	case fnTLT:
		c.trapIf(int64(rs) < int64(rt))
	case fnTLTU:
		c.trapIf(rs < rt)
	case fnTEQ:
		c.trapIf(rs == rt)
	case fnTNE:
		c.trapIf(rs != rt)
	default:
		c.raise(ExcRI, 0, false)
	}
}

func (c *CPU) trapIf(cond bool) {
	if cond {
		c.raise(ExcTr, 0, false)
	}
}

func mul128(a, b int64) (hi, lo uint64) {
	neg := (a < 0) != (b < 0)
	ua, ub := uint64(a), uint64(b)
	if a < 0 {
		ua = uint64(-a)
	}
	if b < 0 {
		ub = uint64(-b)
	}
	hi, lo = mul128u(ua, ub)
	if neg {
		lo = ^lo + 1
		hi = ^hi
		if lo == 0 {
			hi++
		}
	}
	return
}

func mul128u(a, b uint64) (hi, lo uint64) {
	aLo, aHi := a&0xFFFFFFFF, a>>32
	bLo, bHi := b&0xFFFFFFFF, b>>32

	t := aLo * bLo
	w0 := t & 0xFFFFFFFF
	k := t >> 32

	t = aHi*bLo + k
	w1 := t & 0xFFFFFFFF
	w2 := t >> 32

	t = aLo*bHi + w1
	k = t >> 32

	lo = (t << 32) | w0
	hi = aHi*bHi + w2 + k
	return
}

const (
	rtBLTZ   = 0x00
	rtBGEZ   = 0x01
	rtBLTZL  = 0x02
	rtBGEZL  = 0x03
	rtBLTZAL = 0x10
	rtBGEZAL = 0x11
	rtTGEI   = 0x08
	rtTGEIU  = 0x09
	rtTLTI   = 0x0A
	rtTLTIU  = 0x0B
	rtTEQI   = 0x0C
	rtTNEI   = 0x0E
)

func (c *CPU) execRegimm(in insn) {
	rs := int64(c.regs.Get(in.rs))
	switch in.rt {
	case rtBLTZ:
		c.branchIf(in, rs < 0, false)
	case rtBGEZ:
		c.branchIf(in, rs >= 0, false)
	case rtBLTZL:
		c.branchIf(in, rs < 0, true)
	case rtBGEZL:
		c.branchIf(in, rs >= 0, true)
	case rtBLTZAL:
		c.regs.Set(31, c.regs.PC+8)
		c.branchIf(in, rs < 0, false)
	case rtBGEZAL:
		c.regs.Set(31, c.regs.PC+8)
		c.branchIf(in, rs >= 0, false)
	case rtTGEI:
		c.trapIf(rs >= int64(in.immediate))
	case rtTGEIU:
		c.trapIf(uint64(rs) >= uint64(in.immediate))
	case rtTLTI:
		c.trapIf(rs < int64(in.immediate))
	case rtTLTIU:
		c.trapIf(uint64(rs) < uint64(in.immediate))
	case rtTEQI:
		c.trapIf(rs == int64(in.immediate))
	case rtTNEI:
		c.trapIf(rs != int64(in.immediate))
	default:
		c.raise(ExcRI, 0, false)
	}
}
