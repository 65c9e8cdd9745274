// decode.go is the two-level opcode dispatcher: the primary opcode field
// selects a case (with SPECIAL/REGIMM/COPz redirecting to secondary
// decode), matching cpu_m68k.go's decodeGroup0..F nested-switch shape.
package cpu

const (
	opSPECIAL = 0x00
	opREGIMM  = 0x01
	opJ       = 0x02
	opJAL     = 0x03
	opBEQ     = 0x04
	opBNE     = 0x05
	opBLEZ    = 0x06
	opBGTZ    = 0x07
	opADDI    = 0x08
	opADDIU   = 0x09
	opSLTI    = 0x0A
	opSLTIU   = 0x0B
	opANDI    = 0x0C
	opORI     = 0x0D
	opXORI    = 0x0E
	opLUI     = 0x0F
	opCOP0    = 0x10
	opCOP1    = 0x11
	opCOP2    = 0x12
	opBEQL    = 0x14
	opBNEL    = 0x15
	opBLEZL   = 0x16
	opBGTZL   = 0x17
	opDADDI   = 0x18
	opDADDIU  = 0x19
	opLDL     = 0x1A
	opLDR     = 0x1B
	opLB      = 0x20
	opLH      = 0x21
	opLWL     = 0x22
	opLW      = 0x23
	opLBU     = 0x24
	opLHU     = 0x25
	opLWR     = 0x26
	opLWU     = 0x27
	opSB      = 0x28
	opSH      = 0x29
	opSWL     = 0x2A
	opSW      = 0x2B
	opSDL     = 0x2C
	opSDR     = 0x2D
	opSWR     = 0x2E
	opCACHE   = 0x2F
	opLL      = 0x30
	opLWC1    = 0x31
	opLWC2    = 0x32
	opLD      = 0x37
	opSC      = 0x38
	opSWC1    = 0x39
	opSWC2    = 0x3A
	opSD      = 0x3F
)

type insn struct {
	raw           uint32
	opcode        uint32
	rs, rt, rd    int
	sa            int
	function      uint32
	immediate     int32 // sign-extended 16-bit
	uimmediate    uint32
	target        uint32 // 26-bit jump target
}

func decode(word uint32) insn {
	return insn{
		raw:        word,
		opcode:     word >> 26,
		rs:         int((word >> 21) & 0x1F),
		rt:         int((word >> 16) & 0x1F),
		rd:         int((word >> 11) & 0x1F),
		sa:         int((word >> 6) & 0x1F),
		function:   word & 0x3F,
		immediate:  int32(int16(word & 0xFFFF)),
		uimmediate: word & 0xFFFF,
		target:     word & 0x03FFFFFF,
	}
}

func (c *CPU) decodeAndExecute(word uint32) {
	in := decode(word)
	switch in.opcode {
	case opSPECIAL:
		c.execSpecial(in)
	case opREGIMM:
		c.execRegimm(in)
	case opJ:
		target := (c.regs.PC & 0xFFFFFFFFF0000000) | uint64(in.target)<<2
		c.branch.SetTaken(target)
	case opJAL:
		c.regs.Set(31, c.regs.PC+8)
		target := (c.regs.PC & 0xFFFFFFFFF0000000) | uint64(in.target)<<2
		c.branch.SetTaken(target)
	case opBEQ:
		c.branchIf(in, c.regs.Get(in.rs) == c.regs.Get(in.rt), false)
	case opBNE:
		c.branchIf(in, c.regs.Get(in.rs) != c.regs.Get(in.rt), false)
	case opBLEZ:
		c.branchIf(in, int64(c.regs.Get(in.rs)) <= 0, false)
	case opBGTZ:
		c.branchIf(in, int64(c.regs.Get(in.rs)) > 0, false)
	case opBEQL:
		c.branchIf(in, c.regs.Get(in.rs) == c.regs.Get(in.rt), true)
	case opBNEL:
		c.branchIf(in, c.regs.Get(in.rs) != c.regs.Get(in.rt), true)
	case opBLEZL:
		c.branchIf(in, int64(c.regs.Get(in.rs)) <= 0, true)
	case opBGTZL:
		c.branchIf(in, int64(c.regs.Get(in.rs)) > 0, true)
	case opADDI:
		c.execADDI(in)
	case opADDIU:
		c.regs.Set(in.rt, uint64(int64(int32(c.regs.Get(in.rs))+in.immediate)))
	case opSLTI:
		c.setBool(in.rt, int64(c.regs.Get(in.rs)) < int64(in.immediate))
	case opSLTIU:
		c.setBool(in.rt, c.regs.Get(in.rs) < uint64(in.immediate))
	case opANDI:
		c.regs.Set(in.rt, c.regs.Get(in.rs)&uint64(in.uimmediate))
	case opORI:
		c.regs.Set(in.rt, c.regs.Get(in.rs)|uint64(in.uimmediate))
	case opXORI:
		c.regs.Set(in.rt, c.regs.Get(in.rs)^uint64(in.uimmediate))
	case opLUI:
		c.regs.Set(in.rt, uint64(int64(in.immediate)<<16))
	case opCOP0:
		c.execCOP0(in)
	case opCOP1:
		c.execCOP1(in)
	case opCOP2:
		c.execCOP2(in)
	case opDADDI:
		c.regs.Set(in.rt, uint64(int64(c.regs.Get(in.rs))+int64(in.immediate)))
	case opDADDIU:
		c.regs.Set(in.rt, c.regs.Get(in.rs)+uint64(in.immediate))
	case opLB:
		c.load(in, 1, true)
	case opLH:
		c.load(in, 2, true)
	case opLW:
		c.load(in, 4, true)
	case opLBU:
		c.load(in, 1, false)
	case opLHU:
		c.load(in, 2, false)
	case opLWU:
		c.load(in, 4, false)
	case opLD:
		c.load(in, 8, false)
	case opSB:
		c.store(in, 1)
	case opSH:
		c.store(in, 2)
	case opSW:
		c.store(in, 4)
	case opSD:
		c.store(in, 8)
	case opLL:
		c.execLL(in)
	case opSC:
		c.execSC(in)
	case opCACHE:
		c.execCache(in)
	case opLWC1, opSWC1:
		c.execCOP1MemOp(in, in.opcode == opLWC1)
	case opLWC2, opSWC2:
		c.execCOP2MemOp(in, in.opcode == opLWC2)
	case opLWL, opLWR, opSWL, opSWR, opLDL, opLDR, opSDL, opSDR:
		c.execUnalignedMem(in)
	default:
		c.raise(ExcRI, 0, false)
	}
}

func (c *CPU) branchIf(in insn, taken bool, likely bool) {
	target := uint64(int64(c.regs.PC) + 4 + int64(in.immediate)<<2)
	if taken {
		if likely {
			c.branch.SetLikelyTaken(target)
		} else {
			c.branch.SetTaken(target)
		}
	} else {
		if likely {
			c.branch.SetLikelyNotTaken()
		} else {
			c.branch.SetNotTaken()
		}
	}
}

func (c *CPU) setBool(reg int, v bool) {
	if v {
		c.regs.Set(reg, 1)
	} else {
		c.regs.Set(reg, 0)
	}
}

func (c *CPU) execADDI(in insn) {
	rs := int32(c.regs.Get(in.rs))
	result := rs + in.immediate
	// MIPS ADDI traps on signed overflow; ADDIU does not.
	if (rs > 0 && in.immediate > 0 && result < 0) || (rs < 0 && in.immediate < 0 && result >= 0) {
		c.raise(ExcOv, 0, false)
		return
	}
	c.regs.Set(in.rt, uint64(int64(result)))
}
