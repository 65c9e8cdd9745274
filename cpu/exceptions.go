// exceptions.go implements the exception dispatcher, grounded on
// cpu_m68k.go's ProcessException (compute a vector, push/record context,
// redirect PC) generalised from M68K's stack frames to MIPS III's
// EPC/Cause/Status register model.
package cpu

// raise redirects execution to the given ExcCode's vector, records EPC and
// Cause.BD, and sets Status.EXL. It never returns a Go error — guest faults
// are folded entirely into COP0 state and never unwind the Go call stack.
func (c *CPU) raise(excCode uint32, badVAddr uint32, hasBadVAddr bool) {
	st := c.cop0.Status()
	cause := c.cop0.Cause()
	cause = (cause &^ ExcCodeMask) | (excCode << 2)

	inDelaySlot := c.branch.InDelaySlot()
	if inDelaySlot {
		cause |= CauseBD
	} else {
		cause &^= CauseBD
	}
	c.cop0.SetCause(cause)

	if st&StatusEXL == 0 {
		epc := c.regs.PC
		if inDelaySlot {
			epc -= 4 // EPC points at the branch, not the delay slot
		}
		c.cop0.Write(Cop0EPC, epc)
	}
	if hasBadVAddr {
		c.cop0.Write(Cop0BadVAddr, uint64(badVAddr))
	}

	c.cop0.SetStatus(st | StatusEXL)
	c.branch.ForceException()

	offset := uint64(VecGeneral)
	if excCode == ExcTLBL || excCode == ExcTLBS {
		if st&StatusEXL == 0 {
			offset = VecTLBRefill
		}
	}
	base := uint64(0x80000000)
	if c.cop0.Status()&StatusBEV != 0 {
		base = 0xBFC00200
		offset = uint64(uint32(offset))
	}
	c.regs.PC = base | offset
}

// RaiseTLB raises a TLB-related exception (refill/invalid/mod), selecting
// ExcTLBL vs ExcTLBS from the access kind
func (c *CPU) RaiseTLB(fault FaultCode, vaddr uint32, access Access) {
	var code uint32
	switch fault {
	case FaultTLBMod:
		code = ExcMod
	default:
		if access == AccessWrite {
			code = ExcTLBS
		} else {
			code = ExcTLBL
		}
	}
	c.raise(code, vaddr, true)
}

// ERET restores PC from EPC (or ErrorEPC if ERL was set) and clears the
// corresponding exception-level bit
func (c *CPU) ERET() {
	st := c.cop0.Status()
	if st&StatusERL != 0 {
		c.regs.PC = c.cop0.Read(Cop0ErrorEPC)
		c.cop0.SetStatus(st &^ StatusERL)
	} else {
		c.regs.PC = c.cop0.Read(Cop0EPC)
		c.cop0.SetStatus(st &^ StatusEXL)
	}
	c.regs.LLBit = false
	c.branch.ForceException()
}
