// opcodes_cop0.go implements the COP0 secondary table: MFC0/MTC0, the TLB
// instructions (TLBWI/TLBWR/TLBR/TLBP) and ERET
package cpu

const (
	cop0MF   = 0x00
	cop0DMF  = 0x01
	cop0MT   = 0x04
	cop0DMT  = 0x05
	cop0CO   = 0x10 // rs field value selecting the TLB/ERET sub-table
)

const (
	cop0fnTLBR  = 0x01
	cop0fnTLBWI = 0x02
	cop0fnTLBWR = 0x06
	cop0fnTLBP  = 0x08
	cop0fnERET  = 0x18
)

func (c *CPU) execCOP0(in insn) {
	switch in.rs {
	case cop0MF:
		c.regs.Set(in.rt, uint64(int64(int32(c.cop0.Read(in.rd)))))
	case cop0DMF:
		c.regs.Set(in.rt, c.cop0.Read(in.rd))
	case cop0MT:
		c.writeCOP0(in.rd, c.regs.Get(in.rt)&0xFFFFFFFF)
	case cop0DMT:
		c.writeCOP0(in.rd, c.regs.Get(in.rt))
	case cop0CO:
		switch in.function {
		case cop0fnTLBR:
			c.tlbRead()
		case cop0fnTLBWI:
			c.tlbWrite(int(c.cop0.Read(Cop0Index) & 0x1F))
		case cop0fnTLBWR:
			c.tlbWrite(int(c.instrCount % 32)) // pseudo-random victim; the Random register itself is left unmodelled
		case cop0fnTLBP:
			c.tlbProbe()
		case cop0fnERET:
			c.ERET()
		default:
			c.raise(ExcRI, 0, false)
		}
	default:
		c.raise(ExcRI, 0, false)
	}
}

// writeCOP0 applies register-specific side effects MTC0 triggers: Count
// rewrites rebase the scheduler, EntryHi/PageMask/EntryLo writes stage TLB
// fields (materialised into the forward LUT only on TLBWI/TLBWR, matching
// real hardware where the architectural registers and the LUT are distinct
// until committed).
func (c *CPU) writeCOP0(reg int, v uint64) {
	if reg == Cop0Count {
		old, new := c.cop0.WriteCount(uint32(v))
		c.sched.Rebase(old, new)
		return
	}
	c.cop0.Write(reg, v)
}

func (c *CPU) currentTLBEntry() TLBEntry {
	pageMask := uint32(c.cop0.Read(Cop0PageMask))
	entryHi := uint32(c.cop0.Read(Cop0EntryHi))
	lo0 := uint32(c.cop0.Read(Cop0EntryLo0))
	lo1 := uint32(c.cop0.Read(Cop0EntryLo1))
	return TLBEntry{
		Mask: pageMask,
		VPN2: entryHi &^ 0xFFF,
		ASID: uint8(entryHi & 0xFF),
		G:    lo0&1 != 0 && lo1&1 != 0,

		PFNEven: (lo0 >> 6) & 0xFFFFF,
		CEven:   uint8((lo0 >> 3) & 0x7),
		DEven:   lo0&0x4 != 0,
		VEven:   lo0&0x2 != 0,

		PFNOdd: (lo1 >> 6) & 0xFFFFF,
		COdd:   uint8((lo1 >> 3) & 0x7),
		DOdd:   lo1&0x4 != 0,
		VOdd:   lo1&0x2 != 0,
	}
}

func (c *CPU) tlbWrite(index int) {
	c.tlb.WriteEntry(index, c.currentTLBEntry())
}

func (c *CPU) tlbRead() {
	e := c.tlb.Entries[c.cop0.Read(Cop0Index)&0x1F]
	entryHi := e.VPN2 | uint32(e.ASID)
	lo0 := e.PFNEven<<6 | uint32(e.CEven)<<3 | b2u(e.DEven)<<2 | b2u(e.VEven)<<1 | b2u(e.G)
	lo1 := e.PFNOdd<<6 | uint32(e.COdd)<<3 | b2u(e.DOdd)<<2 | b2u(e.VOdd)<<1 | b2u(e.G)
	c.cop0.Write(Cop0PageMask, uint64(e.Mask))
	c.cop0.Write(Cop0EntryHi, uint64(entryHi))
	c.cop0.Write(Cop0EntryLo0, uint64(lo0))
	c.cop0.Write(Cop0EntryLo1, uint64(lo1))
}

func (c *CPU) tlbProbe() {
	entryHi := uint32(c.cop0.Read(Cop0EntryHi))
	idx := c.tlb.Probe(entryHi&^0xFFF, uint8(entryHi&0xFF))
	if idx < 0 {
		c.cop0.Write(Cop0Index, 1<<31)
	} else {
		c.cop0.Write(Cop0Index, uint64(idx))
	}
}

func b2u(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
