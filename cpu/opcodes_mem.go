// opcodes_mem.go implements the load/store family, LL/SC, the CACHE
// instruction's state transitions, and COP1/COP2 memory ops.
package cpu

func (c *CPU) effectiveAddr(in insn) uint32 {
	return uint32(int64(c.regs.Get(in.rs)) + int64(in.immediate))
}

func (c *CPU) load(in insn, width int, signed bool) {
	addr := c.effectiveAddr(in)
	v, ok := c.readMem(addr, AccessRead, width)
	if !ok {
		return
	}
	if signed {
		switch width {
		case 1:
			v = uint64(int64(int8(v)))
		case 2:
			v = uint64(int64(int16(v)))
		case 4:
			v = uint64(int64(int32(v)))
		}
	}
	c.regs.Set(in.rt, v)
}

func (c *CPU) store(in insn, width int) {
	addr := c.effectiveAddr(in)
	c.writeMem(addr, AccessWrite, width, c.regs.Get(in.rt))
}

// execLL implements Load Linked: loads a word and arms the LL-bit atomic
// reservation ("LL-bit (atomic reservation)").
func (c *CPU) execLL(in insn) {
	addr := c.effectiveAddr(in)
	v, ok := c.readMem(addr, AccessRead, 4)
	if !ok {
		return
	}
	c.regs.Set(in.rt, uint64(int64(int32(v))))
	c.regs.LLBit = true
	c.regs.LLAddr = addr
}

// execSC implements Store Conditional: the store only takes effect if the
// LL-bit reservation is still armed for this address; rt is set to 1/0 to
// report success.
func (c *CPU) execSC(in insn) {
	addr := c.effectiveAddr(in)
	if c.regs.LLBit && c.regs.LLAddr == addr {
		c.writeMem(addr, AccessWrite, 4, c.regs.Get(in.rt))
		c.regs.Set(in.rt, 1)
	} else {
		c.regs.Set(in.rt, 0)
	}
	c.regs.LLBit = false
}

// CACHE op sub-fields (bits 20-16 of the instruction carry cache-select in
// bits 1-0 and operation in bits 4-2, per the MIPS architecture manual).
const (
	cacheOpIndexInvalidate       = 0
	cacheOpIndexLoadTag          = 1
	cacheOpIndexStoreTag         = 2
	cacheOpCreateDirtyExclusive  = 3
	cacheOpHitInvalidate         = 4
	cacheOpHitWritebackInvalidate = 5
	cacheOpFill                  = 5 // I-cache reuses code 5 as "Fill"
	cacheOpHitWriteback          = 6
)

func (c *CPU) execCache(in insn) {
	addr := c.effectiveAddr(in)
	which := (in.rt >> 2) & 0x7
	isData := in.rt&0x3 == 1

	switch which {
	case cacheOpIndexInvalidate:
		if isData {
			c.dcache.InvalidateIndex(addr >> 4)
		} else {
			c.icache.InvalidateIndex(addr >> 5)
		}
	case cacheOpIndexLoadTag, cacheOpIndexStoreTag:
		// Diagnostic-only on real hardware; no guest-visible behaviour this
		// core models depends on TagLo/TagHi, so these are no-ops.
	case cacheOpCreateDirtyExclusive:
		if isData {
			c.dcache.CreateDirtyExclusive(addr)
		}
	case cacheOpHitInvalidate:
		if isData {
			c.dcache.Invalidate(addr)
		} else {
			c.icache.Invalidate(addr)
		}
	case cacheOpHitWritebackInvalidate:
		if isData {
			idx := (addr >> 4)
			c.dcache.WriteBack(c.bus, idx)
			c.dcache.Invalidate(addr)
			c.extraCycles += cyclesICacheFill
		}
	case cacheOpHitWriteback:
		if isData {
			idx := (addr >> 4)
			if c.dcache.WriteBack(c.bus, idx) {
				c.extraCycles += cyclesICacheFill
			}
		}
	}
}

func (c *CPU) execCOP1MemOp(in insn, isLoad bool) {
	addr := c.effectiveAddr(in)
	if isLoad {
		v, ok := c.readMem(addr, AccessRead, 4)
		if ok {
			c.fpu.WriteWord32(in.rt, uint32(v))
		}
	} else {
		c.writeMem(addr, AccessWrite, 4, uint64(c.fpu.ReadWord32(in.rt)))
	}
}

func (c *CPU) execCOP2MemOp(in insn, isLoad bool) {
	if c.cop2 == nil {
		c.raise(ExcCpU, 0, false)
		return
	}
	addr := c.effectiveAddr(in)
	if isLoad {
		v, ok := c.readMem(addr, AccessRead, 4)
		if ok {
			c.cop2.MTC2(in.rt, uint32(v))
		}
	} else {
		c.writeMem(addr, AccessWrite, 4, uint64(c.cop2.MFC2(in.rt)))
	}
}

// execUnalignedMem implements the LWL/LWR/SWL/SWR/LDL/LDR/SDL/SDR family,
// which merge a misaligned word/doubleword across two memory cycles. These
// are modelled at their architectural semantics without a separate cycle
// charge beyond the aligned load/store they're built from — real hardware
// issues two bus cycles, which this core approximates as one for simplicity.
func (c *CPU) execUnalignedMem(in insn) {
	addr := uint32(int64(c.regs.Get(in.rs)) + int64(in.immediate))
	switch in.opcode {
	case opLWL, opLWR:
		aligned := addr &^ 3
		word, ok := c.readMem(aligned, AccessRead, 4)
		if !ok {
			return
		}
		shift := addr & 3
		old := uint32(c.regs.Get(in.rt))
		var merged uint32
		if in.opcode == opLWL {
			merged = uint32(word)<<(shift*8) | (old & (1<<(shift*8) - 1))
		} else {
			merged = uint32(word)>>((3-shift)*8) | (old &^ (1<<((shift+1)*8) - 1))
		}
		c.regs.Set(in.rt, uint64(int64(int32(merged))))
	case opSWL, opSWR:
		aligned := addr &^ 3
		word, ok := c.readMem(aligned, AccessRead, 4)
		if !ok {
			return
		}
		shift := addr & 3
		rt := uint32(c.regs.Get(in.rt))
		var merged uint32
		if in.opcode == opSWL {
			merged = (uint32(word) &^ (uint32(0xFFFFFFFF) >> (shift * 8))) | (rt >> (shift * 8))
		} else {
			merged = (uint32(word) &^ (uint32(0xFFFFFFFF) << ((3 - shift) * 8))) | (rt << ((3 - shift) * 8))
		}
		c.writeMem(aligned, AccessWrite, 4, uint64(merged))
	case opLDL, opLDR:
		aligned := addr &^ 7
		dword, ok := c.readMem(aligned, AccessRead, 8)
		if !ok {
			return
		}
		shift := addr & 7
		old := c.regs.Get(in.rt)
		var merged uint64
		if in.opcode == opLDL {
			merged = dword<<(shift*8) | (old & (uint64(1)<<(shift*8) - 1))
		} else {
			merged = dword>>((7-shift)*8) | (old &^ (uint64(1)<<((shift+1)*8) - 1))
		}
		c.regs.Set(in.rt, merged)
	case opSDL, opSDR:
		aligned := addr &^ 7
		dword, ok := c.readMem(aligned, AccessRead, 8)
		if !ok {
			return
		}
		shift := addr & 7
		rt := c.regs.Get(in.rt)
		var merged uint64
		if in.opcode == opSDL {
			merged = (dword &^ (^uint64(0) >> (shift * 8))) | (rt >> (shift * 8))
		} else {
			merged = (dword &^ (^uint64(0) << ((7 - shift) * 8))) | (rt << ((7 - shift) * 8))
		}
		c.writeMem(aligned, AccessWrite, 8, merged)
	}
}
