package rsp

// MFC2/MTC2/CFC2/CTC2 satisfy cpu.COP2 structurally: the main CPU's
// coprocessor-2 instructions are a narrow data latch onto lane 0 of the
// named vector register (data move) or onto the packed VCO/VCC/VCE control
// words (control move). Full element selection is a property of the RSP's
// own vector opcodes, not of this latch.
func (s *SP) MFC2(reg int) uint32 {
	return uint32(uint16(s.vu.regs[reg&0x1F][0]))
}

func (s *SP) MTC2(reg int, v uint32) {
	s.vu.regs[reg&0x1F][0] = int16(v)
}

func (s *SP) CFC2(reg int) uint32 {
	switch reg & 0x3 {
	case 0:
		return packFlags(s.vu.vco)
	case 1:
		return packFlags(s.vu.vcc)
	default:
		return packFlags(s.vu.vce)
	}
}

func (s *SP) CTC2(reg int, v uint32) {
	switch reg & 0x3 {
	case 0:
		s.vu.vco = unpackFlags(v)
	case 1:
		s.vu.vcc = unpackFlags(v)
	default:
		s.vu.vce = unpackFlags(v)
	}
}

// packFlags/unpackFlags implement CFC2/CTC2's compression of the
// one-byte-per-lane internal flag masks to the 16-bit (8 used) packed form
// software reads and writes.
func packFlags(f [8]bool) uint32 {
	var v uint32
	for i, b := range f {
		if b {
			v |= 1 << uint(i)
		}
	}
	return v
}

func unpackFlags(v uint32) [8]bool {
	var f [8]bool
	for i := range f {
		f[i] = v&(1<<uint(i)) != 0
	}
	return f
}
