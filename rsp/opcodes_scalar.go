package rsp

// Primary opcode field values the RSP scalar core actually implements: a
// reduced MIPS I subset with no multiply/divide unit and no floating point.
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
	opCOP2    = 0x12
	opLB      = 0x20
	opLH      = 0x21
	opLW      = 0x23
	opLBU     = 0x24
	opLHU     = 0x25
	opSB      = 0x28
	opSH      = 0x29
	opSW      = 0x2B
	opLWC2    = 0x32
	opSWC2    = 0x3A
)

const (
	fnSLL  = 0x00
	fnSRL  = 0x02
	fnSRA  = 0x03
	fnSLLV = 0x04
	fnSRLV = 0x06
	fnSRAV = 0x07
	fnJR   = 0x08
	fnJALR = 0x09
	fnBREAK = 0x0D
	fnADD  = 0x20
	fnADDU = 0x21
	fnSUB  = 0x22
	fnSUBU = 0x23
	fnAND  = 0x24
	fnOR   = 0x25
	fnXOR  = 0x26
	fnNOR  = 0x27
	fnSLT  = 0x2A
	fnSLTU = 0x2B
)

type sInsn struct {
	opcode     uint32
	rs, rt, rd int
	sa         uint32
	function   uint32
	immediate  int32
	uimmediate uint32
	target     uint32
}

func decodeScalar(word uint32) sInsn {
	return sInsn{
		opcode:     word >> 26,
		rs:         int((word >> 21) & 0x1F),
		rt:         int((word >> 16) & 0x1F),
		rd:         int((word >> 11) & 0x1F),
		sa:         (word >> 6) & 0x1F,
		function:   word & 0x3F,
		immediate:  int32(int16(word & 0xFFFF)),
		uimmediate: word & 0xFFFF,
		target:     word & 0x03FFFFFF,
	}
}

func (s *SP) execute(word uint32) {
	in := decodeScalar(word)
	switch in.opcode {
	case opSPECIAL:
		s.execSpecial(in, word)
	case opJ:
		s.branch.setTaken(in.target << 2)
	case opJAL:
		s.SetGPR(31, s.pc+4)
		s.branch.setTaken(in.target << 2)
	case opBEQ:
		s.branchIf(in, s.GPR(in.rs) == s.GPR(in.rt))
	case opBNE:
		s.branchIf(in, s.GPR(in.rs) != s.GPR(in.rt))
	case opBLEZ:
		s.branchIf(in, int32(s.GPR(in.rs)) <= 0)
	case opBGTZ:
		s.branchIf(in, int32(s.GPR(in.rs)) > 0)
	case opADDI, opADDIU:
		s.SetGPR(in.rt, uint32(int32(s.GPR(in.rs))+in.immediate))
	case opSLTI:
		s.setBool(in.rt, int32(s.GPR(in.rs)) < in.immediate)
	case opSLTIU:
		s.setBool(in.rt, s.GPR(in.rs) < uint32(in.immediate))
	case opANDI:
		s.SetGPR(in.rt, s.GPR(in.rs)&in.uimmediate)
	case opORI:
		s.SetGPR(in.rt, s.GPR(in.rs)|in.uimmediate)
	case opXORI:
		s.SetGPR(in.rt, s.GPR(in.rs)^in.uimmediate)
	case opLUI:
		s.SetGPR(in.rt, in.uimmediate<<16)
	case opCOP0:
		s.execCOP0(in)
	case opCOP2:
		s.execCOP2Scalar(in, word)
	case opLB:
		s.SetGPR(in.rt, uint32(int32(int8(s.readDMEM8(s.addr(in))))))
	case opLBU:
		s.SetGPR(in.rt, uint32(s.readDMEM8(s.addr(in))))
	case opLH:
		s.SetGPR(in.rt, uint32(int32(int16(s.readDMEM16(s.addr(in))))))
	case opLHU:
		s.SetGPR(in.rt, uint32(s.readDMEM16(s.addr(in))))
	case opLW:
		s.SetGPR(in.rt, s.readDMEM32(s.addr(in)))
	case opSB:
		// SB/SH overwrite the whole word, zeroing the untouched bytes.
		a := s.addr(in)
		s.writeDMEM32(a, uint32(uint8(s.GPR(in.rt)))<<(24-8*(a&3)))
	case opSH:
		a := s.addr(in)
		s.writeDMEM32(a, uint32(uint16(s.GPR(in.rt)))<<(16-8*(a&2)))
	case opSW:
		s.writeDMEM32(s.addr(in), s.GPR(in.rt))
	case opLWC2, opSWC2:
		s.execVecMem(in, word, in.opcode == opLWC2)
	default:
		// Reserved opcode: the RSP has no exception mechanism of its own for
		// this, so treat it the same way an unrecognised vector funct is
		// treated (see opcodes_vector.go's default case).
		s.execVector(word)
	}
}

func (s *SP) addr(in sInsn) uint32 {
	return uint32(int32(s.GPR(in.rs)) + in.immediate)
}

func (s *SP) branchIf(in sInsn, taken bool) {
	if taken {
		target := s.pc + 4 + uint32(in.immediate<<2)
		s.branch.setTaken(target)
	}
}

func (s *SP) setBool(reg int, v bool) {
	if v {
		s.SetGPR(reg, 1)
	} else {
		s.SetGPR(reg, 0)
	}
}

func (s *SP) execSpecial(in sInsn, word uint32) {
	rs, rt := s.GPR(in.rs), s.GPR(in.rt)
	switch in.function {
	case fnSLL:
		s.SetGPR(in.rd, rt<<in.sa)
	case fnSRL:
		s.SetGPR(in.rd, rt>>in.sa)
	case fnSRA:
		s.SetGPR(in.rd, uint32(int32(rt)>>in.sa))
	case fnSLLV:
		s.SetGPR(in.rd, rt<<(rs&0x1F))
	case fnSRLV:
		s.SetGPR(in.rd, rt>>(rs&0x1F))
	case fnSRAV:
		s.SetGPR(in.rd, uint32(int32(rt)>>(rs&0x1F)))
	case fnJR:
		s.branch.setTaken(rs)
	case fnJALR:
		s.SetGPR(in.rd, s.pc+4)
		s.branch.setTaken(rs)
	case fnBREAK:
		s.Break()
	case fnADD, fnADDU:
		s.SetGPR(in.rd, rs+rt)
	case fnSUB, fnSUBU:
		s.SetGPR(in.rd, rs-rt)
	case fnAND:
		s.SetGPR(in.rd, rs&rt)
	case fnOR:
		s.SetGPR(in.rd, rs|rt)
	case fnXOR:
		s.SetGPR(in.rd, rs^rt)
	case fnNOR:
		s.SetGPR(in.rd, ^(rs | rt))
	case fnSLT:
		s.setBool(in.rd, int32(rs) < int32(rt))
	case fnSLTU:
		s.setBool(in.rd, rs < rt)
	default:
		s.execVector(word)
	}
}

// execCOP0 implements the RSP's distinctive register aliasing: indices 0-7
// map onto the SP interface registers, 8-15 onto the RDP command-front-end
// shadow registers, per the documented MFC0/MTC0 contract.
func (s *SP) execCOP0(in sInsn) {
	const (
		cop0MF = 0x00
		cop0MT = 0x04
	)
	switch in.rs {
	case cop0MF:
		s.SetGPR(in.rt, s.readAliasedReg(in.rd))
	case cop0MT:
		s.writeAliasedReg(in.rd, s.GPR(in.rt))
	}
}

func (s *SP) readAliasedReg(reg int) uint32 {
	switch reg {
	case 0:
		return s.dmaMemAddr
	case 1:
		return s.dmaDramAddr
	case 2, 3:
		return 0 // RD_LEN/WR_LEN read back zero once a DMA completes
	case 4:
		return s.status
	case 5:
		var v uint32
		if s.status&StatusDMAFull != 0 {
			v = 1
		}
		return v
	case 6:
		var v uint32
		if s.status&StatusDMABusy != 0 {
			v = 1
		}
		return v
	case 7:
		// SP_SEMAPHORE_REG: read-acquire, test-and-set.
		if s.semaphore {
			return 1
		}
		s.semaphore = true
		return 0
	default:
		return s.dpc[reg-8]
	}
}

func (s *SP) writeAliasedReg(reg int, v uint32) {
	switch reg {
	case 0:
		s.dmaMemAddr = v & 0x1FFF
	case 1:
		s.dmaDramAddr = v & 0xFFFFFF
	case 2:
		s.dmaRdLen = v
		s.kickDMA(false)
	case 3:
		s.dmaWrLen = v
		s.kickDMA(true)
	case 4:
		s.writeStatus(v)
	case 7:
		if v == 0 {
			s.semaphore = false
		}
	default:
		if reg >= 8 {
			s.dpc[reg-8] = v
		}
	}
}

// writeStatus applies the set/clear-pair-per-bit encoding SP_STATUS shares
// with MI_MASK and DP_STATUS, with the documented quirk that SET_HALT and
// CLR_HALT in the same word is a no-op on that bit.
func (s *SP) writeStatus(v uint32) {
	clrHalt, setHalt := v&0x1 != 0, v&0x2 != 0
	if setHalt != clrHalt {
		if setHalt {
			s.status |= StatusHalt
			s.halted = true
		} else {
			s.status &^= StatusHalt
			s.halted = false
		}
	}
	if v&0x4 != 0 { // CLR_BROKE
		s.status &^= StatusBroke
	}
	if v&0x8 != 0 { // CLR_INTR (acks the SP line; owning MI does the clear)
		s.status &^= StatusBroke
	}
	if v&0x40 != 0 {
		s.status &^= StatusIntrBreak
	}
	if v&0x80 != 0 {
		s.status |= StatusIntrBreak
	}
}
