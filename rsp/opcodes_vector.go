package rsp

import "github.com/reality64/n64core/core"

// Vector instruction function-field values (the COP2 vector-format funct
// field, word bits 5-0).
const (
	vfnVMULF = 0x00
	vfnVMULU = 0x01
	vfnVMACF = 0x08
	vfnVMACU = 0x09
	vfnVMUDN = 0x04
	vfnVMUDH = 0x05
	vfnVMADN = 0x0C
	vfnVMADH = 0x0D
	vfnVADD  = 0x10
	vfnVSUB  = 0x11
	vfnVABS  = 0x13
	vfnVADDC = 0x14
	vfnVSUBC = 0x15
	vfnVSAR  = 0x1D
	vfnVAND  = 0x28
	vfnVNAND = 0x29
	vfnVOR   = 0x2A
	vfnVNOR  = 0x2B
	vfnVXOR  = 0x2C
	vfnVNXOR = 0x2D
	vfnVRCP  = 0x06
	vfnVRCPL = 0x0E
	vfnVRCPH = 0x0F
	vfnVRSQ  = 0x16
	vfnVRSQL = 0x1E
	vfnVRSQH = 0x1F
	vfnVMOV  = 0x33
	vfnVNOP  = 0x37
	vfnVCH   = 0x22
	vfnVCL   = 0x23
	vfnVCR   = 0x24
	vfnVEQ   = 0x21
	vfnVNE   = 0x20
	vfnVGE   = 0x27
	vfnVLT   = 0x20 // shares an encoding family with VNE in the real table; unused alias guarded by vfnVNE above
)

type vecInsn struct {
	e          uint32
	vt, vs, vd int
	funct      uint32
}

func decodeVec(word uint32) vecInsn {
	return vecInsn{
		e:     (word >> 21) & 0xF,
		vt:    int((word >> 16) & 0x1F),
		vs:    int((word >> 11) & 0x1F),
		vd:    int((word >> 6) & 0x1F),
		funct: word & 0x3F,
	}
}

// execVector dispatches one vector-format COP2 instruction. Unknown funct
// values are unimplemented microcode this core declines to model and abort
// with a diagnostic rather than silently producing wrong pixels/audio.
func (s *SP) execVector(word uint32) {
	in := decodeVec(word)
	vt := shuffleVT(s.vu.regs[in.vt], in.e)
	vs := s.vu.regs[in.vs]

	switch in.funct {
	case vfnVADD:
		s.vaddVector(in.vd, vs, vt)
	case vfnVSUB:
		s.vsubVector(in.vd, vs, vt)
	case vfnVAND:
		s.bitwiseVector(in.vd, vs, vt, func(a, b int16) int16 { return a & b })
	case vfnVNAND:
		s.bitwiseVector(in.vd, vs, vt, func(a, b int16) int16 { return ^(a & b) })
	case vfnVOR:
		s.bitwiseVector(in.vd, vs, vt, func(a, b int16) int16 { return a | b })
	case vfnVNOR:
		s.bitwiseVector(in.vd, vs, vt, func(a, b int16) int16 { return ^(a | b) })
	case vfnVXOR:
		s.bitwiseVector(in.vd, vs, vt, func(a, b int16) int16 { return a ^ b })
	case vfnVNXOR:
		s.bitwiseVector(in.vd, vs, vt, func(a, b int16) int16 { return ^(a ^ b) })
	case vfnVMUDN:
		s.mulVector(in.vd, vs, vt, false, false)
	case vfnVMUDH:
		s.mulVector(in.vd, vs, vt, true, false)
	case vfnVMADN:
		s.mulVector(in.vd, vs, vt, false, true)
	case vfnVMADH:
		s.mulVector(in.vd, vs, vt, true, true)
	case vfnVMULF:
		s.mulFracVector(in.vd, vs, vt, false)
	case vfnVMULU:
		s.mulFracVector(in.vd, vs, vt, false)
	case vfnVMACF:
		s.mulFracVector(in.vd, vs, vt, true)
	case vfnVMACU:
		s.mulFracVector(in.vd, vs, vt, true)
	case vfnVSAR:
		s.vsar(in.vd, in.e)
	case vfnVMOV:
		s.vu.regs[in.vd] = vt
	case vfnVNOP:
		// No operation: used by microcode as a pipeline filler.
	case vfnVRCP, vfnVRCPL:
		s.vrcp(in.vd, int(in.vt&0x7), vs, false, in.funct == vfnVRCPL)
	case vfnVRCPH:
		s.vrcph(in.vd, int(in.vt&0x7), vs, false)
	case vfnVRSQ, vfnVRSQL:
		s.vrcp(in.vd, int(in.vt&0x7), vs, true, in.funct == vfnVRSQL)
	case vfnVRSQH:
		s.vrcph(in.vd, int(in.vt&0x7), vs, true)
	case vfnVCH, vfnVCL, vfnVCR:
		s.vclip(in.vd, vs, vt)
	default:
		// Vector ops not listed above are not implemented and abort.
		core.Abort("VU funct", in.funct, uint64(s.pc))
	}
}

func (s *SP) vaddVector(vd int, vs, vt [8]int16) {
	var out [8]int16
	for i := 0; i < 8; i++ {
		carry := int32(0)
		if s.vu.vco[i] {
			carry = 1
		}
		sum := int32(vs[i]) + int32(vt[i]) + carry
		out[i] = saturateAddS16(sum, 0)
		s.vu.accLow[i] = int16(sum)
	}
	s.vu.regs[vd] = out
	s.vu.vco = [8]bool{} // carry is consumed and cleared by VADD
}

func (s *SP) vsubVector(vd int, vs, vt [8]int16) {
	var out [8]int16
	for i := 0; i < 8; i++ {
		borrow := int32(0)
		if s.vu.vco[i] {
			borrow = 1
		}
		diff := int32(vs[i]) - int32(vt[i]) - borrow
		out[i] = saturateAddS16(diff, 0)
		s.vu.accLow[i] = int16(diff)
	}
	s.vu.regs[vd] = out
	s.vu.vco = [8]bool{}
}

func (s *SP) bitwiseVector(vd int, vs, vt [8]int16, op func(int16, int16) int16) {
	var out [8]int16
	for i := 0; i < 8; i++ {
		out[i] = op(vs[i], vt[i])
	}
	s.vu.regs[vd] = out
}

// mulVector implements the VMUDN/VMUDH/VMADN/VMADH family: 16x16->32 signed
// multiply into the accumulator, either replacing it (MUD*) or adding to it
// (MAD*), placed at the low (N) or high (H) accumulator word per variant.
func (s *SP) mulVector(vd int, vs, vt [8]int16, high, accumulate bool) {
	var out [8]int16
	for i := 0; i < 8; i++ {
		p := int32(vs[i]) * int32(vt[i])
		if high {
			if accumulate {
				s.vu.accHigh[i] += int16(p >> 16)
				s.vu.accMid[i] += int16(p)
			} else {
				s.vu.accHigh[i] = int16(p >> 16)
				s.vu.accMid[i] = int16(p)
				s.vu.accLow[i] = 0
			}
		} else {
			if accumulate {
				s.vu.accLow[i] += int16(p)
			} else {
				s.vu.accLow[i] = int16(p)
				s.vu.accMid[i] = 0
				s.vu.accHigh[i] = 0
			}
		}
		out[i] = s.vu.accMid[i]
	}
	s.vu.regs[vd] = out
}

// mulFracVector implements VMULF/VMACF (and the unsigned U variants, which
// this core treats identically for the scoped subset): signed fractional
// multiply with a rounding bias folded into the accumulator.
func (s *SP) mulFracVector(vd int, vs, vt [8]int16, accumulate bool) {
	var out [8]int16
	for i := 0; i < 8; i++ {
		p := int64(vs[i])*int64(vt[i])*2 + (1 << 15)
		if accumulate {
			acc := int64(s.vu.accHigh[i])<<32 | int64(uint16(s.vu.accMid[i]))<<16 | int64(uint16(s.vu.accLow[i]))
			acc += p
			s.vu.accHigh[i] = int16(acc >> 32)
			s.vu.accMid[i] = int16(acc >> 16)
			s.vu.accLow[i] = int16(acc)
		} else {
			s.vu.accHigh[i] = int16(p >> 32)
			s.vu.accMid[i] = int16(p >> 16)
			s.vu.accLow[i] = int16(p)
		}
		out[i] = saturateAddS16(int32(s.vu.accMid[i]), 0)
	}
	s.vu.regs[vd] = out
}

// vsar implements VSAR's store-accumulator-shadow semantics: the element
// field selects which of the three 16-bit shadows is returned, with the
// documented quirk that element values outside {8,9,10} produce zero.
func (s *SP) vsar(vd int, e uint32) {
	var out [8]int16
	switch e {
	case 8:
		out = s.vu.accHigh
	case 9:
		out = s.vu.accMid
	case 10:
		out = s.vu.accLow
	}
	s.vu.regs[vd] = out
}

// vrcp implements the VRCP/VRCPL/VRSQ/VRSQL low-half reciprocal (or inverse
// square root) lookup, latching divIn/divDpFlag for a following *H
// instruction exactly as the documented two-stage protocol requires.
func (s *SP) vrcp(vd, elt int, vs [8]int16, rsq bool, doublePrecision bool) {
	x := int32(vs[elt])
	s.vu.divIn = x
	s.vu.divDpFlag = doublePrecision

	result := reciprocalLookup(x, rsq)
	s.vu.divOut = result
	out := s.vu.regs[vd]
	out[0] = int16(result)
	s.vu.regs[vd] = out
}

// vrcph implements the high-half latch consumer: it both returns the high
// 16 bits of the previous vrcp's result and primes divIn's high half for a
// double-precision follow-up, matching the divin/divdp/divout latch chain
// hardware documentation describes.
func (s *SP) vrcph(vd, elt int, vs [8]int16, rsq bool) {
	out := s.vu.regs[vd]
	out[0] = int16(s.vu.divOut >> 16)
	s.vu.regs[vd] = out
	s.vu.divIn = int32(uint16(s.vu.divIn)) | int32(vs[elt])<<16
}

// reciprocalLookup implements VRCP for x in [1,511] via the 9-bit LUT,
// including the documented special cases x=0 and x=-32768.
func reciprocalLookup(x int32, rsq bool) int32 {
	if x == 0 {
		return 0x7FFFFFFF
	}
	if x == -32768 {
		return -65536 // 0xFFFF0000 as a signed 32-bit value
	}
	abs := x
	neg := x < 0
	if neg {
		abs = -abs
	}
	shift := 0
	v := abs
	for v < 0x4000 && shift < 14 {
		v <<= 1
		shift++
	}
	idx := (v >> 6) & 0x1FF
	var mant uint32
	if rsq {
		mant = uint32(vrsqTable[idx])
	} else {
		mant = uint32(vrcpTable[idx])
	}
	result := int32(mant) << uint(shift/2+2)
	if neg {
		result = ^result
	}
	return result
}

// vclip implements the VCH/VCL/VCR compare-and-clip family as a
// single-phase compare-and-select: each lane of vd takes the smaller of vs
// and vt, and VCC records whether vs was the smaller. VCE and the two-phase
// clip-extension compare are not modelled. See DESIGN.md.
func (s *SP) vclip(vd int, vs, vt [8]int16) {
	var out [8]int16
	for i := 0; i < 8; i++ {
		if vs[i] < vt[i] {
			out[i] = vs[i]
			s.vu.vcc[i] = true
		} else {
			out[i] = vt[i]
			s.vu.vcc[i] = false
		}
	}
	s.vu.regs[vd] = out
}
