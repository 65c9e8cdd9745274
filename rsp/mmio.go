package rsp

import (
	"encoding/binary"

	"github.com/reality64/n64core/mem"
)

const dmemMask = MemSize - 1

func (s *SP) readDMEM8(addr uint32) uint8 { return s.dmem[addr&dmemMask] }
func (s *SP) readDMEM16(addr uint32) uint16 {
	a := addr & dmemMask
	return binary.BigEndian.Uint16(s.dmem[a:])
}
func (s *SP) readDMEM32(addr uint32) uint32 {
	a := addr & dmemMask
	return binary.BigEndian.Uint32(s.dmem[a:])
}

// writeDMEM8/16 write only the addressed byte or halfword; the other bytes
// of the containing word keep their values. They back DMEMRegion's sub-word
// bus accesses and SWC2 lane stores. The scalar SB/SH whole-word-overwrite
// quirk is applied in the scalar store path (execute), and IMEM sub-word
// writes go through IMEMRegion's own read-modify-write.
func (s *SP) writeDMEM8(addr uint32, v uint8) {
	a := addr & dmemMask
	s.dmem[a] = v
}

func (s *SP) writeDMEM16(addr uint32, v uint16) {
	a := addr &^ 1 & dmemMask
	binary.BigEndian.PutUint16(s.dmem[a:], v)
}

func (s *SP) writeDMEM32(addr uint32, v uint32) {
	a := addr &^ 3 & dmemMask
	binary.BigEndian.PutUint32(s.dmem[a:], v)
}

// execVecMem implements LWC2/SWC2: single-element loads/stores between DMEM
// and one lane of a vector register, addressed by the documented
// base+element*scale convention. The subset implemented here covers whole
// 16-bit lane transfers (the LQV/SQV-equivalent quad path some microcode
// uses is not implemented).
func (s *SP) execVecMem(in sInsn, word uint32, load bool) {
	addr := s.addr(in)
	elt := int(in.rd) & 0x7
	reg := in.rt & 0x1F
	if load {
		v := s.readDMEM16(addr)
		regs := s.vu.regs[reg]
		regs[elt] = int16(v)
		s.vu.regs[reg] = regs
	} else {
		s.writeDMEM16(addr, uint16(s.vu.regs[reg][elt]))
	}
}

// execCOP2Scalar implements the scalar-encoded MFC2/CFC2/MTC2/CTC2 opcodes
// the RSP's own instruction stream can issue against its own vector unit --
// distinct from cpu/opcodes_cop2.go's path, which reaches the same four
// operations through the cpu.COP2 interface from the main CPU's side.
func (s *SP) execCOP2Scalar(in sInsn, word uint32) {
	const (
		cop2MF = 0x00
		cop2CF = 0x02
		cop2MT = 0x04
		cop2CT = 0x06
	)
	switch in.rs {
	case cop2MF:
		s.SetGPR(in.rt, uint32(int32(int16(s.MFC2(in.rd)))))
	case cop2CF:
		s.SetGPR(in.rt, s.CFC2(in.rd))
	case cop2MT:
		s.MTC2(in.rd, s.GPR(in.rt))
	case cop2CT:
		s.CTC2(in.rd, s.GPR(in.rt))
	default:
		s.execVector(word)
	}
}

// DMEMRegion and IMEMRegion adapt the SP's two 4 KiB memories to the bus
// dispatcher's mem.ByteRegion contract, with IMEM writes routed through
// writeIMEM for the eager-redecode contract.
type DMEMRegion struct{ sp *SP }

func NewDMEMRegion(sp *SP) *DMEMRegion { return &DMEMRegion{sp: sp} }

func (r *DMEMRegion) Read32(addr uint32) uint32  { return r.sp.readDMEM32(addr) }
func (r *DMEMRegion) Write32(addr, v uint32)     { r.sp.writeDMEM32(addr, v) }
func (r *DMEMRegion) Read8(addr uint32) uint8    { return r.sp.readDMEM8(addr) }
func (r *DMEMRegion) Write8(addr uint32, v uint8) { r.sp.writeDMEM8(addr, v) }
func (r *DMEMRegion) Read16(addr uint32) uint16  { return r.sp.readDMEM16(addr) }
func (r *DMEMRegion) Write16(addr uint32, v uint16) { r.sp.writeDMEM16(addr, v) }

type IMEMRegion struct{ sp *SP }

func NewIMEMRegion(sp *SP) *IMEMRegion { return &IMEMRegion{sp: sp} }

func (r *IMEMRegion) Read32(addr uint32) uint32 {
	idx := addr & dmemMask
	return binary.BigEndian.Uint32(r.sp.imem[idx:])
}
func (r *IMEMRegion) Write32(addr, v uint32) { r.sp.writeIMEM(addr, v) }

func (r *IMEMRegion) Read8(addr uint32) uint8 { return r.sp.imem[addr&dmemMask] }
func (r *IMEMRegion) Write8(addr uint32, v uint8) {
	word := r.Read32(addr &^ 3)
	shift := 24 - (addr&3)*8
	word = (word &^ (0xFF << shift)) | uint32(v)<<shift
	r.sp.writeIMEM(addr&^3, word)
}
func (r *IMEMRegion) Read16(addr uint32) uint16 {
	idx := addr & dmemMask &^ 1
	return binary.BigEndian.Uint16(r.sp.imem[idx:])
}
func (r *IMEMRegion) Write16(addr uint32, v uint16) {
	word := r.Read32(addr &^ 3)
	if addr&2 == 0 {
		word = (word &^ 0xFFFF0000) | uint32(v)<<16
	} else {
		word = (word &^ 0xFFFF) | uint32(v)
	}
	r.sp.writeIMEM(addr&^3, word)
}

// RegsRegion exposes the SP interface registers (aliased COP0 indices 0-7)
// at their bus address for CPU-side MMIO access, independent of the RSP's
// own MFC0/MTC0 path.
type RegsRegion struct{ sp *SP }

func NewRegsRegion(sp *SP) *RegsRegion { return &RegsRegion{sp: sp} }

func (r *RegsRegion) Read32(addr uint32) uint32 {
	return r.sp.readAliasedReg(int((addr >> 2) & 0x7))
}
func (r *RegsRegion) Write32(addr, v uint32) {
	r.sp.writeAliasedReg(int((addr>>2)&0x7), v)
}

// PCRegion exposes the RSP program counter at its own bus address.
type PCRegion struct{ sp *SP }

func NewPCRegion(sp *SP) *PCRegion { return &PCRegion{sp: sp} }

func (r *PCRegion) Read32(uint32) uint32    { return r.sp.pc }
func (r *PCRegion) Write32(_ uint32, v uint32) { r.sp.SetPC(v) }

// kickDMA implements the SP's own DMEM/IMEM<->RDRAM transfer as a
// single-shot copy, without the two-entry FIFO rcp/dma.go gives the other
// DMA engines: the SP only ever has one transfer in flight (RD_LEN/WR_LEN
// busy-gate the next write per the documented contract).
func (s *SP) kickDMA(toRAM bool) {
	if s.status&StatusDMABusy != 0 {
		s.status |= StatusDMAFull
		return
	}
	count := (s.dmaRdLen & 0xFFF) + 1
	if toRAM {
		count = (s.dmaWrLen & 0xFFF) + 1
	}
	numRows := ((s.dmaRdLen >> 12) & 0xFF) + 1
	skip := (s.dmaRdLen >> 20) & 0xFFF
	if toRAM {
		numRows = ((s.dmaWrLen >> 12) & 0xFF) + 1
		skip = (s.dmaWrLen >> 20) & 0xFFF
	}

	s.status |= StatusDMABusy
	memAddr := s.dmaMemAddr & dmemMask
	dramAddr := s.dmaDramAddr

	for row := uint32(0); row < numRows; row++ {
		if toRAM {
			buf := make([]byte, count)
			copy(buf, s.dmem[memAddr:])
			s.ram.CopyIn(dramAddr, buf)
		} else {
			buf := s.ram.CopyOut(dramAddr, int(count))
			for i, b := range buf {
				idx := (memAddr + uint32(i)) & dmemMask
				s.dmem[idx] = b
			}
		}
		memAddr = (memAddr + count) & dmemMask
		dramAddr += count + skip
	}

	s.status &^= StatusDMABusy
	if s.status&StatusDMAFull != 0 {
		s.status &^= StatusDMAFull
	}
}

var _ mem.ByteRegion = (*DMEMRegion)(nil)
var _ mem.ByteRegion = (*IMEMRegion)(nil)
var _ mem.Region = (*RegsRegion)(nil)
var _ mem.Region = (*PCRegion)(nil)
