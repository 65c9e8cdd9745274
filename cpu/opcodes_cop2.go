// opcodes_cop2.go forwards MFC2/MTC2/CFC2/CTC2 to whatever vector unit has
// been attached via AttachCOP2; with nothing attached, coprocessor-2
// instructions fault the way a real CPU core faults on a disabled unit.
package cpu

const (
	cop2MF = 0x00
	cop2CF = 0x02
	cop2MT = 0x04
	cop2CT = 0x06
)

func (c *CPU) execCOP2(in insn) {
	if c.cop2 == nil {
		c.raise(ExcCpU, 0, false)
		return
	}
	switch in.rs {
	case cop2MF:
		c.regs.Set(in.rt, uint64(int64(int32(c.cop2.MFC2(in.rd)))))
	case cop2CF:
		c.regs.Set(in.rt, uint64(int64(int32(c.cop2.CFC2(in.rd)))))
	case cop2MT:
		c.cop2.MTC2(in.rd, uint32(c.regs.Get(in.rt)))
	case cop2CT:
		c.cop2.CTC2(in.rd, uint32(c.regs.Get(in.rt)))
	default:
		c.raise(ExcRI, 0, false)
	}
}
