// Package pif implements the PIF boot ROM + 64-byte RAM mailbox and the
// joybus channel multiplexer it drives, per spec.md §4.9.
//
// Grounded on coprocessor_manager.go's command-dispatch-by-opcode-byte
// shape (a fixed table of handlers keyed by a single command byte) and on
// cpu_ie32.go's "unknown opcode is fatal" policy, which spec.md §7 kind 2
// (guest-unimplemented) mandates for an unrecognised PIF command bit.
package pif

import "github.com/reality64/n64core/core"

// ChannelDevice answers one joybus frame's command bytes with a response of
// the declared length. Controller (channels 0-3) and cart-side EEPROM
// (channel 4) both implement it.
type ChannelDevice interface {
	Process(tx []byte, rxLen int) []byte
}

// PIF is the 2 KiB boot ROM (fixed at construction, NTSC or PAL) plus the
// 64-byte RAM mailbox SI DMAs RDRAM into and out of.
type PIF struct {
	rom    []byte // 2048-byte IPL2 image, host-supplied
	ram    [64]byte
	locked bool

	devices [5]ChannelDevice // 0-3: controller ports, 4: cart EEPROM
	seed    byte

	bootAcked func()
}

// New constructs a PIF over the given boot ROM image. devices must have
// exactly 5 entries (nil entries are filled with a device that always
// reports "no response"); bootAcked is invoked when the guest acknowledges
// boot completion (bit 3 of the command byte).
func New(rom []byte, devices [5]ChannelDevice, cicSeed byte, bootAcked func()) *PIF {
	p := &PIF{rom: rom, devices: devices, seed: cicSeed, bootAcked: bootAcked}
	for i, d := range p.devices {
		if d == nil {
			p.devices[i] = noResponseDevice{}
		}
	}
	return p
}

type noResponseDevice struct{}

func (noResponseDevice) Process(tx []byte, rxLen int) []byte { return make([]byte, rxLen) }

// CopyIn installs a fresh 64-byte mailbox image, overwriting the prior
// contents. data shorter than 64 bytes zero-fills the remainder.
func (p *PIF) CopyIn(data []byte) {
	clear(p.ram[:])
	copy(p.ram[:], data)
}

// CopyOut returns a copy of the current mailbox contents.
func (p *PIF) CopyOut() []byte {
	out := make([]byte, 64)
	copy(out, p.ram[:])
	return out
}

// RunCommand executes the command byte at mailbox offset 0x3F: bit 0
// re-parses joybus channel setup, bit 1 runs the CIC challenge/response,
// bit 3 acknowledges boot completion, bit 4 locks the PIF ROM against
// further access (a one-way latch real hardware never clears).
func (p *PIF) RunCommand() {
	if p.locked {
		return
	}
	cmd := p.ram[0x3F]
	switch {
	case cmd == 0x00:
		// idle/no-op command byte, used by software to poll completion.
	case cmd&0x01 != 0:
		p.runChannels()
	case cmd&0x02 != 0:
		p.runCIC()
	case cmd&0x08 != 0:
		if p.bootAcked != nil {
			p.bootAcked()
		}
	case cmd&0x10 != 0:
		p.locked = true
	default:
		core.Abort("SI_PIF_RAM command byte", uint32(cmd), 0)
	}
	p.ram[0x3F] = 0
}

// runChannels scans the mailbox for channel frames and dispatches each
// enabled slot to its device by true hardware channel number (0-3
// controller ports, 4 cart EEPROM), writing the response back into the
// frame's rx buffer. A disabled slot (0x00/0xFD/past the 0xFE end marker)
// is left untouched, matching real hardware's per-slot enable/disable
// rather than a position-in-list scheme.
func (p *PIF) runChannels() {
	channels := ScanChannels(p.ram[:])
	for i, ch := range channels {
		if !ch.Enabled {
			continue
		}
		tx := p.ram[ch.TxOff : ch.TxOff+ch.TxLen]
		resp := p.devices[i].Process(tx, ch.RxLen)
		copy(p.ram[ch.RxOff:ch.RxOff+ch.RxLen], resp)
	}
}

// runCIC implements the documented CIC NUS-6105 challenge/response
// algorithm (a public, widely-documented LUT transform, distinct from the
// boot-time IPL3-digest-to-seed lookup in cic.go, which §1's Non-goal
// actually covers). The mailbox holds a 15-byte challenge at 0x30, split
// into 30 nibbles, transformed nibble-by-nibble, and packed back.
func (p *PIF) runCIC() {
	const challengeOff = 0x30
	const challengeLen = 15

	var challenge, response [30]byte
	for i := 0; i < challengeLen; i++ {
		challenge[i*2] = (p.ram[challengeOff+i] >> 4) & 0xF
		challenge[i*2+1] = p.ram[challengeOff+i] & 0xF
	}

	n64CICNUS6105(challenge, &response, len(challenge)-2)

	for i := 0; i < challengeLen; i++ {
		p.ram[challengeOff+i] = response[i*2]<<4 | response[i*2+1]
	}
}

// n64CICNUS6105 is the public NUS-6105 challenge/response transform,
// ported directly from original_source's n64_cic_nus_6105
// (_examples/original_source/src/device/pif.rs): a two-LUT nibble state
// machine keyed by a running value, switching tables based on the parity
// of each transformed nibble's magnitude.
func n64CICNUS6105(chl [30]byte, rsp *[30]byte, length int) {
	lut0 := [0x10]byte{0x4, 0x7, 0xA, 0x7, 0xE, 0x5, 0xE, 0x1, 0xC, 0xF, 0x8, 0xF, 0x6, 0x3, 0x6, 0x9}
	lut1 := [0x10]byte{0x4, 0x1, 0xA, 0x7, 0xE, 0x5, 0xE, 0x1, 0xC, 0x9, 0x8, 0x5, 0x6, 0x3, 0xC, 0x9}

	key := byte(0xB)
	usingLUT1 := false
	lut := lut0

	for i := 0; i < length; i++ {
		rsp[i] = (key + 5*chl[i]) & 0xF
		key = lut[rsp[i]]

		sgn := (rsp[i] >> 3) & 0x1
		mag := rsp[i]
		if sgn == 1 {
			mag = ^rsp[i]
		}
		mag &= 0x7

		var modd byte
		if mag%3 == 1 {
			modd = sgn
		} else {
			modd = 1 - sgn
		}
		if usingLUT1 && (rsp[i] == 0x1 || rsp[i] == 0x9) {
			modd = 1
		}
		if usingLUT1 && (rsp[i] == 0xB || rsp[i] == 0xE) {
			modd = 0
		}
		if modd == 1 {
			lut = lut1
			usingLUT1 = true
		} else {
			lut = lut0
			usingLUT1 = false
		}
	}
}

// ROM exposes the boot image for the CPU's uncached fetch path at
// 0x1FC00000.
func (p *PIF) ROM() []byte { return p.rom }

// Locked reports whether the PIF ROM has been locked out (post-boot).
func (p *PIF) Locked() bool { return p.locked }
