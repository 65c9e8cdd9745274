// joybus.go implements the PIF RAM channel-setup scan: a byte stream of
// `tx_len, rx_len, tx_cmd…, rx_buf…` frames separated by meta-bytes (0x00
// skip, 0xFD reset, 0xFE end, 0xFF filler), resolving into the five fixed
// hardware channel slots (0-3 controller ports, 4 cart EEPROM) per
// spec.md §4.9. Grounded on original_source's setup_channels_format
// (_examples/original_source/src/device/pif.rs), which this scan follows
// byte-for-byte: the channel index advances on 0x00/0xFD/a real frame, but
// not on 0xFF filler, so a 0x00 "no controller here" byte still consumes
// its hardware slot instead of shifting everything after it down.
package pif

// NumChannels is the fixed hardware channel count: ports 0-3 plus the
// cart's on-board EEPROM at slot 4.
const NumChannels = 5

// Channel records one hardware joybus slot's state after a scan: either
// disabled (no device answers this poll cycle) or the PIF-RAM byte offsets
// of its command and response buffers.
type Channel struct {
	Enabled bool
	TxOff   int
	RxOff   int
	TxLen   int
	RxLen   int
}

// ScanChannels walks buf (the 64-byte PIF RAM mailbox) and returns the five
// fixed hardware channel slots, enabled or not, indexed by true channel
// number rather than by encounter order. A 0x00 or 0xFD meta-byte disables
// the slot at the current channel index and advances past it; only 0xFF
// filler bytes are skipped without consuming a slot.
func ScanChannels(buf []byte) [NumChannels]Channel {
	var channels [NumChannels]Channel
	n := len(buf)
	i, k := 0, 0
	for i < n && k < NumChannels {
		switch buf[i] {
		case 0x00: // skip channel: disable this slot, consume it
			channels[k] = Channel{}
			k++
			i++
		case 0xFF: // dummy/filler byte: does not consume a channel slot
			i++
		case 0xFE: // end of channel list: remaining slots are disabled
			for k < NumChannels {
				channels[k] = Channel{}
				k++
			}
		case 0xFD: // channel reset: disable this slot, consume it
			channels[k] = Channel{}
			k++
			i++
		default:
			// Some titles send a bogus length byte immediately followed by
			// the end-of-list marker (Yoshi's Story, Top Gear Rally 2,
			// Indiana Jones); real hardware treats it as a stray byte to
			// skip rather than a frame header.
			if i+1 < n && buf[i+1] == 0xFE {
				i++
				continue
			}
			if i+2 > n {
				i = n
				continue
			}
			txLen := int(buf[i] & 0x3F)
			rxLen := int(buf[i+1] & 0x3F)
			txOff := i + 2
			rxOff := txOff + txLen
			if rxOff+rxLen > n {
				i = n
				continue
			}
			channels[k] = Channel{Enabled: true, TxOff: txOff, RxOff: rxOff, TxLen: txLen, RxLen: rxLen}
			k++
			i = rxOff + rxLen
		}
	}
	return channels
}
