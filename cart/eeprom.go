package cart

// EEPROM is the cart's on-board save EEPROM, addressed entirely through
// PIF channel 4 joybus commands — never memory-mapped — in 8-byte blocks,
// addresses byte-indexed * 8 per spec.md §6.
type EEPROM struct {
	data []byte // 512 bytes (4 Kib) or 2048 bytes (16 Kib)
}

// NewEEPROM constructs an EEPROM of the given total byte size (512 for the
// 4 Kib part, 2048 for 16 Kib), pre-loaded from a prior storage.load call.
func NewEEPROM(size int, initial []byte) *EEPROM {
	e := &EEPROM{data: make([]byte, size)}
	copy(e.data, initial)
	return e
}

const (
	eepromCmdIdentify = 0x00
	eepromCmdRead     = 0x04
	eepromCmdWrite    = 0x05
)

// Process implements pif.ChannelDevice: tx[0] is the command byte, tx[1]
// the 8-byte block index for read/write, tx[2:10] the write payload.
func (e *EEPROM) Process(tx []byte, rxLen int) []byte {
	resp := make([]byte, rxLen)
	if len(tx) == 0 {
		return resp
	}
	switch tx[0] {
	case eepromCmdIdentify:
		if len(resp) >= 3 {
			resp[0] = 0x00
			if len(e.data) > 512 {
				resp[1] = 0x80 // 16 Kib part identifier
			} else {
				resp[1] = 0x00
			}
			resp[2] = 0x00
		}
	case eepromCmdRead:
		if len(tx) < 2 {
			return resp
		}
		off := int(tx[1]) * 8
		if off+8 <= len(e.data) {
			copy(resp, e.data[off:off+8])
		}
	case eepromCmdWrite:
		if len(tx) < 10 {
			return resp
		}
		off := int(tx[1]) * 8
		if off+8 <= len(e.data) {
			copy(e.data[off:off+8], tx[2:10])
		}
		if len(resp) >= 1 {
			resp[0] = 0x00 // status: write accepted
		}
	}
	return resp
}

// Bytes exposes the full image for the storage.save collaborator call.
func (e *EEPROM) Bytes() []byte { return e.data }
