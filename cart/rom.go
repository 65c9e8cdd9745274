// Package cart implements the cartridge ROM window and its save domain
// (EEPROM/SRAM/FLASH), per spec.md §4.11 and §6's byte-order auto-detect
// contract.
//
// Grounded on audio_chip.go's format-autodetect-from-header idiom
// (inspecting the first few bytes of a loaded asset to pick a codec) and on
// cpu_m68k.go's big-endian-bus memory model, which the cart ROM shares.
package cart

import "github.com/reality64/n64core/logx"

// Endian tags the byte order a loaded ROM image was stored in, detected
// from its first four bytes.
type Endian int

const (
	EndianNative Endian = iota // 80 37 12 40: already big-endian, no swap
	EndianByteSwapped16         // 37 80 40 12: swap every 16-bit halfword
	EndianWordSwapped32         // 40 12 37 80: swap every 32-bit word
)

// DetectEndian inspects the first four bytes of a raw ROM image (as read
// from the host file, before any normalisation) and reports its encoding.
func DetectEndian(header [4]byte) Endian {
	switch header {
	case [4]byte{0x80, 0x37, 0x12, 0x40}:
		return EndianNative
	case [4]byte{0x37, 0x80, 0x40, 0x12}:
		return EndianByteSwapped16
	case [4]byte{0x40, 0x12, 0x37, 0x80}:
		return EndianWordSwapped32
	default:
		logx.Warnf("unrecognised ROM header %02X %02X %02X %02X, assuming native big-endian", header[0], header[1], header[2], header[3])
		return EndianNative
	}
}

// Normalize returns a copy of raw rewritten to big-endian bus order
// according to its detected encoding.
func Normalize(raw []byte) []byte {
	var hdr [4]byte
	copy(hdr[:], raw)
	switch DetectEndian(hdr) {
	case EndianByteSwapped16:
		out := make([]byte, len(raw))
		copy(out, raw)
		for i := 0; i+1 < len(out); i += 2 {
			out[i], out[i+1] = out[i+1], out[i]
		}
		return out
	case EndianWordSwapped32:
		out := make([]byte, len(raw))
		copy(out, raw)
		for i := 0; i+3 < len(out); i += 4 {
			out[i], out[i+1], out[i+2], out[i+3] = out[i+3], out[i+2], out[i+1], out[i]
		}
		return out
	default:
		return raw
	}
}

// ROM is the big-endian ROM window at physical 0x10000000-0x1FBFFFFF.
type ROM struct {
	data []byte
}

// NewROM wraps a normalized (big-endian) ROM image. Load the raw host file
// through Normalize first.
func NewROM(data []byte) *ROM { return &ROM{data: data} }

func (r *ROM) Len() uint32 { return uint32(len(r.data)) }

// ReadROM copies len(buf) bytes starting at addr into buf; out-of-range
// bytes are left zero, matching an unmapped cart read.
func (r *ROM) ReadROM(addr uint32, buf []byte) {
	if int(addr) >= len(r.data) {
		return
	}
	n := copy(buf, r.data[addr:])
	for i := n; i < len(buf); i++ {
		buf[i] = 0
	}
}

// ID returns the four-byte cartridge ID (game code + region + version) used
// to key the save-type lookup table, read from the standard ROM header
// offset 0x3C.
func (r *ROM) ID() [4]byte {
	var id [4]byte
	if len(r.data) >= 0x40 {
		copy(id[:], r.data[0x3C:0x40])
	}
	return id
}

// HomebrewSaveHint reads the homebrew-flashcart save-type flag at header
// offset 0x3B (not part of the standard Nintendo header, used by flash-cart
// toolchains to force a save type the ID table wouldn't otherwise select).
func (r *ROM) HomebrewSaveHint() (kind SaveKind, present bool) {
	if len(r.data) < 0x3C {
		return 0, false
	}
	v := r.data[0x3B]
	switch v {
	case 0x01:
		return SaveEEPROM4K, true
	case 0x02:
		return SaveEEPROM16K, true
	case 0x03:
		return SaveSRAM32K, true
	case 0x04:
		return SaveFlash128K, true
	default:
		return 0, false
	}
}
