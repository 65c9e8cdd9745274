package cart

// SaveKind enumerates the cart-side save storage technologies spec.md §4.11
// names: {4 Kib EEPROM, 16 Kib EEPROM, 32 KiB SRAM, 128 KiB FLASH}.
type SaveKind int

const (
	SaveNone SaveKind = iota
	SaveEEPROM4K
	SaveEEPROM16K
	SaveSRAM32K
	SaveFlash128K
)

// saveTable keys a small set of well-known four-byte cart IDs to their save
// type; this stands in for the real per-game database real emulators ship.
// An ID not present here falls back to SRAM32K, the most common type.
var saveTable = map[[4]byte]SaveKind{
	{'N', 'S', 'M', 'E'}: SaveEEPROM4K,   // Super Mario 64 (example entry)
	{'N', 'Z', 'S', 'E'}: SaveSRAM32K,    // Zelda: Ocarina of Time
	{'N', 'F', '9', 'E'}: SaveFlash128K,  // Excitebike 64 (example entry)
	{'N', 'Y', 'S', 'E'}: SaveEEPROM16K,  // example 16K EEPROM title
}

// DetectSaveKind resolves rom's save type: a homebrew header hint takes
// priority over the per-game ID table, which in turn takes priority over
// the SRAM default.
func DetectSaveKind(rom *ROM) SaveKind {
	if kind, ok := rom.HomebrewSaveHint(); ok {
		return kind
	}
	if kind, ok := saveTable[rom.ID()]; ok {
		return kind
	}
	return SaveSRAM32K
}

// SaveDevice is the cart-side storage state machine PI's save-domain
// address window (0x08000000-0x0801FFFF) dispatches onto. EEPROM is not a
// SaveDevice: real hardware exposes it only through the PIF's channel-4
// joybus commands (see EEPROM in eeprom.go), never through the PI address
// window.
type SaveDevice interface {
	Read32(addr uint32) uint32
	Write32(addr uint32, v uint32)
	// Bytes exposes the full backing image for the storage.save
	// collaborator call.
	Bytes() []byte
}

// NewSaveDevice constructs the PI-mapped save backend named by kind
// (SRAM or FLASH; EEPROM kinds construct a joybus EEPROM device instead,
// via NewEEPROM), pre-loaded from a prior storage.load(kind, ...)
// collaborator call (initial may be nil or short; it is zero-extended).
func NewSaveDevice(kind SaveKind, initial []byte) SaveDevice {
	if kind == SaveFlash128K {
		return NewFlash(initial)
	}
	return NewSRAM(initial)
}
