package cart

// SC64 implements the minimal subset of the SC64 flashcart's control
// register window homebrew ROMs probe for save-type/ROM-mapping
// autodetection (supplemented from original_source/src/device/sc64.rs).
// The full flashcart feature set — USB bridge, bootloader, CIC emulation
// config — is a host-tooling concern out of scope here; only the
// identification and save-config registers homebrew actually reads are
// modeled.
type SC64 struct {
	saveKind SaveKind
}

func NewSC64(saveKind SaveKind) *SC64 { return &SC64{saveKind: saveKind} }

const (
	sc64IdentOffset    = 0x00
	sc64SaveTypeOffset = 0x04
)

const sc64Magic = 0x53437632 // "SCv2"

func (s *SC64) Read32(addr uint32) uint32 {
	switch addr & 0xFF {
	case sc64IdentOffset:
		return sc64Magic
	case sc64SaveTypeOffset:
		return uint32(s.saveKind)
	default:
		return 0
	}
}

func (s *SC64) Write32(addr uint32, v uint32) {
	if addr&0xFF == sc64SaveTypeOffset {
		s.saveKind = SaveKind(v)
	}
}
