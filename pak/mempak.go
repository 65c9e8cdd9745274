package pak

// MemPak is a 32 KiB banked save device: 1024 pages of 32 bytes each,
// addressed directly by the joybus address field's page index.
type MemPak struct {
	data [32 * 1024]byte
}

// NewMemPak returns a MemPak, optionally pre-loaded from a prior
// storage.load(MemPak, ...) collaborator call; a nil or short initial is
// zero-filled (a freshly formatted pak).
func NewMemPak(initial []byte) *MemPak {
	m := &MemPak{}
	copy(m.data[:], initial)
	return m
}

func (m *MemPak) Kind() byte { return KindMemPak }

func (m *MemPak) Read(address uint16, buf []byte) {
	off := int(address) &^ 0x1F
	copy(buf, m.data[off:])
}

func (m *MemPak) Write(address uint16, buf []byte) {
	off := int(address) &^ 0x1F
	copy(m.data[off:], buf)
}

// Bytes exposes the full pak image for the storage.save collaborator call.
func (m *MemPak) Bytes() []byte { return m.data[:] }
