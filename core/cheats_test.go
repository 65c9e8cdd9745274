package core

import "testing"

type fakeMemory struct {
	bytes map[uint32]byte
	halfs map[uint32]uint16
}

func newFakeMemory() *fakeMemory {
	return &fakeMemory{bytes: map[uint32]byte{}, halfs: map[uint32]uint16{}}
}
func (m *fakeMemory) WriteByte(addr uint32, v byte)    { m.bytes[addr] = v }
func (m *fakeMemory) WriteHalf(addr uint32, v uint16)  { m.halfs[addr] = v }

func TestParseCodeDecodesTypeAddressAndData(t *testing.T) {
	c, err := ParseCode("8010A500 0063")
	if err != nil {
		t.Fatalf("ParseCode error: %v", err)
	}
	if c.Type != CodeWriteByte {
		t.Fatalf("Type = 0x%X, want CodeWriteByte", c.Type)
	}
	if c.Address != 0x0010A500 {
		t.Fatalf("Address = 0x%X, want 0x0010A500", c.Address)
	}
	if c.Data != 0x0063 {
		t.Fatalf("Data = 0x%X, want 0x0063", c.Data)
	}
}

func TestParseCodeRejectsWrongFieldCount(t *testing.T) {
	if _, err := ParseCode("8010A500"); err == nil {
		t.Fatal("expected an error for a one-field line")
	}
}

func TestParseCodeRejectsInvalidHex(t *testing.T) {
	if _, err := ParseCode("ZZZZZZZZ 0063"); err == nil {
		t.Fatal("expected an error for non-hex code word")
	}
}

func TestCheatListApplyWritesByteAndHalfCodes(t *testing.T) {
	list := NewCheatList()
	list.Add(Code{Type: CodeWriteByte, Address: 0x1000, Data: 0x00AB})
	list.Add(Code{Type: CodeWriteHalf, Address: 0x2000, Data: 0xBEEF})

	mem := newFakeMemory()
	list.Apply(mem)

	if mem.bytes[0x1000] != 0xAB {
		t.Fatalf("byte patch = 0x%X, want 0xAB", mem.bytes[0x1000])
	}
	if mem.halfs[0x2000] != 0xBEEF {
		t.Fatalf("half patch = 0x%X, want 0xBEEF", mem.halfs[0x2000])
	}
}

func TestCheatListApplySkipsUnmodeledCodeTypes(t *testing.T) {
	list := NewCheatList()
	list.Add(Code{Type: 0x50, Address: 0x1000, Data: 0x1234}) // conditional code, unmodeled

	mem := newFakeMemory()
	list.Apply(mem)

	if len(mem.bytes) != 0 || len(mem.halfs) != 0 {
		t.Fatal("unmodeled code type must not write anything")
	}
}
