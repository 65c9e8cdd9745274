package cart

import "testing"

func TestSC64IdentifyReturnsMagic(t *testing.T) {
	s := NewSC64(SaveSRAM32K)
	if got := s.Read32(sc64IdentOffset); got != sc64Magic {
		t.Fatalf("SC64 identify = 0x%X, want 0x%X", got, sc64Magic)
	}
}

func TestSC64SaveTypeReadWriteRoundTrip(t *testing.T) {
	s := NewSC64(SaveSRAM32K)
	if got := s.Read32(sc64SaveTypeOffset); got != uint32(SaveSRAM32K) {
		t.Fatalf("save type readback = %d, want %d", got, SaveSRAM32K)
	}
	s.Write32(sc64SaveTypeOffset, uint32(SaveFlash128K))
	if got := s.Read32(sc64SaveTypeOffset); got != uint32(SaveFlash128K) {
		t.Fatalf("save type after write = %d, want %d", got, SaveFlash128K)
	}
}
