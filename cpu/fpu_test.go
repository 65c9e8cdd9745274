package cpu

import "testing"

func TestFPUFRModeAddressesRegistersDirectly(t *testing.T) {
	f := NewFPU()
	f.SetFR(true)
	f.WriteWord32(5, 0xDEADBEEF)
	if got := f.ReadWord32(5); got != 0xDEADBEEF {
		t.Fatalf("ReadWord32(5) in FR mode = 0x%X, want 0xDEADBEEF", got)
	}
}

func TestFPUNonFRModeMergesOddEvenPairs(t *testing.T) {
	f := NewFPU()
	f.SetFR(false)
	f.WriteWord32(4, 0x11111111) // even register: low half of slot 4
	f.WriteWord32(5, 0x22222222) // odd register 5: high half of the same slot 4

	if got := f.ReadWord32(4); got != 0x11111111 {
		t.Fatalf("ReadWord32(4) = 0x%X, want 0x11111111", got)
	}
	if got := f.ReadWord32(5); got != 0x22222222 {
		t.Fatalf("ReadWord32(5) = 0x%X, want 0x22222222", got)
	}
	if got := f.ReadDouble64(4); got != 0x2222222211111111 {
		t.Fatalf("ReadDouble64(4) = 0x%X, want the merged 64-bit value", got)
	}
}

func TestFPUFloatRoundTrip(t *testing.T) {
	f := NewFPU()
	f.SetFR(true)
	f.WriteFloat32(1, 3.5)
	if got := f.ReadFloat32(1); got != 3.5 {
		t.Fatalf("ReadFloat32(1) = %v, want 3.5", got)
	}
	f.WriteFloat64(2, 2.718281828)
	if got := f.ReadFloat64(2); got != 2.718281828 {
		t.Fatalf("ReadFloat64(2) = %v, want 2.718281828", got)
	}
}

func TestFPUCompareFlagRoundTrip(t *testing.T) {
	f := NewFPU()
	f.SetCompare(true)
	if !f.Compare() {
		t.Fatal("Compare() false after SetCompare(true)")
	}
	if f.FCR31()&FCR31Compare == 0 {
		t.Fatal("FCR31 condition bit not reflected in FCR31()")
	}
	f.SetCompare(false)
	if f.Compare() {
		t.Fatal("Compare() true after SetCompare(false)")
	}
}

func TestNewFPUSetsFCR0RevisionField(t *testing.T) {
	f := NewFPU()
	if f.FCR0() != 0x00000A00 {
		t.Fatalf("FCR0 = 0x%X, want 0x00000A00", f.FCR0())
	}
}
