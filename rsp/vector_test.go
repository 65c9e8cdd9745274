package rsp

import "testing"

func TestSaturateAddS16(t *testing.T) {
	cases := []struct {
		a, b int32
		want int16
	}{
		{100, 200, 300},
		{32767, 1, 32767},
		{-32768, -1, -32768},
		{20000, 20000, 32767},
		{-20000, -20000, -32768},
	}
	for _, c := range cases {
		if got := saturateAddS16(c.a, c.b); got != c.want {
			t.Fatalf("saturateAddS16(%d,%d) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

// RSP divide reciprocal: special cases x=0 -> 0x7FFFFFFF and
// x=-32768 -> 0xFFFF0000 (spec.md §8).
func TestReciprocalLookupSpecialCases(t *testing.T) {
	if got := reciprocalLookup(0, false); got != 0x7FFFFFFF {
		t.Fatalf("reciprocalLookup(0) = 0x%X, want 0x7FFFFFFF", uint32(got))
	}
	if got := reciprocalLookup(-32768, false); uint32(got) != 0xFFFF0000 {
		t.Fatalf("reciprocalLookup(-32768) = 0x%X, want 0xFFFF0000", uint32(got))
	}
}

func TestReciprocalLookupPositiveRangeNonZero(t *testing.T) {
	for x := int32(1); x <= 511; x++ {
		got := reciprocalLookup(x, false)
		if got <= 0 {
			t.Fatalf("reciprocalLookup(%d) = %d, want a positive reciprocal", x, got)
		}
	}
}

func TestReciprocalLookupNegatesCorrectly(t *testing.T) {
	for x := int32(1); x <= 511; x++ {
		pos := reciprocalLookup(x, false)
		neg := reciprocalLookup(-x, false)
		if neg != ^pos {
			t.Fatalf("reciprocalLookup(-%d) = %d, want bitwise complement of reciprocalLookup(%d)=%d", x, neg, x, pos)
		}
	}
}

func TestBroadcastShuffleIdentityForElement0(t *testing.T) {
	vt := [8]int16{10, 11, 12, 13, 14, 15, 16, 17}
	out := shuffleVT(vt, 0)
	if out != vt {
		t.Fatalf("element 0 shuffle = %v, want identity %v", out, vt)
	}
}

func TestBroadcastShuffleSingleLane(t *testing.T) {
	vt := [8]int16{10, 11, 12, 13, 14, 15, 16, 17}
	out := shuffleVT(vt, 8+3) // selector 11: broadcast lane 3 everywhere
	for i, v := range out {
		if v != 13 {
			t.Fatalf("lane %d = %d, want 13 (broadcast of lane 3)", i, v)
		}
	}
}

func TestVectorUnitReset(t *testing.T) {
	var v VectorUnit
	v.regs[0][0] = 42
	v.vco[0] = true
	v.divIn = 7
	v.Reset()
	if v.regs[0][0] != 0 || v.vco[0] || v.divIn != 0 {
		t.Fatalf("Reset left non-zero state: regs[0][0]=%d vco[0]=%v divIn=%d", v.regs[0][0], v.vco[0], v.divIn)
	}
}
