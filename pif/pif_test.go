package pif

import "testing"

type echoDevice struct{ lastTx []byte }

func (e *echoDevice) Process(tx []byte, rxLen int) []byte {
	e.lastTx = append([]byte(nil), tx...)
	resp := make([]byte, rxLen)
	copy(resp, tx)
	return resp
}

func TestRunCommandIdleByteIsNoOp(t *testing.T) {
	p := New(make([]byte, 2048), [5]ChannelDevice{}, 0, nil)
	p.ram[0x3F] = 0x00
	p.RunCommand()
	if p.ram[0x3F] != 0 {
		t.Fatalf("command byte = 0x%X, want cleared", p.ram[0x3F])
	}
}

func TestRunCommandBootAckInvokesCallback(t *testing.T) {
	acked := false
	p := New(make([]byte, 2048), [5]ChannelDevice{}, 0, func() { acked = true })
	p.ram[0x3F] = 0x08
	p.RunCommand()
	if !acked {
		t.Fatal("boot-ack command byte did not invoke bootAcked")
	}
}

func TestRunCommandLockIsOneWay(t *testing.T) {
	p := New(make([]byte, 2048), [5]ChannelDevice{}, 0, nil)
	p.ram[0x3F] = 0x10
	p.RunCommand()
	if !p.Locked() {
		t.Fatal("lock command byte did not set Locked()")
	}

	p.ram[0x3F] = 0x08 // further commands must be ignored once locked
	p.RunCommand()
	if p.ram[0x3F] != 0x08 {
		t.Fatal("RunCommand must no-op once locked, including clearing the command byte")
	}
}

func TestRunChannelsDispatchesToDeviceAndWritesResponse(t *testing.T) {
	dev := &echoDevice{}
	devices := [5]ChannelDevice{dev}
	p := New(make([]byte, 2048), devices, 0, nil)

	p.ram[0] = 1    // txLen
	p.ram[1] = 2    // rxLen
	p.ram[2] = 0xAB // command byte
	p.ram[5] = 0xFE // end marker
	p.ram[0x3F] = 0x01

	p.RunCommand()

	if dev.lastTx == nil || dev.lastTx[0] != 0xAB {
		t.Fatalf("device did not receive the command byte, got %v", dev.lastTx)
	}
	if p.ram[3] != 0xAB {
		t.Fatalf("echoed response byte = 0x%X, want 0xAB", p.ram[3])
	}
}

func TestRunCICTransformsChallengeDeterministically(t *testing.T) {
	p1 := New(make([]byte, 2048), [5]ChannelDevice{}, 0x3F, nil)
	copy(p1.ram[0x30:], []byte{0x11, 0x22, 0x33})
	p1.ram[0x3F] = 0x02
	p1.RunCommand()
	out1 := append([]byte(nil), p1.ram[0x30:0x33]...)

	p2 := New(make([]byte, 2048), [5]ChannelDevice{}, 0x3F, nil)
	copy(p2.ram[0x30:], []byte{0x11, 0x22, 0x33})
	p2.ram[0x3F] = 0x02
	p2.RunCommand()
	out2 := append([]byte(nil), p2.ram[0x30:0x33]...)

	for i := range out1 {
		if out1[i] != out2[i] {
			t.Fatalf("CIC transform not deterministic at byte %d: %v vs %v", i, out1, out2)
		}
	}
}

func TestCopyInCopyOutRoundTrip(t *testing.T) {
	p := New(make([]byte, 2048), [5]ChannelDevice{}, 0, nil)
	data := make([]byte, 64)
	data[0] = 0xAA
	data[63] = 0xBB
	p.CopyIn(data)
	out := p.CopyOut()
	if out[0] != 0xAA || out[63] != 0xBB {
		t.Fatalf("CopyOut = %v, want first/last bytes preserved", out)
	}
}

func TestCopyInShorterThan64ZeroFillsRemainder(t *testing.T) {
	p := New(make([]byte, 2048), [5]ChannelDevice{}, 0, nil)
	p.ram[10] = 0xFF
	p.CopyIn([]byte{1, 2, 3})
	out := p.CopyOut()
	if out[0] != 1 || out[1] != 2 || out[2] != 3 {
		t.Fatalf("short CopyIn prefix = %v, want [1 2 3 ...]", out[:3])
	}
	if out[10] != 0 {
		t.Fatalf("short CopyIn did not zero the remainder: byte 10 = 0x%X", out[10])
	}
}

func TestNilDeviceSlotsAnswerWithZeroResponse(t *testing.T) {
	p := New(make([]byte, 2048), [5]ChannelDevice{}, 0, nil)
	resp := p.devices[0].Process([]byte{0x01}, 4)
	if len(resp) != 4 {
		t.Fatalf("no-response device returned %d bytes, want 4", len(resp))
	}
	for _, b := range resp {
		if b != 0 {
			t.Fatalf("no-response device returned non-zero byte: %v", resp)
		}
	}
}
