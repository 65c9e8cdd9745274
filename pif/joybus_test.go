package pif

import "testing"

func TestScanChannelsSingleFrame(t *testing.T) {
	buf := make([]byte, 64)
	// One channel: tx_len=1, rx_len=3, one command byte, three response
	// bytes, then end-of-list.
	buf[0] = 1
	buf[1] = 3
	buf[2] = 0x00 // the single command byte (controller "reset/status")
	buf[6] = 0xFE

	chans := ScanChannels(buf)
	c := chans[0]
	if !c.Enabled || c.TxLen != 1 || c.RxLen != 3 || c.TxOff != 2 || c.RxOff != 3 {
		t.Fatalf("channel 0 = %+v, want enabled {TxOff:2 RxOff:3 TxLen:1 RxLen:3}", c)
	}
	for i := 1; i < NumChannels; i++ {
		if chans[i].Enabled {
			t.Fatalf("channel %d enabled after a single-frame setup ending in 0xFE", i)
		}
	}
}

func TestScanChannelsStopsAtFiveAndAtEndMarker(t *testing.T) {
	buf := make([]byte, 64)
	i := 0
	for ch := 0; ch < 6; ch++ { // six candidate frames, only 5 slots exist
		buf[i] = 1
		buf[i+1] = 1
		buf[i+2] = 0
		buf[i+3] = 0
		i += 4
	}
	buf[i] = 0xFE

	chans := ScanChannels(buf)
	for i := 0; i < NumChannels; i++ {
		if !chans[i].Enabled {
			t.Fatalf("channel %d disabled, want all 5 slots filled by the first five frames", i)
		}
	}
}

// A leading 0x00 ("no controller in this port") must disable hardware
// channel 0 and consume that slot, not shift the frame that follows into
// slot 0 — a real frame after a 0x00 belongs to channel 1, exactly as a
// single-player ROM's empty ports 1-3 would appear on real hardware.
func TestScanChannelsZeroByteConsumesItsOwnChannelSlot(t *testing.T) {
	buf := make([]byte, 64)
	buf[0] = 0x00 // disables channel 0
	buf[1] = 1
	buf[2] = 1
	buf[3] = 0
	buf[4] = 0
	buf[5] = 0xFE

	chans := ScanChannels(buf)
	if chans[0].Enabled {
		t.Fatalf("channel 0 = %+v, want disabled after a leading 0x00", chans[0])
	}
	if !chans[1].Enabled || chans[1].TxOff != 3 {
		t.Fatalf("channel 1 = %+v, want enabled with TxOff=3", chans[1])
	}
}

// 0xFF filler bytes, unlike 0x00, do not consume a channel slot.
func TestScanChannelsFillerDoesNotConsumeASlot(t *testing.T) {
	buf := make([]byte, 64)
	buf[0] = 0xFF // filler
	buf[1] = 1
	buf[2] = 1
	buf[3] = 0
	buf[4] = 0
	buf[5] = 0xFE

	chans := ScanChannels(buf)
	if !chans[0].Enabled || chans[0].TxOff != 3 {
		t.Fatalf("channel 0 = %+v, want enabled with TxOff=3 (filler byte consumed no slot)", chans[0])
	}
}

// This is the scenario spec.md §8 scenario 6 depends on: the EEPROM lives
// at the fixed hardware channel 4 even when earlier controller ports are
// empty (0x00), which is the common case for single-player ROMs.
func TestScanChannelsEmptyControllerPortsDoNotShiftEEPROMChannel(t *testing.T) {
	buf := make([]byte, 64)
	i := 0
	for port := 0; port < 3; port++ { // ports 0-2 empty
		buf[i] = 0x00
		i++
	}
	buf[i] = 1 // port 3: a real controller frame
	buf[i+1] = 1
	buf[i+2] = 0
	buf[i+3] = 0
	i += 4
	eepromTxOff := i + 2
	buf[i] = 1 // channel 4: the cart EEPROM frame
	buf[i+1] = 8
	i += 2 + 1 + 8
	buf[i] = 0xFE

	chans := ScanChannels(buf)
	for port := 0; port < 3; port++ {
		if chans[port].Enabled {
			t.Fatalf("channel %d enabled, want disabled (0x00 slot)", port)
		}
	}
	if !chans[3].Enabled {
		t.Fatalf("channel 3 disabled, want the real controller frame")
	}
	if !chans[4].Enabled || chans[4].TxOff != eepromTxOff || chans[4].RxLen != 8 {
		t.Fatalf("channel 4 = %+v, want enabled EEPROM frame at TxOff=%d RxLen=8", chans[4], eepromTxOff)
	}
}

func TestScanChannelsRxLenMasksProtocolFlagBits(t *testing.T) {
	buf := make([]byte, 64)
	buf[0] = 1
	buf[1] = 0x80 | 2 // top bit flag set, low 6 bits = actual length 2
	buf[2] = 0
	buf[3] = 0
	buf[4] = 0
	buf[5] = 0xFE

	chans := ScanChannels(buf)
	if !chans[0].Enabled || chans[0].RxLen != 2 {
		t.Fatalf("channel 0 = %+v, want enabled with RxLen=2", chans[0])
	}
}

func TestScanChannelsTruncatedFrameStops(t *testing.T) {
	buf := make([]byte, 4)
	buf[0] = 10 // declares more tx bytes than the buffer has room for
	buf[1] = 10
	chans := ScanChannels(buf)
	for i := 0; i < NumChannels; i++ {
		if chans[i].Enabled {
			t.Fatalf("channel %d enabled from a truncated frame, want all disabled", i)
		}
	}
}
