package pak

// VRU is the Voice Recognition Unit stub (supplemented from
// original_source/src/device/vru.rs, dropped by the distillation). No
// microphone collaborator is in scope (§6 lists no such interface), so this
// answers channel-probe correctly — games that enumerate joybus channels
// must see a real VRU device ID — and every read reports "no speech
// detected" rather than inventing host audio capture.
type VRU struct{}

func NewVRU() *VRU { return &VRU{} }

func (VRU) Kind() byte { return KindVRU }

// Read returns the documented "no word recognised" status word in the
// first two bytes and zero elsewhere.
func (VRU) Read(address uint16, buf []byte) {
	clear(buf)
	if len(buf) >= 2 {
		buf[0], buf[1] = 0x00, 0x02 // status: idle, no match
	}
}

func (VRU) Write(uint16, []byte) {}
