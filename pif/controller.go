// controller.go implements the four controller-port joybus devices:
// identify (0x00/0xFF), poll (0x01), pak read (0x02), pak write (0x03),
// per spec.md §4.10.
package pif

import "github.com/reality64/n64core/pak"

// InputSource is the §6 collaborator interface: input.poll(port) returns a
// packed 32-bit button/axis word in the documented N64 controller layout
// (buttons in the high 16 bits, signed analogue stick X/Y in the low 16).
type InputSource interface {
	Poll(port int) uint32
}

// Controller is channel 0-3's device: it answers joybus commands against a
// live InputSource and dispatches pak commands to whichever pak.Device is
// plugged into its port.
type Controller struct {
	port   int
	input  InputSource
	device pak.Device
}

func NewController(port int, input InputSource, device pak.Device) *Controller {
	if device == nil {
		device = pak.None{}
	}
	return &Controller{port: port, input: input, device: device}
}

func (c *Controller) SetPak(device pak.Device) {
	if device == nil {
		device = pak.None{}
	}
	c.device = device
}

// Process dispatches one joybus command frame (tx[0] is the command byte)
// and returns the rxLen-byte response. An empty frame or an unknown command
// returns nil; runChannels then copies nothing, so the frame's rx bytes
// keep their previous contents.
func (c *Controller) Process(tx []byte, rxLen int) []byte {
	if len(tx) == 0 {
		return nil
	}
	switch tx[0] {
	case 0x00, 0xFF: // reset / status: 3-byte identifier + pak-present flags
		resp := make([]byte, rxLen)
		// 0x0500: standard controller identifier.
		resp[0] = 0x05
		if len(resp) > 1 {
			resp[1] = 0x00
		}
		if len(resp) > 2 {
			present := byte(0)
			if c.device.Kind() != pak.KindNone {
				present = 0x01
			}
			resp[2] = present
		}
		return resp
	case 0x01: // poll: 4-byte button/axis state
		resp := make([]byte, rxLen)
		word := c.input.Poll(c.port)
		if len(resp) >= 4 {
			resp[0] = byte(word >> 24)
			resp[1] = byte(word >> 16)
			resp[2] = byte(word >> 8)
			resp[3] = byte(word)
		}
		return resp
	case 0x02: // read pak: tx[1:3] = address|CRC, response is 32 data bytes + CRC
		if len(tx) < 3 {
			return nil
		}
		addrWord := uint16(tx[1])<<8 | uint16(tx[2])
		address := addrWord &^ 0x1F
		resp := make([]byte, rxLen)
		c.device.Read(address, resp[:min(32, len(resp))])
		if len(resp) >= 33 {
			resp[32] = pak.DataCRC(resp[:32])
		}
		return resp
	case 0x03: // write pak: tx[1:3] = address, tx[3:35] = 32 data bytes
		if len(tx) < 35 {
			return nil
		}
		addrWord := uint16(tx[1])<<8 | uint16(tx[2])
		address := addrWord &^ 0x1F
		c.device.Write(address, tx[3:35])
		resp := make([]byte, rxLen)
		if len(resp) >= 1 {
			resp[len(resp)-1] = pak.DataCRC(tx[3:35])
		}
		return resp
	default:
		return nil
	}
}
