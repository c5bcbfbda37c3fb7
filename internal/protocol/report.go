package protocol

import "encoding/binary"

// GamepadReport is the canonical HID gamepad report delivered to the host.
// It is always a pure function of one InputReport plus the shaping
// configuration in force at translation time.
//
// Marshaled layout (10 bytes):
//
//	0:   report ID (0x01)
//	1-2: buttons (LE uint16, 13 bits, upper 3 always clear)
//	3:   left stick X
//	4:   left stick Y
//	5:   right stick X
//	6:   right stick Y
//	7:   left trigger
//	8:   right trigger
//	9:   hat switch nibble (low 4 bits, 0-7 direction, 8 neutral)
type GamepadReport struct {
	Buttons      uint16
	LeftStickX   byte
	LeftStickY   byte
	RightStickX  byte
	RightStickY  byte
	LeftTrigger  byte
	RightTrigger byte
	Hat          byte
}

// MarshalBinary encodes the report into its fixed 10-byte wire form.
func (r GamepadReport) MarshalBinary() ([]byte, error) {
	b := make([]byte, GamepadReportSize)
	b[0] = ReportIDInput
	binary.LittleEndian.PutUint16(b[1:3], r.Buttons&ButtonMask)
	b[3] = r.LeftStickX
	b[4] = r.LeftStickY
	b[5] = r.RightStickX
	b[6] = r.RightStickY
	b[7] = r.LeftTrigger
	b[8] = r.RightTrigger
	b[9] = r.Hat & 0x0F
	return b, nil
}

// Pressed reports whether the given button bit is set.
func (r GamepadReport) Pressed(button uint16) bool {
	return r.Buttons&button != 0
}
