package protocol

import (
	"encoding/binary"
	"errors"
)

// ErrMalformedReport is returned when an input payload is shorter than the
// fixed report size or carries the wrong report identifier.
var ErrMalformedReport = errors.New("malformed input report")

// InputReport is the proprietary 64-byte interrupt report the controller
// emits. Layout:
//
//	0:    report ID (0x01)
//	1:    left stick X  (0-255, 128 = center)
//	2:    left stick Y  (0-255, 128 = center)
//	3:    right stick X (0-255, 128 = center)
//	4:    right stick Y (0-255, 128 = center)
//	5:    D-pad (0-7 direction, 8 = released)
//	6-7:  buttons (LE uint16, low 13 bits)
//	8:    left trigger  (0-255)
//	9:    right trigger (0-255)
//	10-63: reserved
type InputReport struct {
	LeftStickX   byte
	LeftStickY   byte
	RightStickX  byte
	RightStickY  byte
	DPad         byte
	Buttons      uint16
	LeftTrigger  byte
	RightTrigger byte
}

// ParseInputReport decodes a raw interrupt payload. It fails with
// ErrMalformedReport on short payloads or a report ID other than 0x01.
func ParseInputReport(data []byte) (InputReport, error) {
	if len(data) < InputReportSize {
		return InputReport{}, ErrMalformedReport
	}
	if data[0] != ReportIDInput {
		return InputReport{}, ErrMalformedReport
	}
	return InputReport{
		LeftStickX:   data[1],
		LeftStickY:   data[2],
		RightStickX:  data[3],
		RightStickY:  data[4],
		DPad:         data[5],
		Buttons:      binary.LittleEndian.Uint16(data[6:8]),
		LeftTrigger:  data[8],
		RightTrigger: data[9],
	}, nil
}

// NeutralInput returns an input report at rest: sticks centered, triggers
// released, no buttons, D-pad released.
func NeutralInput() InputReport {
	return InputReport{
		LeftStickX:  AxisCenter,
		LeftStickY:  AxisCenter,
		RightStickX: AxisCenter,
		RightStickY: AxisCenter,
		DPad:        DPadNeutral,
	}
}
