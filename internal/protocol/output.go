package protocol

import "errors"

// ErrUnsupportedReport is returned when a host output report carries an
// identifier the device does not understand.
var ErrUnsupportedReport = errors.New("unsupported output report")

// ErrUnderrun is returned when a host output payload is too small for the
// report type it selects.
var ErrUnderrun = errors.New("output report payload too small")

// OutputCommand is a host-issued output report decoded once at the boundary.
// The two concrete commands are LEDCommand and RumbleCommand; each knows how
// to encode itself into the device's 8-byte output frame.
type OutputCommand interface {
	// Frame builds the fixed-size wire frame for the device's OUT endpoint.
	Frame() [OutputFrameSize]byte
}

// LEDCommand sets the four player LEDs to the given 4-bit mask.
type LEDCommand struct {
	Mask byte
}

// Frame encodes the LED control frame:
// 0: 0x01, 1: 0x08, 2: LED mask (4 bits), 3-7: zero.
func (c LEDCommand) Frame() [OutputFrameSize]byte {
	return [OutputFrameSize]byte{ReportIDLED, 0x08, c.Mask & LEDAll}
}

// RumbleCommand drives the two force-feedback motors. The weak motor is
// on/off only; the strong motor takes a 0-255 intensity. The device has no
// per-call duration control, so every frame requests continuous rumble.
type RumbleCommand struct {
	WeakOn      bool
	StrongForce byte
}

// Frame encodes the rumble control frame:
// 0: 0x02, 1: 0x08, 2: weak on/off, 3: strong force, 4: 0xFF, 5-7: zero.
func (c RumbleCommand) Frame() [OutputFrameSize]byte {
	f := [OutputFrameSize]byte{ReportIDRumble, 0x08, 0, c.StrongForce, RumbleContinuous}
	if c.WeakOn {
		f[2] = 1
	}
	return f
}

// DecodeOutputCommand classifies a host output report. reportID is the
// identifier the transport reported out-of-band; transports that do not
// carry one pass zero and the first payload byte is used instead. The
// payload is expected to start with the report identifier byte, as laid out
// in the report descriptor.
//
// LED report payload: 0: id, 1: reserved, 2: LED mask.
// Rumble report payload: 0: id, 1: reserved, 2: weak on/off, 3: strong force.
func DecodeOutputCommand(reportID byte, payload []byte) (OutputCommand, error) {
	if reportID == 0 {
		if len(payload) == 0 {
			return nil, ErrUnderrun
		}
		reportID = payload[0]
	}

	switch reportID {
	case ReportIDLED:
		if len(payload) < OutputFrameSize {
			return nil, ErrUnderrun
		}
		return LEDCommand{Mask: payload[2] & LEDAll}, nil
	case ReportIDRumble:
		if len(payload) < OutputFrameSize {
			return nil, ErrUnderrun
		}
		return RumbleCommand{WeakOn: payload[2] != 0, StrongForce: payload[3]}, nil
	default:
		return nil, ErrUnsupportedReport
	}
}
