// SPDX-License-Identifier: MIT

// Package translate converts proprietary Bigben input reports into the
// canonical gamepad report: button remapping, stick deadzone shaping,
// trigger shaping and D-pad to hat switch conversion. Translation is pure;
// the only state is the deadzone pair in Config.
package translate

import (
	"errors"

	"github.com/openpad/bigben-bridge/internal/protocol"
)

// ErrNilConfig is returned by Translate when no configuration is supplied.
var ErrNilConfig = errors.New("translate: nil config")

// Buttons masks the proprietary button bitfield down to the 13 meaningful
// bits. The proprietary and canonical layouts coincide bit for bit, so no
// remap table is needed; bits 13-15 are always cleared.
func Buttons(raw uint16) uint16 {
	return raw & protocol.ButtonMask
}

// Hat converts a D-pad direction code to the hat switch value. Codes 0-8
// pass through; anything above 8 is malformed hardware data and collapses
// to neutral rather than poisoning the whole report.
func Hat(dpad byte) byte {
	if dpad > protocol.DPadNeutral {
		return protocol.HatNeutral
	}
	return dpad
}

// StickAxis applies the stick deadzone to one 0-255 axis sample centered at
// 128. Samples inside the deadzone snap to center; samples outside are
// rescaled so the deadzone boundary maps to 128 and the physical extremes
// still reach 0 and 255, leaving no discontinuity at the boundary. A zero
// deadzone is the identity.
func StickAxis(value, deadzone byte) byte {
	offset := int16(value) - int16(protocol.AxisCenter)
	dz := int16(deadzone)

	if offset > -dz && offset < dz {
		return protocol.AxisCenter
	}

	if dz > 0 && dz < 128 {
		activeRange := 127 - dz
		if activeRange > 0 {
			var adjusted int16
			if offset > 0 {
				adjusted = offset - dz
			} else {
				adjusted = offset + dz
			}
			offset = adjusted * 127 / activeRange
		}
	}

	result := offset + int16(protocol.AxisCenter)
	if result < int16(protocol.AxisMin) {
		return protocol.AxisMin
	}
	if result > int16(protocol.AxisMax) {
		return protocol.AxisMax
	}
	return byte(result)
}

// TriggerAxis applies the trigger deadzone to one 0-255 trigger sample.
// Values below the deadzone read as released; the remainder is rescaled
// linearly onto the full range. Division truncates, matching the device's
// reference behavior. A zero deadzone is the identity.
func TriggerAxis(value, deadzone byte) byte {
	if value < deadzone {
		return 0
	}

	if deadzone > 0 && deadzone < 255 {
		activeRange := uint16(255 - deadzone)
		adjusted := uint16(value - deadzone)
		scaled := adjusted * 255 / activeRange
		if scaled > 255 {
			return 255
		}
		return byte(scaled)
	}

	return value
}

// Translate builds a fresh canonical report from one proprietary report and
// the configuration in force. It never fails on data range: every input
// field is defined over its full binary range and every output is derived
// through clamping functions.
func Translate(in protocol.InputReport, cfg *Config) (protocol.GamepadReport, error) {
	if cfg == nil {
		return protocol.GamepadReport{}, ErrNilConfig
	}

	stick, trigger := cfg.snapshot()

	return protocol.GamepadReport{
		Buttons:      Buttons(in.Buttons),
		LeftStickX:   StickAxis(in.LeftStickX, stick),
		LeftStickY:   StickAxis(in.LeftStickY, stick),
		RightStickX:  StickAxis(in.RightStickX, stick),
		RightStickY:  StickAxis(in.RightStickY, stick),
		LeftTrigger:  TriggerAxis(in.LeftTrigger, trigger),
		RightTrigger: TriggerAxis(in.RightTrigger, trigger),
		Hat:          Hat(in.DPad),
	}, nil
}

// NeutralReport returns the canonical report at rest: sticks centered,
// triggers released, no buttons, hat neutral. It is the answer to state
// queries arriving before the first report.
func NeutralReport() protocol.GamepadReport {
	return protocol.GamepadReport{
		LeftStickX:  protocol.AxisCenter,
		LeftStickY:  protocol.AxisCenter,
		RightStickX: protocol.AxisCenter,
		RightStickY: protocol.AxisCenter,
		Hat:         protocol.HatNeutral,
	}
}
