// SPDX-License-Identifier: MIT

// Package dispatch routes host-issued output reports (LED, rumble) into
// device wire frames and submits them through the I/O channel.
package dispatch

import (
	"github.com/rs/zerolog/log"

	"github.com/openpad/bigben-bridge/internal/channel"
	"github.com/openpad/bigben-bridge/internal/protocol"
)

// Submitter forwards a built frame to the device. Satisfied by
// *channel.Channel; narrowed to an interface for testing.
type Submitter interface {
	SubmitOutput(frame []byte) error
}

// Dispatcher demultiplexes host output commands into device frames.
type Dispatcher struct {
	submitter Submitter
	tracker   *channel.Tracker
}

// New creates a dispatcher submitting through the given channel.
func New(submitter Submitter, tracker *channel.Tracker) *Dispatcher {
	return &Dispatcher{submitter: submitter, tracker: tracker}
}

// Dispatch handles one host output report. reportID is the out-of-band
// identifier when the caller has one, zero otherwise (the first payload
// byte is used as fallback). Unknown identifiers are rejected without side
// effects; undersized payloads fail before any frame is built.
func (d *Dispatcher) Dispatch(reportID byte, payload []byte) error {
	cmd, err := protocol.DecodeOutputCommand(reportID, payload)
	if err != nil {
		log.Debug().Err(err).Uint8("reportId", reportID).Msg("Rejected output report")
		return err
	}
	return d.submit(cmd)
}

// SetLED requests the given 4-bit LED bitmask.
func (d *Dispatcher) SetLED(mask byte) error {
	return d.submit(protocol.LEDCommand{Mask: mask})
}

// Rumble drives the motors: weak on when the requested weak intensity is
// nonzero, strong carried through directly. The device rumbles until the
// next command; there is no per-call duration.
func (d *Dispatcher) Rumble(weak, strong byte) error {
	return d.submit(protocol.RumbleCommand{WeakOn: weak != 0, StrongForce: strong})
}

// StopRumble turns both motors off.
func (d *Dispatcher) StopRumble() error {
	return d.submit(protocol.RumbleCommand{})
}

func (d *Dispatcher) submit(cmd protocol.OutputCommand) error {
	// The logical LED state is "requested": it is recorded even when the
	// transmission subsequently fails.
	if led, ok := cmd.(protocol.LEDCommand); ok {
		d.tracker.SetLEDState(led.Mask)
	}

	frame := cmd.Frame()
	if err := d.submitter.SubmitOutput(frame[:]); err != nil {
		return err
	}

	log.Debug().Uint8("reportId", frame[0]).Msg("Output frame submitted")
	return nil
}
