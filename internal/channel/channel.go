// SPDX-License-Identifier: MIT

// Package channel owns the device I/O cycle: it keeps one interrupt read
// armed against the transport at all times, pushes every validated payload
// through translation, and forwards canonical reports to the host-report
// sink. Output frames travel the other way through SubmitOutput.
package channel

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/openpad/bigben-bridge/internal/protocol"
	"github.com/openpad/bigben-bridge/internal/translate"
	"github.com/openpad/bigben-bridge/internal/transport"
)

// ErrNotReady is returned for operations requested before Start or after
// Stop/disconnect.
var ErrNotReady = errors.New("channel not ready")

// State is the discriminated state of the polling cycle.
type State int32

const (
	// StateIdle means no read is outstanding and Start has not run.
	StateIdle State = iota
	// StatePolling means one read is outstanding.
	StatePolling
	// StateErrorRecovering means a re-arm failed and one retry is underway.
	StateErrorRecovering
	// StateStopped is terminal until an explicit restart.
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePolling:
		return "polling"
	case StateErrorRecovering:
		return "error-recovering"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Sink receives one canonical report per successfully translated input
// report, in read-completion order.
type Sink func(timestamp time.Time, report protocol.GamepadReport)

// Channel drives the transfer cycle for one controller. All entry points
// serialize on one mutex, so state transitions are never concurrent for the
// same instance; transport completion callbacks funnel through the same
// lock.
type Channel struct {
	mu      sync.Mutex
	state   State
	tr      transport.Transport
	cfg     *translate.Config
	tracker *Tracker
	sink    Sink

	// Single read buffer, reused across polling cycles. A new read is armed
	// only after the previous completion has been fully consumed.
	buf [protocol.InputReportSize]byte

	lastRaw protocol.InputReport
	hasRaw  bool
}

// New creates a channel over the given transport. The sink may be nil; the
// tracker still caches every report.
func New(tr transport.Transport, cfg *translate.Config, tracker *Tracker, sink Sink) *Channel {
	return &Channel{
		tr:      tr,
		cfg:     cfg,
		tracker: tracker,
		sink:    sink,
	}
}

// Start arms the first read and enters Polling. It is a no-op when already
// polling and fails with ErrNotReady when no transport is configured.
// Calling Start on a stopped channel restarts the cycle.
func (c *Channel) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StatePolling {
		log.Debug().Msg("Already polling")
		return nil
	}
	if c.tr == nil {
		return ErrNotReady
	}

	if err := c.tr.ArmRead(c.buf[:], c.onReadComplete); err != nil {
		return err
	}

	c.state = StatePolling
	c.tracker.SetConnected(true)
	log.Info().Msg("Input polling started")
	return nil
}

// Stop cancels any outstanding read and enters Stopped. Safe to call on a
// stopped channel; never blocks on in-flight completions. A completion that
// arrives after Stop is discarded by the state guard.
func (c *Channel) Stop() {
	c.mu.Lock()
	if c.state == StateStopped {
		c.mu.Unlock()
		return
	}
	c.state = StateStopped
	c.tracker.SetConnected(false)
	tr := c.tr
	stats := c.tracker.Stats()
	c.mu.Unlock()

	if tr != nil {
		tr.Abort()
	}

	log.Info().
		Uint64("received", stats.ReportsReceived).
		Uint64("errors", stats.ReportErrors).
		Uint64("outputsSent", stats.OutputsSent).
		Msg("Input polling stopped")
}

// CurrentState returns the channel state.
func (c *Channel) CurrentState() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// onReadComplete is the only state-mutating entry point driven by the
// transport. The pipeline stays under completion: every path re-arms the
// next read except an explicit stop or the disconnect signal.
func (c *Channel) onReadComplete(res transport.Completion) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateStopped {
		// Late completion after Stop.
		return
	}

	if errors.Is(res.Err, transport.ErrAborted) || transport.IsDeviceGone(res.Err) {
		log.Info().Err(res.Err).Msg("Read aborted or device not responding")
		c.state = StateStopped
		c.tracker.SetConnected(false)
		return
	}

	if res.Err != nil {
		log.Warn().Err(res.Err).Msg("Read completed with error")
		c.tracker.RecordError()
		c.rearmLocked()
		return
	}

	if res.N < protocol.InputReportSize {
		log.Debug().Int("length", res.N).Msg("Short read, dropping frame")
		c.tracker.RecordError()
		c.rearmLocked()
		return
	}

	raw, err := protocol.ParseInputReport(c.buf[:res.N])
	if err != nil {
		// Wrong report identifier: dropped without touching the success
		// counter.
		log.Debug().Uint8("reportId", c.buf[0]).Msg("Unexpected report ID")
		c.rearmLocked()
		return
	}

	c.logInputChange(raw)

	report, err := translate.Translate(raw, c.cfg)
	if err != nil {
		c.tracker.RecordError()
		c.rearmLocked()
		return
	}

	c.tracker.RecordReport(report)
	if c.sink != nil {
		c.sink(time.Now(), report)
	}

	c.rearmLocked()
}

// rearmLocked queues the next read. A failed arm enters ErrorRecovering and
// retries once; a second failure stops the channel.
func (c *Channel) rearmLocked() {
	if c.state == StateStopped {
		return
	}

	if err := c.tr.ArmRead(c.buf[:], c.onReadComplete); err != nil {
		log.Warn().Err(err).Msg("Failed to re-arm read, retrying")
		c.state = StateErrorRecovering

		if err := c.tr.ArmRead(c.buf[:], c.onReadComplete); err != nil {
			log.Error().Err(err).Msg("Failed to restart input polling")
			c.state = StateStopped
			c.tracker.SetConnected(false)
			return
		}
	}

	c.state = StatePolling
}

// SubmitOutput forwards a fixed-size output frame to the device. Frames are
// fire-and-forget: completion failures are logged and never block a future
// submission.
func (c *Channel) SubmitOutput(frame []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateIdle || c.state == StateStopped {
		return ErrNotReady
	}
	if !c.tr.HasOutput() {
		return transport.ErrNoOutputEndpoint
	}

	return c.tr.Write(frame, c.onWriteComplete)
}

func (c *Channel) onWriteComplete(res transport.Completion) {
	if res.Err != nil {
		log.Warn().Err(res.Err).Msg("Output report write failed")
		return
	}
	log.Debug().Int("length", res.N).Msg("Output report sent")
	c.tracker.RecordOutput()
}

// logInputChange logs the raw input at debug level, only when it differs
// from the previous report.
func (c *Channel) logInputChange(raw protocol.InputReport) {
	if c.hasRaw && raw == c.lastRaw {
		return
	}
	if c.hasRaw {
		log.Debug().
			Uint8("lx", raw.LeftStickX).Uint8("ly", raw.LeftStickY).
			Uint8("rx", raw.RightStickX).Uint8("ry", raw.RightStickY).
			Uint8("dpad", raw.DPad).
			Str("buttons", fmt.Sprintf("0x%04x", raw.Buttons)).
			Uint8("lt", raw.LeftTrigger).Uint8("rt", raw.RightTrigger).
			Msg("Input changed")
	}
	c.lastRaw = raw
	c.hasRaw = true
}
