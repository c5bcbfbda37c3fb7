package channel

import (
	"sync"
	"sync/atomic"

	"github.com/openpad/bigben-bridge/internal/protocol"
)

// Statistics is a snapshot of the channel counters.
type Statistics struct {
	ReportsReceived uint64
	ReportErrors    uint64
	OutputsSent     uint64
}

// Tracker holds the last-known controller state: the most recent canonical
// report, the connected flag, the logical LED state and the monotonic
// counters. The channel and the output dispatcher write it; diagnostics and
// GET_REPORT-style queries read it. Readers get best-effort snapshots; no
// cross-field consistency is promised.
type Tracker struct {
	mu         sync.Mutex
	lastReport protocol.GamepadReport
	hasReport  bool
	connected  bool
	ledState   byte

	reportsReceived atomic.Uint64
	reportErrors    atomic.Uint64
	outputsSent     atomic.Uint64
}

// NewTracker returns a tracker in the powered-on default state: first player
// LED lit, disconnected, no report yet.
func NewTracker() *Tracker {
	return &Tracker{ledState: protocol.LED1}
}

// RecordReport caches the report as last-known state and bumps the received
// counter.
func (t *Tracker) RecordReport(report protocol.GamepadReport) {
	t.mu.Lock()
	t.lastReport = report
	t.hasReport = true
	t.mu.Unlock()
	t.reportsReceived.Add(1)
}

// RecordError bumps the report error counter.
func (t *Tracker) RecordError() {
	t.reportErrors.Add(1)
}

// RecordOutput bumps the outputs-sent counter.
func (t *Tracker) RecordOutput() {
	t.outputsSent.Add(1)
}

// LastReport returns the most recent canonical report. ok is false before
// the first report has been received.
func (t *Tracker) LastReport() (report protocol.GamepadReport, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastReport, t.hasReport
}

// SetConnected updates the connection flag.
func (t *Tracker) SetConnected(connected bool) {
	t.mu.Lock()
	t.connected = connected
	t.mu.Unlock()
}

// Connected reports the last-known connection state.
func (t *Tracker) Connected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.connected
}

// SetLEDState records the requested LED bitmask. The logical LED state
// tracks requests, independent of transmission success.
func (t *Tracker) SetLEDState(mask byte) {
	t.mu.Lock()
	t.ledState = mask & protocol.LEDAll
	t.mu.Unlock()
}

// LEDState returns the last requested LED bitmask.
func (t *Tracker) LEDState() byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ledState
}

// Stats returns a snapshot of the counters.
func (t *Tracker) Stats() Statistics {
	return Statistics{
		ReportsReceived: t.reportsReceived.Load(),
		ReportErrors:    t.reportErrors.Load(),
		OutputsSent:     t.outputsSent.Load(),
	}
}
