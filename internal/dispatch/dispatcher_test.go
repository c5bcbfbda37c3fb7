// SPDX-License-Identifier: MIT

package dispatch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openpad/bigben-bridge/internal/channel"
	"github.com/openpad/bigben-bridge/internal/protocol"
)

// fakeSubmitter records submitted frames and optionally fails.
type fakeSubmitter struct {
	frames [][]byte
	err    error
}

func (f *fakeSubmitter) SubmitOutput(frame []byte) error {
	if f.err != nil {
		return f.err
	}
	f.frames = append(f.frames, append([]byte(nil), frame...))
	return nil
}

func TestDispatcher_SetLED(t *testing.T) {
	sub := &fakeSubmitter{}
	tracker := channel.NewTracker()
	d := New(sub, tracker)

	require.NoError(t, d.SetLED(protocol.LED1|protocol.LED3))

	require.Len(t, sub.frames, 1)
	assert.Equal(t, []byte{0x01, 0x08, 0x05, 0, 0, 0, 0, 0}, sub.frames[0])
	assert.Equal(t, protocol.LED1|protocol.LED3, tracker.LEDState())
}

func TestDispatcher_SetLED_StateSurvivesSubmitFailure(t *testing.T) {
	sub := &fakeSubmitter{err: channel.ErrNotReady}
	tracker := channel.NewTracker()
	d := New(sub, tracker)

	err := d.SetLED(protocol.LED4)
	assert.ErrorIs(t, err, channel.ErrNotReady)

	// The requested mask is recorded anyway, so it can be re-asserted when
	// the controller comes back.
	assert.Equal(t, protocol.LED4, tracker.LEDState())
}

func TestDispatcher_Rumble(t *testing.T) {
	sub := &fakeSubmitter{}
	d := New(sub, channel.NewTracker())

	require.NoError(t, d.Rumble(1, 0xC0))
	require.NoError(t, d.Rumble(0, 0x40))

	require.Len(t, sub.frames, 2)
	assert.Equal(t, []byte{0x02, 0x08, 0x01, 0xC0, 0xFF, 0, 0, 0}, sub.frames[0])
	assert.Equal(t, []byte{0x02, 0x08, 0x00, 0x40, 0xFF, 0, 0, 0}, sub.frames[1])
}

func TestDispatcher_Rumble_WeakIsOnOff(t *testing.T) {
	sub := &fakeSubmitter{}
	d := New(sub, channel.NewTracker())

	// Any nonzero weak intensity collapses to "on"
	require.NoError(t, d.Rumble(200, 0))
	assert.Equal(t, byte(0x01), sub.frames[0][2])
}

func TestDispatcher_StopRumble(t *testing.T) {
	sub := &fakeSubmitter{}
	d := New(sub, channel.NewTracker())

	require.NoError(t, d.StopRumble())

	require.Len(t, sub.frames, 1)
	assert.Equal(t, []byte{0x02, 0x08, 0x00, 0x00, 0xFF, 0, 0, 0}, sub.frames[0])
}

func TestDispatcher_Dispatch(t *testing.T) {
	tests := []struct {
		name      string
		reportID  byte
		payload   []byte
		wantErr   error
		wantFrame []byte
	}{
		{
			name:      "LED report",
			reportID:  protocol.ReportIDLED,
			payload:   []byte{0x01, 0x08, 0x02, 0, 0, 0, 0, 0},
			wantFrame: []byte{0x01, 0x08, 0x02, 0, 0, 0, 0, 0},
		},
		{
			name:      "rumble report via fallback ID",
			reportID:  0,
			payload:   []byte{0x02, 0x08, 0x01, 0x60, 0, 0, 0, 0},
			wantFrame: []byte{0x02, 0x08, 0x01, 0x60, 0xFF, 0, 0, 0},
		},
		{
			name:     "unknown report is rejected without side effects",
			reportID: 0x09,
			payload:  []byte{0x09, 0, 0, 0, 0, 0, 0, 0},
			wantErr:  protocol.ErrUnsupportedReport,
		},
		{
			name:     "undersized payload underruns",
			reportID: protocol.ReportIDRumble,
			payload:  []byte{0x02, 0x08},
			wantErr:  protocol.ErrUnderrun,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := &fakeSubmitter{}
			d := New(sub, channel.NewTracker())

			err := d.Dispatch(tt.reportID, tt.payload)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, sub.frames)
				return
			}
			require.NoError(t, err)
			require.Len(t, sub.frames, 1)
			assert.Equal(t, tt.wantFrame, sub.frames[0])
		})
	}
}

func TestDispatcher_SubmitErrorPropagates(t *testing.T) {
	wantErr := errors.New("endpoint stalled")
	sub := &fakeSubmitter{err: wantErr}
	d := New(sub, channel.NewTracker())

	assert.ErrorIs(t, d.Rumble(1, 1), wantErr)
	assert.ErrorIs(t, d.StopRumble(), wantErr)
}
