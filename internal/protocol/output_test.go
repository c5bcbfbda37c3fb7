// SPDX-License-Identifier: MIT

package protocol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openpad/bigben-bridge/internal/protocol"
)

func TestLEDCommand_Frame(t *testing.T) {
	tests := []struct {
		name     string
		mask     byte
		expected [protocol.OutputFrameSize]byte
	}{
		{
			name:     "player one",
			mask:     protocol.LED1,
			expected: [8]byte{0x01, 0x08, 0x01, 0, 0, 0, 0, 0},
		},
		{
			name:     "all LEDs",
			mask:     protocol.LEDAll,
			expected: [8]byte{0x01, 0x08, 0x0F, 0, 0, 0, 0, 0},
		},
		{
			name:     "all off",
			mask:     0,
			expected: [8]byte{0x01, 0x08, 0x00, 0, 0, 0, 0, 0},
		},
		{
			name:     "bits above the mask are stripped",
			mask:     0xF5,
			expected: [8]byte{0x01, 0x08, 0x05, 0, 0, 0, 0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, protocol.LEDCommand{Mask: tt.mask}.Frame())
		})
	}
}

func TestRumbleCommand_Frame(t *testing.T) {
	tests := []struct {
		name     string
		cmd      protocol.RumbleCommand
		expected [protocol.OutputFrameSize]byte
	}{
		{
			name:     "both motors engaged",
			cmd:      protocol.RumbleCommand{WeakOn: true, StrongForce: 0xC0},
			expected: [8]byte{0x02, 0x08, 0x01, 0xC0, 0xFF, 0, 0, 0},
		},
		{
			name:     "strong motor only",
			cmd:      protocol.RumbleCommand{StrongForce: 0x7F},
			expected: [8]byte{0x02, 0x08, 0x00, 0x7F, 0xFF, 0, 0, 0},
		},
		{
			name:     "stop frame still requests continuous",
			cmd:      protocol.RumbleCommand{},
			expected: [8]byte{0x02, 0x08, 0x00, 0x00, 0xFF, 0, 0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.cmd.Frame())
		})
	}
}

func TestDecodeOutputCommand(t *testing.T) {
	tests := []struct {
		name     string
		reportID byte
		payload  []byte
		expected protocol.OutputCommand
		wantErr  error
	}{
		{
			name:     "LED report by explicit ID",
			reportID: protocol.ReportIDLED,
			payload:  []byte{0x01, 0x08, 0x03, 0, 0, 0, 0, 0},
			expected: protocol.LEDCommand{Mask: 0x03},
		},
		{
			name:     "LED mask is narrowed to four bits",
			reportID: protocol.ReportIDLED,
			payload:  []byte{0x01, 0x08, 0xFF, 0, 0, 0, 0, 0},
			expected: protocol.LEDCommand{Mask: 0x0F},
		},
		{
			name:     "rumble report by explicit ID",
			reportID: protocol.ReportIDRumble,
			payload:  []byte{0x02, 0x08, 0x01, 0x80, 0, 0, 0, 0},
			expected: protocol.RumbleCommand{WeakOn: true, StrongForce: 0x80},
		},
		{
			name:     "zero ID falls back to the first payload byte",
			reportID: 0,
			payload:  []byte{0x02, 0x08, 0x00, 0x40, 0, 0, 0, 0},
			expected: protocol.RumbleCommand{StrongForce: 0x40},
		},
		{
			name:     "zero ID with empty payload underruns",
			reportID: 0,
			payload:  nil,
			wantErr:  protocol.ErrUnderrun,
		},
		{
			name:     "unknown identifier is rejected",
			reportID: 0x03,
			payload:  []byte{0x03, 0x08, 0, 0, 0, 0, 0, 0},
			wantErr:  protocol.ErrUnsupportedReport,
		},
		{
			name:     "LED payload shorter than a frame underruns",
			reportID: protocol.ReportIDLED,
			payload:  []byte{0x01, 0x08, 0x03},
			wantErr:  protocol.ErrUnderrun,
		},
		{
			name:     "rumble payload shorter than a frame underruns",
			reportID: protocol.ReportIDRumble,
			payload:  []byte{0x02, 0x08},
			wantErr:  protocol.ErrUnderrun,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := protocol.DecodeOutputCommand(tt.reportID, tt.payload)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cmd)
		})
	}
}
