package transport

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tr := &HIDTransport{}

	tests := []struct {
		name     string
		err      error
		aborting bool
		expected error
	}{
		{
			name:     "nil passes through",
			err:      nil,
			expected: nil,
		},
		{
			name:     "any error during abort becomes ErrAborted",
			err:      errors.New("hidapi: hid_read failed"),
			aborting: true,
			expected: ErrAborted,
		},
		{
			name:     "unplugged device is not responding",
			err:      errors.New("hidapi: no such device"),
			expected: ErrNotResponding,
		},
		{
			name:     "disconnect message is not responding",
			err:      errors.New("hid: device disconnected"),
			expected: ErrNotResponding,
		},
		{
			name:     "closed handle is not responding",
			err:      errors.New("hid: device closed"),
			expected: ErrNotResponding,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tr.classify(tt.err, tt.aborting)
			if tt.expected == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.expected)
		})
	}

	t.Run("transient errors pass through unchanged", func(t *testing.T) {
		transient := errors.New("hidapi: input/output error")
		got := tr.classify(transient, false)
		assert.Equal(t, transient, got)
		assert.False(t, IsDeviceGone(got))
	})
}

func TestClassifyUSB(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		aborting bool
		expected error
	}{
		{
			name:     "nil passes through",
			err:      nil,
			expected: nil,
		},
		{
			name:     "abort wins over message matching",
			err:      errors.New("libusb: no device [code -4]"),
			aborting: true,
			expected: ErrAborted,
		},
		{
			name:     "missing device is not responding",
			err:      errors.New("libusb: no device [code -4]"),
			expected: ErrNotResponding,
		},
		{
			name:     "closed handle is not responding",
			err:      errors.New("usb: device closed"),
			expected: ErrNotResponding,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyUSB(tt.err, tt.aborting)
			if tt.expected == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.expected)
		})
	}
}

func TestIsDeviceGone(t *testing.T) {
	assert.True(t, IsDeviceGone(ErrNotResponding))
	assert.True(t, IsDeviceGone(fmt.Errorf("%w: unplugged", ErrNotResponding)))
	assert.False(t, IsDeviceGone(ErrAborted))
	assert.False(t, IsDeviceGone(errors.New("transient")))
	assert.False(t, IsDeviceGone(nil))
}
