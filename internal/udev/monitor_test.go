package udev

import (
	"errors"
	"fmt"
	"regexp"
	"syscall"
	"testing"

	"github.com/pilebones/go-udev/netlink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMonitor(t *testing.T) {
	handlerCalled := false
	handler := func(event Event) {
		handlerCalled = true
	}

	monitor := NewMonitor(handler)
	assert.NotNil(t, monitor)
	assert.NotNil(t, monitor.handler)

	// Verify handler is stored correctly
	monitor.handler(Event{Type: EventAdd})
	assert.True(t, handlerCalled)
}

func TestNewMonitor_NilHandler(t *testing.T) {
	monitor := NewMonitor(nil)
	assert.NotNil(t, monitor)
	assert.Nil(t, monitor.handler)
}

func TestEventType(t *testing.T) {
	// Verify event type constants
	assert.Equal(t, EventType(0), EventAdd)
	assert.Equal(t, EventType(1), EventRemove)
}

func TestMonitor_StopWithoutStart(t *testing.T) {
	monitor := NewMonitor(nil)
	// Stop should be safe to call even if not started
	err := monitor.Stop()
	assert.NoError(t, err)
}

func TestMonitor_CreateMatcher(t *testing.T) {
	monitor := NewMonitor(nil)
	rules := monitor.createMatcher()

	require.Len(t, rules.Rules, 2)
	assert.Equal(t, "add", *rules.Rules[0].Action)
	assert.Equal(t, "remove", *rules.Rules[1].Action)

	pattern := rules.Rules[0].Env["PRODUCT"]
	assert.Equal(t, pattern, rules.Rules[1].Env["PRODUCT"])

	re := regexp.MustCompile(pattern)

	tests := []struct {
		product string
		match   bool
	}{
		{"146b/603/100", true},   // PC Compact
		{"146b/d05/100", true},   // PS4 Compact
		{"146b/902/100", true},   // PS3 minipad
		{"146b/6031/100", false}, // longer product ID must not match
		{"146b/604/100", false},  // unrelated product
		{"46d/c52b/1211", false}, // different vendor
		{"1146b/603/100", false}, // vendor must be anchored
	}

	for _, tt := range tests {
		t.Run(tt.product, func(t *testing.T) {
			assert.Equal(t, tt.match, re.MatchString(tt.product))
		})
	}
}

func TestMonitor_HandleEvent(t *testing.T) {
	tests := []struct {
		name          string
		uevent        netlink.UEvent
		expectHandler bool
		expectedType  EventType
	}{
		{
			name: "add event for usb_device triggers handler",
			uevent: netlink.UEvent{
				Action: netlink.ADD,
				KObj:   "/devices/pci0000:00/usb1/1-1",
				Env: map[string]string{
					"DEVTYPE": "usb_device",
					"PRODUCT": "146b/603/100",
				},
			},
			expectHandler: true,
			expectedType:  EventAdd,
		},
		{
			name: "remove event for usb_device triggers handler",
			uevent: netlink.UEvent{
				Action: netlink.REMOVE,
				KObj:   "/devices/pci0000:00/usb1/1-1",
				Env: map[string]string{
					"DEVTYPE": "usb_device",
					"PRODUCT": "146b/603/100",
				},
			},
			expectHandler: true,
			expectedType:  EventRemove,
		},
		{
			name: "add event for usb_interface is filtered",
			uevent: netlink.UEvent{
				Action: netlink.ADD,
				KObj:   "/devices/pci0000:00/usb1/1-1/1-1:1.0",
				Env: map[string]string{
					"DEVTYPE": "usb_interface",
					"PRODUCT": "146b/603/100",
				},
			},
			expectHandler: false,
		},
		{
			name: "add event without DEVTYPE is filtered",
			uevent: netlink.UEvent{
				Action: netlink.ADD,
				KObj:   "/devices/pci0000:00/usb1/1-1",
				Env: map[string]string{
					"PRODUCT": "146b/d05/100",
				},
			},
			expectHandler: false,
		},
		{
			name: "remove event without DEVTYPE still triggers handler",
			uevent: netlink.UEvent{
				Action: netlink.REMOVE,
				KObj:   "/devices/pci0000:00/usb1/1-1",
				Env: map[string]string{
					"PRODUCT": "146b/902/100",
				},
			},
			expectHandler: true,
			expectedType:  EventRemove,
		},
		{
			name: "change event is ignored",
			uevent: netlink.UEvent{
				Action: netlink.CHANGE,
				KObj:   "/devices/pci0000:00/usb1/1-1",
				Env: map[string]string{
					"DEVTYPE": "usb_device",
					"PRODUCT": "146b/603/100",
				},
			},
			expectHandler: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotEvent *Event
			monitor := NewMonitor(func(event Event) {
				gotEvent = &event
			})

			monitor.handleEvent(tt.uevent)

			if tt.expectHandler {
				require.NotNil(t, gotEvent)
				assert.Equal(t, tt.expectedType, gotEvent.Type)
			} else {
				assert.Nil(t, gotEvent)
			}
		})
	}
}

func TestMonitor_HandleEvent_NilHandler(t *testing.T) {
	monitor := NewMonitor(nil)

	// Should not panic with nil handler
	monitor.handleEvent(netlink.UEvent{
		Action: netlink.ADD,
		Env: map[string]string{
			"DEVTYPE": "usb_device",
			"PRODUCT": "146b/603/100",
		},
	})
}

func TestIsBufferOverflowError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
		{
			name:     "direct ENOBUFS",
			err:      syscall.ENOBUFS,
			expected: true,
		},
		{
			name:     "wrapped ENOBUFS",
			err:      fmt.Errorf("recvmsg: %w", syscall.ENOBUFS),
			expected: true,
		},
		{
			name:     "message-only overflow from the udev library",
			err:      errors.New("unable to read uevent: no buffer space available"),
			expected: true,
		},
		{
			name:     "message match is case-insensitive",
			err:      errors.New("No Buffer Space Available"),
			expected: true,
		},
		{
			name:     "unrelated error",
			err:      errors.New("connection refused"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isBufferOverflowError(tt.err))
		})
	}
}

func TestMonitor_SetRecoveryHandler(t *testing.T) {
	monitor := NewMonitor(nil)
	assert.Nil(t, monitor.recoveryHandler)

	called := false
	monitor.SetRecoveryHandler(func() { called = true })
	require.NotNil(t, monitor.recoveryHandler)

	monitor.recoveryHandler()
	assert.True(t, called)
}
