package transport

import (
	"fmt"
	"strings"
	"sync"

	karalabehid "github.com/karalabe/hid"
	"github.com/rs/zerolog/log"

	"github.com/openpad/bigben-bridge/internal/protocol"
)

// productIDs lists every Bigben controller variant the bridge drives.
var productIDs = []uint16{
	protocol.ProductIDPCCompact,
	protocol.ProductIDPS4Compact,
	protocol.ProductIDPS3Minipad,
}

// HIDTransport drives a controller through the platform hidapi (hidraw on
// Linux). It satisfies Transport by running each blocking hidapi call on a
// dedicated goroutine and delivering the result as a completion.
type HIDTransport struct {
	mu       sync.Mutex
	device   karalabehid.Device // karalabe/hid.Device is an interface
	info     DeviceInfo
	pending  bool
	aborting bool
}

// Verify HIDTransport implements Transport.
var _ Transport = (*HIDTransport)(nil)

// Enumerate returns every connected Bigben controller visible via hidapi.
func Enumerate() ([]DeviceInfo, error) {
	var found []DeviceInfo
	for _, pid := range productIDs {
		devices, err := karalabehid.Enumerate(protocol.VendorID, pid)
		if err != nil {
			return nil, fmt.Errorf("failed to enumerate HID devices: %w", err)
		}
		for _, d := range devices {
			found = append(found, DeviceInfo{
				Path:      d.Path,
				VendorID:  d.VendorID,
				ProductID: d.ProductID,
				Serial:    d.Serial,
				Product:   d.Product,
			})
		}
	}
	return found, nil
}

// OpenHID opens a controller via hidapi. If serial is empty the first match
// is taken.
func OpenHID(serial string) (*HIDTransport, error) {
	for _, pid := range productIDs {
		devices, err := karalabehid.Enumerate(protocol.VendorID, pid)
		if err != nil {
			return nil, fmt.Errorf("failed to enumerate devices: %w", err)
		}

		for _, deviceInfo := range devices {
			if serial != "" && deviceInfo.Serial != serial {
				continue
			}

			device, err := deviceInfo.Open()
			if err != nil {
				return nil, fmt.Errorf("failed to open controller %s: %w", deviceInfo.Path, err)
			}

			return &HIDTransport{
				device: device,
				info: DeviceInfo{
					Path:      deviceInfo.Path,
					VendorID:  deviceInfo.VendorID,
					ProductID: deviceInfo.ProductID,
					Serial:    deviceInfo.Serial,
					Product:   deviceInfo.Product,
				},
			}, nil
		}
	}

	if serial != "" {
		return nil, fmt.Errorf("controller with serial %s not found", serial)
	}
	return nil, fmt.Errorf("no Bigben controller found")
}

// ArmRead submits one read. The hidapi read blocks on its own goroutine
// until the device produces an interrupt report, the handle is closed, or
// the device disappears.
func (t *HIDTransport) ArmRead(buf []byte, done func(Completion)) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.device == nil {
		return ErrNoInputEndpoint
	}
	if t.pending {
		return ErrReadPending
	}
	t.pending = true
	device := t.device

	go func() {
		n, err := device.Read(buf)

		t.mu.Lock()
		t.pending = false
		aborting := t.aborting
		t.mu.Unlock()

		done(Completion{Err: t.classify(err, aborting), N: n})
	}()

	return nil
}

// Abort cancels the outstanding read by closing the handle; hidapi has no
// narrower cancellation primitive. The blocked read returns immediately and
// completes with ErrAborted.
func (t *HIDTransport) Abort() {
	t.mu.Lock()
	device := t.device
	t.aborting = true
	t.device = nil
	t.mu.Unlock()

	if device != nil {
		if err := device.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close device during abort")
		}
	}
}

// Write submits one output frame on the interrupt OUT endpoint.
func (t *HIDTransport) Write(frame []byte, done func(Completion)) error {
	t.mu.Lock()
	device := t.device
	t.mu.Unlock()

	if device == nil {
		return ErrNoOutputEndpoint
	}

	go func() {
		n, err := device.Write(frame)

		t.mu.Lock()
		aborting := t.aborting
		t.mu.Unlock()

		done(Completion{Err: t.classify(err, aborting), N: n})
	}()

	return nil
}

// HasOutput reports whether output frames can be submitted. hidraw exposes
// a write path whenever the device is open.
func (t *HIDTransport) HasOutput() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.device != nil
}

// Info returns the matched device description.
func (t *HIDTransport) Info() DeviceInfo {
	return t.info
}

// Close releases the device handle.
func (t *HIDTransport) Close() error {
	t.mu.Lock()
	device := t.device
	t.aborting = true
	t.device = nil
	t.mu.Unlock()

	if device == nil {
		return nil
	}
	return device.Close()
}

// classify maps hidapi errors onto the transport taxonomy. Errors surfaced
// while an abort is in progress become ErrAborted; handle-revoked errors
// become ErrNotResponding; anything else passes through as transient.
func (t *HIDTransport) classify(err error, aborting bool) error {
	if err == nil {
		return nil
	}
	if aborting {
		return ErrAborted
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "no such device") ||
		strings.Contains(msg, "device disconnected") ||
		strings.Contains(msg, "not connected") ||
		strings.Contains(msg, "closed") {
		return fmt.Errorf("%w: %s", ErrNotResponding, err)
	}
	return err
}
