package transport

import (
	"fmt"
	"strings"
	"sync"

	"github.com/karalabe/usb"
	"github.com/rs/zerolog/log"

	"github.com/openpad/bigben-bridge/internal/protocol"
)

// RawUSBTransport drives a controller over raw interrupt endpoints via
// libusb, for hosts where the hidraw node is claimed by another driver or
// not accessible. Same completion discipline as HIDTransport.
type RawUSBTransport struct {
	mu       sync.Mutex
	device   usb.Device
	info     DeviceInfo
	pending  bool
	aborting bool
}

var _ Transport = (*RawUSBTransport)(nil)

// OpenRawUSB opens a controller through libusb. Serial filtering is not
// available on this path; the first matching device is taken.
func OpenRawUSB() (*RawUSBTransport, error) {
	for _, pid := range productIDs {
		infos, err := usb.Enumerate(protocol.VendorID, pid)
		if err != nil {
			return nil, fmt.Errorf("usb enumerate: %w", err)
		}
		if len(infos) == 0 {
			continue
		}

		device, err := infos[0].Open()
		if err != nil {
			return nil, fmt.Errorf("usb open: %w", err)
		}

		return &RawUSBTransport{
			device: device,
			info: DeviceInfo{
				Path:      infos[0].Path,
				VendorID:  infos[0].VendorID,
				ProductID: infos[0].ProductID,
				Serial:    infos[0].Serial,
				Product:   infos[0].Product,
			},
		}, nil
	}

	return nil, fmt.Errorf("no Bigben controller found on the USB bus")
}

// ArmRead submits one interrupt IN transfer.
func (t *RawUSBTransport) ArmRead(buf []byte, done func(Completion)) error {
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

		done(Completion{Err: classifyUSB(err, aborting), N: n})
	}()

	return nil
}

// Abort cancels the outstanding read by closing the handle.
func (t *RawUSBTransport) Abort() {
	t.mu.Lock()
	device := t.device
	t.aborting = true
	t.device = nil
	t.mu.Unlock()

	if device != nil {
		if err := device.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close USB device during abort")
		}
	}
}

// Write submits one interrupt OUT transfer.
func (t *RawUSBTransport) Write(frame []byte, done func(Completion)) error {
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

		done(Completion{Err: classifyUSB(err, aborting), N: n})
	}()

	return nil
}

// HasOutput reports whether output frames can be submitted.
func (t *RawUSBTransport) HasOutput() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.device != nil
}

// Info returns the matched device description.
func (t *RawUSBTransport) Info() DeviceInfo {
	return t.info
}

// Close releases the device handle.
func (t *RawUSBTransport) Close() error {
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

func classifyUSB(err error, aborting bool) error {
	if err == nil {
		return nil
	}
	if aborting {
		return ErrAborted
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "no device") ||
		strings.Contains(msg, "no such device") ||
		strings.Contains(msg, "disconnected") ||
		strings.Contains(msg, "closed") {
		return fmt.Errorf("%w: %s", ErrNotResponding, err)
	}
	return err
}
