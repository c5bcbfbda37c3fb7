// Package transport abstracts the USB channel to a Bigben controller as a
// pair of interrupt endpoints with completion-driven I/O. A read is armed
// once and reports back through a one-shot callback; the owning channel
// re-arms after consuming each completion.
package transport

import "errors"

//go:generate mockgen -source=transport.go -destination=mocks/transport_mock.go -package=mocks

// ErrAborted signals that an in-flight read was cancelled via Abort.
var ErrAborted = errors.New("transfer aborted")

// ErrNotResponding signals that the device is gone (unplugged or the kernel
// revoked the handle).
var ErrNotResponding = errors.New("device not responding")

// ErrNoInputEndpoint is returned by ArmRead when the transport has no open
// input channel.
var ErrNoInputEndpoint = errors.New("no input endpoint")

// ErrNoOutputEndpoint is returned by Write when the device lacks an output
// endpoint. Some controller variants have none; this is a valid
// configuration, not a failure.
var ErrNoOutputEndpoint = errors.New("no output endpoint")

// ErrReadPending is returned by ArmRead while a previous read is still
// outstanding. The transport owns a single read buffer, so reads never
// overlap.
var ErrReadPending = errors.New("read already pending")

// Completion is the result of one armed transfer. Err is nil on success,
// ErrAborted/ErrNotResponding on the two hard-stop conditions, and any other
// error on transient failures. N is the number of bytes transferred.
type Completion struct {
	Err error
	N   int
}

// Transport is the abstract device channel consumed by the I/O channel.
// Completion callbacks are one-shot: each ArmRead/Write invokes its callback
// exactly once, from a transport-owned goroutine.
type Transport interface {
	// ArmRead submits one asynchronous read into buf. The callback fires
	// when the transfer completes or is aborted.
	ArmRead(buf []byte, done func(Completion)) error

	// Abort cancels any outstanding read; the pending callback fires with
	// ErrAborted. Abort does not block on the callback.
	Abort()

	// Write submits one asynchronous output frame. The callback fires when
	// the transfer completes.
	Write(frame []byte, done func(Completion)) error

	// HasOutput reports whether the device exposes an output endpoint.
	HasOutput() bool

	// Info describes the open device.
	Info() DeviceInfo

	// Close releases the device handle. Any outstanding read completes with
	// ErrAborted.
	Close() error
}

// DeviceInfo describes a matched controller.
type DeviceInfo struct {
	Path      string
	VendorID  uint16
	ProductID uint16
	Serial    string
	Product   string
}

// IsDeviceGone reports whether err indicates the device has disappeared, as
// opposed to a transient transfer error.
func IsDeviceGone(err error) bool {
	return errors.Is(err, ErrNotResponding)
}
