// SPDX-License-Identifier: MIT

// Package dbus provides the D-Bus control surface for the Bigben bridge:
// controller state queries, deadzone settings and LED/rumble commands.
package dbus

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/openpad/bigben-bridge/internal/channel"
	"github.com/openpad/bigben-bridge/internal/protocol"
	"github.com/openpad/bigben-bridge/internal/translate"
)

// ErrRateLimitExceeded is returned when output commands exceed the rate limit.
var ErrRateLimitExceeded = errors.New("rate limit exceeded")

// ErrInvalidDeadzone is returned when a deadzone outside the accepted range
// is requested.
var ErrInvalidDeadzone = errors.New("stick deadzone must be between 0 and 127")

const (
	// rateLimitPerSecond is the maximum number of output commands per second.
	rateLimitPerSecond = 20

	// rateLimitBurst is the maximum burst size for output commands.
	rateLimitBurst = 5

	// inputSignalsPerSecond caps InputChanged emission; the controller
	// produces reports every 4ms, far faster than signal consumers want.
	inputSignalsPerSecond = 25

	// inputSignalBurst is the burst size for InputChanged emission.
	inputSignalBurst = 5
)

const (
	// ServiceName is the D-Bus service name.
	ServiceName = "io.github.openpad.BigbenBridge"

	// ObjectPath is the D-Bus object path.
	ObjectPath = "/io/github/openpad/BigbenBridge"

	// InterfaceName is the D-Bus interface name.
	InterfaceName = "io.github.openpad.BigbenBridge"
)

// IntrospectXML is the D-Bus introspection XML for the service.
const IntrospectXML = `
<node name="` + ObjectPath + `">
  <interface name="` + InterfaceName + `">
    <method name="GetState">
      <arg name="connected" type="b" direction="out"/>
      <arg name="buttons" type="q" direction="out"/>
      <arg name="leftStickX" type="y" direction="out"/>
      <arg name="leftStickY" type="y" direction="out"/>
      <arg name="rightStickX" type="y" direction="out"/>
      <arg name="rightStickY" type="y" direction="out"/>
      <arg name="leftTrigger" type="y" direction="out"/>
      <arg name="rightTrigger" type="y" direction="out"/>
      <arg name="hat" type="y" direction="out"/>
    </method>
    <method name="GetStatistics">
      <arg name="reportsReceived" type="t" direction="out"/>
      <arg name="reportErrors" type="t" direction="out"/>
      <arg name="outputsSent" type="t" direction="out"/>
    </method>
    <method name="GetStickDeadzone">
      <arg name="deadzone" type="y" direction="out"/>
    </method>
    <method name="SetStickDeadzone">
      <arg name="deadzone" type="y" direction="in"/>
    </method>
    <method name="GetTriggerDeadzone">
      <arg name="deadzone" type="y" direction="out"/>
    </method>
    <method name="SetTriggerDeadzone">
      <arg name="deadzone" type="y" direction="in"/>
    </method>
    <method name="GetLEDState">
      <arg name="mask" type="y" direction="out"/>
    </method>
    <method name="SetLED">
      <arg name="mask" type="y" direction="in"/>
    </method>
    <method name="Rumble">
      <arg name="weak" type="y" direction="in"/>
      <arg name="strong" type="y" direction="in"/>
    </method>
    <method name="StopRumble"/>
    <method name="ReportDescriptor">
      <arg name="descriptor" type="ay" direction="out"/>
    </method>
    <signal name="ControllerConnected">
      <arg name="product" type="s"/>
    </signal>
    <signal name="ControllerDisconnected"/>
    <signal name="InputChanged">
      <arg name="buttons" type="q"/>
      <arg name="hat" type="y"/>
    </signal>
  </interface>
  ` + introspect.IntrospectDataString + `
</node>
`

// OutputController issues LED and rumble commands toward the device.
// Satisfied by *dispatch.Dispatcher; an interface to allow mocking in tests.
type OutputController interface {
	SetLED(mask byte) error
	Rumble(weak, strong byte) error
	StopRumble() error
}

// Server implements the D-Bus control surface.
//
// Thread safety: the tracker and config are individually thread-safe; connMu
// protects the connection field for signal emission; emitMu protects the
// last-emitted input snapshot.
type Server struct {
	conn         *dbus.Conn
	connMu       sync.RWMutex // Protects conn field only
	tracker      *channel.Tracker
	cfg          *translate.Config
	outputs      OutputController
	rateLimiter  *rate.Limiter
	inputLimiter *rate.Limiter
	useSystemBus bool

	emitMu      sync.Mutex
	lastEmitted protocol.GamepadReport
	hasEmitted  bool
}

// Option is a functional option for configuring a Server.
type Option func(*Server)

// WithSystemBus makes the server register on the system bus instead of the
// session bus.
func WithSystemBus() Option {
	return func(s *Server) {
		s.useSystemBus = true
	}
}

// NewServer creates a D-Bus server over the given tracker, translator
// config and output controller.
func NewServer(tracker *channel.Tracker, cfg *translate.Config, outputs OutputController, opts ...Option) *Server {
	s := &Server{
		tracker:      tracker,
		cfg:          cfg,
		outputs:      outputs,
		rateLimiter:  rate.NewLimiter(rateLimitPerSecond, rateLimitBurst),
		inputLimiter: rate.NewLimiter(inputSignalsPerSecond, inputSignalBurst),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start connects to the bus and exports the service.
func (s *Server) Start() error {
	connect := dbus.ConnectSessionBus
	if s.useSystemBus {
		connect = dbus.ConnectSystemBus
	}

	conn, err := connect()
	if err != nil {
		return fmt.Errorf("failed to connect to bus: %w", err)
	}

	// Ensure connection is closed if setup fails
	success := false
	defer func() {
		if !success {
			if closeErr := conn.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("Failed to close D-Bus connection during cleanup")
			}
		}
	}()

	// Export the server object
	err = conn.Export(s, ObjectPath, InterfaceName)
	if err != nil {
		return fmt.Errorf("failed to export server: %w", err)
	}

	// Export introspectable interface
	err = conn.Export(introspect.Introspectable(IntrospectXML), ObjectPath, "org.freedesktop.DBus.Introspectable")
	if err != nil {
		return fmt.Errorf("failed to export introspectable: %w", err)
	}

	// Request the service name
	reply, err := conn.RequestName(ServiceName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("failed to request name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("name %s already taken", ServiceName)
	}

	// Store connection with mutex protection
	s.connMu.Lock()
	s.conn = conn
	s.connMu.Unlock()

	success = true
	log.Info().Str("service", ServiceName).Msg("D-Bus service started")
	return nil
}

// Stop disconnects from the bus.
func (s *Server) Stop() error {
	s.connMu.Lock()
	conn := s.conn
	s.conn = nil
	s.connMu.Unlock()

	if conn != nil {
		return conn.Close()
	}
	return nil
}

// GetState returns the last-known controller state. Before the first report
// arrives, the neutral state is reported.
func (s *Server) GetState() (bool, uint16, byte, byte, byte, byte, byte, byte, byte, *dbus.Error) {
	report, ok := s.tracker.LastReport()
	if !ok {
		report = translate.NeutralReport()
	}

	log.Debug().Bool("connected", s.tracker.Connected()).Msg("Got controller state")
	return s.tracker.Connected(), report.Buttons,
		report.LeftStickX, report.LeftStickY,
		report.RightStickX, report.RightStickY,
		report.LeftTrigger, report.RightTrigger,
		report.Hat, nil
}

// GetStatistics returns the channel counters.
func (s *Server) GetStatistics() (uint64, uint64, uint64, *dbus.Error) {
	stats := s.tracker.Stats()
	return stats.ReportsReceived, stats.ReportErrors, stats.OutputsSent, nil
}

// GetStickDeadzone returns the current stick deadzone.
func (s *Server) GetStickDeadzone() (byte, *dbus.Error) {
	return s.cfg.StickDeadzone(), nil
}

// SetStickDeadzone updates the stick deadzone (0-127).
func (s *Server) SetStickDeadzone(deadzone byte) *dbus.Error {
	if deadzone > translate.MaxStickDeadzone {
		return dbus.MakeFailedError(ErrInvalidDeadzone)
	}

	s.cfg.SetStickDeadzone(deadzone)
	log.Debug().Uint8("deadzone", deadzone).Msg("Set stick deadzone")
	return nil
}

// GetTriggerDeadzone returns the current trigger deadzone.
func (s *Server) GetTriggerDeadzone() (byte, *dbus.Error) {
	return s.cfg.TriggerDeadzone(), nil
}

// SetTriggerDeadzone updates the trigger deadzone (0-255).
func (s *Server) SetTriggerDeadzone(deadzone byte) *dbus.Error {
	s.cfg.SetTriggerDeadzone(deadzone)
	log.Debug().Uint8("deadzone", deadzone).Msg("Set trigger deadzone")
	return nil
}

// GetLEDState returns the last requested LED bitmask.
func (s *Server) GetLEDState() (byte, *dbus.Error) {
	return s.tracker.LEDState(), nil
}

// SetLED sets the four player LEDs to the given 4-bit mask.
func (s *Server) SetLED(mask byte) *dbus.Error {
	if !s.rateLimiter.Allow() {
		log.Warn().Msg("Rate limit exceeded for SetLED")
		return dbus.MakeFailedError(ErrRateLimitExceeded)
	}

	if err := s.outputs.SetLED(mask); err != nil {
		log.Error().Err(err).Uint8("mask", mask).Msg("Failed to set LEDs")
		return dbus.MakeFailedError(err)
	}

	log.Debug().Uint8("mask", mask).Msg("Set LEDs")
	return nil
}

// Rumble drives the weak and strong motors until the next rumble command.
func (s *Server) Rumble(weak, strong byte) *dbus.Error {
	if !s.rateLimiter.Allow() {
		log.Warn().Msg("Rate limit exceeded for Rumble")
		return dbus.MakeFailedError(ErrRateLimitExceeded)
	}

	if err := s.outputs.Rumble(weak, strong); err != nil {
		log.Error().Err(err).Msg("Failed to start rumble")
		return dbus.MakeFailedError(err)
	}

	log.Debug().Uint8("weak", weak).Uint8("strong", strong).Msg("Rumble started")
	return nil
}

// StopRumble turns both motors off.
func (s *Server) StopRumble() *dbus.Error {
	if !s.rateLimiter.Allow() {
		log.Warn().Msg("Rate limit exceeded for StopRumble")
		return dbus.MakeFailedError(ErrRateLimitExceeded)
	}

	if err := s.outputs.StopRumble(); err != nil {
		log.Error().Err(err).Msg("Failed to stop rumble")
		return dbus.MakeFailedError(err)
	}

	log.Debug().Msg("Rumble stopped")
	return nil
}

// ReportDescriptor returns the HID report descriptor blob advertised for
// the canonical gamepad report.
func (s *Server) ReportDescriptor() ([]byte, *dbus.Error) {
	return protocol.ReportDescriptor(), nil
}

// DeliverReport is the host-report sink. It emits InputChanged for reports
// whose buttons or hat differ from the previously emitted one, subject to
// the input signal rate limit.
func (s *Server) DeliverReport(_ time.Time, report protocol.GamepadReport) {
	s.emitMu.Lock()
	changed := !s.hasEmitted || report != s.lastEmitted
	if changed && s.inputLimiter.Allow() {
		s.lastEmitted = report
		s.hasEmitted = true
	} else {
		changed = false
	}
	s.emitMu.Unlock()

	if !changed {
		return
	}

	s.connMu.RLock()
	conn := s.conn
	s.connMu.RUnlock()

	if conn == nil {
		return
	}

	err := conn.Emit(ObjectPath, InterfaceName+".InputChanged", report.Buttons, report.Hat)
	if err != nil {
		log.Error().Err(err).Msg("Failed to emit InputChanged signal")
	}
}

// EmitConnected emits the ControllerConnected signal.
func (s *Server) EmitConnected(product string) {
	s.connMu.RLock()
	conn := s.conn
	s.connMu.RUnlock()

	if conn == nil {
		return
	}

	err := conn.Emit(ObjectPath, InterfaceName+".ControllerConnected", product)
	if err != nil {
		log.Error().Err(err).Msg("Failed to emit ControllerConnected signal")
	}
	log.Info().Str("product", product).Msg("Controller connected")
}

// EmitDisconnected emits the ControllerDisconnected signal.
func (s *Server) EmitDisconnected() {
	s.connMu.RLock()
	conn := s.conn
	s.connMu.RUnlock()

	if conn == nil {
		return
	}

	err := conn.Emit(ObjectPath, InterfaceName+".ControllerDisconnected")
	if err != nil {
		log.Error().Err(err).Msg("Failed to emit ControllerDisconnected signal")
	}
	log.Info().Msg("Controller disconnected")
}
