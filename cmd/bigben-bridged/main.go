// Package main provides the entry point for the Bigben controller bridge daemon.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/openpad/bigben-bridge/internal/channel"
	"github.com/openpad/bigben-bridge/internal/dbus"
	"github.com/openpad/bigben-bridge/internal/dispatch"
	"github.com/openpad/bigben-bridge/internal/protocol"
	"github.com/openpad/bigben-bridge/internal/translate"
	"github.com/openpad/bigben-bridge/internal/transport"
	"github.com/openpad/bigben-bridge/internal/udev"
)

var (
	verbose         bool
	stickDeadzone   uint8
	triggerDeadzone uint8
	serial          string
	rawUSB          bool
	systemBus       bool

	rootCmd = &cobra.Command{
		Use:   "bigben-bridged",
		Short: "D-Bus daemon bridging Bigben USB game controllers",
		Long: `bigben-bridged reads input reports from Bigben Interactive USB game
controllers, reshapes sticks and triggers with configurable deadzones,
and republishes the result as a canonical gamepad report.

It exposes a D-Bus interface for querying controller state, tuning
deadzones, and driving the player LEDs and rumble motors, and emits
signals when a controller is connected or disconnected.`,
		Run: func(cmd *cobra.Command, args []string) {
			run()
		},
	}

	listCmd = &cobra.Command{
		Use:   "list",
		Short: "List connected Bigben controllers",
		RunE: func(cmd *cobra.Command, args []string) error {
			infos, err := transport.Enumerate()
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				fmt.Println("No Bigben controllers found")
				return nil
			}
			for _, info := range infos {
				fmt.Printf("%04x:%04x  serial=%-16s  %s\n", info.VendorID, info.ProductID, info.Serial, info.Product)
			}
			return nil
		},
	}

	descriptorCmd = &cobra.Command{
		Use:   "descriptor",
		Short: "Print the HID report descriptor advertised for the gamepad",
		Run: func(cmd *cobra.Command, args []string) {
			desc := protocol.ReportDescriptor()
			for i, b := range desc {
				if i > 0 && i%16 == 0 {
					fmt.Println()
				}
				fmt.Printf("%02x ", b)
			}
			fmt.Println()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.Flags().Uint8Var(&stickDeadzone, "deadzone", translate.DefaultStickDeadzone, "Stick deadzone (0-127)")
	rootCmd.Flags().Uint8Var(&triggerDeadzone, "trigger-deadzone", translate.DefaultTriggerDeadzone, "Trigger deadzone (0-255)")
	rootCmd.Flags().StringVar(&serial, "serial", "", "Only bind the controller with this serial number")
	rootCmd.Flags().BoolVar(&rawUSB, "raw-usb", false, "Use raw USB interrupt endpoints instead of hidapi")
	rootCmd.Flags().BoolVar(&systemBus, "system-bus", false, "Register on the system bus instead of the session bus")
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(descriptorCmd)
}

// session holds the currently bound controller. attachMu serializes
// attach/detach between the hotplug handler, the recovery handler and
// shutdown.
type session struct {
	mu sync.RWMutex
	ch *channel.Channel
	tr transport.Transport
}

// SubmitOutput forwards an output frame to the current channel, so the
// dispatcher survives controller reattachment.
func (s *session) SubmitOutput(frame []byte) error {
	s.mu.RLock()
	ch := s.ch
	s.mu.RUnlock()

	if ch == nil {
		return channel.ErrNotReady
	}
	return ch.SubmitOutput(frame)
}

var attachMu sync.Mutex

func run() {
	// Configure logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	log.Info().Msg("Starting bigben-bridged")

	tracker := channel.NewTracker()
	cfg := translate.NewConfig()
	cfg.SetStickDeadzone(stickDeadzone)
	cfg.SetTriggerDeadzone(triggerDeadzone)

	sess := &session{}
	dispatcher := dispatch.New(sess, tracker)

	var serverOpts []dbus.Option
	if systemBus {
		serverOpts = append(serverOpts, dbus.WithSystemBus())
	}
	server := dbus.NewServer(tracker, cfg, dispatcher, serverOpts...)
	if err := server.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start D-Bus server")
	}

	// Bind a controller if one is already plugged in
	if err := attach(sess, tracker, cfg, server); err != nil {
		log.Warn().Err(err).Msg("No Bigben controller found, waiting for hot-plug")
	}

	// Initialize udev monitor for hot-plug detection
	monitor := udev.NewMonitor(createHotplugHandler(sess, tracker, cfg, server))
	monitor.SetRecoveryHandler(createRecoveryHandler(sess, tracker, cfg, server))
	if err := monitor.Start(); err != nil {
		log.Error().Err(err).Msg("Failed to start udev monitor (hot-plug detection disabled)")
	}

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	log.Info().Msg("Daemon running, press Ctrl+C to stop")
	<-sigChan

	// Cleanup
	log.Info().Msg("Shutting down...")
	if err := monitor.Stop(); err != nil {
		log.Error().Err(err).Msg("Failed to stop udev monitor")
	}
	attachMu.Lock()
	detach(sess, server)
	attachMu.Unlock()
	if err := server.Stop(); err != nil {
		log.Error().Err(err).Msg("Failed to stop D-Bus server")
	}

	stats := tracker.Stats()
	log.Info().
		Uint64("reports", stats.ReportsReceived).
		Uint64("errors", stats.ReportErrors).
		Uint64("outputs", stats.OutputsSent).
		Msg("Daemon stopped")
}

// attach opens the first matching controller, starts a poll channel over it
// and restores the last requested LED state. Callers hold attachMu.
func attach(sess *session, tracker *channel.Tracker, cfg *translate.Config, server *dbus.Server) error {
	sess.mu.RLock()
	bound := sess.ch != nil
	sess.mu.RUnlock()
	if bound {
		return nil
	}

	tr, err := openTransport()
	if err != nil {
		return err
	}

	ch := channel.New(tr, cfg, tracker, server.DeliverReport)
	if err := ch.Start(); err != nil {
		if closeErr := tr.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("Failed to close transport after start failure")
		}
		return err
	}

	sess.mu.Lock()
	sess.ch = ch
	sess.tr = tr
	sess.mu.Unlock()

	info := tr.Info()
	log.Info().
		Str("product", info.Product).
		Str("serial", info.Serial).
		Msg("Bound Bigben controller")
	server.EmitConnected(info.Product)

	// Re-assert the player LEDs; the controller powers up with its own idea
	// of which LED is lit.
	led := protocol.LEDCommand{Mask: tracker.LEDState()}
	frame := led.Frame()
	if err := ch.SubmitOutput(frame[:]); err != nil {
		log.Warn().Err(err).Msg("Failed to restore LED state")
	}
	return nil
}

// detach stops the current channel and closes its transport. Callers hold
// attachMu.
func detach(sess *session, server *dbus.Server) {
	sess.mu.Lock()
	ch := sess.ch
	tr := sess.tr
	sess.ch = nil
	sess.tr = nil
	sess.mu.Unlock()

	if ch == nil {
		return
	}

	ch.Stop()
	if tr != nil {
		if err := tr.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close transport")
		}
	}
	server.EmitDisconnected()
}

func openTransport() (transport.Transport, error) {
	if rawUSB {
		return transport.OpenRawUSB()
	}
	return transport.OpenHID(serial)
}

// attachWithRetry attempts to bind a controller with linear backoff.
// It retries up to maxRetries times with increasing delays between attempts.
func attachWithRetry(sess *session, tracker *channel.Tracker, cfg *translate.Config, server *dbus.Server, maxRetries int) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			// Linear backoff: 500ms, 1000ms, 1500ms, ...
			backoff := time.Duration(attempt) * 500 * time.Millisecond
			log.Debug().
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("Retrying controller bind")
			time.Sleep(backoff)
		}

		if err := attach(sess, tracker, cfg, server); err != nil {
			lastErr = err
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Int("maxRetries", maxRetries+1).
				Msg("Controller bind failed")
			continue
		}

		if attempt > 0 {
			log.Info().Int("attempts", attempt+1).Msg("Controller bind succeeded after retry")
		}
		return nil
	}
	return lastErr
}

// createHotplugHandler returns an event handler that binds or releases the
// controller and emits D-Bus signals. The handler uses attachMu to
// serialize with the recovery handler.
func createHotplugHandler(sess *session, tracker *channel.Tracker, cfg *translate.Config, server *dbus.Server) udev.EventHandler {
	return func(event udev.Event) {
		attachMu.Lock()
		defer attachMu.Unlock()

		switch event.Type {
		case udev.EventAdd:
			// USB devices need time to enumerate all interfaces before HID
			// is accessible.
			time.Sleep(500 * time.Millisecond)
			if err := attachWithRetry(sess, tracker, cfg, server, 3); err != nil {
				log.Error().Err(err).Msg("Failed to bind controller after hot-plug event (all retries exhausted)")
			}
		case udev.EventRemove:
			detach(sess, server)
		}
	}
}

// createRecoveryHandler returns a handler for netlink buffer overflow
// recovery. It reconciles the bound controller with reality, since add or
// remove events may have been missed. The handler uses attachMu to
// serialize with the hotplug handler.
func createRecoveryHandler(sess *session, tracker *channel.Tracker, cfg *translate.Config, server *dbus.Server) udev.RecoveryHandler {
	return func() {
		attachMu.Lock()
		defer attachMu.Unlock()

		log.Info().Msg("Performing recovery refresh after netlink buffer overflow")

		// Wait a moment for any pending USB operations to settle
		time.Sleep(500 * time.Millisecond)

		// A channel that stopped itself means the device vanished unnoticed;
		// release it so a fresh bind can happen.
		sess.mu.RLock()
		stopped := sess.ch != nil && sess.ch.CurrentState() == channel.StateStopped
		sess.mu.RUnlock()
		if stopped {
			detach(sess, server)
		}

		if err := attachWithRetry(sess, tracker, cfg, server, 3); err != nil {
			log.Debug().Err(err).Msg("No controller bound during recovery")
			return
		}

		log.Info().Msg("Recovery refresh completed")
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("Failed to execute command")
	}
}
