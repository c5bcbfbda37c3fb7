// Package protocol defines the wire formats spoken by Bigben Interactive
// compact controllers: the proprietary 64-byte input report, the canonical
// gamepad report advertised to the host, and the 8-byte LED/rumble output
// frames. The layouts follow the Linux hid-bigbenff driver.
package protocol

const (
	// VendorID is the USB vendor ID for Bigben Interactive.
	VendorID uint16 = 0x146b

	// ProductIDPCCompact is the PC Compact Controller (XInput mode).
	ProductIDPCCompact uint16 = 0x0603

	// ProductIDPS4Compact is the PS4 Compact Controller.
	ProductIDPS4Compact uint16 = 0x0d05

	// ProductIDPS3Minipad is the PS3 kid-friendly controller.
	ProductIDPS3Minipad uint16 = 0x0902
)

// Report identifiers. The input report and the LED output report share the
// value 0x01; the device tells them apart by transfer direction, never by
// identifier alone.
const (
	ReportIDInput  byte = 0x01
	ReportIDLED    byte = 0x01
	ReportIDRumble byte = 0x02
)

const (
	// InputReportSize is the fixed size of the proprietary input report.
	InputReportSize = 64

	// OutputFrameSize is the fixed size of LED and rumble output frames.
	OutputFrameSize = 8

	// GamepadReportSize is the size of the marshaled canonical report.
	GamepadReportSize = 10
)

// Button bits in the 16-bit bitfield. Only the low 13 bits are meaningful;
// the layout is shared between the proprietary and canonical reports.
const (
	ButtonA      uint16 = 1 << 0 // Cross
	ButtonB      uint16 = 1 << 1 // Circle
	ButtonX      uint16 = 1 << 2 // Square
	ButtonY      uint16 = 1 << 3 // Triangle
	ButtonLB     uint16 = 1 << 4 // L1
	ButtonRB     uint16 = 1 << 5 // R1
	ButtonLT     uint16 = 1 << 6 // L2 digital
	ButtonRT     uint16 = 1 << 7 // R2 digital
	ButtonBack   uint16 = 1 << 8 // Share/Select
	ButtonStart  uint16 = 1 << 9 // Options/Start
	ButtonLStick uint16 = 1 << 10
	ButtonRStick uint16 = 1 << 11
	ButtonHome   uint16 = 1 << 12

	// ButtonMask covers the 13 meaningful button bits.
	ButtonMask uint16 = 0x1FFF
)

// D-pad direction codes. 0-7 are the eight compass directions clockwise
// from up; 8 is released.
const (
	DPadUp        byte = 0
	DPadUpRight   byte = 1
	DPadRight     byte = 2
	DPadDownRight byte = 3
	DPadDown      byte = 4
	DPadDownLeft  byte = 5
	DPadLeft      byte = 6
	DPadUpLeft    byte = 7
	DPadNeutral   byte = 8
)

// LED bits of the 4-bit mask in the LED output frame.
const (
	LED1   byte = 1 << 0
	LED2   byte = 1 << 1
	LED3   byte = 1 << 2
	LED4   byte = 1 << 3
	LEDAll byte = 0x0F
)

const (
	// AxisCenter is the rest position of every stick axis.
	AxisCenter byte = 128

	// AxisMin and AxisMax bound the axis range.
	AxisMin byte = 0
	AxisMax byte = 255

	// HatNeutral is the hat switch released value.
	HatNeutral byte = 8

	// RumbleContinuous is the duration byte meaning "until told otherwise";
	// the protocol offers no per-call duration control.
	RumbleContinuous byte = 0xFF
)
