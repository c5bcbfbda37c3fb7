package protocol

// reportDescriptor is the HID report descriptor advertised to the host. It
// describes the canonical gamepad report (ID 1: four 8-bit axes, two 8-bit
// triggers, a 4-bit hat with null state, 13 buttons) and the output report
// (ID 2: four LEDs plus the PID actuator fields the rumble frame maps onto).
// The blob is treated as an opaque constant; the host consumes it read-only.
var reportDescriptor = []byte{
	0x05, 0x01, // Usage Page (Generic Desktop)
	0x09, 0x05, // Usage (Gamepad)
	0xA1, 0x01, // Collection (Application)

	0x85, 0x01, //   Report ID (1)

	0x05, 0x01, //   Usage Page (Generic Desktop)
	0x09, 0x30, //   Usage (X)
	0x09, 0x31, //   Usage (Y)
	0x09, 0x33, //   Usage (Rx)
	0x09, 0x34, //   Usage (Ry)
	0x15, 0x00, //   Logical Minimum (0)
	0x26, 0xFF, 0x00, //   Logical Maximum (255)
	0x75, 0x08, //   Report Size (8)
	0x95, 0x04, //   Report Count (4)
	0x81, 0x02, //   Input (Data, Var, Abs)

	0x09, 0x32, //   Usage (Z)  - left trigger
	0x09, 0x35, //   Usage (Rz) - right trigger
	0x95, 0x02, //   Report Count (2)
	0x81, 0x02, //   Input (Data, Var, Abs)

	0x09, 0x39, //   Usage (Hat Switch)
	0x15, 0x00, //   Logical Minimum (0)
	0x25, 0x07, //   Logical Maximum (7)
	0x35, 0x00, //   Physical Minimum (0)
	0x46, 0x3B, 0x01, //   Physical Maximum (315)
	0x65, 0x14, //   Unit (Degrees)
	0x75, 0x04, //   Report Size (4)
	0x95, 0x01, //   Report Count (1)
	0x81, 0x42, //   Input (Data, Var, Abs, Null State)

	0x75, 0x04, //   Report Size (4)
	0x95, 0x01, //   Report Count (1)
	0x81, 0x01, //   Input (Const) - pad to byte

	0x05, 0x09, //   Usage Page (Button)
	0x19, 0x01, //   Usage Minimum (Button 1)
	0x29, 0x0D, //   Usage Maximum (Button 13)
	0x15, 0x00, //   Logical Minimum (0)
	0x25, 0x01, //   Logical Maximum (1)
	0x75, 0x01, //   Report Size (1)
	0x95, 0x0D, //   Report Count (13)
	0x81, 0x02, //   Input (Data, Var, Abs)

	0x75, 0x01, //   Report Size (1)
	0x95, 0x03, //   Report Count (3)
	0x81, 0x01, //   Input (Const) - pad to 16 bits

	0x85, 0x02, //   Report ID (2)

	0x05, 0x08, //   Usage Page (LEDs)
	0x19, 0x01, //   Usage Minimum (LED 1)
	0x29, 0x04, //   Usage Maximum (LED 4)
	0x95, 0x04, //   Report Count (4)
	0x75, 0x01, //   Report Size (1)
	0x91, 0x02, //   Output (Data, Var, Abs)

	0x95, 0x04, //   Report Count (4)
	0x91, 0x01, //   Output (Const) - pad

	0x05, 0x0F, //   Usage Page (PID)
	0x09, 0x21, //   Usage (Set Effect Report)
	0xA1, 0x02, //   Collection (Logical)
	0x09, 0x97, //     Usage (DC Enable Actuators)
	0x15, 0x00, //     Logical Minimum (0)
	0x25, 0x01, //     Logical Maximum (1)
	0x75, 0x01, //     Report Size (1)
	0x95, 0x01, //     Report Count (1)
	0x91, 0x02, //     Output (Data, Var, Abs)

	0x95, 0x07, //     Report Count (7)
	0x91, 0x01, //     Output (Const) - pad

	0x09, 0x70, //     Usage (Magnitude) - strong motor
	0x26, 0xFF, 0x00, //     Logical Maximum (255)
	0x75, 0x08, //     Report Size (8)
	0x95, 0x01, //     Report Count (1)
	0x91, 0x02, //     Output (Data, Var, Abs)

	0x09, 0x70, //     Usage (Magnitude) - weak motor
	0x91, 0x02, //     Output (Data, Var, Abs)
	0xC0, //   End Collection

	0xC0, // End Collection
}

// ReportDescriptor returns a copy of the HID report descriptor blob.
func ReportDescriptor() []byte {
	out := make([]byte, len(reportDescriptor))
	copy(out, reportDescriptor)
	return out
}
