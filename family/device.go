package family

import (
	"fmt"
	"time"
)

// Code is the device-type byte sent by the host.
type Code byte

const (
	Code1702A    Code = 0x00
	Code2704     Code = 0x01
	Code2708     Code = 0x02
	CodeMCM6876x Code = 0x03
	Code8748     Code = 0x04
	Code8749     Code = 0x05
	Code8741     Code = 0x06
	Code8742     Code = 0x07
	Code8048     Code = 0x08
	Code8049     Code = 0x09
	Code8050     Code = 0x0A
	Code8755     Code = 0x0B
	Code8041     Code = 0x0C
	Code8042     Code = 0x0D
	CodeTMS2716  Code = 0x0E
)

// SwitchPosition is the manual part-select switch position a device needs.
type SwitchPosition uint8

const (
	SwitchNone SwitchPosition = iota
	// Switch27xx routes the socket for 2704/2708/TMS2716.
	Switch27xx
	// SwitchMCM routes the socket for MCM68764/MCM68766.
	SwitchMCM
)

// Device describes one supported part.
type Device struct {
	Code   Code
	Name   string
	Family Family
	// Size is the number of addressable bytes.
	Size int
	// MaxRetries bounds the verify attempts per byte.
	MaxRetries int
	// Pulse is the width of one program pulse.
	Pulse time.Duration
	// Blank is the value read from an unprogrammed cell.
	Blank byte
	// Writable is false for mask-ROM parts.
	Writable bool
	// InlineVerify is true when the part can be read back between pulses.
	InlineVerify bool
	Switch       SwitchPosition
}

func (d *Device) String() string {
	return fmt.Sprintf("%s(0x%02X)", d.Name, byte(d.Code))
}

// Retry limits per part group.
const (
	C270xMaxRetries    = 100
	MCM6876xMaxRetries = 25
	MCS48MaxRetries    = 5
)

var devices = map[Code]*Device{
	Code1702A: {
		Code: Code1702A, Name: "1702A", Family: Family1702A, Size: 0x100, MaxRetries: 1,
		Pulse: 2700 * time.Microsecond, Blank: 0x00, Writable: true,
	},
	Code2704: {
		Code: Code2704, Name: "2704", Family: Family270x, Size: 0x200, MaxRetries: C270xMaxRetries,
		Pulse: time.Millisecond, Blank: 0xFF, Writable: true, InlineVerify: true, Switch: Switch27xx,
	},
	Code2708: {
		Code: Code2708, Name: "2708", Family: Family270x, Size: 0x400, MaxRetries: C270xMaxRetries,
		Pulse: time.Millisecond, Blank: 0xFF, Writable: true, InlineVerify: true, Switch: Switch27xx,
	},
	CodeTMS2716: {
		Code: CodeTMS2716, Name: "TMS2716", Family: Family270x, Size: 0x800, MaxRetries: C270xMaxRetries,
		Pulse: time.Millisecond, Blank: 0xFF, Writable: true, InlineVerify: true, Switch: Switch27xx,
	},
	CodeMCM6876x: {
		Code: CodeMCM6876x, Name: "MCM6876X", Family: Family270x, Size: 0x2000, MaxRetries: MCM6876xMaxRetries,
		Pulse: 2 * time.Millisecond, Blank: 0xFF, Writable: true, InlineVerify: true, Switch: SwitchMCM,
	},
	Code8748: mcs48EPROM(Code8748, "8748", 0x400),
	Code8749: mcs48EPROM(Code8749, "8749", 0x800),
	Code8741: mcs48EPROM(Code8741, "8741", 0x400),
	Code8742: mcs48EPROM(Code8742, "8742", 0x800),
	Code8048: mcs48ROM(Code8048, "8048", 0x400),
	Code8049: mcs48ROM(Code8049, "8049", 0x800),
	Code8050: mcs48ROM(Code8050, "8050", 0x1000),
}

func mcs48EPROM(code Code, name string, size int) *Device {
	return &Device{
		Code: code, Name: name, Family: FamilyMCS48, Size: size, MaxRetries: MCS48MaxRetries,
		Pulse: 50 * time.Millisecond, Blank: 0x00, Writable: true, InlineVerify: true,
	}
}

func mcs48ROM(code Code, name string, size int) *Device {
	return &Device{Code: code, Name: name, Family: FamilyMCS48, Size: size, Blank: 0x00}
}

// Lookup returns the device for code. The returned Device is shared and must
// not be modified. Codes that are reserved on the wire but
// have no driver support (8755, 8041, 8042) are not found.
func Lookup(code Code) (*Device, bool) {
	d, ok := devices[code]
	return d, ok
}
