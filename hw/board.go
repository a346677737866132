// Package hw binds the programming engine to physical hardware.
//
// A [Board] bundles the control lines, the address/data bus of the programming
// socket and the delay primitive. [GPIOBoard] implements it on top of periph.io
// GPIO pins; tests use the simulated board in internal/sim.
//
// Hardware calls do not return errors individually. The first failure is kept and
// reported by Board.Err, the way bufio.Writer reports write errors, so the family
// drivers can express pulse sequences without error plumbing on every line change.
package hw

import (
	"github.com/arloliu/go-hveprom/line"
)

// AddressBits is the width of the socket address bus (A0..A12, 8 KiB).
const AddressBits = 13

// DataBits is the width of the socket data bus.
const DataBits = 8

// Bus is the socket address and data bus.
type Bus interface {
	// SetAddress presents addr on the address lines.
	SetAddress(addr uint16)
	// SetData latches b for the data lines. The latch reaches the socket while
	// the bus is driven, immediately or on the next DriveData(true).
	SetData(b byte)
	// Data samples the data lines.
	Data() byte
	// DriveData switches the data lines between output (true) and input (false).
	DriveData(out bool)
}

// Board is everything a family driver needs from the hardware.
type Board interface {
	line.Lines
	line.Waiter
	Bus

	// Err returns the first hardware error since the last ClearErr.
	Err() error
	// ClearErr forgets the recorded error.
	ClearErr()
}
