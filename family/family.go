package family

import (
	"errors"
	"fmt"

	"github.com/arloliu/go-hveprom/hw"
	"github.com/arloliu/go-hveprom/line"
)

// Family identifies a programming shield and the parts it accepts.
type Family uint8

const (
	Family1702A Family = iota + 1
	Family270x
	FamilyMCS48
)

func (f Family) String() string {
	switch f {
	case Family1702A:
		return "1702A"
	case Family270x:
		return "270X_MCM6876X"
	case FamilyMCS48:
		return "MCS48"
	default:
		return fmt.Sprintf("Family(%d)", uint8(f))
	}
}

// ParseFamily maps a family name, as printed by String, back to a Family.
func ParseFamily(name string) (Family, error) {
	for _, f := range []Family{Family1702A, Family270x, FamilyMCS48} {
		if f.String() == name {
			return f, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownFamily, name)
}

// Mode selects the supply configuration requested by PowerOn.
type Mode uint8

const (
	ModeRead Mode = iota
	ModeWrite
)

// ErrUnknownFamily indicates a family value with no driver.
var ErrUnknownFamily = errors.New("family: unknown family")

// Driver is the family-polymorphic programming driver.
//
// Drivers are not goroutine-safe. Every method blocks for a bounded, known time.
type Driver interface {
	// Family returns the family this driver handles.
	Family() Family
	// Board returns the board the driver is wired to.
	Board() hw.Board
	// Init drives every line to its safe idle state and sets pin directions.
	Init()
	// Select applies the sub-variant parameters of dev (pulse width, retry bound).
	Select(dev *Device)
	// PowerOn asserts the supplies needed for mode and waits for them to settle.
	// Calling it again with the same mode is a no-op.
	PowerOn(mode Mode)
	// Reset drives all control lines to their disabled state, then removes power.
	// It is safe from every state.
	Reset()
	// ProgramByte applies exactly one program pulse of data at addr.
	ProgramByte(addr uint16, data byte)
	// ReadByte performs exactly one read cycle at addr.
	ReadByte(addr uint16) byte
	// SwitchMatches reports whether the shield's manual switch, if any, is in the
	// position dev requires.
	SwitchMatches(dev *Device) bool
	// BenchTest puts the socket into a static test state selected by n.
	// It returns false for an unknown test number.
	BenchTest(n byte) bool
}

// Idler is implemented by drivers that hold enable lines across a chunk and
// must drop them when the chunk is done.
type Idler interface {
	Idle()
}

// NewDriver creates the driver for f on board b. The driver is not initialized;
// call Init before use.
func NewDriver(f Family, b hw.Board) (Driver, error) {
	switch f {
	case Family1702A:
		return newC1702A(b), nil
	case Family270x:
		return newC270x(b), nil
	case FamilyMCS48:
		return newMCS48(b), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownFamily, uint8(f))
	}
}

// Lines returns the control-line catalogue of f, used to build a pin map.
func Lines(f Family) []line.Desc {
	switch f {
	case Family1702A:
		return lines1702A
	case Family270x:
		return lines270x
	case FamilyMCS48:
		return linesMCS48
	default:
		return nil
	}
}
