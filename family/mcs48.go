package family

import (
	"time"

	"github.com/arloliu/go-hveprom/hw"
	"github.com/arloliu/go-hveprom/line"
)

// MCS-48 timing.
const (
	mcs48PowerSettle = 100 * time.Millisecond
	mcs48HVSettle    = time.Millisecond
	mcs48AddrSettle  = 4 * time.Microsecond
	mcs48DataSetup   = 4 * time.Microsecond
	mcs48ReadDelay   = 4 * time.Microsecond
)

// MCS-48 bench test numbers.
const (
	testMCS48PON  = 1
	testMCS48VDD  = 2
	testMCS48EA   = 3
	testMCS48PROG = 4
	testMCS48AA   = 5
	testMCS4855   = 6
	testMCS48Data = 7
)

// mcs48 drives the 8741/8742/8748/8749 EPROM parts and reads the 8048/8049/8050
// mask-ROM parts.
//
// The part has no separate address bus for the low address byte: it is put on
// the data bus while RESET is held and latched when RESET is released. TEST0
// selects verify (read) mode and is only asserted for the duration of a read.
// EA, VDD and PROG are high-voltage nodes with a single program driver each.
type mcs48 struct {
	b       hw.Board
	ea      *line.Pair
	vdd     *line.Pair
	prog    *line.Pair
	dev     *Device
	powered bool
}

func newMCS48(b hw.Board) *mcs48 {
	return &mcs48{
		b:    b,
		ea:   line.NewPair("ea", b, b, line.None, LineMCS48EA, mcs48HVSettle),
		vdd:  line.NewPair("vdd", b, b, line.None, LineMCS48VDD, mcs48HVSettle),
		prog: line.NewPair("prog", b, b, line.None, LineMCS48PROG, 0),
		dev:  devices[Code8748],
	}
}

func (d *mcs48) Family() Family  { return FamilyMCS48 }
func (d *mcs48) Board() hw.Board { return d.b }

func (d *mcs48) Init() {
	d.prog.Release()
	d.vdd.Release()
	d.ea.Release()
	d.b.Set(LineMCS48TEST0, false)
	d.b.Set(LineMCS48CS, false)
	d.b.Set(LineMCS48A0, false)
	d.b.Set(LineMCS48RESET, false)
	d.b.Set(LineMCS48PON, false)
	d.powered = false
	d.b.DriveData(false)
	d.b.SetAddress(0)
}

func (d *mcs48) Select(dev *Device) { d.dev = dev }

// PowerOn brings the part up held in reset with EA at the program level, which
// is required for both programming and verify.
func (d *mcs48) PowerOn(Mode) {
	if d.powered {
		return
	}
	d.b.Set(LineMCS48RESET, true)
	d.b.Set(LineMCS48PON, true)
	d.b.Wait(mcs48PowerSettle)
	d.ea.Set(line.Program)
	d.b.Wait(mcs48HVSettle)
	d.powered = true
}

func (d *mcs48) Reset() {
	d.prog.Release()
	d.vdd.Release()
	d.ea.Release()
	d.b.Set(LineMCS48TEST0, false)
	d.b.Set(LineMCS48CS, false)
	d.b.Set(LineMCS48A0, false)
	d.b.Set(LineMCS48RESET, false)
	d.b.Wait(mcs48PowerSettle)
	d.b.Set(LineMCS48PON, false)
	d.powered = false
	d.b.DriveData(false)
}

// latch puts addr on the bus while the part is held in reset, lets the bus
// settle, then releases reset to latch it.
func (d *mcs48) latch(addr uint16) {
	d.b.Set(LineMCS48RESET, true)
	d.b.SetAddress(addr)
	d.b.DriveData(true)
	d.b.SetData(byte(addr))
	d.b.Wait(mcs48AddrSettle)
	d.b.Set(LineMCS48RESET, false)
	d.b.Wait(mcs48AddrSettle)
}

func (d *mcs48) ProgramByte(addr uint16, data byte) {
	d.PowerOn(ModeWrite)
	d.latch(addr)

	d.b.SetData(data)
	d.b.Wait(mcs48DataSetup)
	d.vdd.Set(line.Program)
	d.b.Wait(mcs48HVSettle)

	d.prog.Set(line.Program)
	d.b.Wait(d.dev.Pulse)
	d.prog.Set(line.High)

	d.vdd.Set(line.High)
	d.b.DriveData(false)
	d.b.Set(LineMCS48RESET, true)
}

func (d *mcs48) ReadByte(addr uint16) byte {
	d.PowerOn(ModeRead)
	d.latch(addr)

	d.b.DriveData(false)
	d.b.Set(LineMCS48TEST0, true)
	d.b.Wait(mcs48ReadDelay)
	v := d.b.Data()
	d.b.Set(LineMCS48TEST0, false)
	d.b.Set(LineMCS48RESET, true)

	return v
}

func (d *mcs48) SwitchMatches(*Device) bool { return true }

func (d *mcs48) BenchTest(n byte) bool {
	switch n {
	case testMCS48PON, testMCS48Data:
		d.PowerOn(ModeRead)
	case testMCS48VDD:
		d.PowerOn(ModeRead)
		d.vdd.Set(line.Program)
	case testMCS48EA:
		d.PowerOn(ModeRead)
		d.ea.Set(line.Program)
	case testMCS48PROG:
		d.PowerOn(ModeRead)
		d.prog.Set(line.Program)
	case testMCS48AA:
		d.PowerOn(ModeRead)
		d.b.DriveData(true)
		d.b.SetData(0xAA)
		d.b.SetAddress(testPattern(true, 0x1FFF))
		d.b.Set(LineMCS48A0, true)
		d.b.Set(LineMCS48CS, true)
	case testMCS4855:
		d.PowerOn(ModeRead)
		d.b.DriveData(true)
		d.b.SetData(0x55)
		d.b.SetAddress(testPattern(false, 0x1FFF))
		d.b.Set(LineMCS48TEST0, true)
		d.b.Set(LineMCS48RESET, true)
	default:
		return false
	}

	return true
}
