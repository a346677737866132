package family

import (
	"time"

	"github.com/arloliu/go-hveprom/hw"
	"github.com/arloliu/go-hveprom/line"
)

// 1702A timing.
const (
	c1702aReadDelay     = 100 * time.Microsecond
	c1702aADHold        = 40 * time.Microsecond
	c1702aADHoldPostVDD = 150 * time.Microsecond
	c1702aPostWrite     = 12 * time.Millisecond
	c1702aPowerSettle   = 100 * time.Millisecond
	// Time for the high-voltage supplies to discharge before the other rail comes up.
	c1702aDischarge = 300 * time.Millisecond
)

// 1702A bench test numbers.
const (
	test1702AReadPON  = 1
	test1702AReadCS   = 2
	test1702AReadAA   = 3
	test1702ARead55   = 4
	test1702AReadData = 5
	test1702AWritePON = 6
	test1702AWritePGM = 7
	test1702AWriteVDD = 8
	test1702AWriteAA  = 9
	test1702AWrite55  = 10
)

// c1702a drives the 1702A shield.
//
// The shield has separate read and program supplies that must never be on
// together; they form the rail pair. REN and PGMVDD both drive the VDD/VGG node
// of the socket, REN at the read level and PGMVDD at the program level; they
// form the vgg pair.
type c1702a struct {
	b    hw.Board
	rail *line.Pair
	vgg  *line.Pair
	dev  *Device
	pen  bool
}

func newC1702A(b hw.Board) *c1702a {
	return &c1702a{
		b:    b,
		rail: line.NewPair("rail", b, b, Line1702AReadPower, Line1702AProgPower, c1702aDischarge),
		vgg:  line.NewPair("vgg", b, b, Line1702AREN, Line1702APGMVDD, c1702aADHold),
		dev:  devices[Code1702A],
	}
}

func (d *c1702a) Family() Family  { return Family1702A }
func (d *c1702a) Board() hw.Board { return d.b }

func (d *c1702a) Init() {
	d.b.Set(Line1702APEN, false)
	d.b.Set(Line1702APGM, false)
	d.b.Set(Line1702ACS, false)
	d.vgg.Release()
	d.rail.Release()
	d.pen = false
	d.b.DriveData(false)
	d.b.SetAddress(0)
}

func (d *c1702a) Select(dev *Device) { d.dev = dev }

func (d *c1702a) PowerOn(mode Mode) {
	target := line.Low
	if mode == ModeWrite {
		target = line.Program
	}
	if d.rail.Level() == target {
		return
	}
	if d.rail.Level() != line.High {
		// Leaving a supply: drop everything that is referenced to it first.
		d.quiesce()
	}
	d.rail.Set(target)
	d.b.Wait(c1702aPowerSettle)
}

func (d *c1702a) quiesce() {
	d.b.Set(Line1702APGM, false)
	d.b.Set(Line1702APEN, false)
	d.b.Set(Line1702ACS, false)
	d.pen = false
	d.vgg.Set(line.High)
}

func (d *c1702a) Reset() {
	d.quiesce()
	d.vgg.Release()
	d.rail.Release()
	d.b.DriveData(false)
}

// ProgramByte stages the inverted address while VDD comes up, then presents the
// true address for the main pulse. The part has no inline verify.
func (d *c1702a) ProgramByte(addr uint16, data byte) {
	d.PowerOn(ModeWrite)
	if !d.pen {
		d.b.Set(Line1702APEN, true)
		d.b.Wait(c1702aReadDelay)
		d.pen = true
	}

	a := addr & 0xFF
	d.b.DriveData(true)
	d.b.SetData(data)
	d.b.SetAddress(^a & 0xFF)
	d.b.Wait(c1702aADHold)
	d.vgg.Set(line.Program)
	d.b.Wait(c1702aADHoldPostVDD)
	d.b.SetAddress(a)
	d.b.Wait(c1702aADHold)

	d.b.Set(Line1702APGM, true)
	d.b.Wait(d.dev.Pulse)
	d.b.Set(Line1702APGM, false)

	d.b.Wait(c1702aADHold)
	d.vgg.Set(line.High)
	d.b.Wait(c1702aPostWrite)
}

func (d *c1702a) ReadByte(addr uint16) byte {
	d.PowerOn(ModeRead)
	if d.vgg.Level() != line.Low {
		d.vgg.Set(line.Low)
		d.b.Wait(c1702aReadDelay)
	}

	d.b.DriveData(false)
	d.b.SetAddress(addr & 0xFF)
	d.b.Wait(c1702aReadDelay)
	d.b.Set(Line1702ACS, true)
	d.b.Wait(c1702aReadDelay)
	v := d.b.Data()
	d.b.Set(Line1702ACS, false)
	d.b.Wait(c1702aReadDelay)

	return v
}

// Idle drops the program and read enables held across a chunk.
func (d *c1702a) Idle() {
	if d.pen {
		d.b.Set(Line1702APEN, false)
		d.pen = false
	}
	if d.vgg.Level() != line.High {
		d.vgg.Set(line.High)
	}
	d.b.DriveData(false)
	d.b.Wait(c1702aReadDelay)
}

func (d *c1702a) SwitchMatches(*Device) bool { return true }

func (d *c1702a) BenchTest(n byte) bool {
	switch n {
	case test1702AReadPON:
		d.PowerOn(ModeRead)
	case test1702AReadCS:
		d.PowerOn(ModeRead)
		d.b.Set(Line1702ACS, true)
	case test1702AReadAA, test1702ARead55:
		d.PowerOn(ModeRead)
		d.vgg.Set(line.Low)
		d.b.SetAddress(testPattern(n == test1702AReadAA, 0xFF))
	case test1702AReadData:
		d.PowerOn(ModeRead)
		d.vgg.Set(line.Low)
	case test1702AWritePON:
		d.PowerOn(ModeWrite)
	case test1702AWritePGM:
		d.PowerOn(ModeWrite)
		d.b.Set(Line1702APGM, true)
	case test1702AWriteVDD:
		d.PowerOn(ModeWrite)
		d.vgg.Set(line.Program)
	case test1702AWriteAA, test1702AWrite55:
		d.PowerOn(ModeWrite)
		d.b.Set(Line1702APEN, true)
		d.pen = true
		d.b.SetAddress(testPattern(n == test1702AWriteAA, 0xFF))
	default:
		return false
	}

	return true
}

// testPattern returns the alternating 0xAA.. or 0x55.. pattern masked to width.
func testPattern(aa bool, mask uint16) uint16 {
	if aa {
		return 0xAAAA & mask
	}
	return 0x5555 & mask
}
