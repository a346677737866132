package family

import (
	"time"

	"github.com/arloliu/go-hveprom/hw"
	"github.com/arloliu/go-hveprom/line"
)

// 270x/MCM6876x timing.
const (
	c270xReadDelay   = time.Microsecond
	c270xADSetup     = 5 * time.Microsecond
	c270xADHold      = 5 * time.Microsecond
	c270xPowerSettle = 100 * time.Millisecond
)

// 270x bench test numbers.
const (
	test270xPON  = 1
	test270xRD   = 2
	test270xWR   = 3
	test270xPE   = 4
	test270xAA   = 5
	test270x55   = 6
	test270xData = 7
)

// c270x drives the 2704/2708/TMS2716/MCM6876x shield.
//
// RD and PE both drive the CS/WE pin of the socket: RD pulls it to the read
// level, PE raises it to the program-enable level. They form the cswe pair so
// the read enable can never be on while the pin is at the program level.
// WR switches the Vpp pulse onto the program pin.
type c270x struct {
	b       hw.Board
	cswe    *line.Pair
	dev     *Device
	powered bool
}

func newC270x(b hw.Board) *c270x {
	return &c270x{
		b:    b,
		cswe: line.NewPair("cswe", b, b, Line270xRD, Line270xPE, c270xReadDelay),
		dev:  devices[Code2708],
	}
}

func (d *c270x) Family() Family  { return Family270x }
func (d *c270x) Board() hw.Board { return d.b }

func (d *c270x) Init() {
	d.b.Set(Line270xWR, false)
	d.cswe.Release()
	d.b.Set(Line270xPON, false)
	d.powered = false
	d.b.DriveData(false)
	d.b.SetAddress(0)
}

func (d *c270x) Select(dev *Device) { d.dev = dev }

func (d *c270x) PowerOn(Mode) {
	if d.powered {
		return
	}
	d.b.Set(Line270xPON, true)
	d.b.Wait(c270xPowerSettle)
	d.powered = true
}

func (d *c270x) Reset() {
	d.b.Set(Line270xWR, false)
	d.cswe.Release()
	d.b.Wait(c270xPowerSettle)
	d.b.Set(Line270xPON, false)
	d.powered = false
	d.b.DriveData(false)
}

func (d *c270x) ProgramByte(addr uint16, data byte) {
	d.PowerOn(ModeWrite)
	d.b.SetAddress(addr)

	d.cswe.Set(line.Program)
	d.b.Wait(c270xReadDelay)
	d.b.DriveData(true)
	d.b.SetData(data)
	d.b.Wait(c270xADSetup)

	d.b.Set(Line270xWR, true)
	d.b.Wait(d.dev.Pulse)
	d.b.Set(Line270xWR, false)
	d.b.Wait(c270xADHold)

	d.b.DriveData(false)
	d.cswe.Set(line.High)
}

func (d *c270x) ReadByte(addr uint16) byte {
	d.PowerOn(ModeRead)
	d.b.SetAddress(addr)
	d.b.Wait(c270xReadDelay)
	d.cswe.Set(line.Low)
	d.b.Wait(c270xReadDelay)
	v := d.b.Data()
	d.cswe.Set(line.High)
	d.b.Wait(c270xReadDelay)

	return v
}

// SwitchMatches samples DEVSEL: low selects the 27xx routing, high the MCM6876x routing.
func (d *c270x) SwitchMatches(dev *Device) bool {
	if d.b.Get(Line270xDEVSEL) {
		return dev.Switch == SwitchMCM
	}

	return dev.Switch == Switch27xx
}

func (d *c270x) BenchTest(n byte) bool {
	switch n {
	case test270xPON, test270xData:
		d.PowerOn(ModeRead)
	case test270xRD:
		d.PowerOn(ModeRead)
		d.cswe.Set(line.Low)
	case test270xWR:
		d.PowerOn(ModeRead)
		d.b.Set(Line270xWR, true)
	case test270xPE:
		d.PowerOn(ModeRead)
		d.cswe.Set(line.Program)
	case test270xAA, test270x55:
		aa := n == test270xAA
		d.PowerOn(ModeRead)
		d.b.DriveData(true)
		d.b.SetData(byte(testPattern(aa, 0xFF)))
		d.b.SetAddress(testPattern(aa, 0x1FFF))
	default:
		return false
	}

	return true
}
