package hw

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/arloliu/go-hveprom/line"
)

type controlPin struct {
	pin       gpio.PinIO
	activeLow bool
	input     bool
}

// GPIOBoard is a Board on periph.io GPIO pins.
//
// GPIOBoard is not goroutine-safe; the dispatcher owns it for the duration of a command.
type GPIOBoard struct {
	address [AddressBits]gpio.PinIO
	data    [DataBits]gpio.PinIO
	lines   map[line.ID]controlPin
	waiter  line.Waiter
	dataOut bool
	latch   byte
	err     error
}

var _ Board = (*GPIOBoard)(nil)

// NewGPIOBoard creates a board from resolved pins. Address and data pins are
// indexed by bit number. waiter may be nil to use Clock.
func NewGPIOBoard(address [AddressBits]gpio.PinIO, data [DataBits]gpio.PinIO, waiter line.Waiter) *GPIOBoard {
	if waiter == nil {
		waiter = Clock{}
	}

	return &GPIOBoard{
		address: address,
		data:    data,
		lines:   make(map[line.ID]controlPin),
		waiter:  waiter,
	}
}

// AttachLine binds a control line to a pin. Output lines start de-asserted,
// input lines are configured as floating inputs.
func (b *GPIOBoard) AttachLine(desc line.Desc, pin gpio.PinIO) error {
	if pin == nil {
		return fmt.Errorf("hw: line %s: nil pin", desc.Name)
	}
	cp := controlPin{pin: pin, activeLow: desc.ActiveLow, input: desc.Input}
	b.lines[desc.ID] = cp

	if desc.Input {
		if err := pin.In(gpio.Float, gpio.NoEdge); err != nil {
			return fmt.Errorf("hw: line %s: %w", desc.Name, err)
		}
		return nil
	}
	if err := pin.Out(cp.level(false)); err != nil {
		return fmt.Errorf("hw: line %s: %w", desc.Name, err)
	}

	return nil
}

func (cp controlPin) level(asserted bool) gpio.Level {
	return gpio.Level(asserted != cp.activeLow)
}

func (b *GPIOBoard) Set(id line.ID, asserted bool) {
	cp, ok := b.lines[id]
	if !ok {
		b.setErr(fmt.Errorf("%w: %d", ErrUnknownLine, id))
		return
	}
	if cp.input {
		b.setErr(fmt.Errorf("%w: %s", ErrInputLine, cp.pin.Name()))
		return
	}
	b.setErr(cp.pin.Out(cp.level(asserted)))
}

func (b *GPIOBoard) Get(id line.ID) bool {
	cp, ok := b.lines[id]
	if !ok {
		b.setErr(fmt.Errorf("%w: %d", ErrUnknownLine, id))
		return false
	}

	return bool(cp.pin.Read()) != cp.activeLow
}

func (b *GPIOBoard) Wait(d time.Duration) {
	b.waiter.Wait(d)
}

func (b *GPIOBoard) SetAddress(addr uint16) {
	for i, p := range b.address {
		b.setErr(p.Out(gpio.Level(addr&(1<<i) != 0)))
	}
}

func (b *GPIOBoard) SetData(v byte) {
	b.latch = v
	if b.dataOut {
		b.outData()
	}
}

func (b *GPIOBoard) outData() {
	for i, p := range b.data {
		b.setErr(p.Out(gpio.Level(b.latch&(1<<i) != 0)))
	}
}

func (b *GPIOBoard) Data() byte {
	var v byte
	for i, p := range b.data {
		if p.Read() {
			v |= 1 << i
		}
	}

	return v
}

func (b *GPIOBoard) DriveData(out bool) {
	b.dataOut = out
	if out {
		b.outData()
		return
	}
	for _, p := range b.data {
		b.setErr(p.In(gpio.Float, gpio.NoEdge))
	}
}

func (b *GPIOBoard) Err() error { return b.err }

func (b *GPIOBoard) ClearErr() { b.err = nil }

func (b *GPIOBoard) setErr(err error) {
	if err != nil && b.err == nil {
		b.err = err
	}
}
