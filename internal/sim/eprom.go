package sim

import (
	"slices"

	"github.com/arloliu/go-hveprom/line"
)

// EPROM models a UV-erasable part in the simulated socket.
//
// A program pulse is a rising edge of the pulse line while the part is armed.
// Each cell needs a configurable number of pulses before the driven value
// takes; programming only moves bits away from the blank value.
type EPROM struct {
	mem      []byte
	blank    byte
	pulse    line.ID
	latch    line.ID
	latched  uint16
	armed    func(b *Board) bool
	enabled  func(b *Board) bool
	needed   int
	stubborn map[uint16]int
	counts   map[uint16]int
	total    int
	rom      bool
}

// EPROMOption configures an EPROM.
type EPROMOption func(*EPROM)

// WithPulseLine sets the line whose rising edge programs the addressed cell.
func WithPulseLine(id line.ID) EPROMOption {
	return func(e *EPROM) { e.pulse = id }
}

// WithArmed sets the condition under which a pulse programs.
func WithArmed(f func(b *Board) bool) EPROMOption {
	return func(e *EPROM) { e.armed = f }
}

// WithOutputEnable sets the condition under which the part drives the data bus.
func WithOutputEnable(f func(b *Board) bool) EPROMOption {
	return func(e *EPROM) { e.enabled = f }
}

// WithLatch makes the part latch its address when id is released. The low
// byte comes from the data bus, the rest from the address lines.
func WithLatch(id line.ID) EPROMOption {
	return func(e *EPROM) { e.latch = id }
}

// WithPulsesNeeded sets how many pulses every cell needs.
func WithPulsesNeeded(n int) EPROMOption {
	return func(e *EPROM) { e.needed = n }
}

// AsROM makes the part ignore program pulses.
func AsROM() EPROMOption {
	return func(e *EPROM) { e.rom = true }
}

// NewEPROM creates a blank part of size bytes.
func NewEPROM(size int, blank byte, opts ...EPROMOption) *EPROM {
	e := &EPROM{
		mem:      make([]byte, size),
		blank:    blank,
		pulse:    line.None,
		latch:    line.None,
		needed:   1,
		stubborn: make(map[uint16]int),
		counts:   make(map[uint16]int),
		armed:    func(*Board) bool { return true },
		enabled:  func(*Board) bool { return false },
	}
	for i := range e.mem {
		e.mem[i] = blank
	}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Memory returns a copy of the cell contents.
func (e *EPROM) Memory() []byte { return slices.Clone(e.mem) }

// Load overwrites the contents starting at cell 0.
func (e *EPROM) Load(data []byte) { copy(e.mem, data) }

// Set overwrites one cell.
func (e *EPROM) Set(addr uint16, v byte) { e.mem[int(addr)%len(e.mem)] = v }

// NeedPulses overrides the pulse count of one cell. A negative n makes the
// cell impossible to program.
func (e *EPROM) NeedPulses(addr uint16, n int) { e.stubborn[addr] = n }

// PulseCount returns the effective pulses applied to addr.
func (e *EPROM) PulseCount(addr uint16) int { return e.counts[addr] }

// TotalPulses returns every effective pulse applied to the part.
func (e *EPROM) TotalPulses() int { return e.total }

func (e *EPROM) LineChanged(b *Board, id line.ID, asserted bool) {
	if id == e.latch && !asserted {
		e.latched = b.Address()&^0xFF | uint16(b.Bus())
	}
	if id != e.pulse || !asserted || e.rom || !e.armed(b) || !b.Driving() {
		return
	}

	addr := e.address(b)
	e.counts[addr]++
	e.total++

	need := e.needed
	if n, ok := e.stubborn[addr]; ok {
		need = n
	}
	if need < 0 || e.counts[addr] < need {
		return
	}
	if e.blank == 0xFF {
		e.mem[addr] &= b.Bus()
	} else {
		e.mem[addr] |= b.Bus()
	}
}

func (e *EPROM) Output(b *Board) (byte, bool) {
	if !e.enabled(b) {
		return 0, false
	}

	return e.mem[e.address(b)], true
}

func (e *EPROM) address(b *Board) uint16 {
	a := b.Address()
	if e.latch != line.None {
		a = e.latched
	}

	return a % uint16(len(e.mem))
}
