// Package sim provides a simulated programming board and EPROM for tests.
//
// The board runs on a virtual clock: Wait advances time without sleeping, so
// tests covering 50 ms pulses and 300 ms discharge windows run instantly and
// can assert exact pulse widths.
package sim

import (
	"fmt"
	"time"

	"github.com/arloliu/go-hveprom/line"
)

// Target is a device plugged into the simulated socket.
type Target interface {
	// LineChanged is called after a control line changed state.
	LineChanged(b *Board, id line.ID, asserted bool)
	// Output returns the value the target drives onto the data bus, if any.
	Output(b *Board) (byte, bool)
}

// Event is one recorded board change.
type Event struct {
	At       time.Duration
	Line     line.ID
	Asserted bool
}

// Pulse is one completed assertion of a line.
type Pulse struct {
	Start time.Duration
	Width time.Duration
}

// Board is an in-memory hw.Board.
type Board struct {
	now      time.Duration
	lines    map[line.ID]bool
	since    map[line.ID]time.Duration
	pulses   map[line.ID][]Pulse
	events   []Event
	guards   [][2]line.ID
	faults   []string
	addr     uint16
	data     byte
	driving  bool
	floating byte
	target   Target
	failWith error
	err      error
}

// NewBoard creates a board with every line de-asserted and the data bus
// floating high.
func NewBoard() *Board {
	return &Board{
		lines:    make(map[line.ID]bool),
		since:    make(map[line.ID]time.Duration),
		pulses:   make(map[line.ID][]Pulse),
		floating: 0xFF,
	}
}

// Plug inserts t into the socket.
func (b *Board) Plug(t Target) { b.target = t }

// Guard records a fault whenever x and y are asserted at the same time.
func (b *Board) Guard(x, y line.ID) { b.guards = append(b.guards, [2]line.ID{x, y}) }

// SetInput drives an input line from the outside, e.g. a switch sense line.
func (b *Board) SetInput(id line.ID, asserted bool) { b.lines[id] = asserted }

// FailWith makes every following line change record err as a hardware error.
func (b *Board) FailWith(err error) { b.failWith = err }

func (b *Board) Set(id line.ID, asserted bool) {
	if b.failWith != nil && b.err == nil {
		b.err = b.failWith
	}
	prev := b.lines[id]
	if prev == asserted {
		return
	}
	b.lines[id] = asserted
	b.events = append(b.events, Event{At: b.now, Line: id, Asserted: asserted})
	if asserted {
		b.since[id] = b.now
	} else {
		start := b.since[id]
		b.pulses[id] = append(b.pulses[id], Pulse{Start: start, Width: b.now - start})
	}

	for _, g := range b.guards {
		if b.lines[g[0]] && b.lines[g[1]] {
			b.fault("lines %d and %d asserted together at %v", g[0], g[1], b.now)
		}
	}
	if b.target != nil {
		b.target.LineChanged(b, id, asserted)
	}
	b.checkContention()
}

func (b *Board) Get(id line.ID) bool { return b.lines[id] }

func (b *Board) Wait(d time.Duration) {
	if d > 0 {
		b.now += d
	}
}

func (b *Board) SetAddress(addr uint16) { b.addr = addr }

func (b *Board) SetData(v byte) { b.data = v }

func (b *Board) Data() byte {
	if b.driving {
		return b.data
	}
	if b.target != nil {
		if v, ok := b.target.Output(b); ok {
			return v
		}
	}

	return b.floating
}

func (b *Board) DriveData(out bool) {
	b.driving = out
	b.checkContention()
}

func (b *Board) Err() error { return b.err }

func (b *Board) ClearErr() {
	b.err = nil
	b.failWith = nil
}

// Now returns the virtual time.
func (b *Board) Now() time.Duration { return b.now }

// Address returns the value on the address lines.
func (b *Board) Address() uint16 { return b.addr }

// Driving reports whether the board drives the data bus.
func (b *Board) Driving() bool { return b.driving }

// Bus returns the value the board drives onto the data bus.
func (b *Board) Bus() byte { return b.data }

// Asserted reports whether every id is asserted.
func (b *Board) Asserted(ids ...line.ID) bool {
	for _, id := range ids {
		if !b.lines[id] {
			return false
		}
	}

	return true
}

// Pulses returns the completed assertions of id.
func (b *Board) Pulses(id line.ID) []Pulse { return b.pulses[id] }

// Events returns every recorded line change.
func (b *Board) Events() []Event { return b.events }

// Faults returns the recorded guard and bus contention faults.
func (b *Board) Faults() []string { return b.faults }

// AnyAsserted returns the asserted lines among ids.
func (b *Board) AnyAsserted(ids ...line.ID) []line.ID {
	var on []line.ID
	for _, id := range ids {
		if b.lines[id] {
			on = append(on, id)
		}
	}

	return on
}

func (b *Board) checkContention() {
	if !b.driving || b.target == nil {
		return
	}
	if _, ok := b.target.Output(b); ok {
		b.fault("data bus contention at %v", b.now)
	}
}

func (b *Board) fault(format string, args ...any) {
	b.faults = append(b.faults, fmt.Sprintf(format, args...))
}
