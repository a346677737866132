package programmer

import (
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/arloliu/go-hveprom/protocol"
)

// Metrics contains atomic counters of a Programmer.
// They can be read from another goroutine while Run is active, e.g. by a
// prometheus CounterFunc.
type Metrics struct {
	// FrameCount is the number of well-framed commands received.
	FrameCount atomic.Uint64
	// FramingErrCount is the number of dropped frames.
	FramingErrCount atomic.Uint64
	// ChunkCount is the number of chunks transferred.
	ChunkCount atomic.Uint64
	// PulseCount is the number of program pulses issued.
	PulseCount atomic.Uint64
	// VerifyMissCount is the number of read-backs that did not match.
	VerifyMissCount atomic.Uint64
	// MaxRetriesCount is the number of chunks aborted with MAX_RETRIES.
	MaxRetriesCount atomic.Uint64
	// BoardErrCount is the number of hardware errors reported by the board.
	BoardErrCount atomic.Uint64

	commands *xsync.MapOf[protocol.Opcode, *atomic.Uint64]
}

func newMetrics() *Metrics {
	return &Metrics{commands: xsync.NewMapOf[protocol.Opcode, *atomic.Uint64]()}
}

// CommandCount returns how many times op was dispatched.
func (m *Metrics) CommandCount(op protocol.Opcode) uint64 {
	if c, ok := m.commands.Load(op); ok {
		return c.Load()
	}

	return 0
}

// Commands returns a snapshot of the per-opcode dispatch counts.
func (m *Metrics) Commands() map[protocol.Opcode]uint64 {
	out := make(map[protocol.Opcode]uint64, m.commands.Size())
	m.commands.Range(func(op protocol.Opcode, c *atomic.Uint64) bool {
		out[op] = c.Load()
		return true
	})

	return out
}

// Pulse implements engine.Observer.
func (m *Metrics) Pulse() { m.PulseCount.Add(1) }

// VerifyMiss implements engine.Observer.
func (m *Metrics) VerifyMiss() { m.VerifyMissCount.Add(1) }

func (m *Metrics) incCommand(op protocol.Opcode) {
	c, _ := m.commands.LoadOrCompute(op, func() *atomic.Uint64 { return new(atomic.Uint64) })
	c.Add(1)
}

func (m *Metrics) incFrameCount()      { m.FrameCount.Add(1) }
func (m *Metrics) incFramingErrCount() { m.FramingErrCount.Add(1) }
func (m *Metrics) incChunkCount()      { m.ChunkCount.Add(1) }
func (m *Metrics) incMaxRetriesCount() { m.MaxRetriesCount.Add(1) }
func (m *Metrics) incBoardErrCount()   { m.BoardErrCount.Add(1) }
