package line

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testLow  ID = 1
	testProg ID = 2
)

type setEvent struct {
	id       ID
	asserted bool
	at       time.Duration
}

// fakeLines records every line change and flags any instant where both
// drivers of the pair are asserted.
type fakeLines struct {
	state      map[ID]bool
	events     []setEvent
	now        time.Duration
	violations int
}

func newFakeLines() *fakeLines {
	return &fakeLines{state: map[ID]bool{}}
}

func (f *fakeLines) Set(id ID, asserted bool) {
	f.state[id] = asserted
	f.events = append(f.events, setEvent{id: id, asserted: asserted, at: f.now})
	if f.state[testLow] && f.state[testProg] {
		f.violations++
	}
}

func (f *fakeLines) Get(id ID) bool { return f.state[id] }

func (f *fakeLines) Wait(d time.Duration) { f.now += d }

func TestNewPair_ReleasesBothDrivers(t *testing.T) {
	f := newFakeLines()
	f.state[testLow] = true

	p := NewPair("vgg", f, f, testLow, testProg, time.Millisecond)

	assert.Equal(t, High, p.Level())
	assert.False(t, f.Get(testLow))
	assert.False(t, f.Get(testProg))
	assert.Equal(t, "vgg", p.Name())
}

func TestNewPair_RequiresProgramDriver(t *testing.T) {
	f := newFakeLines()
	assert.Panics(t, func() { NewPair("bad", f, f, testLow, None, 0) })
}

func TestPair_Transitions(t *testing.T) {
	tests := []struct {
		from, to Level
		low      bool
		prog     bool
	}{
		{High, Low, true, false},
		{Low, Program, false, true},
		{Program, High, false, false},
		{High, Program, false, true},
		{Program, Low, true, false},
		{Low, High, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			f := newFakeLines()
			p := NewPair("p", f, f, testLow, testProg, time.Millisecond)
			p.Set(tt.from)
			p.Set(tt.to)

			assert.Equal(t, tt.to, p.Level())
			assert.Equal(t, tt.low, f.Get(testLow))
			assert.Equal(t, tt.prog, f.Get(testProg))
			assert.Zero(t, f.violations)
		})
	}
}

func TestPair_SelfTransitionIsNoop(t *testing.T) {
	f := newFakeLines()
	p := NewPair("p", f, f, testLow, testProg, time.Millisecond)
	p.Set(Program)
	n := len(f.events)

	p.Set(Program)
	assert.Len(t, f.events, n)
}

func TestPair_DeadTimeBeforeAssert(t *testing.T) {
	f := newFakeLines()
	p := NewPair("p", f, f, testLow, testProg, 5*time.Millisecond)
	p.Set(Low)
	f.events = nil

	p.Set(Program)

	require.Len(t, f.events, 2)
	assert.Equal(t, setEvent{id: testLow, asserted: false, at: 0}, f.events[0])
	assert.Equal(t, testProg, f.events[1].id)
	assert.True(t, f.events[1].asserted)
	assert.Equal(t, 5*time.Millisecond, f.events[1].at, "program asserted only after the dead time")
}

func TestPair_NoLowDriver(t *testing.T) {
	f := newFakeLines()
	p := NewPair("ea", f, f, None, testProg, 0)

	p.Set(Program)
	assert.True(t, f.Get(testProg))
	p.Set(High)
	assert.False(t, f.Get(testProg))

	assert.Panics(t, func() { p.Set(Low) })
}

func TestPair_ReleaseFromAnyState(t *testing.T) {
	for _, lv := range []Level{High, Low, Program} {
		f := newFakeLines()
		p := NewPair("p", f, f, testLow, testProg, time.Millisecond)
		p.Set(lv)

		p.Release()
		assert.Equal(t, High, p.Level())
		assert.False(t, f.Get(testLow))
		assert.False(t, f.Get(testProg))
		assert.Zero(t, f.violations)
	}
}

// Every sequence of up to six transitions keeps the two drivers mutually exclusive.
func TestPair_NeverAssertsBothDrivers(t *testing.T) {
	levels := []Level{High, Low, Program}
	const depth = 6

	var walk func(path []Level)
	walk = func(path []Level) {
		if len(path) == depth {
			return
		}
		for _, lv := range levels {
			// Replay the path on a fresh pair so each branch starts from a known trace.
			f := newFakeLines()
			p := NewPair("p", f, f, testLow, testProg, time.Millisecond)
			for _, step := range path {
				p.Set(step)
			}
			p.Set(lv)

			require.Zero(t, f.violations, "path %v -> %v", path, lv)
			require.Equal(t, lv, p.Level())
			walk(append(append([]Level{}, path...), lv))
		}
	}
	walk(nil)
}

func TestLevel_String(t *testing.T) {
	assert.Equal(t, "HIGH", High.String())
	assert.Equal(t, "LOW", Low.String())
	assert.Equal(t, "PROGRAM", Program.String())
	assert.Equal(t, "UNKNOWN", Level(9).String())
}
