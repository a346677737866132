package line

import "time"

// Level is the logical voltage state of a Pair.
type Level uint8

const (
	// High is the released state: neither driver asserted, the node sits at its normal rail.
	High Level = iota
	// Low asserts the low driver.
	Low
	// Program asserts the program driver.
	Program
)

func (l Level) String() string {
	switch l {
	case High:
		return "HIGH"
	case Low:
		return "LOW"
	case Program:
		return "PROGRAM"
	default:
		return "UNKNOWN"
	}
}

// Pair is the 3-state voltage machine for two drivers sharing one node.
//
// Transitions:
//
//	HIGH -> LOW      assert low
//	LOW  -> PROGRAM  release low, wait dead time, assert program
//	PROGRAM -> HIGH  release program
//	HIGH -> PROGRAM  assert program
//	PROGRAM -> LOW   release program, wait dead time, assert low
//	LOW  -> HIGH     release low
//
// A Pair is not safe for concurrent use.
type Pair struct {
	name     string
	lines    Lines
	wait     Waiter
	low      ID
	program  ID
	deadTime time.Duration
	level    Level
}

// NewPair creates a Pair and drives it to High, releasing both drivers.
//
// low may be None for nodes that only have a program driver.
// deadTime is waited between releasing one driver and asserting the other,
// and after releasing the program driver so the node can discharge.
func NewPair(name string, lines Lines, wait Waiter, low, program ID, deadTime time.Duration) *Pair {
	if program == None {
		panic("line: pair " + name + " requires a program driver")
	}
	p := &Pair{
		name:     name,
		lines:    lines,
		wait:     wait,
		low:      low,
		program:  program,
		deadTime: deadTime,
	}
	p.release()

	return p
}

// Name returns the pair name.
func (p *Pair) Name() string { return p.name }

// Level returns the current state.
func (p *Pair) Level() Level { return p.level }

// Drivers returns the low and program driver IDs.
func (p *Pair) Drivers() (low, program ID) { return p.low, p.program }

// Set moves the pair to target. Setting the current level is a no-op.
//
// Set panics when target is Low and the pair has no low driver.
func (p *Pair) Set(target Level) {
	if target == p.level {
		return
	}
	if target == Low && p.low == None {
		panic("line: pair " + p.name + " has no low driver")
	}

	switch p.level {
	case Low:
		p.lines.Set(p.low, false)
		if target == Program {
			p.pause()
		}
	case Program:
		p.lines.Set(p.program, false)
		p.pause()
	}

	switch target {
	case Low:
		p.lines.Set(p.low, true)
	case Program:
		p.lines.Set(p.program, true)
	}
	p.level = target
}

// Release drives both lines to their de-asserted state regardless of the
// recorded level, then waits the dead time. It is always safe to call.
func (p *Pair) Release() {
	p.release()
	p.pause()
}

func (p *Pair) release() {
	p.lines.Set(p.program, false)
	if p.low != None {
		p.lines.Set(p.low, false)
	}
	p.level = High
}

func (p *Pair) pause() {
	if p.deadTime > 0 {
		p.wait.Wait(p.deadTime)
	}
}
