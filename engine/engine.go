// Package engine implements the chunked write-verify-retry, read and blank-check
// algorithms on top of a family driver.
package engine

import (
	"errors"
	"fmt"

	"github.com/arloliu/go-hveprom/family"
	"github.com/arloliu/go-hveprom/logger"
)

var (
	// ErrMaxRetries indicates a byte did not verify within the retry bound.
	ErrMaxRetries = errors.New("engine: max retries exceeded")
	// ErrWrongMode indicates a chunk operation that does not match the session mode.
	ErrWrongMode = errors.New("engine: wrong session mode")
	// ErrChunkLength indicates chunk data of a length other than Session.NextChunk.
	ErrChunkLength = errors.New("engine: invalid chunk length")
	// ErrSessionComplete indicates a chunk operation on a completed session.
	ErrSessionComplete = errors.New("engine: session already complete")
)

// Observer receives engine events, used for metrics.
type Observer interface {
	Pulse()
	VerifyMiss()
}

// Finding is the first non-blank cell found by BlankCheck.
type Finding struct {
	Offset uint16
	Value  byte
}

// Engine runs session operations on a driver.
type Engine struct {
	drv    family.Driver
	logger logger.Logger
	obs    Observer
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithObserver sets the observer notified of pulses and verify misses.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.obs = o }
}

// New creates an engine driving drv.
func New(drv family.Driver, opts ...Option) *Engine {
	e := &Engine{drv: drv, logger: logger.GetLogger()}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Driver returns the driver the engine runs on.
func (e *Engine) Driver() family.Driver { return e.drv }

// WriteChunk programs data at the session cursor.
//
// Each byte gets up to MaxRetries pulses when inline verify is on, with
// ExtraWrites confirmation pulses after the first matching read, or a single
// trusted pulse otherwise. If a byte never verifies, WriteChunk stops and
// returns an error wrapping ErrMaxRetries; bytes before it stay written and the
// cursor is not moved, so the host can resend the chunk.
func (e *Engine) WriteChunk(s *Session, data []byte) error {
	if err := e.check(s, ModeWrite); err != nil {
		return err
	}
	if len(data) != s.NextChunk() {
		return fmt.Errorf("%w: got %d, want %d", ErrChunkLength, len(data), s.NextChunk())
	}

	maxPerByte := s.MaxPerByte
	total := s.TotalAttempts
	for i, v := range data {
		addr := uint16(s.Cursor + i)
		attempts, ok := e.writeByte(s, addr, v)
		total += uint32(attempts)
		if !ok {
			s.TotalAttempts = total
			e.logger.Debug("byte did not verify", "offset", addr, "attempts", attempts)
			return fmt.Errorf("%w: offset 0x%04X after %d attempts", ErrMaxRetries, addr, attempts)
		}
		maxPerByte = max(maxPerByte, attempts)
	}

	s.MaxPerByte = maxPerByte
	s.TotalAttempts = total
	s.Cursor += len(data)
	e.logger.Debug("write chunk", "device", s.Device.Name, "cursor", s.Cursor, "max_per_byte", s.MaxPerByte)

	return nil
}

// writeByte applies the pulse loop to one byte and returns the pulses issued.
func (e *Engine) writeByte(s *Session, addr uint16, v byte) (int, bool) {
	verify := s.InlineVerify()
	stop := 1
	if verify {
		stop = s.MaxRetries
	}

	attempts := 0
	verified := false
	for attempt := 1; attempt <= stop; attempt++ {
		e.drv.ProgramByte(addr, v)
		attempts++
		e.pulse()

		switch {
		case !verify:
			verified = true
		case verified:
			// confirmation pulse
		case e.drv.ReadByte(addr) == v:
			verified = true
			stop = attempt + s.ExtraWrites
		default:
			e.verifyMiss()
		}
	}

	return attempts, verified
}

// ReadChunk reads the next chunk at the session cursor.
func (e *Engine) ReadChunk(s *Session) ([]byte, error) {
	if err := e.check(s, ModeRead); err != nil {
		return nil, err
	}

	buf := make([]byte, s.NextChunk())
	for i := range buf {
		buf[i] = e.drv.ReadByte(uint16(s.Cursor + i))
	}
	s.Cursor += len(buf)
	e.logger.Debug("read chunk", "device", s.Device.Name, "cursor", s.Cursor)

	return buf, nil
}

// BlankCheck scans the device from offset 0 and stops at the first cell that
// differs from the blank value. ok is false when the whole device is blank.
func (e *Engine) BlankCheck(s *Session) (Finding, bool, error) {
	if s.Mode != ModeBlankCheck {
		return Finding{}, false, fmt.Errorf("%w: %s session", ErrWrongMode, s.Mode)
	}

	for off := 0; off < s.Device.Size; off++ {
		v := e.drv.ReadByte(uint16(off))
		if v != s.Device.Blank {
			e.logger.Debug("not blank", "device", s.Device.Name, "offset", off, "value", v)
			return Finding{Offset: uint16(off), Value: v}, true, nil
		}
	}
	s.Cursor = s.Device.Size

	return Finding{}, false, nil
}

func (e *Engine) check(s *Session, mode Mode) error {
	if s.Mode != mode {
		return fmt.Errorf("%w: %s session", ErrWrongMode, s.Mode)
	}
	if s.Complete() {
		return ErrSessionComplete
	}

	return nil
}

func (e *Engine) pulse() {
	if e.obs != nil {
		e.obs.Pulse()
	}
}

func (e *Engine) verifyMiss() {
	if e.obs != nil {
		e.obs.VerifyMiss()
	}
}
