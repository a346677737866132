package protocol

import (
	"context"
	"fmt"
	"time"

	"github.com/arloliu/go-hveprom/line"
)

// Frame sync defaults.
const (
	DefaultSyncAttempts = 100
	DefaultSyncDelay    = time.Millisecond
)

// Transport is the byte link to the host.
type Transport interface {
	// TryReadByte returns the next byte if one is available without blocking.
	TryReadByte() (byte, bool, error)
	// ReadByte blocks until a byte arrives, the transport fails, or ctx is done.
	ReadByte(ctx context.Context) (byte, error)
	// Write sends p in full.
	Write(p []byte) error
}

// ReadFull reads exactly len(buf) bytes from t.
func ReadFull(ctx context.Context, t Transport, buf []byte) error {
	for i := range buf {
		b, err := t.ReadByte(ctx)
		if err != nil {
			return err
		}
		buf[i] = b
	}

	return nil
}

// FrameReader extracts command frames from a Transport.
//
// FrameReader is not goroutine-safe.
type FrameReader struct {
	t        Transport
	wait     line.Waiter
	attempts int
	delay    time.Duration
}

// NewFrameReader creates a reader polling for the complement byte up to
// attempts times, waiting delay on w between polls.
func NewFrameReader(t Transport, w line.Waiter, attempts int, delay time.Duration) *FrameReader {
	return &FrameReader{t: t, wait: w, attempts: attempts, delay: delay}
}

// Next returns the next well-framed command opcode.
//
// It returns ErrNoFrame when no byte is waiting, and one of ErrSyncTimeout,
// ErrComplementMismatch or ErrUnknownOpcode when a frame was dropped.
func (r *FrameReader) Next() (Opcode, error) {
	o, ok, err := r.t.TryReadByte()
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrNoFrame
	}

	c, err := r.complement()
	if err != nil {
		return 0, fmt.Errorf("%w: opcode 0x%02X", err, o)
	}
	if !Framed(o, c) {
		return 0, fmt.Errorf("%w: 0x%02X 0x%02X", ErrComplementMismatch, o, c)
	}

	op := Opcode(o)
	if !op.Valid() {
		return 0, fmt.Errorf("%w: 0x%02X", ErrUnknownOpcode, o)
	}

	return op, nil
}

func (r *FrameReader) complement() (byte, error) {
	for i := 0; i < r.attempts; i++ {
		c, ok, err := r.t.TryReadByte()
		if err != nil {
			return 0, err
		}
		if ok {
			return c, nil
		}
		r.wait.Wait(r.delay)
	}

	return 0, ErrSyncTimeout
}
