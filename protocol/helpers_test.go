package protocol

import (
	"context"
	"time"
)

// memTransport is an in-memory Transport. A non-zero gap makes the first gap
// polls of every byte come back empty.
type memTransport struct {
	in      []byte
	out     []byte
	gap     int
	pending int
}

func newMemTransport(in ...byte) *memTransport { return &memTransport{in: in} }

func (m *memTransport) TryReadByte() (byte, bool, error) {
	if len(m.in) == 0 {
		return 0, false, nil
	}
	if m.pending < m.gap {
		m.pending++
		return 0, false, nil
	}
	m.pending = 0
	b := m.in[0]
	m.in = m.in[1:]

	return b, true, nil
}

func (m *memTransport) ReadByte(ctx context.Context) (byte, error) {
	if len(m.in) == 0 {
		return 0, ErrTransportClosed
	}
	b := m.in[0]
	m.in = m.in[1:]

	return b, nil
}

func (m *memTransport) Write(p []byte) error {
	m.out = append(m.out, p...)
	return nil
}

type countingWaiter struct {
	calls int
	total time.Duration
}

func (w *countingWaiter) Wait(d time.Duration) {
	w.calls++
	w.total += d
}
