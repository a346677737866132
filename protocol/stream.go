package protocol

import (
	"bufio"
	"context"
	"io"
	"sync"
)

const streamBufferSize = 256

// StreamTransport adapts an io.ReadWriter, such as a serial port or a
// net.Conn, to a Transport.
//
// A background goroutine reads rw into a buffer so TryReadByte never blocks.
// Reads and writes may be used from different goroutines; concurrent reads are
// not supported.
type StreamTransport struct {
	rw    io.ReadWriter
	w     *bufio.Writer
	bytes chan byte

	mu      sync.Mutex
	readErr error
	done    chan struct{}
	closed  sync.Once
}

// NewStreamTransport starts reading from rw.
func NewStreamTransport(rw io.ReadWriter) *StreamTransport {
	st := &StreamTransport{
		rw:    rw,
		w:     bufio.NewWriter(rw),
		bytes: make(chan byte, streamBufferSize),
		done:  make(chan struct{}),
	}
	go st.readLoop()

	return st
}

func (st *StreamTransport) readLoop() {
	buf := make([]byte, 64)
	for {
		n, err := st.rw.Read(buf)
		for _, b := range buf[:n] {
			select {
			case st.bytes <- b:
			case <-st.done:
				return
			}
		}
		if err != nil {
			st.mu.Lock()
			st.readErr = err
			st.mu.Unlock()
			close(st.bytes)

			return
		}
	}
}

func (st *StreamTransport) TryReadByte() (byte, bool, error) {
	select {
	case b, ok := <-st.bytes:
		if !ok {
			return 0, false, st.err()
		}
		return b, true, nil
	default:
		return 0, false, nil
	}
}

func (st *StreamTransport) ReadByte(ctx context.Context) (byte, error) {
	select {
	case b, ok := <-st.bytes:
		if !ok {
			return 0, st.err()
		}
		return b, nil
	case <-st.done:
		return 0, ErrTransportClosed
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

func (st *StreamTransport) Write(p []byte) error {
	if _, err := st.w.Write(p); err != nil {
		return err
	}

	return st.w.Flush()
}

// Close stops the reader and closes the underlying stream if it is an io.Closer.
func (st *StreamTransport) Close() error {
	var err error
	st.closed.Do(func() {
		close(st.done)
		if c, ok := st.rw.(io.Closer); ok {
			err = c.Close()
		}
	})

	return err
}

func (st *StreamTransport) err() error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.readErr == io.EOF {
		return ErrTransportClosed
	}

	return st.readErr
}
