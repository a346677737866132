package protocol

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPipeTransport(t *testing.T) (*StreamTransport, net.Conn) {
	t.Helper()

	local, remote := net.Pipe()
	st := NewStreamTransport(local)
	t.Cleanup(func() {
		_ = st.Close()
		_ = remote.Close()
	})

	return st, remote
}

func TestStreamTransport_ReadByte(t *testing.T) {
	st, remote := newPipeTransport(t)

	go func() {
		_, _ = remote.Write([]byte{0x10, 0xEF, 0x02})
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	buf := make([]byte, 3)
	require.NoError(t, ReadFull(ctx, st, buf))
	assert.Equal(t, []byte{0x10, 0xEF, 0x02}, buf)
}

func TestStreamTransport_TryReadByte(t *testing.T) {
	st, remote := newPipeTransport(t)

	_, ok, err := st.TryReadByte()
	require.NoError(t, err)
	require.False(t, ok)

	go func() {
		_, _ = remote.Write([]byte{0xA5})
	}()

	require.Eventually(t, func() bool {
		b, ok, err := st.TryReadByte()
		return err == nil && ok && b == 0xA5
	}, 2*time.Second, time.Millisecond)
}

func TestStreamTransport_Write(t *testing.T) {
	st, remote := newPipeTransport(t)

	done := make(chan []byte)
	go func() {
		buf := make([]byte, 4)
		_, _ = io.ReadFull(remote, buf)
		done <- buf
	}()

	require.NoError(t, st.Write(NewResponse(OpMeasureSupply, StatusOK).Uint16(1220).Encode()))

	select {
	case got := <-done:
		assert.Equal(t, []byte{0x17, 0x00, 0x04, 0xC4}, got)
	case <-time.After(2 * time.Second):
		t.Fatal("response not received")
	}
}

func TestStreamTransport_ContextCancel(t *testing.T) {
	st, _ := newPipeTransport(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := st.ReadByte(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestStreamTransport_RemoteClosed(t *testing.T) {
	st, remote := newPipeTransport(t)
	require.NoError(t, remote.Close())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := st.ReadByte(ctx)
	require.ErrorIs(t, err, ErrTransportClosed)
}

func TestStreamTransport_Close(t *testing.T) {
	st, _ := newPipeTransport(t)
	require.NoError(t, st.Close())
	require.NoError(t, st.Close())

	_, err := st.ReadByte(context.Background())
	require.Error(t, err)
}
