package programmer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/physic"

	"github.com/arloliu/go-hveprom/family"
	"github.com/arloliu/go-hveprom/internal/sim"
	"github.com/arloliu/go-hveprom/protocol"
)

// hostLink is a scripted host. Bytes queued with send are consumed by the
// programmer; everything the programmer writes is collected in out.
type hostLink struct {
	in  []byte
	out []byte
}

func (h *hostLink) send(p ...byte) { h.in = append(h.in, p...) }

func (h *hostLink) command(op protocol.Opcode, payload ...byte) {
	h.send(protocol.Frame(op)...)
	h.send(payload...)
}

// take returns and forgets the collected output.
func (h *hostLink) take() []byte {
	out := h.out
	h.out = nil

	return out
}

func (h *hostLink) TryReadByte() (byte, bool, error) {
	if len(h.in) == 0 {
		return 0, false, nil
	}
	b := h.in[0]
	h.in = h.in[1:]

	return b, true, nil
}

func (h *hostLink) ReadByte(context.Context) (byte, error) {
	b, ok, _ := h.TryReadByte()
	if !ok {
		return 0, protocol.ErrTransportClosed
	}

	return b, nil
}

func (h *hostLink) Write(p []byte) error {
	h.out = append(h.out, p...)
	return nil
}

type fixedSupply physic.ElectricPotential

func (s fixedSupply) ReadSupply() (physic.ElectricPotential, error) {
	return physic.ElectricPotential(s), nil
}

type rig struct {
	p     *Programmer
	board *sim.Board
	eprom *sim.EPROM
	host  *hostLink
}

// newRig builds a programmer for the shield of dev's family with a blank dev
// in the socket.
func newRig(t *testing.T, code family.Code, opts ...Option) *rig {
	t.Helper()

	dev, ok := family.Lookup(code)
	require.True(t, ok)
	board, eprom := sim.NewSocket(dev)
	host := &hostLink{}

	p, err := New(board, dev.Family, host, opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.Empty(t, board.Faults())
	})

	return &rig{p: p, board: board, eprom: eprom, host: host}
}

// drain dispatches commands until the host has nothing left to send.
func (r *rig) drain(t *testing.T) []byte {
	t.Helper()

	ctx := context.Background()
	for len(r.host.in) > 0 {
		op, ok, err := r.p.NextCommand(ctx)
		require.NoError(t, err)
		if ok {
			require.NoError(t, r.p.Dispatch(ctx, op))
		}
	}

	return r.host.take()
}

func resp(op protocol.Opcode, st protocol.Status, payload ...byte) []byte {
	return append([]byte{byte(op), byte(st)}, payload...)
}
