package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-hveprom/family"
	"github.com/arloliu/go-hveprom/internal/sim"
)

type countingObserver struct {
	pulses int
	misses int
}

func (o *countingObserver) Pulse()      { o.pulses++ }
func (o *countingObserver) VerifyMiss() { o.misses++ }

func newTestEngine(t *testing.T, code family.Code, opts ...sim.EPROMOption) (*Engine, *sim.Board, *sim.EPROM, *countingObserver) {
	t.Helper()

	dev, ok := family.Lookup(code)
	require.True(t, ok)
	board, eprom := sim.NewSocket(dev, opts...)
	drv, err := family.NewDriver(dev.Family, board)
	require.NoError(t, err)
	drv.Init()
	drv.Select(dev)

	obs := &countingObserver{}
	t.Cleanup(func() {
		assert.Empty(t, board.Faults())
	})

	return New(drv, WithObserver(obs)), board, eprom, obs
}

func device(t *testing.T, code family.Code) *family.Device {
	t.Helper()
	dev, ok := family.Lookup(code)
	require.True(t, ok)

	return dev
}

func TestWriteChunk_VerifyEscalation(t *testing.T) {
	require := require.New(t)

	e, _, eprom, obs := newTestEngine(t, family.Code2708)
	eprom.NeedPulses(0, 3)

	s := NewWriteSession(device(t, family.Code2708), true, 2)
	s.ChunkSize = 2

	err := e.WriteChunk(s, []byte{0xAA, 0x55})
	require.NoError(err)
	require.Equal(2, s.Cursor)
	require.Equal(5, s.MaxPerByte)
	require.Equal(uint32(8), s.TotalAttempts)
	require.Equal(5, eprom.PulseCount(0))
	require.Equal(3, eprom.PulseCount(1))
	require.Equal(8, obs.pulses)
	require.Equal(2, obs.misses)

	mem := eprom.Memory()
	require.Equal(byte(0xAA), mem[0])
	require.Equal(byte(0x55), mem[1])
}

func TestWriteChunk_ExtraBoundedByMatchAttempt(t *testing.T) {
	for _, k := range []int{1, 2, 7, 40} {
		e, _, eprom, _ := newTestEngine(t, family.Code2704)
		eprom.NeedPulses(0, k)

		s := NewWriteSession(device(t, family.Code2704), true, 3)
		s.ChunkSize = 1
		require.NoError(t, e.WriteChunk(s, []byte{0x00}))
		assert.Equal(t, k+3, eprom.PulseCount(0), "match on attempt %d", k)
		assert.GreaterOrEqual(t, s.MaxPerByte, k)
	}
}

func TestWriteChunk_MaxRetries(t *testing.T) {
	require := require.New(t)

	e, _, eprom, obs := newTestEngine(t, family.CodeMCM6876x)
	eprom.NeedPulses(3, -1)

	s := NewWriteSession(device(t, family.CodeMCM6876x), true, 1)
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}

	err := e.WriteChunk(s, data)
	require.ErrorIs(err, ErrMaxRetries)
	require.Equal(0, s.Cursor)
	require.Equal(family.MCM6876xMaxRetries, eprom.PulseCount(3))
	require.Zero(eprom.PulseCount(4))
	require.Equal(family.MCM6876xMaxRetries, obs.misses)

	mem := eprom.Memory()
	require.Equal(data[:3], mem[:3])
	require.Equal(byte(0xFF), mem[3])
}

func TestWriteChunk_NoVerifySinglePulse(t *testing.T) {
	require := require.New(t)

	e, board, eprom, _ := newTestEngine(t, family.Code2708)

	s := NewWriteSession(device(t, family.Code2708), false, 5)
	require.NoError(e.WriteChunk(s, []byte{1, 2, 3, 4, 5, 6, 7, 8}))
	require.Equal(1, s.MaxPerByte)
	require.Equal(uint32(8), s.TotalAttempts)
	require.Equal(8, eprom.TotalPulses())
	require.Empty(board.Pulses(family.Line270xRD))
}

func TestWriteChunk_FamilyWithoutInlineVerify(t *testing.T) {
	require := require.New(t)

	e, board, eprom, _ := newTestEngine(t, family.Code1702A)

	s := NewWriteSession(device(t, family.Code1702A), true, 2)
	require.NoError(e.WriteChunk(s, []byte{0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88}))
	require.Equal(1, s.MaxPerByte)
	require.Equal(8, eprom.TotalPulses())
	require.Empty(board.Pulses(family.Line1702ACS))
	require.Equal([]byte{0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88}, eprom.Memory()[:8])
}

func TestWriteChunk_WholeDevice(t *testing.T) {
	require := require.New(t)

	dev := device(t, family.Code2704)
	e, _, eprom, _ := newTestEngine(t, family.Code2704)

	image := make([]byte, dev.Size)
	for i := range image {
		image[i] = byte(i * 7)
	}

	s := NewWriteSession(dev, true, 0)
	last := 0
	for !s.Complete() {
		n := s.NextChunk()
		require.Equal(DefaultChunkSize, n)
		require.NoError(e.WriteChunk(s, image[s.Cursor:s.Cursor+n]))
		require.Greater(s.Cursor, last)
		require.LessOrEqual(s.Cursor, dev.Size)
		last = s.Cursor
	}
	require.Equal(image, eprom.Memory())
	require.Equal(uint32(dev.Size), s.TotalAttempts)

	err := e.WriteChunk(s, nil)
	require.ErrorIs(err, ErrSessionComplete)
}

func TestWriteChunk_Errors(t *testing.T) {
	e, _, _, _ := newTestEngine(t, family.Code2708)
	dev := device(t, family.Code2708)

	err := e.WriteChunk(NewWriteSession(dev, true, 0), []byte{1, 2, 3})
	require.ErrorIs(t, err, ErrChunkLength)

	err = e.WriteChunk(NewSession(dev, ModeRead), make([]byte, DefaultChunkSize))
	require.ErrorIs(t, err, ErrWrongMode)

	_, err = e.ReadChunk(NewWriteSession(dev, true, 0))
	require.ErrorIs(t, err, ErrWrongMode)

	_, _, err = e.BlankCheck(NewSession(dev, ModeRead))
	require.ErrorIs(t, err, ErrWrongMode)
}

func TestReadChunk(t *testing.T) {
	require := require.New(t)

	dev := device(t, family.Code8748)
	e, _, eprom, _ := newTestEngine(t, family.Code8748)

	image := make([]byte, dev.Size)
	for i := range image {
		image[i] = byte(0xFF - i)
	}
	eprom.Load(image)

	s := NewSession(dev, ModeRead)
	var got []byte
	for !s.Complete() {
		chunk, err := e.ReadChunk(s)
		require.NoError(err)
		require.Len(chunk, DefaultChunkSize)
		got = append(got, chunk...)
	}
	require.Equal(image, got)
	require.Zero(eprom.TotalPulses())
}

func TestReadChunk_ShortLastChunk(t *testing.T) {
	dev := device(t, family.Code2708)
	e, _, _, _ := newTestEngine(t, family.Code2708)

	s := NewSession(dev, ModeRead)
	s.Cursor = dev.Size - 3
	chunk, err := e.ReadChunk(s)
	require.NoError(t, err)
	require.Len(t, chunk, 3)
	require.True(t, s.Complete())
}

func TestBlankCheck(t *testing.T) {
	t.Run("blank", func(t *testing.T) {
		dev := device(t, family.Code2704)
		e, board, _, _ := newTestEngine(t, family.Code2704)

		s := NewSession(dev, ModeBlankCheck)
		_, found, err := e.BlankCheck(s)
		require.NoError(t, err)
		require.False(t, found)
		require.True(t, s.Complete())
		require.Len(t, board.Pulses(family.Line270xRD), dev.Size)
	})

	for _, k := range []uint16{0, 1, 0x1FF, 0x100} {
		dev := device(t, family.Code2704)
		e, board, eprom, _ := newTestEngine(t, family.Code2704)
		eprom.Set(k, 0x7E)

		s := NewSession(dev, ModeBlankCheck)
		f, found, err := e.BlankCheck(s)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, Finding{Offset: k, Value: 0x7E}, f)
		assert.Len(t, board.Pulses(family.Line270xRD), int(k)+1, "scan must stop at the finding")
		assert.False(t, s.Complete())
	}
}

func TestBlankCheck_ZeroBlankFamily(t *testing.T) {
	dev := device(t, family.Code1702A)
	e, _, eprom, _ := newTestEngine(t, family.Code1702A)

	_, found, err := e.BlankCheck(NewSession(dev, ModeBlankCheck))
	require.NoError(t, err)
	require.False(t, found)

	eprom.Set(0x80, 0x01)
	f, found, err := e.BlankCheck(NewSession(dev, ModeBlankCheck))
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, Finding{Offset: 0x80, Value: 0x01}, f)
}

func TestSession(t *testing.T) {
	dev := device(t, family.Code1702A)
	s := NewSession(dev, ModeRead)
	assert.Equal(t, DefaultChunkSize, s.NextChunk())
	assert.False(t, s.Complete())
	assert.Equal(t, 1, s.MaxRetries)

	s.Cursor = dev.Size - 5
	assert.Equal(t, 5, s.NextChunk())
	s.Cursor = dev.Size
	assert.True(t, s.Complete())
	assert.Equal(t, 0, s.NextChunk())

	assert.Equal(t, "blank-check", ModeBlankCheck.String())
}
