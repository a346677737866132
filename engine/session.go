package engine

import (
	"fmt"

	"github.com/arloliu/go-hveprom/family"
)

// Mode is the kind of operation a Session performs.
type Mode uint8

const (
	ModeWrite Mode = iota + 1
	ModeRead
	ModeBlankCheck
)

func (m Mode) String() string {
	switch m {
	case ModeWrite:
		return "write"
	case ModeRead:
		return "read"
	case ModeBlankCheck:
		return "blank-check"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// DefaultChunkSize is the per-transfer maximum of the host protocol.
const DefaultChunkSize = 8

// Session is the state of one programming operation.
//
// A session is created by a START_* command and lives until it completes,
// the device is reset, or another START_* command replaces it.
type Session struct {
	Device *family.Device
	Mode   Mode
	// Cursor is the offset of the next byte to transfer. It only grows and
	// never exceeds Device.Size.
	Cursor    int
	ChunkSize int

	MaxRetries  int
	Verify      bool
	ExtraWrites int

	// MaxPerByte is the largest number of pulses any byte needed so far.
	MaxPerByte int
	// TotalAttempts counts every pulse issued in this session.
	TotalAttempts uint32
}

// NewSession creates a session for dev at offset 0.
func NewSession(dev *family.Device, mode Mode) *Session {
	return &Session{
		Device:     dev,
		Mode:       mode,
		ChunkSize:  DefaultChunkSize,
		MaxRetries: dev.MaxRetries,
	}
}

// NewWriteSession creates a write session with the host's verify settings.
func NewWriteSession(dev *family.Device, verify bool, extra int) *Session {
	s := NewSession(dev, ModeWrite)
	s.Verify = verify
	s.ExtraWrites = extra

	return s
}

// NextChunk returns the length of the next chunk.
func (s *Session) NextChunk() int {
	return min(s.ChunkSize, s.Device.Size-s.Cursor)
}

// Complete reports whether the cursor reached the end of the device.
func (s *Session) Complete() bool {
	return s.Cursor >= s.Device.Size
}

// InlineVerify reports whether writes are read back between pulses.
func (s *Session) InlineVerify() bool {
	return s.Verify && s.Device.InlineVerify
}
