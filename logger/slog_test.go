package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSlogLogger_JSONOutput(t *testing.T) {
	t.Setenv("ENV", "")

	var buf bytes.Buffer
	l := NewSlogWriter(&buf, InfoLevel, false)

	l.Debug("hidden", "k", 1)
	assert.Zero(t, buf.Len(), "debug must be filtered at info level")

	l.With("family", "270x").Info("session started", "device", "2708")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "session started", rec["msg"])
	assert.Equal(t, "270x", rec["family"])
	assert.Equal(t, "2708", rec["device"])
	assert.Contains(t, rec, "ts")
}

func TestSlogLogger_SetLevel(t *testing.T) {
	t.Setenv("ENV", "")

	var buf bytes.Buffer
	l := NewSlogWriter(&buf, ErrorLevel, false)
	assert.Equal(t, ErrorLevel, l.Level())

	l.SetLevel(DebugLevel)
	assert.Equal(t, DebugLevel, l.Level())

	child := l.With("a", 1)
	assert.Equal(t, DebugLevel, child.Level(), "child shares the parent level")

	l.Debug("pulse", "attempt", 3)
	assert.Contains(t, buf.String(), `"attempt":3`)
}

func TestMockLogger(t *testing.T) {
	m := NewMockLogger()
	m.On("Warn", "frame dropped", []any{"opcode", byte(0x10)}).Return()

	m.Warn("frame dropped", "opcode", byte(0x10))
	m.AssertExpectations(t)
}

func TestMockLogger_ExpectAny(t *testing.T) {
	m := NewMockLogger()
	m.On("Error", "board error", mock.Anything).Once()
	m.ExpectAny()

	child := m.With("family", "270x")
	require.Same(t, m, child)
	child.Debug("dispatch", "op", "READ_CHUNK")
	child.Error("board error", "error", "gpio")
	child.Error("board error", "error", "gpio")
	assert.Equal(t, DebugLevel, child.Level())

	m.AssertExpectations(t)
	m.AssertNumberOfCalls(t, "Error", 2)
	m.AssertCalled(t, "With", []any{"family", "270x"})
}
