package protocol

import (
	"encoding/binary"
	"fmt"
)

// ChunkSize is the per-transfer maximum of READ_CHUNK and WRITE_CHUNK.
const ChunkSize = 8

// Opcode is a command byte.
type Opcode byte

const (
	OpStartWrite      Opcode = 0x10
	OpWriteChunk      Opcode = 0x11
	OpStartRead       Opcode = 0x12
	OpReadChunk       Opcode = 0x13
	OpStartBlankCheck Opcode = 0x14
	OpBlankCheck      Opcode = 0x15
	OpDeviceReset     Opcode = 0x16
	OpMeasureSupply   Opcode = 0x17
	OpTest            Opcode = 0x18
	OpTestRead        Opcode = 0x19
)

var opcodeNames = map[Opcode]string{
	OpStartWrite:      "START_WRITE",
	OpWriteChunk:      "WRITE_CHUNK",
	OpStartRead:       "START_READ",
	OpReadChunk:       "READ_CHUNK",
	OpStartBlankCheck: "START_BLANK_CHECK",
	OpBlankCheck:      "BLANK_CHECK",
	OpDeviceReset:     "DEVICE_RESET",
	OpMeasureSupply:   "MEASURE_SUPPLY",
	OpTest:            "TEST",
	OpTestRead:        "TEST_READ",
}

// Valid reports whether op is in the command set.
func (op Opcode) Valid() bool {
	_, ok := opcodeNames[op]
	return ok
}

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}

	return fmt.Sprintf("Opcode(0x%02X)", byte(op))
}

// Status is the second byte of every response.
type Status byte

const (
	StatusOK                 Status = 0x00
	StatusProceedDualSocket  Status = 0x01
	StatusComplete           Status = 0x02
	StatusInvalidCmd         Status = 0x03
	StatusNotSupported       Status = 0x04
	StatusNoDev              Status = 0x05
	StatusIncorrectHW        Status = 0x06
	StatusIncorrectSwitchPos Status = 0x07
	StatusOvercurrent        Status = 0x08
	StatusNotBlank           Status = 0x09
	StatusMaxRetries         Status = 0x0A
)

var statusNames = [...]string{
	StatusOK:                 "OK",
	StatusProceedDualSocket:  "PROCEED_DUAL_SOCKET",
	StatusComplete:           "COMPLETE",
	StatusInvalidCmd:         "INVALID_CMD",
	StatusNotSupported:       "NOT_SUPPORTED",
	StatusNoDev:              "NO_DEV",
	StatusIncorrectHW:        "INCORRECT_HW",
	StatusIncorrectSwitchPos: "INCORRECT_SWITCH_POS",
	StatusOvercurrent:        "OVERCURRENT",
	StatusNotBlank:           "NOT_BLANK",
	StatusMaxRetries:         "MAX_RETRIES",
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}

	return fmt.Sprintf("Status(0x%02X)", byte(s))
}

// Framed reports whether c completes a frame started by o.
func Framed(o, c byte) bool { return c == ^o }

// Frame encodes the command frame of op.
func Frame(op Opcode) []byte { return []byte{byte(op), ^byte(op)} }

// Response is a response under construction.
//
//	resp := NewResponse(OpWriteChunk, StatusComplete).Byte(maxPerByte).Uint32(total)
type Response struct {
	buf []byte
}

// NewResponse starts a response with its opcode and status bytes.
func NewResponse(op Opcode, status Status) *Response {
	buf := make([]byte, 2, 2+ChunkSize)
	buf[0] = byte(op)
	buf[1] = byte(status)

	return &Response{buf: buf}
}

// Byte appends one byte.
func (r *Response) Byte(b byte) *Response {
	r.buf = append(r.buf, b)
	return r
}

// Uint16 appends v big-endian.
func (r *Response) Uint16(v uint16) *Response {
	r.buf = binary.BigEndian.AppendUint16(r.buf, v)
	return r
}

// Uint32 appends v big-endian.
func (r *Response) Uint32(v uint32) *Response {
	r.buf = binary.BigEndian.AppendUint32(r.buf, v)
	return r
}

// Bytes appends p.
func (r *Response) Bytes(p []byte) *Response {
	r.buf = append(r.buf, p...)
	return r
}

// Opcode returns the opcode byte of the response.
func (r *Response) Opcode() Opcode { return Opcode(r.buf[0]) }

// Status returns the status byte of the response.
func (r *Response) Status() Status { return Status(r.buf[1]) }

// Encode returns the wire bytes.
func (r *Response) Encode() []byte { return r.buf }
