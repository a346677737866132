package protocol

import "errors"

var (
	// ErrNoFrame indicates no opcode byte was waiting.
	ErrNoFrame = errors.New("protocol: no frame")
	// ErrSyncTimeout indicates the complement byte did not arrive in time.
	ErrSyncTimeout = errors.New("protocol: complement sync timeout")
	// ErrComplementMismatch indicates the second frame byte was not the complement.
	ErrComplementMismatch = errors.New("protocol: complement mismatch")
	// ErrUnknownOpcode indicates a well-framed opcode outside the command set.
	ErrUnknownOpcode = errors.New("protocol: unknown opcode")
	// ErrTransportClosed indicates the transport was closed.
	ErrTransportClosed = errors.New("protocol: transport closed")
)

// IsFramingError reports whether err drops a frame without a response.
func IsFramingError(err error) bool {
	return errors.Is(err, ErrSyncTimeout) ||
		errors.Is(err, ErrComplementMismatch) ||
		errors.Is(err, ErrUnknownOpcode)
}
