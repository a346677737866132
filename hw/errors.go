package hw

import "errors"

var (
	// ErrUnknownLine is recorded when a driver touches a line the board has no pin for.
	ErrUnknownLine = errors.New("hw: unknown control line")
	// ErrInputLine is recorded when a driver tries to drive a sense line.
	ErrInputLine = errors.New("hw: control line is an input")
	// ErrPinNotFound indicates that a pin map names a GPIO the host does not have.
	ErrPinNotFound = errors.New("hw: gpio pin not found")
	// ErrInvalidPinMap indicates a malformed pin map.
	ErrInvalidPinMap = errors.New("hw: invalid pin map")
)
