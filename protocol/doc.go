// Package protocol implements the host link of the programmer.
//
// # Framing
//
// Every command starts with an opcode byte followed immediately by its one's
// complement:
//
//	[opcode][^opcode][payload...]
//
// After an opcode arrives, the complement is polled a bounded number of times
// with a short wait between polls. A missing or wrong complement drops the
// frame without a response; the next byte is treated as a fresh opcode
// candidate. A well-framed opcode outside the command set is dropped silently
// as well.
//
// # Responses
//
// Every accepted command is answered with exactly one response:
//
//	[opcode][status][payload...]
//
// Multi-byte payload fields are big-endian.
package protocol
