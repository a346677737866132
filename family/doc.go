// Package family implements the per-family programming drivers.
//
// Each electrically distinct family of parts (1702A, the 2704/2708/TMS2716/MCM6876x
// socket, and the MCS-48 microcontrollers) has one [Driver]. A driver owns the
// family's control-line conventions and pulse timing and exposes the same five
// operations regardless of family: Init, PowerOn, Reset, ProgramByte and ReadByte.
//
// Lines that share a node with another driver are only changed through a
// line.Pair, never directly.
package family
