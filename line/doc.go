// Package line sequences the programming-socket control lines.
//
// The programmer produces three voltage levels on several socket pins from two
// physical drivers that share one node: a "low" driver and a "program" driver.
// Asserting both at once, even for a single instruction, shorts the programming
// supply. A [Pair] is the only code allowed to touch those two drivers; it keeps
// the current [Level] as explicit state and always releases one driver before
// asserting the other.
//
// Lines that are not part of a pair (chip select, power enable, pulse lines) are
// driven directly through the [Lines] collaborator by the family drivers.
package line
