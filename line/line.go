package line

import "time"

// ID identifies one control line of the programming socket.
// The numbering is owned by the family catalogues.
type ID uint8

// None marks an absent driver in a Pair.
const None ID = 0xFF

// Lines is the digital control-line collaborator.
//
// Set drives a line to its asserted or de-asserted level; polarity (active low or
// high) is the implementation's concern. Get samples the line.
type Lines interface {
	Set(id ID, asserted bool)
	Get(id ID) bool
}

// Waiter is the calibrated delay collaborator.
type Waiter interface {
	Wait(d time.Duration)
}

// Desc describes one control line of a family.
type Desc struct {
	ID   ID
	Name string
	// Input marks sense lines that are sampled but never driven.
	Input bool
	// ActiveLow is true when the asserted state is electrically low.
	ActiveLow bool
}
