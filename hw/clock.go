package hw

import "time"

// spinThreshold is the shortest delay handed to the scheduler; shorter
// delays busy-wait because time.Sleep overshoots them by far.
const spinThreshold = time.Millisecond

// Clock is the host delay primitive.
type Clock struct{}

// Wait blocks for at least d.
func (Clock) Wait(d time.Duration) {
	if d <= 0 {
		return
	}
	if d >= spinThreshold {
		time.Sleep(d)
		return
	}
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
	}
}
