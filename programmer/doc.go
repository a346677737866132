// Package programmer implements the command dispatcher of the EPROM programmer.
//
// A Programmer owns the board, the family driver of the installed shield and
// the active session. It reads command frames from a protocol.Transport,
// validates them against the installed hardware, runs them through the engine
// and answers each accepted command with exactly one response.
//
//	p, err := programmer.New(board, family.Family270x, transport,
//		programmer.WithSupply(supply),
//		programmer.WithLogger(log),
//	)
//	if err != nil {
//		return err
//	}
//	return p.Run(ctx)
//
// A Programmer is not goroutine-safe; Run, NextCommand and Dispatch must be
// called from one goroutine. Metrics may be read concurrently.
package programmer
