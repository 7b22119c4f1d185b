// File: internal/wakeup/wakeup.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Nudge channel: the wake-up primitive by which the acceptor rouses a
// worker blocked in its multiplexer wait. One Nudge writes one unit; the
// worker drains one unit per wake-up. A wake-up with nothing queued behind
// it is benign.

package wakeup

// Channel is a one-way wake-up line. ReadFD is registered with the worker's
// multiplexer; Nudge is called by the acceptor thread.
type Channel struct {
	rd int
	wr int
}

// ReadFD returns the descriptor the worker registers for read readiness.
func (c *Channel) ReadFD() int { return c.rd }
