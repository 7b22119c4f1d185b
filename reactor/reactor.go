// File: reactor/reactor.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral readiness multiplexer interface and event types.

package reactor

// EventType is a bitset of readiness conditions.
type EventType uint32

const (
	// EventRead reports read readiness.
	EventRead EventType = 1 << iota

	// EventWrite reports write readiness.
	EventWrite

	// EventHangup reports a peer hang-up (half or full close).
	EventHangup

	// EventError reports a socket error condition.
	EventError

	// EventEdge requests edge-triggered notification for this interest.
	// It never appears in reported events.
	EventEdge
)

// Event is one readiness notification. Data is the user datum supplied at
// registration; the worker registers connections with their fd number and
// the nudge channel with NudgeData.
type Event struct {
	Data   int32
	Events EventType
}

// NudgeData is the registration datum reserved for the nudge channel; it is
// the only entry registered with a negative datum.
const NudgeData int32 = -1

// Multiplexer is the readiness-notification facility a worker waits on.
// Wait fills events and returns the count; a zero count means the timeout
// elapsed. Closing the multiplexer from another thread makes the next Wait
// return api.ErrMultiplexerClosed, which is the worker shutdown signal.
type Multiplexer interface {
	// Add registers fd with the given interest set and user datum.
	Add(fd int, events EventType, data int32) error

	// Modify replaces the interest set and datum of a registered fd.
	Modify(fd int, events EventType, data int32) error

	// Delete removes fd from the interest set.
	Delete(fd int) error

	// Wait blocks up to timeoutMs milliseconds (-1 blocks indefinitely)
	// and writes ready events into events.
	Wait(events []Event, timeoutMs int) (int, error)

	// Close releases the multiplexer handle.
	Close() error
}

// Factory creates the multiplexer a worker waits on. The server uses
// NewEpoll by default; tests substitute the fake package.
type Factory func() (Multiplexer, error)
