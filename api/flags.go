// File: api/flags.go
// Package api defines connection and request flag sets.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// ConnFlags is the per-connection state bitset maintained by the owning
// worker.
type ConnFlags uint8

const (
	// ConnIsAlive is set between coroutine spawn and connection teardown.
	ConnIsAlive ConnFlags = 1 << iota

	// ConnKeepAlive marks connections whose idle window is refreshed after
	// every successful resume.
	ConnKeepAlive

	// ConnShouldResumeCoro gates resumption: readiness events for a
	// connection without this flag do not resume its coroutine.
	ConnShouldResumeCoro

	// ConnMustRead forces the next multiplexer wait to be for readability
	// regardless of the last yield outcome.
	ConnMustRead

	// ConnWriteEvents records the side of the current multiplexer interest:
	// set while the interest is write readiness, clear while it is read
	// readiness.
	ConnWriteEvents
)

// Has reports whether all bits in mask are set.
func (f ConnFlags) Has(mask ConnFlags) bool { return f&mask == mask }

// RequestFlags travels with a single request iteration inside the coroutine.
type RequestFlags uint8

const (
	// RequestAllowProxyReqs permits PROXY protocol preambles on the first
	// request of a connection.
	RequestAllowProxyReqs RequestFlags = 1 << iota

	// RequestAllowCORS enables cross-origin response headers.
	RequestAllowCORS

	// RequestProxied is set by the processor once a PROXY preamble has been
	// consumed.
	RequestProxied
)

// RequestCarryMask selects the only request flags that survive across
// request iterations on a kept-alive connection.
const RequestCarryMask = RequestProxied | RequestAllowCORS
