// File: internal/coro/coro.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Connection coroutine primitive. Each coroutine runs its entry function on
// a dedicated goroutine, but the resume/yield rendezvous guarantees that at
// any moment either the worker or exactly one of its coroutines is running,
// never both. That makes the pair observationally equivalent to a stackful
// coroutine switching on the worker thread, so connection state needs no
// locking.

package coro

import (
	"github.com/momentics/hioload-http/api"
)

type killSentinel struct{}

// Switcher is the per-worker switching context shared by every coroutine of
// one worker. It tracks the coroutine currently occupying the worker thread.
type Switcher struct {
	running *Coro
}

// NewSwitcher creates a switching context for one worker.
func NewSwitcher() *Switcher {
	return &Switcher{}
}

// EntryFunc is a coroutine body. It receives the coroutine handle for
// yielding and registering deferred cleanups, plus the datum passed to New.
type EntryFunc func(c *Coro, data any)

// Coro is a suspendable execution context driving one connection.
type Coro struct {
	sw       *Switcher
	resumeCh chan struct{}
	yieldCh  chan api.CoroOutcome
	defers   []func()

	// killed is written by Free on the worker thread strictly before the
	// resume hand-off, and read by the coroutine goroutine strictly after;
	// the channel transfer orders the accesses.
	killed bool
	done   bool
}

// New creates a coroutine bound to the switcher. The entry function does not
// start running until the first Resume.
func New(sw *Switcher, entry EntryFunc, data any) *Coro {
	c := &Coro{
		sw:       sw,
		resumeCh: make(chan struct{}),
		yieldCh:  make(chan api.CoroOutcome),
	}
	go c.drive(entry, data)
	return c
}

func (c *Coro) drive(entry EntryFunc, data any) {
	<-c.resumeCh
	if !c.killed {
		func() {
			defer func() {
				if r := recover(); r != nil {
					if _, ok := r.(killSentinel); !ok {
						panic(r)
					}
				}
			}()
			entry(c, data)
		}()
	}
	c.runDeferred(0)
	c.done = true
	c.sw.running = nil
	c.yieldCh <- api.CoroAbort
}

// Resume transfers control to the coroutine and blocks until it yields.
// Resuming a finished or freed coroutine returns CoroAbort.
func (c *Coro) Resume() api.CoroOutcome {
	if c.done {
		return api.CoroAbort
	}
	c.sw.running = c
	c.resumeCh <- struct{}{}
	return <-c.yieldCh
}

// Yield suspends the coroutine with the given outcome and returns once the
// worker resumes it. Must be called from inside the coroutine.
func (c *Coro) Yield(outcome api.CoroOutcome) {
	c.sw.running = nil
	c.yieldCh <- outcome
	<-c.resumeCh
	if c.killed {
		panic(killSentinel{})
	}
	c.sw.running = c
}

// Defer registers a cleanup to run when the coroutine is freed, or earlier
// through RunDeferred. Cleanups run in LIFO order.
func (c *Coro) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Generation returns the current deferred-cleanup generation. Snapshot it
// before a request iteration and hand it back to RunDeferred to release the
// resources scoped to that iteration.
func (c *Coro) Generation() int {
	return len(c.defers)
}

// RunDeferred runs, in LIFO order, every cleanup registered at or above the
// given generation and unregisters them.
func (c *Coro) RunDeferred(generation int) {
	c.runDeferred(generation)
}

func (c *Coro) runDeferred(generation int) {
	for i := len(c.defers) - 1; i >= generation; i-- {
		c.defers[i]()
	}
	c.defers = c.defers[:generation]
}

// Free terminates the coroutine and runs all remaining deferred cleanups.
// It is idempotent and must be called from the worker thread.
func (c *Coro) Free() {
	if c.done {
		return
	}
	c.killed = true
	c.resumeCh <- struct{}{}
	<-c.yieldCh
}
