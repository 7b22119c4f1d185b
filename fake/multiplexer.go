// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

// Package fake provides in-memory stand-ins for the reactor core's external
// surfaces: a scripted readiness multiplexer and a scripted request
// processor. Tests drive workers event by event and inspect the interest
// set each fd ended up with.
package fake

import (
	"sync"

	"github.com/eapache/queue"

	"github.com/momentics/hioload-http/api"
	"github.com/momentics/hioload-http/reactor"
)

// Interest is the registration state of one fd.
type Interest struct {
	Events reactor.EventType
	Data   int32
}

// Multiplexer implements reactor.Multiplexer against a scripted event feed.
// PushEvents enqueues one readiness batch; PushTimeout enqueues an empty
// batch, which the worker treats as a wait timeout and answers with a
// reaper tick. Wait blocks until a batch or Close arrives, so tests stay
// deterministic regardless of the requested timeout.
type Multiplexer struct {
	mu      sync.Mutex
	cond    *sync.Cond
	batches *queue.Queue // of []reactor.Event
	closed  bool
	waiting bool

	interests   map[int]Interest
	modifies    map[int]int
	lastTimeout int
}

// NewMultiplexer creates an empty scripted multiplexer.
func NewMultiplexer() *Multiplexer {
	m := &Multiplexer{
		batches:   queue.New(),
		interests: make(map[int]Interest),
		modifies:  make(map[int]int),
	}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// Add implements reactor.Multiplexer.
func (m *Multiplexer) Add(fd int, events reactor.EventType, data int32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.interests[fd] = Interest{Events: events, Data: data}
	return nil
}

// Modify implements reactor.Multiplexer.
func (m *Multiplexer) Modify(fd int, events reactor.EventType, data int32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.interests[fd] = Interest{Events: events, Data: data}
	m.modifies[fd]++
	return nil
}

// Delete implements reactor.Multiplexer.
func (m *Multiplexer) Delete(fd int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.interests, fd)
	return nil
}

// Wait implements reactor.Multiplexer.
func (m *Multiplexer) Wait(events []reactor.Event, timeoutMs int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastTimeout = timeoutMs
	m.waiting = true
	m.cond.Broadcast()

	for m.batches.Length() == 0 && !m.closed {
		m.cond.Wait()
	}
	m.waiting = false

	if m.closed {
		return 0, api.ErrMultiplexerClosed
	}

	batch := m.batches.Remove().([]reactor.Event)
	n := copy(events, batch)
	return n, nil
}

// Close implements reactor.Multiplexer; it releases a blocked Wait.
func (m *Multiplexer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.cond.Broadcast()
	return nil
}

// PushEvents schedules one readiness batch.
func (m *Multiplexer) PushEvents(events ...reactor.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	batch := make([]reactor.Event, len(events))
	copy(batch, events)
	m.batches.Add(batch)
	m.cond.Broadcast()
}

// PushTimeout schedules a wait timeout, driving one reaper tick.
func (m *Multiplexer) PushTimeout() {
	m.PushEvents()
}

// AwaitQuiescence blocks until every scheduled batch has been consumed and
// the worker is parked in Wait again.
func (m *Multiplexer) AwaitQuiescence() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for m.batches.Length() != 0 || !m.waiting {
		if m.closed {
			return
		}
		m.cond.Wait()
	}
}

// Interest returns the current registration of fd.
func (m *Multiplexer) Interest(fd int) (Interest, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	in, ok := m.interests[fd]
	return in, ok
}

// Modifies returns how many Modify calls fd has received.
func (m *Multiplexer) Modifies(fd int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.modifies[fd]
}

// LastTimeout returns the timeout of the most recent Wait call.
func (m *Multiplexer) LastTimeout() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastTimeout
}
