// File: internal/coro/coro_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package coro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-http/api"
)

func TestResumeYieldSequence(t *testing.T) {
	sw := NewSwitcher()
	c := New(sw, func(c *Coro, data any) {
		assert.Equal(t, "payload", data)
		c.Yield(api.CoroMayResume)
		c.Yield(api.CoroWantRead)
		c.Yield(api.CoroWantWrite)
	}, "payload")

	assert.Equal(t, api.CoroMayResume, c.Resume())
	assert.Equal(t, api.CoroWantRead, c.Resume())
	assert.Equal(t, api.CoroWantWrite, c.Resume())

	// Entry returned: the coroutine is finished.
	assert.Equal(t, api.CoroAbort, c.Resume())
	assert.Equal(t, api.CoroAbort, c.Resume())
}

func TestAbortOutcome(t *testing.T) {
	c := New(NewSwitcher(), func(c *Coro, _ any) {
		c.Yield(api.CoroAbort)
		t.Error("resumed past abort")
	}, nil)

	assert.Equal(t, api.CoroAbort, c.Resume())
	c.Free()
}

func TestDeferredGenerations(t *testing.T) {
	var order []string

	c := New(NewSwitcher(), func(c *Coro, _ any) {
		c.Defer(func() { order = append(order, "outer") })

		gen := c.Generation()
		c.Defer(func() { order = append(order, "req1-a") })
		c.Defer(func() { order = append(order, "req1-b") })
		c.RunDeferred(gen)

		c.Yield(api.CoroMayResume)

		gen = c.Generation()
		c.Defer(func() { order = append(order, "req2") })
		c.RunDeferred(gen)

		c.Yield(api.CoroMayResume)
	}, nil)

	require.Equal(t, api.CoroMayResume, c.Resume())
	assert.Equal(t, []string{"req1-b", "req1-a"}, order, "per-request cleanups run LIFO at the snapshot generation")

	require.Equal(t, api.CoroMayResume, c.Resume())
	assert.Equal(t, []string{"req1-b", "req1-a", "req2"}, order)

	c.Free()
	assert.Equal(t, []string{"req1-b", "req1-a", "req2", "outer"}, order, "Free runs the remaining cleanups")
}

func TestFreeRunsDeferredOfParkedCoroutine(t *testing.T) {
	released := false

	c := New(NewSwitcher(), func(c *Coro, _ any) {
		c.Defer(func() { released = true })
		for {
			c.Yield(api.CoroMayResume)
		}
	}, nil)

	require.Equal(t, api.CoroMayResume, c.Resume())
	require.False(t, released)

	c.Free()
	assert.True(t, released)

	// Free is idempotent and a freed coroutine only aborts.
	c.Free()
	assert.Equal(t, api.CoroAbort, c.Resume())
}

func TestFreeBeforeFirstResume(t *testing.T) {
	entered := false
	c := New(NewSwitcher(), func(c *Coro, _ any) {
		entered = true
	}, nil)

	c.Free()
	assert.False(t, entered, "entry must not run when freed before the first resume")
}
