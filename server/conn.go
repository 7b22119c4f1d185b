// File: server/conn.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Connection slots. The table is a contiguous array indexed by fd number:
// slot addresses are stable for the process lifetime, which lets the death
// queue link slots intrusively by index. A slot is inactive while its
// coroutine is nil; activation and every later touch happen only on the
// owning worker's thread (the acceptor writes a slot once, before the SPSC
// push that publishes it).

package server

import (
	"github.com/momentics/hioload-http/api"
	"github.com/momentics/hioload-http/internal/coro"
)

// headLink is the sentinel index naming the death-queue head.
const headLink int32 = -1

// Conn is one connection slot. Its fd is the slot's index in the table.
type Conn struct {
	worker    *Worker
	coro      *coro.Coro
	flags     api.ConnFlags
	timeToDie uint32
	prev      int32
	next      int32
}

// Flags implements api.ConnControl.
func (c *Conn) Flags() api.ConnFlags { return c.flags }

// SetKeepAlive implements api.ConnControl.
func (c *Conn) SetKeepAlive(on bool) {
	if on {
		c.flags |= api.ConnKeepAlive
	} else {
		c.flags &^= api.ConnKeepAlive
	}
}

// SetMustRead implements api.ConnControl.
func (c *Conn) SetMustRead(on bool) {
	if on {
		c.flags |= api.ConnMustRead
	} else {
		c.flags &^= api.ConnMustRead
	}
}
