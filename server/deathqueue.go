// File: server/deathqueue.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The death queue is a circular doubly-linked list threaded through the
// connection table, ordered by timeToDie, newest at the tail. Links are
// table indices; headLink (-1) names the out-of-band head cell. Ordering is
// preserved by construction: every refresh assigns tick+keepAliveTimeout,
// so tail insertion keeps the list non-decreasing.

package server

import "github.com/momentics/hioload-http/api"

type deathQueue struct {
	conns            []Conn
	headPrev         int32
	headNext         int32
	tick             uint32
	keepAliveTimeout uint32
}

func (dq *deathQueue) init(conns []Conn, keepAliveTimeout uint32) {
	dq.conns = conns
	dq.headPrev = headLink
	dq.headNext = headLink
	dq.tick = 0
	dq.keepAliveTimeout = keepAliveTimeout
}

func (dq *deathQueue) nextOf(idx int32) int32 {
	if idx == headLink {
		return dq.headNext
	}
	return dq.conns[idx].next
}

func (dq *deathQueue) setNext(idx, v int32) {
	if idx == headLink {
		dq.headNext = v
	} else {
		dq.conns[idx].next = v
	}
}

func (dq *deathQueue) setPrev(idx, v int32) {
	if idx == headLink {
		dq.headPrev = v
	} else {
		dq.conns[idx].prev = v
	}
}

func (dq *deathQueue) empty() bool {
	return dq.headNext < 0
}

// insert appends the connection at the tail.
func (dq *deathQueue) insert(fd int, conn *Conn) {
	conn.next = headLink
	conn.prev = dq.headPrev
	dq.setNext(conn.prev, int32(fd))
	dq.headPrev = int32(fd)
}

// remove unlinks the connection and resets its links to the sentinel. The
// reset guards against traversal of stale links at very high request
// counts; it is part of the contract, do not elide it.
func (dq *deathQueue) remove(conn *Conn) {
	dq.setPrev(conn.next, conn.prev)
	dq.setNext(conn.prev, conn.next)
	conn.next = headLink
	conn.prev = headLink
}

// moveToTail refreshes the connection's expiry and reappends it. Kept-alive
// connections and those awaiting resumption get a full idle window;
// everything else is marked for the next reaper pass.
func (dq *deathQueue) moveToTail(fd int, conn *Conn) {
	conn.timeToDie = dq.tick
	if conn.flags&(api.ConnKeepAlive|api.ConnShouldResumeCoro) != 0 {
		conn.timeToDie += dq.keepAliveTimeout
	}

	dq.remove(conn)
	dq.insert(fd, conn)
}

// multiplexerTimeout returns the wait timeout in milliseconds: one reaper
// tick while connections are queued, infinite otherwise.
func (dq *deathQueue) multiplexerTimeout() int {
	if dq.empty() {
		return -1
	}
	return 1000
}

// killWaiting advances the reaper by one tick and destroys every connection
// whose expiry has passed. The queue is sorted, so the walk stops at the
// first survivor. Draining the queue resets the tick, which is safe exactly
// because no entries remain to compare against.
func (dq *deathQueue) killWaiting(destroy func(fd int)) {
	dq.tick++

	for !dq.empty() {
		fd := dq.headNext
		if dq.conns[fd].timeToDie > dq.tick {
			return
		}
		destroy(int(fd))
	}

	dq.tick = 0
}

// killAll destroys every queued connection. Used on worker shutdown.
func (dq *deathQueue) killAll(destroy func(fd int)) {
	for !dq.empty() {
		destroy(int(dq.headNext))
	}
}
