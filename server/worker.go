// File: server/worker.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Worker event loop. Each worker owns one OS thread, one multiplexer, one
// nudge channel, and one SPSC queue of pending fds; every connection it
// accepts stays with it until teardown. Coroutines run cooperatively on the
// worker thread, so nothing below takes a lock.

package server

import (
	"errors"
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"github.com/momentics/hioload-http/api"
	"github.com/momentics/hioload-http/internal/concurrency"
	"github.com/momentics/hioload-http/internal/coro"
	"github.com/momentics/hioload-http/internal/wakeup"
	"github.com/momentics/hioload-http/reactor"
)

// interestByWriteFlag maps the current ConnWriteEvents value to the next
// interest set: a connection leaving read mode wants level-triggered write
// readiness, a connection leaving write mode returns to edge-triggered read
// readiness. Most sockets stay in read mode; flipping to level-triggered
// writes only while mid-response avoids busy wake-ups.
var interestByWriteFlag = [2]reactor.EventType{
	reactor.EventWrite | reactor.EventHangup | reactor.EventError,
	reactor.EventRead | reactor.EventHangup | reactor.EventError | reactor.EventEdge,
}

// Worker drives one event loop over a disjoint set of connections.
type Worker struct {
	srv     *Server
	idx     int
	log     *zap.Logger
	mux     reactor.Multiplexer
	wake    *wakeup.Channel
	pending *concurrency.Ring[int]
	sw      *coro.Switcher
	dq      deathQueue
	date    dateCache
	joined  chan struct{}
}

// newWorker allocates the worker's resources without starting its thread.
func (s *Server) newWorker(idx int) (*Worker, error) {
	mux, err := s.muxFactory()
	if err != nil {
		return nil, fmt.Errorf("worker %d: %w", idx, err)
	}

	wake, err := wakeup.New()
	if err != nil {
		mux.Close()
		return nil, fmt.Errorf("worker %d: %w", idx, err)
	}

	if err := mux.Add(wake.ReadFD(), reactor.EventRead, reactor.NudgeData); err != nil {
		wake.Close()
		mux.Close()
		return nil, fmt.Errorf("worker %d: register nudge: %w", idx, err)
	}

	return &Worker{
		srv:     s,
		idx:     idx,
		log:     s.log.Named("worker").With(zap.Int("worker", idx)),
		mux:     mux,
		wake:    wake,
		pending: concurrency.NewRing[int](concurrency.NextPowerOfTwo(uint64(s.cfg.MaxFD))),
		sw:      coro.NewSwitcher(),
		joined:  make(chan struct{}),
	}, nil
}

// AddClient publishes an accepted fd to this worker. The slot is written
// before the push; the push is the release point. On a full queue the fd is
// rejected and the caller keeps ownership. Pair every successful AddClient
// with a Nudge.
func (w *Worker) AddClient(fd int) error {
	if fd < 0 || fd >= len(w.srv.conns) {
		return fmt.Errorf("fd %d outside connection table", fd)
	}
	w.srv.conns[fd] = Conn{worker: w}

	if !w.pending.Push(fd) {
		w.log.Error("pending queue full, dropping client", zap.Int("fd", fd))
		w.srv.metrics.queueFullDrops.Inc()
		return api.ErrQueueFull
	}
	return nil
}

// Nudge wakes the worker's multiplexer wait.
func (w *Worker) Nudge() {
	if err := w.wake.Nudge(); err != nil {
		w.log.Error("nudge", zap.Error(err))
	}
}

func (w *Worker) run() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if w.srv.pinWorkers {
		if err := concurrency.PinCurrentThread(w.idx % runtime.NumCPU()); err != nil {
			w.log.Warn("cpu pinning failed", zap.Error(err))
		}
	}

	events := make([]reactor.Event, w.srv.cfg.maxEvents())
	w.dq.init(w.srv.conns, w.srv.cfg.KeepAliveTimeout)

	w.srv.barrier.Wait()
	w.log.Debug("io loop started")

	for {
		n, err := w.mux.Wait(events, w.dq.multiplexerTimeout())
		if err != nil {
			if errors.Is(err, api.ErrMultiplexerClosed) {
				break
			}
			w.log.Debug("multiplexer wait", zap.Error(err))
			continue
		}

		if n == 0 {
			w.dq.killWaiting(w.destroyExpired)
			continue
		}

		w.date.update(w.srv.cfg.Expires)

		for i := 0; i < n; i++ {
			ev := &events[i]

			if ev.Data == reactor.NudgeData {
				w.acceptNudge()
				continue
			}

			fd := int(ev.Data)
			conn := &w.srv.conns[fd]

			if ev.Events&reactor.EventHangup != 0 {
				w.destroyConn(fd, conn)
				continue
			}

			w.resumeIfNeeded(fd, conn)
			if conn.coro != nil {
				w.dq.moveToTail(fd, conn)
			}
		}
	}

	w.srv.barrier.Wait()

	w.dq.killAll(func(fd int) { w.destroyConn(fd, &w.srv.conns[fd]) })
	close(w.joined)
}

// acceptNudge drains one wake-up unit and installs every pending fd:
// register with read interest, spawn the coroutine, and resume immediately
// so parsing can begin without waiting for another readiness event.
func (w *Worker) acceptNudge() {
	w.wake.Drain()

	for {
		fd, ok := w.pending.Pop()
		if !ok {
			break
		}
		conn := &w.srv.conns[fd]

		if err := w.mux.Add(fd, interestByWriteFlag[1], int32(fd)); err != nil {
			w.log.Error("register accepted fd", zap.Int("fd", fd), zap.Error(err))
			w.srv.metrics.registerFailures.Inc()
			reactor.CloseFD(fd)
			continue
		}

		w.spawnCoro(fd, conn)
		w.srv.metrics.connectionsAccepted.Inc()
		w.resumeIfNeeded(fd, conn)
	}
}

func (w *Worker) spawnCoro(fd int, conn *Conn) {
	conn.coro = coro.New(w.sw, func(c *coro.Coro, _ any) {
		w.requestLoop(c, fd, conn)
	}, conn)

	conn.flags = api.ConnIsAlive | api.ConnShouldResumeCoro
	conn.timeToDie = w.dq.tick + w.dq.keepAliveTimeout
	w.dq.insert(fd, conn)
	w.srv.metrics.liveConnections.Inc()
}

// resumeIfNeeded resumes the connection's coroutine when it expects
// resumption, then reconciles the multiplexer interest with the yield
// outcome. Without ConnMustRead, no modify is issued while the desired side
// already matches ConnWriteEvents; with ConnMustRead the read interest is
// always re-issued. Afterwards ConnWriteEvents names the side requested.
func (w *Worker) resumeIfNeeded(fd int, conn *Conn) {
	if conn.flags&api.ConnShouldResumeCoro == 0 || conn.coro == nil {
		return
	}

	outcome := conn.coro.Resume()
	w.srv.metrics.coroResumes.Inc()
	if outcome < api.CoroMayResume {
		w.destroyConn(fd, conn)
		return
	}

	var writeEvents bool
	if conn.flags&api.ConnMustRead != 0 {
		writeEvents = true
	} else {
		shouldResume := outcome == api.CoroMayResume

		if shouldResume {
			conn.flags |= api.ConnShouldResumeCoro
		} else {
			conn.flags &^= api.ConnShouldResumeCoro
		}

		writeEvents = conn.flags&api.ConnWriteEvents != 0
		if shouldResume == writeEvents {
			return
		}
	}

	if err := w.mux.Modify(fd, interestByWriteFlag[btoi(writeEvents)], int32(fd)); err != nil {
		// The interest stays stale; the connection is recycled by timeout
		// or a later event.
		w.log.Error("modify interest", zap.Int("fd", fd), zap.Error(err))
	}

	// Index 1 is the read interest, index 0 the write interest.
	if writeEvents {
		conn.flags &^= api.ConnWriteEvents
	} else {
		conn.flags |= api.ConnWriteEvents
	}
}

func (w *Worker) destroyExpired(fd int) {
	w.srv.metrics.connectionsExpired.Inc()
	w.destroyConn(fd, &w.srv.conns[fd])
}

// destroyConn unlinks, frees the coroutine (running its deferred cleanups),
// and closes the fd. Safe to call on an already-dead slot.
func (w *Worker) destroyConn(fd int, conn *Conn) {
	if conn.coro == nil && conn.flags&api.ConnIsAlive == 0 {
		return
	}

	w.dq.remove(conn)

	if conn.coro != nil {
		conn.coro.Free()
		conn.coro = nil
	}

	if conn.flags&api.ConnIsAlive != 0 {
		reactor.CloseFD(fd)
		w.srv.metrics.liveConnections.Dec()
		w.srv.metrics.connectionsDestroyed.Inc()
	}

	conn.flags = 0
}

// requestLoop is the coroutine body: one request/response cycle per
// iteration, suspending between cycles until the worker decides to resume.
// It never returns on its own; teardown happens through Free.
func (w *Worker) requestLoop(c *coro.Coro, fd int, conn *Conn) {
	response, err := w.srv.responses.Get()
	if err != nil {
		c.Yield(api.CoroAbort)
		return
	}
	c.Defer(func() { w.srv.responses.Put(response) })

	buf := api.Value{Buf: make([]byte, w.srv.cfg.ReadBufferSize)}
	var next []byte
	var proxy api.ProxyInfo

	var flags api.RequestFlags
	if w.srv.cfg.ProxyProtocol {
		flags |= api.RequestAllowProxyReqs
	}
	if w.srv.cfg.AllowCORS {
		flags |= api.RequestAllowCORS
	}

	for {
		req := api.Request{
			Conn:     conn,
			Coro:     c,
			FD:       fd,
			Flags:    flags,
			Response: response,
			Proxy:    &proxy,
			Dates:    &w.date.Dates,
		}

		generation := c.Generation()
		next = w.srv.processor.ProcessRequest(&req, &buf, next)
		c.RunDeferred(generation)

		c.Yield(api.CoroMayResume)

		response.Reset()
		flags = req.Flags & api.RequestCarryMask
	}
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}
