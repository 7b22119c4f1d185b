//go:build linux

// File: reactor/epoll_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux epoll(7) implementation of the Multiplexer interface.

package reactor

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-http/api"
)

// Epoll is an epoll-backed multiplexer. The descriptor is created with
// close-on-exec. Close may be called from any thread; it does not interrupt
// a Wait that is already blocked, but every Wait after it reports
// api.ErrMultiplexerClosed.
type Epoll struct {
	epfd int
	raw  []unix.EpollEvent // scratch for Wait, sized on first use
}

// NewEpoll creates an epoll multiplexer.
func NewEpoll() (Multiplexer, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("epoll create: %w", err)
	}
	return &Epoll{epfd: epfd}, nil
}

func sysEvents(events EventType) uint32 {
	var ev uint32
	if events&EventRead != 0 {
		ev |= unix.EPOLLIN
	}
	if events&EventWrite != 0 {
		ev |= unix.EPOLLOUT
	}
	if events&EventHangup != 0 {
		ev |= unix.EPOLLRDHUP
	}
	if events&EventError != 0 {
		ev |= unix.EPOLLERR
	}
	if events&EventEdge != 0 {
		ev |= uint32(unix.EPOLLET)
	}
	return ev
}

func reportedEvents(ev uint32) EventType {
	var events EventType
	if ev&unix.EPOLLIN != 0 {
		events |= EventRead
	}
	if ev&unix.EPOLLOUT != 0 {
		events |= EventWrite
	}
	if ev&(unix.EPOLLRDHUP|unix.EPOLLHUP) != 0 {
		events |= EventHangup
	}
	if ev&unix.EPOLLERR != 0 {
		events |= EventError
	}
	return events
}

// Add registers fd with the interest set.
func (e *Epoll) Add(fd int, events EventType, data int32) error {
	ev := unix.EpollEvent{Events: sysEvents(events), Fd: data}
	if err := unix.EpollCtl(e.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return fmt.Errorf("epoll ctl add: %w", err)
	}
	return nil
}

// Modify replaces the interest set of fd.
func (e *Epoll) Modify(fd int, events EventType, data int32) error {
	ev := unix.EpollEvent{Events: sysEvents(events), Fd: data}
	if err := unix.EpollCtl(e.epfd, unix.EPOLL_CTL_MOD, fd, &ev); err != nil {
		return fmt.Errorf("epoll ctl mod: %w", err)
	}
	return nil
}

// Delete removes fd from the interest set.
func (e *Epoll) Delete(fd int) error {
	if err := unix.EpollCtl(e.epfd, unix.EPOLL_CTL_DEL, fd, nil); err != nil {
		return fmt.Errorf("epoll ctl del: %w", err)
	}
	return nil
}

// Wait blocks until readiness or timeout. EBADF and EINVAL are reported as
// api.ErrMultiplexerClosed; other errors, EINTR included, are returned
// verbatim for the caller to skip past.
func (e *Epoll) Wait(events []Event, timeoutMs int) (int, error) {
	if len(e.raw) < len(events) {
		e.raw = make([]unix.EpollEvent, len(events))
	}
	raw := e.raw[:len(events)]
	n, err := unix.EpollWait(e.epfd, raw, timeoutMs)
	if err != nil {
		if errors.Is(err, unix.EBADF) || errors.Is(err, unix.EINVAL) {
			return 0, api.ErrMultiplexerClosed
		}
		return 0, err
	}
	for i := 0; i < n; i++ {
		events[i] = Event{
			Data:   raw[i].Fd,
			Events: reportedEvents(raw[i].Events),
		}
	}
	return n, nil
}

// Close releases the epoll descriptor.
func (e *Epoll) Close() error {
	return unix.Close(e.epfd)
}
