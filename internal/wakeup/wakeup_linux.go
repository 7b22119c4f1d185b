//go:build linux

// File: internal/wakeup/wakeup_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux nudge channel backed by an eventfd in semaphore mode, falling back
// to a non-blocking pipe when eventfd is unavailable.

package wakeup

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// New creates a nudge channel.
func New() (*Channel, error) {
	efd, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_SEMAPHORE|unix.EFD_CLOEXEC)
	if err == nil {
		return &Channel{rd: efd, wr: efd}, nil
	}

	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_NONBLOCK|unix.O_CLOEXEC); err != nil {
		return nil, fmt.Errorf("wakeup pipe: %w", err)
	}
	return &Channel{rd: fds[0], wr: fds[1]}, nil
}

// Nudge writes one unit to the channel.
func (c *Channel) Nudge() error {
	var one = [8]byte{1, 0, 0, 0, 0, 0, 0, 0}
	_, err := unix.Write(c.wr, one[:])
	return err
}

// Drain consumes one unit. An empty channel is not an error.
func (c *Channel) Drain() {
	var buf [8]byte
	_, _ = unix.Read(c.rd, buf[:])
}

// Close releases both ends.
func (c *Channel) Close() error {
	err := unix.Close(c.rd)
	if c.wr != c.rd {
		if werr := unix.Close(c.wr); err == nil {
			err = werr
		}
	}
	return err
}
