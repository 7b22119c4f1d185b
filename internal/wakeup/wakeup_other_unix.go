//go:build unix && !linux

// File: internal/wakeup/wakeup_other_unix.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Self-pipe nudge channel for unix platforms without eventfd.

package wakeup

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// New creates a nudge channel backed by a non-blocking pipe.
func New() (*Channel, error) {
	var fds [2]int
	if err := unix.Pipe(fds[:]); err != nil {
		return nil, fmt.Errorf("wakeup pipe: %w", err)
	}
	for _, fd := range fds {
		unix.CloseOnExec(fd)
		if err := unix.SetNonblock(fd, true); err != nil {
			unix.Close(fds[0])
			unix.Close(fds[1])
			return nil, fmt.Errorf("wakeup pipe nonblock: %w", err)
		}
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
	if werr := unix.Close(c.wr); err == nil {
		err = werr
	}
	return err
}
