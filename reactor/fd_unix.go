//go:build unix

// File: reactor/fd_unix.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package reactor

import "golang.org/x/sys/unix"

// CloseFD closes a raw file descriptor. Workers use it to release
// connection sockets they own.
func CloseFD(fd int) error {
	return unix.Close(fd)
}
