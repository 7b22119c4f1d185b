//go:build !unix

// File: reactor/fd_stub.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package reactor

import "github.com/momentics/hioload-http/api"

// CloseFD is unavailable on this platform.
func CloseFD(fd int) error {
	return api.ErrNotSupported
}
