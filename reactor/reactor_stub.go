//go:build !linux

// File: reactor/reactor_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub multiplexer factory for platforms without epoll support.

package reactor

import "github.com/momentics/hioload-http/api"

// NewEpoll is unavailable on this platform.
func NewEpoll() (Multiplexer, error) {
	return nil, api.ErrNotSupported
}
