//go:build !unix

// File: internal/wakeup/wakeup_stub.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package wakeup

import "github.com/momentics/hioload-http/api"

// New is unavailable on this platform.
func New() (*Channel, error) {
	return nil, api.ErrNotSupported
}

// Nudge is unavailable on this platform.
func (c *Channel) Nudge() error { return api.ErrNotSupported }

// Drain is a no-op on this platform.
func (c *Channel) Drain() {}

// Close is a no-op on this platform.
func (c *Channel) Close() error { return nil }
