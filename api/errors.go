// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error values shared across the hioload-http core.

package api

import "errors"

var (
	// ErrMultiplexerClosed is returned by Multiplexer.Wait once the
	// multiplexer handle has been closed; it is the worker shutdown signal.
	ErrMultiplexerClosed = errors.New("multiplexer is closed")

	// ErrQueueFull is returned when a worker's pending-fd queue rejects a
	// hand-off. The caller keeps ownership of the fd.
	ErrQueueFull = errors.New("pending queue is full")

	// ErrBufferPoolClosed is returned by pool Get after Close.
	ErrBufferPoolClosed = errors.New("buffer pool is closed")

	// ErrNotSupported marks facilities unavailable on this platform.
	ErrNotSupported = errors.New("operation not supported")
)
