// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package reactor provides the readiness multiplexer abstraction of the
// hioload-http core and its Linux epoll implementation. Non-Linux builds get
// a stub that reports api.ErrNotSupported; the fake package supplies an
// in-memory implementation for tests.
package reactor
