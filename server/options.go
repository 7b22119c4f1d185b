// File: server/options.go
// Package server defines functional options for the reactor core.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/momentics/hioload-http/reactor"
)

// Option customizes server initialization.
type Option func(*Server)

// WithLogger sets the structured logger; the default discards output.
func WithLogger(log *zap.Logger) Option {
	return func(s *Server) {
		s.log = log
	}
}

// WithMultiplexerFactory overrides how each worker creates its readiness
// multiplexer. The default is the platform epoll; tests substitute the fake
// package.
func WithMultiplexerFactory(f reactor.Factory) Option {
	return func(s *Server) {
		s.muxFactory = f
	}
}

// WithRegistry registers the core's metrics with reg instead of a private
// registry.
func WithRegistry(reg prometheus.Registerer) Option {
	return func(s *Server) {
		s.registerer = reg
	}
}

// WithPinning binds each worker thread to a CPU, round-robin by worker
// index. Best effort.
func WithPinning(on bool) Option {
	return func(s *Server) {
		s.pinWorkers = on
	}
}
