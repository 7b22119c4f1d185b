// File: server/types.go
// Package server holds the reactor core configuration.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"runtime"
	"time"
)

const maxEventsCap = 1024

// Config holds all reactor-side configuration parameters. Loading them from
// files or the environment is the embedding application's concern.
type Config struct {
	WorkerCount      int           // number of worker threads, default NumCPU
	MaxFD            int           // connection table size (highest fd + 1)
	KeepAliveTimeout uint32        // idle window in reaper ticks (seconds)
	Expires          time.Duration // offset for the cached Expires header
	ReadBufferSize   int           // per-connection read buffer size
	ResponsePoolSize int           // idle response buffers retained
	ProxyProtocol    bool          // accept PROXY preambles on first requests
	AllowCORS        bool          // emit cross-origin response headers
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		WorkerCount:      runtime.NumCPU(),
		MaxFD:            64 * 1024,
		KeepAliveTimeout: 15,
		Expires:          10 * time.Minute,
		ReadBufferSize:   4096,
		ResponsePoolSize: 1024,
	}
}

func (c *Config) fillDefaults() {
	def := DefaultConfig()
	if c.WorkerCount <= 0 {
		c.WorkerCount = def.WorkerCount
	}
	if c.MaxFD <= 0 {
		c.MaxFD = def.MaxFD
	}
	if c.KeepAliveTimeout == 0 {
		c.KeepAliveTimeout = def.KeepAliveTimeout
	}
	if c.Expires == 0 {
		c.Expires = def.Expires
	}
	if c.ReadBufferSize <= 0 {
		c.ReadBufferSize = def.ReadBufferSize
	}
	if c.ResponsePoolSize <= 0 {
		c.ResponsePoolSize = def.ResponsePoolSize
	}
}

// maxEvents is the multiplexer batch size: MaxFD capped at 1024.
func (c *Config) maxEvents() int {
	if c.MaxFD < maxEventsCap {
		return c.MaxFD
	}
	return maxEventsCap
}
