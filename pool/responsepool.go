// File: pool/responsepool.go
// Package pool recycles response buffers across connection lifetimes.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import (
	"bytes"
	"sync"

	"github.com/momentics/hioload-http/api"
)

const defaultFreeListSize = 1024

// ResponsePool hands out response buffers to connection coroutines. A
// coroutine gets one buffer for its whole lifetime, resets it between
// request iterations, and releases it through a deferred cleanup when the
// connection is destroyed.
type ResponsePool struct {
	mu     sync.Mutex
	free   chan *bytes.Buffer
	closed bool
}

// NewResponsePool creates a pool retaining up to size idle buffers.
func NewResponsePool(size int) *ResponsePool {
	if size <= 0 {
		size = defaultFreeListSize
	}
	return &ResponsePool{free: make(chan *bytes.Buffer, size)}
}

// Get returns an empty buffer, reusing an idle one when available. It fails
// only after Close.
func (p *ResponsePool) Get() (*bytes.Buffer, error) {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return nil, api.ErrBufferPoolClosed
	}
	select {
	case buf := <-p.free:
		return buf, nil
	default:
		return &bytes.Buffer{}, nil
	}
}

// Put resets the buffer and returns it to the free list; overflow is left
// to the garbage collector.
func (p *ResponsePool) Put(buf *bytes.Buffer) {
	if buf == nil {
		return
	}
	buf.Reset()
	select {
	case p.free <- buf:
	default:
	}
}

// Close marks the pool closed; subsequent Get calls fail.
func (p *ResponsePool) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
}
