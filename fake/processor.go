// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package fake

import (
	"sync"

	"github.com/eapache/queue"

	"github.com/momentics/hioload-http/api"
)

// Call records the arguments one ProcessRequest invocation observed.
type Call struct {
	FD    int
	Flags api.RequestFlags
	Next  []byte
}

// Processor is a scripted api.Processor. Each queued step handles exactly
// one call; once the script is exhausted every further call is a no-op
// returning a nil continuation cursor.
type Processor struct {
	mu    sync.Mutex
	steps *queue.Queue // of api.ProcessorFunc
	calls []Call
}

// NewProcessor creates a processor with an empty script.
func NewProcessor() *Processor {
	return &Processor{steps: queue.New()}
}

// Script appends steps to the call script.
func (p *Processor) Script(steps ...api.ProcessorFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, s := range steps {
		p.steps.Add(s)
	}
}

// ProcessRequest implements api.Processor.
func (p *Processor) ProcessRequest(req *api.Request, buf *api.Value, next []byte) []byte {
	p.mu.Lock()
	p.calls = append(p.calls, Call{FD: req.FD, Flags: req.Flags, Next: next})
	var step api.ProcessorFunc
	if p.steps.Length() > 0 {
		step = p.steps.Remove().(api.ProcessorFunc)
	}
	p.mu.Unlock()

	if step == nil {
		return nil
	}
	return step(req, buf, next)
}

// Calls returns a snapshot of the recorded calls.
func (p *Processor) Calls() []Call {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Call, len(p.calls))
	copy(out, p.calls)
	return out
}
