// File: server/server.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Server lifecycle. Start builds every worker's resources first, then
// launches the threads and rendezvous on the barrier, so the acceptor never
// hands off a socket before all workers are waiting. Shutdown closes each
// worker's multiplexer, which turns its next wait into the exit signal.

package server

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/momentics/hioload-http/api"
	"github.com/momentics/hioload-http/internal/concurrency"
	"github.com/momentics/hioload-http/pool"
	"github.com/momentics/hioload-http/reactor"
)

// Server owns the connection table and the worker pool.
type Server struct {
	cfg        Config
	log        *zap.Logger
	processor  api.Processor
	muxFactory reactor.Factory
	registerer prometheus.Registerer
	metrics    *metrics
	pinWorkers bool

	conns     []Conn
	workers   []*Worker
	barrier   *concurrency.Barrier
	responses *pool.ResponsePool
	next      atomic.Uint32
	started   bool
}

// New builds a server. The processor is the embedding application's request
// parsing and dispatch; it runs inside connection coroutines.
func New(cfg Config, processor api.Processor, opts ...Option) (*Server, error) {
	if processor == nil {
		return nil, errors.New("nil processor")
	}
	cfg.fillDefaults()

	s := &Server{
		cfg:        cfg,
		log:        zap.NewNop(),
		processor:  processor,
		muxFactory: reactor.NewEpoll,
	}
	for _, o := range opts {
		o(s)
	}
	if s.registerer == nil {
		s.registerer = prometheus.NewRegistry()
	}
	s.metrics = newMetrics(s.registerer)

	s.conns = make([]Conn, s.cfg.MaxFD)
	s.responses = pool.NewResponsePool(s.cfg.ResponsePoolSize)
	return s, nil
}

// Start creates all workers and blocks until every one of them is waiting
// on its multiplexer. Any resource failure tears down what was built and
// returns.
func (s *Server) Start() error {
	if s.started {
		return errors.New("server already started")
	}

	workers := make([]*Worker, 0, s.cfg.WorkerCount)
	for i := 0; i < s.cfg.WorkerCount; i++ {
		w, err := s.newWorker(i)
		if err != nil {
			for _, built := range workers {
				built.wake.Close()
				built.mux.Close()
			}
			return err
		}
		workers = append(workers, w)
	}
	s.workers = workers

	s.barrier = concurrency.NewBarrier(len(workers) + 1)
	for _, w := range workers {
		go w.run()
	}
	s.barrier.Wait()

	s.started = true
	s.log.Info("workers ready", zap.Int("count", len(workers)))
	return nil
}

// Shutdown stops every worker and destroys all remaining connections. Each
// worker sees its multiplexer close, rendezvous on the barrier, reaps its
// connections, and exits; the launcher then releases the nudge channels.
func (s *Server) Shutdown() {
	if !s.started {
		return
	}

	for _, w := range s.workers {
		w.mux.Close()
		w.Nudge()
	}

	s.barrier.Wait()

	for _, w := range s.workers {
		w.wake.Close()
		<-w.joined
	}

	s.responses.Close()
	s.started = false
	s.log.Info("workers stopped")
}

// WorkerCount returns the number of workers.
func (s *Server) WorkerCount() int { return len(s.workers) }

// Worker returns worker i.
func (s *Server) Worker(i int) *Worker { return s.workers[i] }

// ScheduleClient hands an accepted fd to the next worker round-robin and
// nudges it. On error the caller keeps ownership of the fd and should close
// it.
func (s *Server) ScheduleClient(fd int) error {
	if len(s.workers) == 0 {
		return fmt.Errorf("server not started")
	}
	w := s.workers[int(s.next.Add(1))%len(s.workers)]
	if err := w.AddClient(fd); err != nil {
		return err
	}
	w.Nudge()
	return nil
}

// Registry returns the metrics registerer the core registered with.
func (s *Server) Registry() prometheus.Registerer { return s.registerer }
