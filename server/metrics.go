// File: server/metrics.go
// Package server exposes reactor counters via Prometheus.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	connectionsAccepted  prometheus.Counter
	connectionsDestroyed prometheus.Counter
	connectionsExpired   prometheus.Counter
	coroResumes          prometheus.Counter
	queueFullDrops       prometheus.Counter
	registerFailures     prometheus.Counter
	liveConnections      prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		connectionsAccepted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "hioload", Subsystem: "reactor",
			Name: "connections_accepted_total",
			Help: "Connections registered by workers after acceptor hand-off.",
		}),
		connectionsDestroyed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "hioload", Subsystem: "reactor",
			Name: "connections_destroyed_total",
			Help: "Connections torn down for any reason.",
		}),
		connectionsExpired: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "hioload", Subsystem: "reactor",
			Name: "connections_expired_total",
			Help: "Connections reaped by the idle timeout.",
		}),
		coroResumes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "hioload", Subsystem: "reactor",
			Name: "coroutine_resumes_total",
			Help: "Coroutine resumptions driven by readiness events.",
		}),
		queueFullDrops: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "hioload", Subsystem: "reactor",
			Name: "queue_full_drops_total",
			Help: "Accepted fds dropped because a worker queue was full.",
		}),
		registerFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "hioload", Subsystem: "reactor",
			Name: "register_failures_total",
			Help: "Accepted fds whose multiplexer registration failed.",
		}),
		liveConnections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "hioload", Subsystem: "reactor",
			Name: "live_connections",
			Help: "Connections currently bound to a coroutine.",
		}),
	}
}
