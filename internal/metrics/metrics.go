// Package metrics defines the Prometheus collectors shared by the client core and
// the development server. Collectors register with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "projectmanager"

// RemoteRequestsTotal counts outgoing API calls.
// Labels:
//   - method: HTTP method
//   - outcome: "ok", "client_error", "server_error", "unauthorized" or "network_error"
var RemoteRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "remote_requests_total",
		Help:      "Total number of requests sent to the remote project service.",
	},
	[]string{"method", "outcome"},
)

// RemoteRequestDuration measures round-trip time of outgoing API calls.
var RemoteRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "remote_request_duration_seconds",
		Help:      "Round-trip duration of requests sent to the remote project service.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

// CacheFallbacksTotal counts reads served from the local store after a network failure.
var CacheFallbacksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_fallbacks_total",
		Help:      "Reads answered from the local store because the network was unreachable.",
	},
	[]string{"operation"},
)

// CacheWritesTotal counts mirror writes into the local store.
// Label result is "ok" or "error".
var CacheWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_writes_total",
		Help:      "Writes mirroring remote state into the local store.",
	},
	[]string{"operation", "result"},
)

// StoreWriteFailuresTotal counts local store writes that rolled back.
var StoreWriteFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_write_failures_total",
		Help:      "Local store write operations that failed and were rolled back.",
	},
	[]string{"operation"},
)

// SessionTransitionsTotal counts session state changes.
// Label event is "signed_in", "signed_out" or "expired".
var SessionTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_transitions_total",
		Help:      "Session state transitions.",
	},
	[]string{"event"},
)

// DroppedCompletionsTotal counts async completions discarded because their scope was torn down.
var DroppedCompletionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dropped_completions_total",
		Help:      "Asynchronous completions dropped after their owner was torn down.",
	},
)

// HTTPRequestsTotal counts requests served by the development server.
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "devserver",
		Name:      "http_requests_total",
		Help:      "Requests handled by the development API server.",
	},
	[]string{"method", "route", "status"},
)
