// Package metrics defines and registers all custom Prometheus metrics for
// the scholarship assistant API. It is the single source of truth for metric
// names, labels, and help strings. All metrics self-register with the
// default registry via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "assistant"

// ── Upstream proxy metrics ───────────────────────────────────────────────────

// UpstreamRequestsTotal counts outbound calls to the AI backend.
// Labels:
//   - route: first path segment of the upstream route (e.g. "insights")
//   - status: upstream HTTP status code, or "error" on a transport failure
var UpstreamRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Total number of outbound requests to the AI backend.",
	},
	[]string{"route", "status"},
)

// UpstreamRequestDuration measures the latency of a single outbound call.
// Label:
//   - route: first path segment of the upstream route
var UpstreamRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Duration of outbound requests to the AI backend.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"route"},
)

// ── Session metrics ──────────────────────────────────────────────────────────

// SessionCacheTotal counts session cache decisions.
// Label:
//   - result: "hit" (served from cache) or "miss" (fell through to the store)
var SessionCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_cache_total",
		Help:      "Total number of session cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// AuthFailuresTotal counts rejected requests on auth-required routes.
// Label:
//   - reason: "missing_token", "invalid_session", or "forbidden"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of requests rejected by authentication or RBAC.",
	},
	[]string{"reason"},
)

// SessionsIssuedTotal counts sessions minted by sign-up and sign-in.
var SessionsIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_issued_total",
		Help:      "Total number of sessions issued.",
	},
)
