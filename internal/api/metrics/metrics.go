// Package metrics defines the custom Prometheus metrics for the appliance
// portal. It is the single source of truth for metric names, labels, and
// help strings; promauto registers everything with the default registry at
// package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "esop_portal"

// LoginAttemptsTotal counts login attempts by outcome.
// Label:
//   - result: "success" or "failure"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// AuthRejectionsTotal counts requests rejected by the access-control
// middleware before reaching a handler.
// Label:
//   - reason: "missing_token", "invalid_token", "expired_token",
//     "unknown_user", "inactive_user", "forbidden"
var AuthRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_rejections_total",
		Help:      "Total number of requests rejected by authentication or role checks.",
	},
	[]string{"reason"},
)

// UpstreamRequestsTotal counts calls to the appliance-management API.
// Labels:
//   - endpoint: "appliances" or "leases"
//   - outcome: "ok", "error"
var UpstreamRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Total number of requests to the upstream appliance API, by endpoint and outcome.",
	},
	[]string{"endpoint", "outcome"},
)

// UpstreamRequestDuration measures upstream round-trip time.
// Label:
//   - endpoint: "appliances" or "leases"
var UpstreamRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Duration of requests to the upstream appliance API.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"endpoint"},
)

// UpstreamCacheTotal counts upstream-cache lookups.
// Label:
//   - result: "hit" or "miss"
var UpstreamCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_cache_total",
		Help:      "Total number of upstream response cache lookups, by result.",
	},
	[]string{"result"},
)
