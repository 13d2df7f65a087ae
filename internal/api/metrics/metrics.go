// Package metrics defines and registers all custom Prometheus metrics for the
// client portal. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics register with the default Prometheus registry at package init via
// promauto; the /metrics route exposes them alongside the HTTP metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "clientdesk"

// ── Store metrics ─────────────────────────────────────────────────────────────

// StoreMutationsTotal counts successful entity mutations.
// Labels:
//   - entity: "user", "client", "project" or "resource"
//   - verb: "create", "update" or "delete"
var StoreMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_mutations_total",
		Help:      "Total number of successful entity mutations.",
	},
	[]string{"entity", "verb"},
)

// StoreErrorsTotal counts rejected or failed entity mutations.
// Label:
//   - reason: "duplicate", "not_found", "invalid_input", "invalid_reference",
//     "unauthenticated", "forbidden" or "storage"
var StoreErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_errors_total",
		Help:      "Total number of entity mutations that did not complete.",
	},
	[]string{"reason"},
)

// SideEffectFailuresTotal counts audit entries and notifications that could not
// be written after the primary mutation succeeded.
// Label:
//   - kind: "activity" or "notification"
var SideEffectFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "side_effect_failures_total",
		Help:      "Total number of best-effort audit or notification writes that failed.",
	},
	[]string{"kind"},
)

// NotificationsCreatedTotal counts inbox alerts, by type tag.
var NotificationsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_created_total",
		Help:      "Total number of notifications created, by type.",
	},
	[]string{"type"},
)

// ── Gateway metrics ───────────────────────────────────────────────────────────

// GatewayFallback is 1 once the database gateway has entered degraded mode.
var GatewayFallback = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "gateway_fallback",
		Help:      "1 when the database gateway is in fallback mode, 0 otherwise.",
	},
)

// GatewayShortCircuitTotal counts calls rejected without touching the network.
// Label:
//   - op: "exec", "query" or "query_row"
var GatewayShortCircuitTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gateway_short_circuit_total",
		Help:      "Total number of gateway calls failed fast while in fallback mode.",
	},
	[]string{"op"},
)

// GatewayQueryDuration measures round trips that reached the database.
var GatewayQueryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "gateway_query_duration_seconds",
		Help:      "Duration of gateway calls that reached the database.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"op"},
)
