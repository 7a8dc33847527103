// Package metrics defines and registers all custom Prometheus metrics for the
// marketplace API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry at package init
// through promauto; importing the package is enough.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketplace"

// ── Access policy ─────────────────────────────────────────────────────────────

// PolicyDecisionsTotal counts access policy decisions.
// Labels:
//   - resource: offer, order, review or profile
//   - action: create, read, update or delete
//   - outcome: allow, authentication_required, forbidden, not_found, conflict
var PolicyDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "policy_decisions_total",
		Help:      "Total number of access policy decisions, by resource, action and outcome.",
	},
	[]string{"resource", "action", "outcome"},
)

// ── Marketplace activity ──────────────────────────────────────────────────────

// OffersCreatedTotal counts newly created offers.
var OffersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "offers_created_total",
		Help:      "Total number of offers created.",
	},
)

// OrdersCreatedTotal counts newly created orders.
// Label:
//   - offer_type: "basic", "standard" or "premium"
var OrdersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of orders created, by package tier.",
	},
	[]string{"offer_type"},
)

// OrderStatusChangesTotal counts order status updates by the resulting status.
var OrderStatusChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_status_changes_total",
		Help:      "Total number of order status changes, by new status.",
	},
	[]string{"status"},
)

// ReviewsCreatedTotal counts newly created reviews.
var ReviewsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reviews_created_total",
		Help:      "Total number of reviews created.",
	},
)

// IdempotentReplaysTotal counts order creations answered from an earlier request.
var IdempotentReplaysTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_idempotent_replays_total",
		Help:      "Total number of order creations served from an Idempotency-Key replay.",
	},
)

// ── Order events ──────────────────────────────────────────────────────────────

// OrderEventsProcessedTotal counts audit events written successfully.
// Label:
//   - type: "created", "status_changed" or "deleted"
var OrderEventsProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_events_processed_total",
		Help:      "Total number of order events written to the audit trail.",
	},
	[]string{"type"},
)

// OrderEventsErrorsTotal counts audit events that failed to persist.
var OrderEventsErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_events_errors_total",
		Help:      "Total number of order events that failed processing.",
	},
	[]string{"type"},
)

// OrderEventsQueueDepth tracks the number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var OrderEventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "order_events_queue_depth",
		Help:      "Current number of order events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// OrderEventProcessingDuration measures how long a single event takes to persist.
var OrderEventProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "order_event_processing_duration_seconds",
		Help:      "Duration of order event processing from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"type"},
)

// ── Cache ─────────────────────────────────────────────────────────────────────

// StatsCacheTotal counts stats cache lookups.
// Label:
//   - result: "hit" or "miss"
var StatsCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stats_cache_total",
		Help:      "Total number of base-info cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)
