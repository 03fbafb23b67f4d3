// Package metrics holds the Prometheus collectors of the order service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "order_service"

var (
	// WebhooksReceived counts inbound gateway and courier callbacks by kind
	// (payment, courier) and result (applied, duplicate, ignored, review,
	// rejected, failed).
	WebhooksReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "webhooks",
			Name:      "received_total",
			Help:      "Total number of payment and courier callbacks by result",
		},
		[]string{"kind", "result"},
	)

	VersionConflictRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "version_conflict_retries_total",
			Help:      "Total number of read-modify-write retries after a version conflict",
		},
		[]string{"command"},
	)

	ReviewFlags = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "review_flags_total",
			Help:      "Total number of orders flagged for manual review",
		},
	)

	ReviewBacklog = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "review_backlog",
			Help:      "Number of orders currently waiting for manual review",
		},
	)

	StatusTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "status_transitions_total",
			Help:      "Total number of applied order status transitions by target status",
		},
		[]string{"status"},
	)

	NotificationFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "failures_total",
			Help:      "Total number of notification requests that could not be handed off",
		},
	)

	CourierMessagesDLQ = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "kafka_consumer",
			Name:      "courier_events_dlq_total",
			Help:      "Total number of courier messages sent to the dead letter topic",
		},
	)
)

// Register adds every collector to the default registry. Call once at startup.
func Register() {
	prometheus.MustRegister(
		WebhooksReceived,
		VersionConflictRetries,
		ReviewFlags,
		ReviewBacklog,
		StatusTransitions,
		NotificationFailures,
		CourierMessagesDLQ,
	)
}

func Handler() http.Handler {
	return promhttp.Handler()
}
