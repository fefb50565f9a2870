// Package metrics defines and registers all custom Prometheus metrics for the
// leave API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "leave"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts register and login calls.
// Labels:
//   - action: "register" or "login"
//   - result: "success" or "failure"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of register and login attempts, by outcome.",
	},
	[]string{"action", "result"},
)

// ── Leave metrics ─────────────────────────────────────────────────────────────

// LeaveRequestsSubmittedTotal counts newly created leave records.
// Label:
//   - type: "annual", "sick", "unpaid" or "other"
var LeaveRequestsSubmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_submitted_total",
		Help:      "Total number of leave requests submitted, by leave type.",
	},
	[]string{"type"},
)

// LeaveDecisionsTotal counts approve/reject decisions that were persisted.
// Label:
//   - status: "approved" or "rejected"
var LeaveDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "decisions_total",
		Help:      "Total number of leave decisions applied, by resulting status.",
	},
	[]string{"status"},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsTotal counts delivery attempts made by dispatcher workers.
// Label:
//   - result: "sent", "failed" or "dropped" (queue full)
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of notifications handled, by result.",
	},
	[]string{"result"},
)

// NotificationsDedupTotal counts deduplication decisions for status emails.
// Label:
//   - result: "hit" (duplicate, skipped) or "miss" (first time, sent)
var NotificationsDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_dedup_total",
		Help:      "Total number of notification deduplication checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// NotificationQueueDepth tracks the messages waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var NotificationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notification_queue_depth",
		Help:      "Current number of notifications pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// NotificationSendDuration measures how long a single delivery takes.
// Label:
//   - result: "sent" or "failed"
var NotificationSendDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "notification_send_duration_seconds",
		Help:      "Duration of a single notification delivery attempt.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)
