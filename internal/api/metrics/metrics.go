// Package metrics defines and registers all custom Prometheus metrics for the
// portfolio API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portfolio"

// ── Guard metrics ─────────────────────────────────────────────────────────────

// GuardDecisionsTotal counts access guard outcomes.
// Labels:
//   - guard: policy name ("auth", "admin", "refresh")
//   - outcome: "allowed", "unauthenticated" or "forbidden"
//   - stage: pipeline stage the request reached
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of access guard decisions.",
	},
	[]string{"guard", "outcome", "stage"},
)

// AuthEventsTotal counts identity events.
// Label:
//   - event: "register", "login", "login_failed", "refresh", "logout"
var AuthEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_events_total",
		Help:      "Total number of authentication events, by type.",
	},
	[]string{"event"},
)

// ── Asset metrics ─────────────────────────────────────────────────────────────

// UploadsTotal counts upload attempts.
// Labels:
//   - category: "uploads", "images", "pdfs"
//   - result: "stored" or "rejected"
var UploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_total",
		Help:      "Total number of upload attempts, by category and result.",
	},
	[]string{"category", "result"},
)

// UploadBytes observes the size of stored uploads.
var UploadBytes = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upload_size_bytes",
		Help:      "Size of stored uploads in bytes.",
		Buckets:   prometheus.ExponentialBuckets(1024, 4, 8), // 1KiB .. 16MiB
	},
	[]string{"category"},
)

// AssetDeletesTotal counts asset removals.
// Labels:
//   - source: "admin" (DELETE route) or "cleanup" (superseded profile image)
//   - result: "ok" or "error"
var AssetDeletesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "asset_deletes_total",
		Help:      "Total number of asset deletions, by source and result.",
	},
	[]string{"source", "result"},
)

// ── HTTP metrics ──────────────────────────────────────────────────────────────

// HTTPRequestDuration measures request latency by route template.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests, by method, route and status.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route", "status"},
)

// ResultLabel maps an error to the conventional "ok"/"error" label.
func ResultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
