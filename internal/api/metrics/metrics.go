// Package metrics defines and registers all custom Prometheus metrics for the
// bookshelf API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bookshelf"

// ── Authentication metrics ───────────────────────────────────────────────────

// AuthRequestsTotal counts request authentication outcomes.
// Label:
//   - outcome: "anonymous", "authenticated", "rejected" or "already_authenticated"
var AuthRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_requests_total",
		Help:      "Total number of requests by authentication outcome.",
	},
	[]string{"outcome"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "bad_credentials", "user_not_found" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "success", "conflict", "invalid" or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// TokensIssuedTotal counts tokens handed out by login, registration and
// profile updates.
var TokensIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of bearer tokens issued.",
	},
)

// IdentityCacheTotal counts identity cache lookups.
// Label:
//   - result: "hit", "miss" or "stale" (a miss whose write was dropped
//     because the entry was invalidated meanwhile)
var IdentityCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "identity_cache_total",
		Help:      "Total number of identity cache lookups, labelled by result (hit/miss/stale).",
	},
	[]string{"result"},
)

// ── Catalog metrics ──────────────────────────────────────────────────────────

// FavoritesChangesTotal counts favorite list mutations.
// Label:
//   - action: "add" or "remove"
var FavoritesChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "favorites_changes_total",
		Help:      "Total number of favorites added or removed.",
	},
	[]string{"action"},
)

// ProfileImageBytes observes the size of uploaded profile images.
var ProfileImageBytes = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "profile_image_bytes",
		Help:      "Size of accepted profile image uploads in bytes.",
		Buckets:   prometheus.ExponentialBuckets(16*1024, 2, 9), // 16KiB … 4MiB
	},
)
