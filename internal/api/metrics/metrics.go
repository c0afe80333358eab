// Package metrics defines all custom Prometheus metrics for the clinical
// portal. It is the single source of truth for metric names, labels, and
// help strings; metrics register themselves with the default registry at
// import time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ActiveSessions tracks the number of currently established sessions.
// Maintained by the session manager: a login increments unless it
// replaces an existing session, and only clearing a live session
// decrements, so stale-cookie logouts cannot drive the gauge negative.
var ActiveSessions = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Number of currently active sessions.",
	},
)

// AccessDeniedTotal counts role-gate denials.
// Label:
//   - role: the caller's role at denial time
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of role-denied requests, by caller role.",
	},
	[]string{"role"},
)

// DecryptFailuresTotal counts per-field decryption failures that were
// substituted with the visible fallback text.
// Label:
//   - field: "user_pii" or "appointment_details"
var DecryptFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "decrypt_failures_total",
		Help:      "Total number of field decryption failures, by field kind.",
	},
	[]string{"field"},
)

// BackupsTotal counts backup runs.
// Label:
//   - result: "success" or "failure"
var BackupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backups_total",
		Help:      "Total number of backup runs, by result.",
	},
	[]string{"result"},
)
