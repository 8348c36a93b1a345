// Package metrics defines and registers all custom Prometheus metrics for the
// accounts API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics register with the default Prometheus registry at init time; the
// router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "accounts"

// RegistrationsTotal counts completed registrations.
// Label:
//   - permission: the tier granted to the new account ("user", "admin", "root")
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts successfully registered, by permission tier.",
	},
	[]string{"permission"},
)

// RegistrationsRejectedTotal counts rejected registrations.
// Label:
//   - reason: "id_provided", "missing_fields", "forbidden", "username_taken"
var RegistrationsRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_rejected_total",
		Help:      "Total number of registration requests rejected, by reason.",
	},
	[]string{"reason"},
)

// LoginsTotal counts credential login attempts.
// Label:
//   - result: "success" or "failure" (failures are not split further so the
//     metric cannot be used to enumerate usernames)
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of credential login attempts, by result.",
	},
	[]string{"result"},
)

// TokenLookupsTotal counts bearer token resolutions.
// Label:
//   - result: "hit" (token resolved to a user) or "miss"
var TokenLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_lookups_total",
		Help:      "Total number of bearer token lookups, by result (hit/miss).",
	},
	[]string{"result"},
)
