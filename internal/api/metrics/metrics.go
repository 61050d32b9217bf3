// Package metrics defines and registers the custom Prometheus metrics of the
// shop API. It is the single source of truth for metric names, labels, and
// help strings.
//
// All vectors are registered with the default Prometheus registry through
// promauto when the package is loaded.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "shop"

// ── Authentication metrics ───────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// TokenValidationsTotal counts bearer token checks made by the auth middleware.
// Label:
//   - result: "valid", "invalid" or "missing"
var TokenValidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_validations_total",
		Help:      "Total number of bearer token validations, labelled by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts created accounts.
// Label:
//   - role: "Admin" or "User"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registered users, by role.",
	},
	[]string{"role"},
)

// ── Authorization metrics ────────────────────────────────────────────────────

// AuthzDenialsTotal counts requests answered with 403.
// Label:
//   - rule: the route template that denied the request (e.g. "/api/User/:id")
var AuthzDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_denials_total",
		Help:      "Total number of requests denied by the authorization policy, by route.",
	},
	[]string{"rule"},
)

// ── Order metrics ────────────────────────────────────────────────────────────

// OrdersCreatedTotal counts stored orders.
var OrdersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of orders created.",
	},
)

// OrderCounter feeds OrdersCreatedTotal from the order service.
type OrderCounter struct{}

func (OrderCounter) OrderCreated() { OrdersCreatedTotal.Inc() }
