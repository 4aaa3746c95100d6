// Package metrics defines and registers all custom Prometheus metrics for the
// ledger API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics registered via promauto attach to the default registry at package
// init; the /metrics endpoint exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ledger"

// UsersResolvedTotal counts get-or-create resolutions of a username.
var UsersResolvedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_resolved_total",
		Help:      "Total number of username get-or-create resolutions.",
	},
)

// UsersDeletedTotal counts deleted users; their transactions cascade with them.
var UsersDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_deleted_total",
		Help:      "Total number of users deleted (transactions cascade with them).",
	},
)

// TransactionsCreatedTotal counts recorded ledger entries.
// Label:
//   - kind: "income" or "expense"
var TransactionsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transactions_created_total",
		Help:      "Total number of transactions recorded, by kind.",
	},
	[]string{"kind"},
)

// TransactionsRemovedTotal counts removal attempts that reached the ownership
// guard.
// Labels:
//   - kind: the expected kind ("income" or "expense")
//   - result: "removed" or "rejected" (absent, wrong owner, or wrong kind)
var TransactionsRemovedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transactions_removed_total",
		Help:      "Total number of transaction removal attempts, by kind and result.",
	},
	[]string{"kind", "result"},
)

// BalanceQueriesTotal counts net-balance reads.
// Label:
//   - source: "cache" (served from the balance cache) or "store"
var BalanceQueriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "balance_queries_total",
		Help:      "Total number of net-balance queries, by serving source.",
	},
	[]string{"source"},
)
