package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	expensesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "budgetflow_expenses_created_total",
		Help: "Number of expenses successfully recorded.",
	})
	expensesReversed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "budgetflow_expenses_reversed_total",
		Help: "Number of expenses reversed (deleted with accumulator rollback).",
	})
	expensesSettled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "budgetflow_expenses_settled_total",
		Help: "Number of expenses marked settled by their payer.",
	})
	settlementRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "budgetflow_settlement_computations_total",
		Help: "Number of settlement optimizations computed.",
	})
	partialAccumulatorUpdates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "budgetflow_partial_accumulator_updates_total",
		Help: "Number of multi-entry accumulator updates that only partly applied.",
	})
	accumulatorDrift = promauto.NewCounter(prometheus.CounterOpts{
		Name: "budgetflow_accumulator_drift_detected_total",
		Help: "Number of accumulator keys found drifted from the ledger during reconciliation.",
	})
)
