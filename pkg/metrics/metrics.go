package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	BackendLabel = "backend"
	ActionLabel  = "action"
	OutcomeLabel = "outcome"
	Succeeded    = "succeeded"
	Failed       = "failed"

	ActionMark  = "mark"
	ActionProbe = "probe"
)

var (
	oracleQueryCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sweeper_oracle_queries_total",
			Help: "Number of satisfiability queries issued to the oracle",
		},
		[]string{BackendLabel, OutcomeLabel},
	)

	oracleQuerySummary = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "sweeper_oracle_query_duration_seconds",
			Help:       "The duration of a single satisfiability query",
			Objectives: map[float64]float64{0.95: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{OutcomeLabel},
	)

	knowledgeClauses = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sweeper_knowledge_clauses",
			Help: "Number of clauses in the knowledge base",
		},
	)

	moveCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sweeper_moves_total",
			Help: "Number of moves issued to the board",
		},
		[]string{ActionLabel},
	)

	turnCount = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sweeper_turns_total",
			Help: "Number of agent turns played",
		},
	)
)

func Register() {
	prometheus.MustRegister(oracleQueryCount)
	prometheus.MustRegister(oracleQuerySummary)
	prometheus.MustRegister(knowledgeClauses)
	prometheus.MustRegister(moveCount)
	prometheus.MustRegister(turnCount)
}

// OracleQuerySuccess returns an emitter that records a query answered
// by backend.
func OracleQuerySuccess(backend string) func(time.Duration) {
	return func(duration time.Duration) {
		oracleQueryCount.WithLabelValues(backend, Succeeded).Inc()
		oracleQuerySummary.WithLabelValues(Succeeded).Observe(duration.Seconds())
	}
}

// OracleQueryFailure returns an emitter that records a query backend
// failed to answer.
func OracleQueryFailure(backend string) func(time.Duration) {
	return func(duration time.Duration) {
		oracleQueryCount.WithLabelValues(backend, Failed).Inc()
		oracleQuerySummary.WithLabelValues(Failed).Observe(duration.Seconds())
	}
}

func SetKnowledgeClauses(n int) {
	knowledgeClauses.Set(float64(n))
}

func EmitMark() {
	moveCount.WithLabelValues(ActionMark).Inc()
}

func EmitProbe() {
	moveCount.WithLabelValues(ActionProbe).Inc()
}

func EmitTurn() {
	turnCount.Inc()
}
