package fsm

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric definitions with appropriate labels.
var (
	// transitionsTotal tracks applied transitions by machine and edge.
	transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fsm_transitions_total",
		Help: "Total number of applied transitions by machine, from and to kind",
	}, []string{"machine", "from", "to"})

	// transitionsRejectedTotal tracks illegal transition attempts.
	transitionsRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fsm_transitions_rejected_total",
		Help: "Total number of rejected transition attempts by machine, from and to kind",
	}, []string{"machine", "from", "to"})

	// rollbacksTotal tracks one-level rollbacks by machine.
	rollbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fsm_rollbacks_total",
		Help: "Total number of rollbacks by machine",
	}, []string{"machine"})
)

// sanitizeMachine keeps the machine label cardinality sane.
func sanitizeMachine(name string) string {
	if name == "" {
		return "unknown"
	}

	return name
}
