// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SimulationsComputed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credit_simulations_total",
			Help: "Total number of credit simulations computed",
		},
		[]string{"result"},
	)

	DecisionsIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credit_decisions_total",
			Help: "Total number of request-level approvability decisions",
		},
		[]string{"approvable", "policy"},
	)

	LifecycleTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "application_transitions_total",
			Help: "Total number of application lifecycle transitions",
		},
		[]string{"from", "to"},
	)

	TransitionConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "application_transition_conflicts_total",
			Help: "Total number of version-conflict rejections",
		},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)
)
