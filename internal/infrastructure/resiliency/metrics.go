package resiliency

import "github.com/prometheus/client_golang/prometheus"

var (
	callsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resiliency_calls_total",
			Help: "Outcomes of calls passed through the resiliency envelope, by target and outcome.",
		},
		[]string{"target", "outcome"},
	)

	callDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "resiliency_call_duration_seconds",
			Help:    "Wall-clock duration of calls passed through the resiliency envelope.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"target"},
	)

	circuitState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "resiliency_circuit_state",
			Help: "Current circuit breaker state per target (0=closed, 1=half-open, 2=open).",
		},
		[]string{"target"},
	)
)

// MustRegister registers the envelope's metric collectors against reg. Call
// once during composition root wiring.
func MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(callsTotal, callDurationSeconds, circuitState)
}
