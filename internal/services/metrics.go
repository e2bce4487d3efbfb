package services

import "github.com/prometheus/client_golang/prometheus"

var (
	generationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "farewell_generations_total",
			Help: "Farewell generation results by outcome.",
		},
		[]string{"outcome"},
	)
	backendAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "farewell_backend_attempts_total",
			Help: "Calls to the remote generator by result.",
		},
		[]string{"result"},
	)
	backendAvailable = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "farewell_backend_available",
			Help: "1 when the last known generator status is connected, 0 on error, -1 while unknown.",
		},
	)
)

func init() {
	prometheus.MustRegister(generationsTotal, backendAttemptsTotal, backendAvailable)
	backendAvailable.Set(-1)
}
