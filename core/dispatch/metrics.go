package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	commitLatency      *prometheus.HistogramVec
	commitsTotal       *prometheus.CounterVec
	conflictsDetected  prometheus.Gauge
	availabilityChecks prometheus.Counter
)

// newCollectors creates new metric collectors.
func newCollectors() (*prometheus.HistogramVec, *prometheus.CounterVec, prometheus.Gauge, prometheus.Counter) {
	lat := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "assignment_commit_latency_seconds",
			Help:    "Latency of assignment commits from validation to store write",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)
	com := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assignment_commits_total",
			Help: "Number of assignment commit attempts",
		},
		[]string{"outcome"},
	)
	con := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "driver_conflicts_detected",
			Help: "Number of trips flagged by the last conflict scan",
		},
	)
	avl := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "availability_checks_total",
			Help: "Number of resource availability checks performed",
		},
	)
	return lat, com, con, avl
}

func init() {
	commitLatency, commitsTotal, conflictsDetected, availabilityChecks = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers dispatch metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(commitLatency, commitsTotal, conflictsDetected, availabilityChecks)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	commitLatency, commitsTotal, conflictsDetected, availabilityChecks = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
