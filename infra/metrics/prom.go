package metrics

import (
	coremetrics "github.com/ahmedNJ467/koormatics-dispatch/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records commit outcomes in Prometheus metrics.
type PromSink struct {
	commits   *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	conflicts prometheus.Gauge
}

// NewPromSink registers commit metrics on the default Prometheus registerer.
// The Prometheus server should be started separately using cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	commits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_commit_events_total",
		Help: "Total number of assignment commit events",
	}, []string{"trip_id", "outcome"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dispatch_commit_duration_seconds",
		Help:    "Time between validation start and commit result",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	conflicts := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dispatch_scan_conflicted_trips",
		Help: "Number of trips flagged by the most recent conflict scan",
	})

	if err := reg.Register(commits); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			commits = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(latency); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			latency = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(conflicts); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			conflicts = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}

	return &PromSink{commits: commits, latency: latency, conflicts: conflicts}, nil
}

// RecordCommit increments the counter and observes latency for each record.
func (s *PromSink) RecordCommit(recs []coremetrics.CommitRecord) error {
	for _, r := range recs {
		s.commits.WithLabelValues(r.TripID, r.Outcome).Inc()
		s.latency.WithLabelValues(r.Outcome).Observe(r.Latency.Seconds())
	}
	return nil
}

// RecordConflictScan sets the gauge to the number of conflicted trips.
func (s *PromSink) RecordConflictScan(rec coremetrics.ConflictScanRecord) error {
	if s.conflicts != nil {
		s.conflicts.Set(float64(rec.Trips))
	}
	return nil
}
