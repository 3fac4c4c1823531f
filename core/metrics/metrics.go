// Package metrics defines the observability contracts implemented by
// the sinks under infra/metrics.
package metrics

import "time"

// CommitRecord represents one commit attempt to be recorded.
type CommitRecord struct {
	TripID    string
	Outcome   string // committed | rejected | failed
	Resources int
	Latency   time.Duration
	Time      time.Time
}

// ConflictScanRecord captures one advisory conflict scan.
type ConflictScanRecord struct {
	Date    string
	Drivers int
	Trips   int
	Time    time.Time
}

// MetricsSink records commit outcomes for observability purposes.
type MetricsSink interface {
	RecordCommit(recs []CommitRecord) error
}

// ConflictRecorder records conflict scans. Sinks implement it when the
// backend can represent scan results.
type ConflictRecorder interface {
	RecordConflictScan(rec ConflictScanRecord) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordCommit([]CommitRecord) error          { return nil }
func (NopSink) RecordConflictScan(ConflictScanRecord) error { return nil }

// Config defines settings for metrics sinks.
type Config struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusPort    string `json:"prometheus_port"`
	InfluxEnabled     bool   `json:"influx_enabled"`
	InfluxURL         string `json:"influx_url"`
	InfluxToken       string `json:"influx_token"`
	InfluxOrg         string `json:"influx_org"`
	InfluxBucket      string `json:"influx_bucket"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.PrometheusPort == "" {
		c.PrometheusPort = "2112"
	}
}
