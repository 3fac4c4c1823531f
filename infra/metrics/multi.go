package metrics

import coremetrics "github.com/ahmedNJ467/koormatics-dispatch/core/metrics"

// MultiSink fans commit records out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordCommit forwards the records to all sinks, returning the first error encountered.
func (m *MultiSink) RecordCommit(recs []coremetrics.CommitRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordCommit(recs); err != nil {
			return err
		}
	}
	return nil
}

// RecordConflictScan forwards scan records when supported by the sink.
func (m *MultiSink) RecordConflictScan(rec coremetrics.ConflictScanRecord) error {
	for _, s := range m.Sinks {
		if cr, ok := s.(coremetrics.ConflictRecorder); ok {
			if err := cr.RecordConflictScan(rec); err != nil {
				return err
			}
		}
	}
	return nil
}
