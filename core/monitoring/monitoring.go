// Package monitoring is the error-reporting seam between the dispatch
// engine and whatever backend the service wires in. Core code calls
// the package-level helpers; the app layer installs the concrete
// monitor once at startup.
package monitoring

import "time"

// Monitor receives errors and panics worth paging about.
type Monitor interface {
	CaptureException(err error, tags map[string]string)
	Recover()
	Flush(timeout time.Duration)
}

// NopMonitor discards all reports. It is the default until Init runs.
type NopMonitor struct{}

func (NopMonitor) CaptureException(error, map[string]string) {}
func (NopMonitor) Recover()                                  {}
func (NopMonitor) Flush(time.Duration)                       {}

var current Monitor = NopMonitor{}

// Init installs the process-wide monitor. A nil argument keeps the
// current one so callers can pass through optional config unchecked.
func Init(m Monitor) {
	if m != nil {
		current = m
	}
}

// CaptureException records the error with optional tags.
func CaptureException(err error, tags map[string]string) {
	current.CaptureException(err, tags)
}

// Recover captures panics in goroutines; defer it at goroutine entry.
func Recover() {
	current.Recover()
}

// Flush drains buffered events, called on shutdown.
func Flush(d time.Duration) {
	current.Flush(d)
}
