// Package monitoring wires Sentry error reporting behind the core
// Monitor interface.
package monitoring

import (
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/ahmedNJ467/koormatics-dispatch/config"
	coremon "github.com/ahmedNJ467/koormatics-dispatch/core/monitoring"
)

const panicFlushTimeout = 2 * time.Second

// NewSentryMonitor initializes Sentry from the configuration. With no
// DSN configured it returns the no-op monitor so callers never branch.
func NewSentryMonitor(cfg config.SentryConfig) (coremon.Monitor, error) {
	if !cfg.Enabled() {
		return coremon.NopMonitor{}, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		TracesSampleRate: cfg.TracesSampleRate,
		Release:          cfg.Release,
	})
	if err != nil {
		return nil, err
	}
	return &sentryMonitor{}, nil
}

type sentryMonitor struct{}

// CaptureException reports the error. Tags become Sentry scope tags so
// dashboards can slice by trip id or component.
func (s *sentryMonitor) CaptureException(err error, tags map[string]string) {
	if err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("service", "koormatics-dispatch")
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		sentry.CaptureException(err)
	})
}

// Recover forwards a goroutine panic to Sentry, flushes, and re-panics
// so the process still crashes visibly.
func (s *sentryMonitor) Recover() {
	if r := recover(); r != nil {
		sentry.CurrentHub().Recover(r)
		sentry.Flush(panicFlushTimeout)
		panic(r)
	}
}

func (s *sentryMonitor) Flush(timeout time.Duration) { sentry.Flush(timeout) }
