// Package logger provides the zerolog-backed implementation of the
// core logging interface.
package logger

import corelogger "github.com/ahmedNJ467/koormatics-dispatch/core/logger"

// Logger mirrors the core logger interface so infra packages never
// import core/logger directly.
type Logger = corelogger.Logger

// NopLogger discards everything. Tests use it to silence components.
type NopLogger = corelogger.Nop

// New returns a Logger tagged with the component name. Output format
// and level come from the APP_ENV and LOG_LEVEL environment variables.
func New(component string) Logger {
	return NewZerologLogger(component)
}
