// Package monitoring holds the diagnostic logger shared by the placement
// engine packages.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// diagnostics gates Debugf output. Toggled from config at session start.
var diagnostics bool

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// SetDiagnostics enables or disables verbose per-query logging.
func SetDiagnostics(enabled bool) { diagnostics = enabled }

// DiagnosticsEnabled reports whether Debugf currently emits output.
func DiagnosticsEnabled() bool { return diagnostics }

// Debugf forwards to Logf only when diagnostics are enabled. Use it for
// chatter that fires on every query or every blocked cell.
func Debugf(format string, v ...interface{}) {
	if !diagnostics {
		return
	}
	Logf(format, v...)
}
