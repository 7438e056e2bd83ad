package ai

import "sync/atomic"

// debugLogging gates slog.Debug calls in the hot tick path so argument
// construction is skipped when debug output is off. Atomic because the
// debug panel may flip it while the simulation loop is running.
var debugLogging atomic.Bool

// EnableDebugLogging turns AI debug logging on or off.
func EnableDebugLogging(enabled bool) {
	debugLogging.Store(enabled)
}

// IsDebugEnabled reports whether AI debug logging is on. Guard expensive
// debug log calls with it:
//
//	if ai.IsDebugEnabled() {
//	    slog.Debug("monster state changed", ...)
//	}
func IsDebugEnabled() bool {
	return debugLogging.Load()
}
