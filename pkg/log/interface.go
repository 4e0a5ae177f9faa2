// Package log provides a structured logging interface for steplm.
//
// The interface is slog-compatible so that callers can switch between the
// log/slog JSON backend and the zerolog console backend without touching the
// selection code. Selection-specific attribute keys live in attributes.go.
//
// Example usage:
//
//	logger := log.GetLogger().With(log.ComponentKey, "selection")
//	logger.Info("round committed",
//	    log.RoundKey, 2,
//	    log.FeatureKey, 7,
//	    log.AICKey, -41.3,
//	)
package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// Fields are passed as alternating key/value pairs. With returns a child
// logger carrying pre-populated fields.
type Logger interface {
	// Debug logs a debug-level message, e.g. one entry per candidate fit.
	Debug(msg string, fields ...any)

	// Info logs an info-level message, e.g. baseline AIC and committed rounds.
	Info(msg string, fields ...any)

	// Warn logs a warning-level message, e.g. undefined statistics.
	Warn(msg string, fields ...any)

	// Error logs an error-level message. If the first field is an error it is
	// attached with its stack trace instead of being treated as a key.
	//
	// Example:
	//   logger.Error("selection failed", err, log.RoundKey, 3)
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits records at the given level.
	// Use it to skip building expensive fields such as full AIC tables.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
