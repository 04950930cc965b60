// Package log provides the structured logging interface used across langid.
//
// The Logger interface is slog-shaped so call sites read the same whichever
// backend is installed. The default backend is zerolog writing JSON lines;
// tests use TestLogger to capture entries in memory.
//
// Example usage:
//
//	logger := log.GetLoggerWithName("tree").With(
//	    log.ModelNameKey, "DecisionTreeClassifier",
//	)
//	logger.Info("Training started",
//	    log.OperationKey, log.OperationFit,
//	    log.SamplesKey, 1000,
//	    log.FeaturesKey, 7,
//	)
package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// Fields are alternating key-value pairs. Error treats an error passed as the
// first field specially and attaches its stack trace when one was recorded.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Warn(msg string, fields ...any)
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits log records at the given level.
	// Use it to skip building expensive debug payloads.
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

// LoggerProvider defines an interface for creating and configuring loggers.
type LoggerProvider interface {
	GetLogger() Logger
	GetLoggerWithName(name string) Logger
	SetLevel(level Level)
}

type globalProvider struct{}

func (globalProvider) GetLogger() Logger                    { return GetLogger() }
func (globalProvider) GetLoggerWithName(name string) Logger { return GetLoggerWithName(name) }
func (globalProvider) SetLevel(level Level)                 { SetLevel(level) }

// DefaultProvider returns the provider backed by the global zerolog logger.
func DefaultProvider() LoggerProvider {
	return globalProvider{}
}
