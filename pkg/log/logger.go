package log

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	lerrors "github.com/YuminosukeSato/langid/pkg/errors"
)

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
	componentKey      = "component"
)

var (
	mu       sync.RWMutex
	output   io.Writer = os.Stderr
	minLevel           = LevelInfo
	root               = newRoot()
)

func newRoot() zerolog.Logger {
	return zerolog.New(output).With().Timestamp().Logger().Level(toZerolog(minLevel))
}

// SetupLogger はレベル文字列からグローバルロガーを構成し、
// pkg/errors の警告を構造化ログとして出力するようにします。
func SetupLogger(loglevel string) error {
	level, err := ToLogLevel(loglevel)
	if err != nil {
		return err
	}
	SetLevel(level)

	warnLogger := GetLoggerWithName("warnings")
	lerrors.SetZerologWarnFunc(func(w error) {
		fields := []any{ErrorTypeKey, warningType(w)}
		if m, ok := w.(zerolog.LogObjectMarshaler); ok {
			fields = append(fields, "detail", m)
		}
		warnLogger.Warn(w.Error(), fields...)
	})
	return nil
}

// SetOutput redirects all loggers created afterwards. Tests use it with a buffer.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	root = newRoot()
}

// SetLevel sets the minimum level for the global logger.
func SetLevel(level Level) {
	mu.Lock()
	defer mu.Unlock()
	minLevel = level
	root = newRoot()
}

// ToLogLevel parses "debug", "info", "warn" or "error".
func ToLogLevel(level string) (Level, error) {
	switch level {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, lerrors.NewValidationError("log.level", "must be one of debug, info, warn, error", level)
	}
}

// GetLogger returns a logger backed by the global zerolog instance.
func GetLogger() Logger {
	mu.RLock()
	defer mu.RUnlock()
	return &zeroLogger{zl: root}
}

// GetLoggerWithName returns a logger tagged with a component name.
func GetLoggerWithName(name string) Logger {
	return GetLogger().With(componentKey, name)
}

// NewLogger wraps an existing zerolog.Logger.
func NewLogger(zl zerolog.Logger) Logger {
	return &zeroLogger{zl: zl}
}

type zeroLogger struct {
	zl zerolog.Logger
}

func (l *zeroLogger) Debug(msg string, fields ...any) {
	l.emit(l.zl.Debug(), msg, fields)
}

func (l *zeroLogger) Info(msg string, fields ...any) {
	l.emit(l.zl.Info(), msg, fields)
}

func (l *zeroLogger) Warn(msg string, fields ...any) {
	l.emit(l.zl.Warn(), msg, fields)
}

// Error accepts an error as its first field, mirroring the TestLogger.
func (l *zeroLogger) Error(msg string, fields ...any) {
	ev := l.zl.Error()
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			ev = ev.Err(err)
			if st := extractStacktrace(err); st != "" {
				ev = ev.Str(StacktraceAttrKey, st)
			}
			fields = fields[1:]
		}
	}
	l.emit(ev, msg, fields)
}

func (l *zeroLogger) With(fields ...any) Logger {
	ctx := l.zl.With()
	for i := 0; i+1 < len(fields); i += 2 {
		ctx = ctx.Interface(keyString(fields[i]), fieldValue(fields[i+1]))
	}
	return &zeroLogger{zl: ctx.Logger()}
}

func (l *zeroLogger) Enabled(_ context.Context, level Level) bool {
	return toZerolog(level) >= l.zl.GetLevel()
}

func (l *zeroLogger) emit(ev *zerolog.Event, msg string, fields []any) {
	if ev == nil {
		return
	}
	for i := 0; i+1 < len(fields); i += 2 {
		ev = addField(ev, keyString(fields[i]), fields[i+1])
	}
	ev.Msg(msg)
}

func addField(ev *zerolog.Event, key string, value any) *zerolog.Event {
	switch v := value.(type) {
	case string:
		return ev.Str(key, v)
	case int:
		return ev.Int(key, v)
	case float64:
		return ev.Float64(key, v)
	case bool:
		return ev.Bool(key, v)
	case time.Duration:
		return ev.Dur(key, v)
	case []float64:
		return ev.Floats64(key, v)
	case zerolog.LogObjectMarshaler:
		return ev.Object(key, v)
	case error:
		return ev.AnErr(key, v)
	default:
		return ev.Interface(key, v)
	}
}

func toZerolog(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}
