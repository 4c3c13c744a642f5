package logging

import "context"

// Log levels
const (
	LevelDebug   = "DEBUG"
	LevelInfo    = "INFO"
	LevelWarning = "WARNING"
	LevelError   = "ERROR"
)

// Logger is the structured logger threaded through the application
type Logger interface {
	Log(level, message string, metadata map[string]interface{})
}

// ScopedLogger can derive a child logger tagged with a narrower scope
type ScopedLogger interface {
	Logger
	WithScope(scope string) Logger
}

// Scope derives a child of l for scope, or returns l unchanged when it does
// not support scoping
func Scope(l Logger, scope string) Logger {
	if s, ok := l.(ScopedLogger); ok {
		return s.WithScope(scope)
	}
	return l
}

type contextKey int

const (
	loggerKey contextKey = iota
)

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext extracts the logger from context, or returns a no-op logger if not found
func LoggerFromContext(ctx context.Context) Logger {
	if logger, ok := ctx.Value(loggerKey).(Logger); ok {
		return logger
	}
	return noOpLogger{}
}

// NoOp returns a logger that discards everything
func NoOp() Logger { return noOpLogger{} }

type noOpLogger struct{}

func (noOpLogger) Log(string, string, map[string]interface{}) {}

// levelRank orders levels for filtering; unknown levels rank as INFO
func levelRank(level string) int {
	switch level {
	case LevelDebug:
		return 0
	case LevelWarning:
		return 2
	case LevelError:
		return 3
	default:
		return 1
	}
}

// Enabled reports whether level passes a minimum level filter
func Enabled(level, minLevel string) bool {
	return levelRank(level) >= levelRank(minLevel)
}
