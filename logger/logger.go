// Package logger defines the structured logging interface used by every go-hveprom
// package, so the programming engine can be embedded behind any logging framework.
//
// Messages carry key-value pairs rather than formatted strings:
//
//	log.Debug("write chunk", "offset", s.Cursor, "len", len(chunk))
//
// Log Levels:
//
//   - DebugLevel: per-command and per-byte tracing of the programming engine.
//   - InfoLevel: session lifecycle (start, complete, reset).
//   - WarnLevel: recoverable protocol anomalies.
//   - ErrorLevel: board failures reported by the hardware layer.
//   - FatalLevel: unrecoverable start-up failures.
package logger

// LogLevel indicates the logging severity level.
type LogLevel = int8

const (
	// DebugLevel logs are voluminous and usually disabled outside bench work.
	DebugLevel LogLevel = iota - 1
	// InfoLevel is the default logging priority.
	InfoLevel
	// WarnLevel logs are more important than Info, but don't need individual
	// human review.
	WarnLevel
	// ErrorLevel logs are high-priority and point at hardware or host link trouble.
	ErrorLevel
	// FatalLevel logs a message, then calls os.Exit(1).
	FatalLevel
)

// Logger defines a common interface for logging.
type Logger interface {
	// Debug logs a message at DebugLevel with the given key-value pairs.
	Debug(msg string, keysAndValues ...any)
	// Info logs a message at InfoLevel with the given key-value pairs.
	Info(msg string, keysAndValues ...any)
	// Warn logs a message at WarnLevel with the given key-value pairs.
	Warn(msg string, keysAndValues ...any)
	// Error logs a message at ErrorLevel with the given key-value pairs.
	Error(msg string, keysAndValues ...any)
	// Fatal logs a message at FatalLevel, then calls os.Exit(1).
	Fatal(msg string, keysAndValues ...any)
	// With creates a child logger carrying the given key-values on every message.
	With(keyValues ...any) Logger
	// Level returns the minimum enabled level for this logger.
	Level() LogLevel
	// SetLevel sets the minimum enabled level for this logger.
	SetLevel(level LogLevel)
}
