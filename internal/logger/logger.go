// Package logger defines the logging contract the rest of the bot
// depends on. Production code gets a logrus-backed implementation,
// tests get an in-memory recorder.
package logger

// Fields attaches structured context to a log entry.
type Fields map[string]any

type Logger interface {
	Trace(args ...any)
	Debug(args ...any)
	Info(args ...any)
	Warn(args ...any)
	Error(args ...any)
	Fatal(args ...any)

	// WithFields and friends return a derived logger; the receiver is
	// left untouched.
	WithFields(fields Fields) Logger
	WithField(key string, value any) Logger
	WithError(err error) Logger
}
