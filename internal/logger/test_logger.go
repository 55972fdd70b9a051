package logger

import (
	"fmt"
	"maps"
	"sync"
)

// TestLogger records every entry in memory so tests can assert on what
// was logged. Derived loggers from WithFields share the same recorder.
type TestLogger struct {
	rec    *recorder
	fields Fields
}

type TestLogEntry struct {
	Level   string
	Message string
	Fields  Fields
}

type recorder struct {
	mu      sync.Mutex
	entries []TestLogEntry
}

func (r *recorder) add(entry TestLogEntry) {
	r.mu.Lock()
	r.entries = append(r.entries, entry)
	r.mu.Unlock()
}

func (r *recorder) snapshot() []TestLogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]TestLogEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

func NewTestLogger() *TestLogger {
	return &TestLogger{rec: &recorder{}, fields: Fields{}}
}

func (l *TestLogger) log(level string, args []any) {
	fields := make(Fields, len(l.fields))
	maps.Copy(fields, l.fields)
	l.rec.add(TestLogEntry{
		Level:   level,
		Message: fmt.Sprint(args...),
		Fields:  fields,
	})
}

func (l *TestLogger) Trace(args ...any) { l.log("trace", args) }
func (l *TestLogger) Debug(args ...any) { l.log("debug", args) }
func (l *TestLogger) Info(args ...any) { l.log("info", args) }
func (l *TestLogger) Warn(args ...any) { l.log("warn", args) }
func (l *TestLogger) Error(args ...any) { l.log("error", args) }
func (l *TestLogger) Fatal(args ...any) { l.log("fatal", args) }

func (l *TestLogger) WithFields(fields Fields) Logger {
	merged := make(Fields, len(l.fields)+len(fields))
	maps.Copy(merged, l.fields)
	maps.Copy(merged, fields)
	return &TestLogger{rec: l.rec, fields: merged}
}

func (l *TestLogger) WithField(key string, value any) Logger {
	return l.WithFields(Fields{key: value})
}

func (l *TestLogger) WithError(err error) Logger {
	return l.WithFields(Fields{"error": err})
}

// GetEntries returns a copy of everything logged so far, in order.
func (l *TestLogger) GetEntries() []TestLogEntry {
	return l.rec.snapshot()
}

func (l *TestLogger) HasEntry(level, message string) bool {
	for _, entry := range l.rec.snapshot() {
		if entry.Level == level && entry.Message == message {
			return true
		}
	}
	return false
}
