package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/aifusion/aifusionbot/internal/config"
)

type logrusLogger struct {
	entry logrus.Ext1FieldLogger
}

// NewLogrusLogger builds the process logger from the logging config.
// An unknown level falls back to info; file output is additive to
// stdout, never a replacement.
func NewLogrusLogger(cfg *config.LoggingConfig) Logger {
	core := logrus.New()
	core.SetFormatter(&logrus.TextFormatter{
		DisableQuote:    true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	core.SetLevel(parseLevel(core, cfg.Level()))

	if cfg.WriteInFile {
		if file, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666); err == nil {
			core.SetOutput(io.MultiWriter(os.Stdout, file))
		} else {
			core.WithError(err).Warn("Failed to open log file, writing to stdout only")
		}
	}

	return &logrusLogger{entry: core}
}

func parseLevel(l *logrus.Logger, name string) logrus.Level {
	level, err := logrus.ParseLevel(name)
	if err != nil {
		l.WithField("log_level", name).Warn("Unknown log level, falling back to info")
		return logrus.InfoLevel
	}
	return level
}

func (l *logrusLogger) Trace(args ...any) { l.entry.Trace(args...) }
func (l *logrusLogger) Debug(args ...any) { l.entry.Debug(args...) }
func (l *logrusLogger) Info(args ...any) { l.entry.Info(args...) }
func (l *logrusLogger) Warn(args ...any) { l.entry.Warn(args...) }
func (l *logrusLogger) Error(args ...any) { l.entry.Error(args...) }
func (l *logrusLogger) Fatal(args ...any) { l.entry.Fatal(args...) }

func (l *logrusLogger) WithFields(fields Fields) Logger {
	return &logrusLogger{entry: l.entry.WithFields(logrus.Fields(fields))}
}

func (l *logrusLogger) WithField(key string, value any) Logger {
	return &logrusLogger{entry: l.entry.WithField(key, value)}
}

func (l *logrusLogger) WithError(err error) Logger {
	return &logrusLogger{entry: l.entry.WithError(err)}
}
