package utils

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// LogLevel is one of debug, info, warn or error
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LogFormat selects the logrus formatter
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

const timestampFormat = "2006-01-02T15:04:05.000Z07:00"

var levels = map[string]LogLevel{
	"debug":   LogLevelDebug,
	"info":    LogLevelInfo,
	"warn":    LogLevelWarn,
	"warning": LogLevelWarn,
	"error":   LogLevelError,
}

// Logger is the decoder's logrus logger. Reports go to stdout, so the
// logger writes to stderr unless told otherwise.
type Logger struct {
	*logrus.Logger
}

// LoggerConfig is built from the log_level and log_format settings
type LoggerConfig struct {
	Level  LogLevel
	Format LogFormat
	Output io.Writer
}

// NewLogger builds a logger. Unknown levels fall back to info and unknown
// formats to text.
func NewLogger(config LoggerConfig) *Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(string(config.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	logger.SetFormatter(formatterFor(config.Format))

	out := config.Output
	if out == nil {
		out = os.Stderr
	}
	logger.SetOutput(out)

	return &Logger{Logger: logger}
}

func formatterFor(format LogFormat) logrus.Formatter {
	if format == LogFormatJSON {
		return &logrus.JSONFormatter{TimestampFormat: timestampFormat}
	}
	return &logrus.TextFormatter{FullTimestamp: true, TimestampFormat: timestampFormat}
}

// NewDefaultLogger logs text at info level to stderr
func NewDefaultLogger() *Logger {
	return NewLogger(LoggerConfig{Level: LogLevelInfo, Format: LogFormatText})
}

// NewNopLogger drops everything; sessions and runners use it when no
// logger is given
func NewNopLogger() *Logger {
	return NewLogger(LoggerConfig{Level: LogLevelError, Output: io.Discard})
}

// WithContext attaches arbitrary fields
func (l *Logger) WithContext(fields map[string]interface{}) *logrus.Entry {
	return l.WithFields(logrus.Fields(fields))
}

// WithComponent tags entries with the emitting package
func (l *Logger) WithComponent(component string) *logrus.Entry {
	return l.WithField("component", component)
}

// WithFile tags entries with the component and the file being decoded
func (l *Logger) WithFile(component, path string) *logrus.Entry {
	return l.WithFields(logrus.Fields{
		"component": component,
		"file":      path,
	})
}

// ParseLogLevel maps a case-insensitive name to a LogLevel. Validation
// happens in the config layer, so unknown names yield info without error.
func ParseLogLevel(level string) (LogLevel, error) {
	if l, ok := levels[strings.ToLower(level)]; ok {
		return l, nil
	}
	return LogLevelInfo, nil
}

// ParseLogFormat maps "json" (any case) to LogFormatJSON and anything else
// to LogFormatText
func ParseLogFormat(format string) LogFormat {
	if strings.EqualFold(format, string(LogFormatJSON)) {
		return LogFormatJSON
	}
	return LogFormatText
}

type loggerKey struct{}

// WithLogger returns a context carrying logger
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// LoggerFromContext returns the logger stored by WithLogger, or a default
// stderr logger
func LoggerFromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*Logger); ok {
		return logger
	}
	return NewDefaultLogger()
}
