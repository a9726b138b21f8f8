// Package log wraps logrus behind the small field-logger facade used
// across the application. The package-level logger is configured once
// at startup via Configure; components either use the package functions
// or carry an Entry obtained from With / LogWithFields.
package log

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	serr "declutter/internal/errors"
)

var logger = NewLogger()

// Field is a single structured logging field
type Field struct {
	Key   string
	Value interface{}
}

// F creates a structured logging field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Logger is a structured logger backed by logrus
type Logger struct {
	l    *logrus.Logger
	file *os.File
}

// Entry is a logger with fields already attached
type Entry struct {
	e *logrus.Entry
}

// Option configures a Logger
type Option func(*Logger)

// WithOutput directs log output to the given writer
func WithOutput(w io.Writer) Option {
	return func(l *Logger) {
		l.l.SetOutput(w)
	}
}

// WithJSON switches the logger to JSON formatting
func WithJSON() Option {
	return func(l *Logger) {
		l.l.SetFormatter(&logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	}
}

// WithFile tees log output to stdout and the named file
func WithFile(path string) Option {
	return func(l *Logger) {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			l.l.WithField("path", path).Warnf("cannot open log file: %v", err)
			return
		}
		l.file = f
		l.l.SetOutput(io.MultiWriter(os.Stdout, f))
	}
}

// NewLogger creates a new logger writing plain text to stdout
func NewLogger(opts ...Option) *Logger {
	ll := logrus.New()
	ll.SetOutput(os.Stdout)
	ll.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	l := &Logger{l: ll}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Configure replaces the package-level logger configuration
func Configure(opts ...Option) {
	next := NewLogger(opts...)
	next.l.SetLevel(logger.l.GetLevel())
	logger = next
}

// SetDebug enables or disables debug-level logging globally
func SetDebug(debug bool) {
	if debug {
		logger.l.SetLevel(logrus.DebugLevel)
	} else {
		logger.l.SetLevel(logrus.InfoLevel)
	}
}

// Close releases the log file if one was configured
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// With attaches fields to the logger
func (l *Logger) With(fields ...Field) *Entry {
	return &Entry{e: l.l.WithFields(toLogrus(fields))}
}

// WithContext attaches a context to the logger
func (l *Logger) WithContext(ctx context.Context) *Entry {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Entry{e: l.l.WithContext(ctx)}
}

func (l *Logger) Debug(args ...interface{})                 { l.l.Debug(args...) }
func (l *Logger) Debugf(format string, args ...interface{}) { l.l.Debugf(format, args...) }
func (l *Logger) Info(args ...interface{})                  { l.l.Info(args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.l.Infof(format, args...) }
func (l *Logger) Warn(args ...interface{})                  { l.l.Warn(args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.l.Warnf(format, args...) }
func (l *Logger) Error(args ...interface{})                 { l.l.Error(args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.l.Errorf(format, args...) }

// With attaches additional fields to an entry
func (e *Entry) With(fields ...Field) *Entry {
	return &Entry{e: e.e.WithFields(toLogrus(fields))}
}

func (e *Entry) Debug(args ...interface{})                 { e.e.Debug(args...) }
func (e *Entry) Debugf(format string, args ...interface{}) { e.e.Debugf(format, args...) }
func (e *Entry) Info(args ...interface{})                  { e.e.Info(args...) }
func (e *Entry) Infof(format string, args ...interface{})  { e.e.Infof(format, args...) }
func (e *Entry) Warn(args ...interface{})                  { e.e.Warn(args...) }
func (e *Entry) Warnf(format string, args ...interface{})  { e.e.Warnf(format, args...) }
func (e *Entry) Error(args ...interface{})                 { e.e.Error(args...) }
func (e *Entry) Errorf(format string, args ...interface{}) { e.e.Errorf(format, args...) }

// ErrorWithStack logs an error with its message as a field
func (e *Entry) ErrorWithStack(err error, msg string) {
	e.e.WithError(err).Error(msg)
}

// Package-level logging functions using the configured logger

func Debug(format string, args ...interface{}) { logger.l.Debugf(format, args...) }
func Info(format string, args ...interface{})  { logger.l.Infof(format, args...) }
func Warn(format string, args ...interface{})  { logger.l.Warnf(format, args...) }
func Error(format string, args ...interface{}) { logger.l.Errorf(format, args...) }

// LogWithFields returns an entry on the package logger with fields attached
func LogWithFields(fields ...Field) *Entry {
	return logger.With(fields...)
}

// LogWithError returns an entry annotated with the error and, for the
// application error types, their kind and identifying field. The kind
// comes from the outermost error in the chain that carries one.
func LogWithError(err error) *Entry {
	entry := logger.l.WithField("error", errString(err))

	// The concrete types embed ApplicationError by value, so the kind
	// has to be read through an interface rather than the base type.
	var kinded interface{ Kind() serr.ErrorKind }
	if serr.As(err, &kinded) {
		entry = entry.WithField("error_kind", int(kinded.Kind()))
	}

	var fileErr *serr.FileError
	if serr.As(err, &fileErr) {
		entry = entry.WithField("path", fileErr.Path())
	}
	var configErr *serr.ConfigError
	if serr.As(err, &configErr) {
		entry = entry.WithField("param", configErr.Param())
	}
	var ruleErr *serr.RuleError
	if serr.As(err, &ruleErr) {
		entry = entry.WithField("rule_id", ruleErr.RuleID())
	}

	return &Entry{e: entry}
}

// LogError is a convenience for logging an error with a message
func LogError(err error, msg string) {
	LogWithError(err).Error(msg)
}

func errString(err error) string {
	if err == nil {
		return "<nil>"
	}
	return err.Error()
}

func toLogrus(fields []Field) logrus.Fields {
	lf := make(logrus.Fields, len(fields))
	for _, f := range fields {
		lf[f.Key] = f.Value
	}
	return lf
}
