package logger

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Fields type, used to pass to `WithFields`.
type Fields map[string]interface{}

// Entry is a record under construction: fields attached so far plus the
// severity methods that emit it.
type Entry struct {
	logger *Logger
	entry  *logrus.Entry
}

// WithFields adds multiple fields to log entries
func (l *Logger) WithFields(fields Fields) *Entry {
	return l.newEntry().WithFields(fields)
}

// WithField adds a single field to log entries
func (l *Logger) WithField(key string, value interface{}) *Entry {
	return l.newEntry().WithField(key, value)
}

// WithComponent adds component field to log entries
func (l *Logger) WithComponent(component string) *Entry {
	return l.WithField("component", component)
}

// WithError adds error field to log entries
func (l *Logger) WithError(err error) *Entry {
	return l.newEntry().WithError(err)
}

// WithContext adds the fields carried by ctx, see ContextWithLogContext
func (l *Logger) WithContext(ctx context.Context) *Entry {
	return l.newEntry().WithContext(ctx)
}

// Entry methods for chaining additional fields
func (e *Entry) WithField(key string, value interface{}) *Entry {
	return &Entry{logger: e.logger, entry: e.entry.WithField(key, value)}
}

func (e *Entry) WithFields(fields Fields) *Entry {
	logrusFields := make(logrus.Fields, len(fields))
	for k, v := range fields {
		logrusFields[k] = v
	}
	return &Entry{logger: e.logger, entry: e.entry.WithFields(logrusFields)}
}

func (e *Entry) WithComponent(component string) *Entry {
	return e.WithField("component", component)
}

func (e *Entry) WithOperation(operation string) *Entry {
	return e.WithField("operation", operation)
}

func (e *Entry) WithError(err error) *Entry {
	if err == nil {
		return e
	}
	return e.WithField("error", err.Error())
}

func (e *Entry) WithContext(ctx context.Context) *Entry {
	fields := FromContext(ctx).ToFields()
	if len(fields) == 0 {
		return e
	}
	return e.WithFields(fields)
}

// Data returns a copy of the fields attached so far
func (e *Entry) Data() Fields {
	fields := make(Fields, len(e.entry.Data))
	for k, v := range e.entry.Data {
		fields[k] = v
	}
	return fields
}

// Log renders args with Render and writes the record at level
func (e *Entry) Log(level Level, args ...interface{}) {
	if !e.logger.IsLevelEnabled(level) {
		return
	}
	e.write(level, Render(args...))
}

// Logf writes a fmt.Sprintf formatted record at level
func (e *Entry) Logf(level Level, format string, args ...interface{}) {
	if !e.logger.IsLevelEnabled(level) {
		return
	}
	e.write(level, fmt.Sprintf(format, args...))
}

func (e *Entry) write(level Level, message string) {
	entry := e.entry
	if entry.Time.IsZero() {
		entry = entry.WithTime(e.logger.now())
	}
	entry.Log(level.logrus(), message)
}

func (e *Entry) Error(args ...interface{}) {
	e.Log(ErrorLevel, args...)
}

func (e *Entry) Warn(args ...interface{}) {
	e.Log(WarnLevel, args...)
}

func (e *Entry) Info(args ...interface{}) {
	e.Log(InfoLevel, args...)
}

func (e *Entry) HTTP(args ...interface{}) {
	e.Log(HTTPLevel, args...)
}

func (e *Entry) Verbose(args ...interface{}) {
	e.Log(VerboseLevel, args...)
}

func (e *Entry) Debug(args ...interface{}) {
	e.Log(DebugLevel, args...)
}

func (e *Entry) Silly(args ...interface{}) {
	e.Log(SillyLevel, args...)
}
