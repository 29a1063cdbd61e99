package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// Logger writes every record to the console sink and to each file sink
// whose level the record clears. It is safe for concurrent use.
type Logger struct {
	base   *logrus.Logger
	config Config
	sinks  []*Sink
	now    func() time.Time

	mu      sync.Mutex
	console *ConsoleRedirect
	closed  bool
}

type options struct {
	console  io.Writer
	colorize *bool
	now      func() time.Time
}

// Option customizes New
type Option func(*options)

// WithConsoleWriter sends console output to w instead of os.Stdout
func WithConsoleWriter(w io.Writer) Option {
	return func(o *options) {
		o.console = w
	}
}

// WithColors forces console colors on or off. By default colors are used
// when the console writer is a terminal and NO_COLOR is not set.
func WithColors(enabled bool) Option {
	return func(o *options) {
		o.colorize = &enabled
	}
}

// WithClock replaces time.Now for record timestamps and file rotation
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// New validates cfg, builds the console sink and one sink per file
// transport, and returns the logger. When cfg.OverwriteConsole is set the
// process-wide loggers are redirected into it; see RedirectConsole.
//
// A *ConfigurationError is returned before anything is created. If a file
// sink cannot be opened the sinks opened so far are closed again.
func New(cfg Config, opts ...Option) (*Logger, error) {
	cfg = cfg.Clone()
	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	o := options{
		console: os.Stdout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	colorize := autoColors(o.console)
	if o.colorize != nil {
		colorize = *o.colorize
	}

	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	sinks := []*Sink{newConsoleSink(o.console, colorize)}
	for _, transport := range cfg.FileTransports {
		sink, err := newFileSink(&cfg, transport, o.now)
		if err != nil {
			closeSinks(sinks)
			return nil, fmt.Errorf("failed to create file sink %q: %w", transport.Filename, err)
		}
		sinks = append(sinks, sink)
	}

	base := logrus.New()
	base.SetOutput(io.Discard)
	base.SetFormatter(discardFormatter{})
	base.SetLevel(level.logrus())
	for _, sink := range sinks {
		base.AddHook(sink)
	}

	l := &Logger{
		base:   base,
		config: cfg,
		sinks:  sinks,
		now:    o.now,
	}

	if cfg.OverwriteConsole {
		l.console = RedirectConsole(l)
	}

	return l, nil
}

// GetDefaultLogger returns a console-only logger at info level
func GetDefaultLogger() *Logger {
	logger, err := New(DefaultConfig())
	if err != nil {
		panic(fmt.Sprintf("failed to create default logger: %v", err))
	}
	return logger
}

func autoColors(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Config returns the validated configuration the logger was built from
func (l *Logger) Config() Config {
	return l.config.Clone()
}

// Sinks returns the sinks in write order, console first
func (l *Logger) Sinks() []*Sink {
	return append([]*Sink(nil), l.sinks...)
}

// Level returns the overall threshold
func (l *Logger) Level() Level {
	return Level(l.base.GetLevel())
}

// SetLevel changes the overall threshold
func (l *Logger) SetLevel(level Level) {
	l.base.SetLevel(level.logrus())
}

// IsLevelEnabled reports whether a record at level clears the overall threshold
func (l *Logger) IsLevelEnabled(level Level) bool {
	return l.base.IsLevelEnabled(level.logrus())
}

// Console returns the active console redirect, nil when there is none
func (l *Logger) Console() *ConsoleRedirect {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.console
}

// Close restores redirected process loggers and closes the file sinks.
// Records logged afterwards still reach the console and rotating file
// sinks, which reopen their file on demand.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.console != nil {
		l.console.Restore()
		l.console = nil
	}
	if l.closed {
		return nil
	}
	l.closed = true

	var errs []error
	for _, sink := range l.sinks {
		if err := sink.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close sink %s: %w", sink.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func (l *Logger) newEntry() *Entry {
	return &Entry{logger: l, entry: logrus.NewEntry(l.base)}
}

// Log writes a record at level
func (l *Logger) Log(level Level, args ...interface{}) {
	l.newEntry().Log(level, args...)
}

// Logf writes a formatted record at level
func (l *Logger) Logf(level Level, format string, args ...interface{}) {
	l.newEntry().Logf(level, format, args...)
}

func (l *Logger) Error(args ...interface{}) {
	l.Log(ErrorLevel, args...)
}

func (l *Logger) Warn(args ...interface{}) {
	l.Log(WarnLevel, args...)
}

func (l *Logger) Info(args ...interface{}) {
	l.Log(InfoLevel, args...)
}

func (l *Logger) HTTP(args ...interface{}) {
	l.Log(HTTPLevel, args...)
}

func (l *Logger) Verbose(args ...interface{}) {
	l.Log(VerboseLevel, args...)
}

func (l *Logger) Debug(args ...interface{}) {
	l.Log(DebugLevel, args...)
}

func (l *Logger) Silly(args ...interface{}) {
	l.Log(SillyLevel, args...)
}
