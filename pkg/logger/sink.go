package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/johnnynv/logsmith/pkg/rotate"
	"github.com/sirupsen/logrus"
)

// SinkKind identifies what a sink writes to
type SinkKind int

const (
	ConsoleSink SinkKind = iota
	FileSink
	RotatingFileSink
)

func (k SinkKind) String() string {
	switch k {
	case ConsoleSink:
		return "console"
	case FileSink:
		return "file"
	case RotatingFileSink:
		return "rotating-file"
	default:
		return "unknown"
	}
}

// Sink is one output destination. It is attached to the logrus logger as
// a hook, so it sees only records that already cleared the logger level,
// and it filters again on its own level.
type Sink struct {
	kind      SinkKind
	name      string
	level     Level
	formatter logrus.Formatter
	out       io.Writer
	closer    io.Closer
	rotator   *rotate.Writer

	mu sync.Mutex
}

// Kind returns the sink kind
func (s *Sink) Kind() SinkKind {
	return s.kind
}

// Name returns "console" or the file path (template path for rotating sinks)
func (s *Sink) Name() string {
	return s.name
}

// Level returns the sink threshold
func (s *Sink) Level() Level {
	return s.level
}

// Levels implements logrus.Hook
func (s *Sink) Levels() []logrus.Level {
	return levelsUpTo(s.level)
}

// Fire implements logrus.Hook
func (s *Sink) Fire(entry *logrus.Entry) error {
	serialized, err := s.formatter.Format(entry)
	if err != nil {
		return fmt.Errorf("failed to format record for %s sink %s: %w", s.kind, s.name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.out.Write(serialized); err != nil {
		return fmt.Errorf("failed to write record to %s sink %s: %w", s.kind, s.name, err)
	}
	return nil
}

// Close releases the sink's file, if it has one
func (s *Sink) Close() error {
	if s.closer == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closer.Close()
}

func newConsoleSink(out io.Writer, colorize bool) *Sink {
	return &Sink{
		kind:      ConsoleSink,
		name:      "console",
		level:     SillyLevel,
		formatter: NewConsoleFormatter(colorize),
		out:       out,
	}
}

// RotatingFilename inserts the date placeholder after the first
// dot-separated segment of the base name: app.log -> app-%DATE%.log
func RotatingFilename(filename string) string {
	parts := strings.Split(filepath.Base(filename), ".")
	parts[0] += "-" + rotate.DatePlaceholder
	return strings.Join(parts, ".")
}

// newFileSink builds the sink for one file transport. cfg has been
// validated, so levels and retention parse.
func newFileSink(cfg *Config, transport FileTransport, now func() time.Time) (*Sink, error) {
	level := SillyLevel
	if transport.Level != "" {
		parsed, err := ParseLevel(transport.Level)
		if err != nil {
			return nil, err
		}
		level = parsed
	}

	if cfg.Rotating() {
		retention, err := ParseRetention(transport.Retention(cfg))
		if err != nil {
			return nil, err
		}

		filename := filepath.Join(cfg.LogsDir, RotatingFilename(transport.Filename))
		writer, err := rotate.New(rotate.Config{
			Filename:   filename,
			DateLayout: MomentLayout(cfg.DateFormat),
			MaxAge:     retention,
			MaxSize:    cfg.MaxSize,
			Compress:   cfg.Compress,
			Now:        now,
		})
		if err != nil {
			return nil, err
		}

		return &Sink{
			kind:      RotatingFileSink,
			name:      filename,
			level:     level,
			formatter: NewFileFormatter(),
			out:       writer,
			closer:    writer,
			rotator:   writer,
		}, nil
	}

	if dir := filepath.Dir(transport.Filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	file, err := os.OpenFile(transport.Filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return &Sink{
		kind:      FileSink,
		name:      transport.Filename,
		level:     level,
		formatter: NewFileFormatter(),
		out:       file,
		closer:    file,
	}, nil
}

func closeSinks(sinks []*Sink) {
	for _, s := range sinks {
		s.Close()
	}
}
