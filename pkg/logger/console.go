package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"log/slog"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
)

// ConsoleRedirect routes the process-wide loggers into a Logger:
//
//   - the standard library log package, at info, one record per call
//   - slog.Default(), at the severity mapped from the slog level
//   - hclog.Default(), at the severity mapped from the hclog level
//
// It keeps what it replaced, and Restore puts it back.
type ConsoleRedirect struct {
	logger *Logger

	prevWriter io.Writer
	prevFlags  int
	prevPrefix string
	prevSlog   *slog.Logger
	prevHclog  hclog.Logger

	restoreOnce sync.Once
}

// RedirectConsole installs l as the process-wide logger. Calling it again
// stacks a new redirect on top; restore in reverse order.
func RedirectConsole(l *Logger) *ConsoleRedirect {
	r := &ConsoleRedirect{
		logger:     l,
		prevWriter: log.Writer(),
		prevFlags:  log.Flags(),
		prevPrefix: log.Prefix(),
		prevSlog:   slog.Default(),
		prevHclog:  hclog.Default(),
	}

	// slog.SetDefault also points the log package at the new handler;
	// the explicit log setup below replaces that with the info adapter.
	slog.SetDefault(slog.New(&slogHandler{logger: l}))

	log.SetOutput(&consoleWriter{logger: l, level: InfoLevel})
	log.SetFlags(0)
	log.SetPrefix("")

	hclog.SetDefault(hclog.New(&hclog.LoggerOptions{
		Level:       hclog.Trace,
		Output:      &hclogWriter{logger: l},
		JSONFormat:  true,
		DisableTime: true,
	}))

	return r
}

// Restore reinstates the loggers that were active before the redirect.
// Calling it more than once is harmless.
func (r *ConsoleRedirect) Restore() {
	r.restoreOnce.Do(func() {
		hclog.SetDefault(r.prevHclog)
		slog.SetDefault(r.prevSlog)
		log.SetOutput(r.prevWriter)
		log.SetFlags(r.prevFlags)
		log.SetPrefix(r.prevPrefix)
	})
}

// Log forwards args at info
func (r *ConsoleRedirect) Log(args ...interface{}) {
	r.logger.Log(InfoLevel, args...)
}

// Info forwards args at info
func (r *ConsoleRedirect) Info(args ...interface{}) {
	r.logger.Log(InfoLevel, args...)
}

// Warn forwards args at warn
func (r *ConsoleRedirect) Warn(args ...interface{}) {
	r.logger.Log(WarnLevel, args...)
}

// Error forwards args at error
func (r *ConsoleRedirect) Error(args ...interface{}) {
	r.logger.Log(ErrorLevel, args...)
}

// consoleWriter turns each Write from the log package into one record
type consoleWriter struct {
	logger *Logger
	level  Level
}

func (w *consoleWriter) Write(p []byte) (int, error) {
	w.logger.Log(w.level, strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}

// slogHandler is a slog.Handler that forwards records to a Logger,
// attributes become fields and groups prefix their keys.
type slogHandler struct {
	logger *Logger
	fields Fields
	prefix string
}

func (h *slogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.logger.IsLevelEnabled(LevelFromSlog(level))
}

func (h *slogHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make(Fields, len(h.fields)+r.NumAttrs())
	for k, v := range h.fields {
		fields[k] = v
	}
	r.Attrs(func(a slog.Attr) bool {
		addAttr(fields, h.prefix, a)
		return true
	})

	entry := h.logger.newEntry()
	if !r.Time.IsZero() {
		entry.entry = entry.entry.WithTime(r.Time)
	}
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Log(LevelFromSlog(r.Level), r.Message)
	return nil
}

func (h *slogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	fields := make(Fields, len(h.fields)+len(attrs))
	for k, v := range h.fields {
		fields[k] = v
	}
	for _, a := range attrs {
		addAttr(fields, h.prefix, a)
	}
	return &slogHandler{logger: h.logger, fields: fields, prefix: h.prefix}
}

func (h *slogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &slogHandler{logger: h.logger, fields: h.fields, prefix: h.prefix + name + "."}
}

func addAttr(fields Fields, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		groupPrefix := prefix
		if a.Key != "" {
			groupPrefix = prefix + a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			addAttr(fields, groupPrefix, ga)
		}
		return
	}

	fields[prefix+a.Key] = a.Value.Any()
}

// hclogWriter receives the JSON lines of an hclog logger and replays them
// as records, keeping the extra key/value pairs as fields.
type hclogWriter struct {
	logger *Logger
}

func (w *hclogWriter) Write(p []byte) (int, error) {
	for _, line := range bytes.Split(bytes.TrimSpace(p), []byte("\n")) {
		if len(line) == 0 {
			continue
		}

		var record map[string]interface{}
		if err := json.Unmarshal(line, &record); err != nil {
			w.logger.Log(InfoLevel, string(line))
			continue
		}

		level := InfoLevel
		if name, ok := record["@level"].(string); ok {
			level = LevelFromHclog(hclog.LevelFromString(name))
		}
		message, _ := record["@message"].(string)

		fields := Fields{}
		for k, v := range record {
			switch k {
			case "@level", "@message", "@timestamp", "@caller":
			case "@module":
				fields["module"] = v
			default:
				fields[k] = v
			}
		}

		entry := w.logger.newEntry()
		if len(fields) > 0 {
			entry = entry.WithFields(fields)
		}
		entry.Log(level, message)
	}
	return len(p), nil
}
