// Package rotate provides an io.WriteCloser that starts a new dated file
// whenever the configured date layout yields a new stamp, and prunes dated
// files older than the retention window.
package rotate

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Writer writes to the file of the current period. Each period file is a
// lumberjack.Logger, so a file that grows past MaxSize is rolled over
// without waiting for the next period.
type Writer struct {
	config Config
	mu     sync.Mutex

	file   *lumberjack.Logger
	period string

	dir    string
	prefix string // file name part before DatePlaceholder
	suffix string // file name part after DatePlaceholder
}

// New creates a Writer and opens the file of the current period, so an
// unusable path is reported here rather than on the first Write.
func New(config Config) (*Writer, error) {
	if config.Filename == "" {
		return nil, fmt.Errorf("filename is required")
	}

	base := filepath.Base(config.Filename)
	idx := strings.Index(base, DatePlaceholder)
	if idx < 0 {
		return nil, fmt.Errorf("filename %q does not contain %s", config.Filename, DatePlaceholder)
	}

	if config.DateLayout == "" {
		config.DateLayout = DefaultDateLayout
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	w := &Writer{
		config: config,
		dir:    filepath.Dir(config.Filename),
		prefix: base[:idx],
		suffix: base[idx+len(DatePlaceholder):],
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.open(w.config.Now()); err != nil {
		return nil, err
	}

	return w, nil
}

// Write implements io.Writer
func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.config.Now()
	if w.file == nil || now.Format(w.config.DateLayout) != w.period {
		if err := w.closeFile(); err != nil {
			return 0, err
		}
		if err := w.open(now); err != nil {
			return 0, err
		}
	}

	return w.file.Write(p)
}

// Close implements io.Closer. A later Write reopens the current period file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.closeFile()
}

// Rotate rolls the current period file over immediately, the way
// lumberjack does when MaxSize is reached.
func (w *Writer) Rotate() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		if err := w.open(w.config.Now()); err != nil {
			return err
		}
	}
	return w.file.Rotate()
}

// Filename returns the path of the current period file
func (w *Writer) Filename() string {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return w.filenameFor(w.config.Now().Format(w.config.DateLayout))
	}
	return w.file.Filename
}

// Files lists the files written by this Writer that are still on disk,
// oldest period first.
func (w *Writer) Files() ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return nil, err
	}

	now := w.config.Now()
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := w.parseStamp(e.Name(), now.Location()); ok {
			files = append(files, filepath.Join(w.dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// Config returns the configuration the Writer runs with
func (w *Writer) Config() Config {
	return w.config
}

// open starts the file for the period containing now. Callers hold w.mu.
func (w *Writer) open(now time.Time) error {
	period := now.Format(w.config.DateLayout)

	file := &lumberjack.Logger{
		Filename:  w.filenameFor(period),
		MaxSize:   w.config.MaxSize,
		Compress:  w.config.Compress,
		LocalTime: true,
	}

	// lumberjack opens lazily, an empty write makes it open now
	if _, err := file.Write(nil); err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	w.file = file
	w.period = period
	w.prune(now)

	return nil
}

func (w *Writer) closeFile() error {
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

func (w *Writer) filenameFor(period string) string {
	return filepath.Join(w.dir, w.prefix+period+w.suffix)
}

// prune removes dated files whose stamp is older than MaxAge. Removal is
// best effort; a file that cannot be removed is retried on the next period.
func (w *Writer) prune(now time.Time) {
	if w.config.MaxAge <= 0 {
		return
	}

	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return
	}

	cutoff := now.Add(-w.config.MaxAge)
	current := filepath.Base(w.file.Filename)

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == current {
			continue
		}

		stamp, ok := w.parseStamp(name, now.Location())
		if !ok {
			continue
		}

		if stamp.Before(cutoff) {
			os.Remove(filepath.Join(w.dir, name))
		}
	}
}

// parseStamp extracts the period stamp from a file name written by this
// Writer. Size rollover backups (name-<time>.ext[.gz]) share the prefix
// and stamp of their period file, so they match too.
func (w *Writer) parseStamp(name string, loc *time.Location) (time.Time, bool) {
	if !strings.HasPrefix(name, w.prefix) {
		return time.Time{}, false
	}

	rest := name[len(w.prefix):]
	width := len(w.config.Now().Format(w.config.DateLayout))
	if len(rest) < width {
		return time.Time{}, false
	}

	tail := strings.TrimSuffix(rest[width:], ".gz")
	if !strings.HasSuffix(tail, filepath.Ext(w.suffix)) {
		return time.Time{}, false
	}

	stamp, err := time.ParseInLocation(w.config.DateLayout, rest[:width], loc)
	if err != nil {
		return time.Time{}, false
	}
	return stamp, true
}
