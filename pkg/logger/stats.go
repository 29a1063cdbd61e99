package logger

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// ErrRotationUnavailable is returned by Rotate when no sink rotates
var ErrRotationUnavailable = errors.New("log rotation not available")

// SinkStats describes the file behind a file sink
type SinkStats struct {
	Name         string        `json:"name"`
	Kind         string        `json:"kind"`
	Level        string        `json:"level"`
	CurrentFile  string        `json:"current_file"`
	CurrentSize  int64         `json:"current_size"`
	LastModified time.Time     `json:"last_modified"`
	Files        []string      `json:"files,omitempty"`
	Retention    time.Duration `json:"retention,omitempty"`
	MaxSize      int           `json:"max_size,omitempty"`
	Compress     bool          `json:"compress,omitempty"`
}

// Stats reports every file sink, in sink order
func (l *Logger) Stats() ([]SinkStats, error) {
	var stats []SinkStats

	for _, sink := range l.sinks {
		if sink.kind == ConsoleSink {
			continue
		}

		st := SinkStats{
			Name:        sink.name,
			Kind:        sink.kind.String(),
			Level:       sink.level.String(),
			CurrentFile: sink.name,
		}

		if sink.rotator != nil {
			cfg := sink.rotator.Config()
			st.CurrentFile = sink.rotator.Filename()
			st.Retention = cfg.MaxAge
			st.MaxSize = cfg.MaxSize
			st.Compress = cfg.Compress

			files, err := sink.rotator.Files()
			if err != nil {
				return nil, fmt.Errorf("failed to list files of %s: %w", sink.name, err)
			}
			st.Files = files
		}

		if info, err := os.Stat(st.CurrentFile); err == nil {
			st.CurrentSize = info.Size()
			st.LastModified = info.ModTime()
		}

		stats = append(stats, st)
	}

	return stats, nil
}

// Rotate rolls over the current file of every rotating sink
func (l *Logger) Rotate() error {
	rotated := false
	var errs []error

	for _, sink := range l.sinks {
		if sink.rotator == nil {
			continue
		}
		rotated = true
		if err := sink.rotator.Rotate(); err != nil {
			errs = append(errs, fmt.Errorf("failed to rotate %s: %w", sink.name, err))
		}
	}

	if !rotated {
		return ErrRotationUnavailable
	}
	return errors.Join(errs...)
}

// FormatSize renders a byte count with a binary unit, e.g. 1.5 KB
func (ls *SinkStats) FormatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}

// String summarizes the stats on one line
func (ls *SinkStats) String() string {
	return fmt.Sprintf(
		"File: %s, Kind: %s, Level: %s, Size: %s, Retention: %s, MaxSize: %dMB, Compress: %t",
		ls.CurrentFile,
		ls.Kind,
		ls.Level,
		ls.FormatSize(ls.CurrentSize),
		ls.Retention,
		ls.MaxSize,
		ls.Compress,
	)
}
