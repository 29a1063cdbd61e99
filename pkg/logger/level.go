package logger

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/sirupsen/logrus"
)

// Level is a record severity. Lower values are more severe.
type Level uint32

// The values start at logrus.ErrorLevel so logrus threshold checks work
// unchanged; logrus reserves the values below it for panic and fatal.
const (
	ErrorLevel Level = Level(logrus.ErrorLevel) + iota
	WarnLevel
	InfoLevel
	HTTPLevel
	VerboseLevel
	DebugLevel
	SillyLevel
)

// AllLevels lists every severity, most severe first
var AllLevels = []Level{
	ErrorLevel,
	WarnLevel,
	InfoLevel,
	HTTPLevel,
	VerboseLevel,
	DebugLevel,
	SillyLevel,
}

var levelNames = map[Level]string{
	ErrorLevel:   "error",
	WarnLevel:    "warn",
	InfoLevel:    "info",
	HTTPLevel:    "http",
	VerboseLevel: "verbose",
	DebugLevel:   "debug",
	SillyLevel:   "silly",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("level(%d)", uint32(l))
}

// MarshalText implements encoding.TextMarshaler
func (l Level) MarshalText() ([]byte, error) {
	if _, ok := levelNames[l]; !ok {
		return nil, fmt.Errorf("not a valid level: %d", uint32(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (l *Level) UnmarshalText(text []byte) error {
	level, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = level
	return nil
}

// ParseLevel takes a level name, case-insensitive, and returns the Level
func ParseLevel(name string) (Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for level, n := range levelNames {
		if n == name {
			return level, nil
		}
	}
	return InfoLevel, fmt.Errorf("not a valid level: %q", name)
}

// Enables reports whether a threshold of l lets a record at other through
func (l Level) Enables(other Level) bool {
	return other <= l
}

func (l Level) logrus() logrus.Level {
	return logrus.Level(l)
}

// levelsUpTo returns the logrus levels a sink with threshold l accepts
func levelsUpTo(l Level) []logrus.Level {
	levels := make([]logrus.Level, 0, len(AllLevels))
	for _, level := range AllLevels {
		if l.Enables(level) {
			levels = append(levels, level.logrus())
		}
	}
	return levels
}

// LevelFromSlog maps any slog level onto a severity
func LevelFromSlog(level slog.Level) Level {
	switch {
	case level >= slog.LevelError:
		return ErrorLevel
	case level >= slog.LevelWarn:
		return WarnLevel
	case level >= slog.LevelInfo:
		return InfoLevel
	case level >= slog.LevelDebug:
		return DebugLevel
	default:
		return SillyLevel
	}
}

// LevelFromHclog maps any hclog level onto a severity
func LevelFromHclog(level hclog.Level) Level {
	switch level {
	case hclog.Error:
		return ErrorLevel
	case hclog.Warn:
		return WarnLevel
	case hclog.Info:
		return InfoLevel
	case hclog.Debug:
		return DebugLevel
	case hclog.Trace:
		return SillyLevel
	default:
		if level > hclog.Error {
			return ErrorLevel
		}
		return InfoLevel
	}
}
