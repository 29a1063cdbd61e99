package logger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults applied by ApplyDefaults
const (
	DefaultLevel      = "info"
	DefaultDateFormat = "YYYY-MM-DD"
	DefaultMaxFiles   = "14d"
)

// Config represents logger configuration
type Config struct {
	Level            string         `yaml:"level" json:"level" validate:"required,oneof=error warn info http verbose debug silly"`
	OverwriteConsole bool           `yaml:"overwriteConsole" json:"overwriteConsole"`
	RotateLogs       *bool          `yaml:"rotateLogs" json:"rotateLogs"`
	LogsDir          string         `yaml:"logsDir" json:"logsDir" validate:"required"`
	FileTransports   FileTransports `yaml:"fileTransports,omitempty" json:"fileTransports,omitempty" validate:"dive"`
	DateFormat       string         `yaml:"dateFormat" json:"dateFormat" validate:"required,dateformat"` // moment-style, e.g. YYYY-MM-DD
	MaxFiles         string         `yaml:"maxFiles" json:"maxFiles" validate:"required,maxfiles"`       // retention, e.g. 14d
	MaxSize          int            `yaml:"maxSize,omitempty" json:"maxSize,omitempty" validate:"gte=0"` // MB per file within a period
	Compress         bool           `yaml:"compress,omitempty" json:"compress,omitempty"`                // gzip size-rolled files
}

// FileTransport describes one file sink
type FileTransport struct {
	Filename string `yaml:"filename" json:"filename" validate:"required"`
	Level    string `yaml:"level,omitempty" json:"level,omitempty" validate:"omitempty,oneof=error warn info http verbose debug silly"`
	MaxFiles string `yaml:"maxFiles,omitempty" json:"maxFiles,omitempty" validate:"omitempty,maxfiles"` // overrides Config.MaxFiles
}

// Retention is the maxFiles value that applies to t under cfg
func (t FileTransport) Retention(cfg *Config) string {
	if t.MaxFiles != "" {
		return t.MaxFiles
	}
	return cfg.MaxFiles
}

// FileTransports is an ordered list of file sinks. A single mapping is
// accepted wherever a list is expected.
type FileTransports []FileTransport

// UnmarshalYAML implements yaml.Unmarshaler
func (f *FileTransports) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.MappingNode {
		var single FileTransport
		if err := value.Decode(&single); err != nil {
			return err
		}
		*f = FileTransports{single}
		return nil
	}

	var list []FileTransport
	if err := value.Decode(&list); err != nil {
		return err
	}
	*f = list
	return nil
}

// UnmarshalJSON implements json.Unmarshaler
func (f *FileTransports) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		var single FileTransport
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		*f = FileTransports{single}
		return nil
	}

	var list []FileTransport
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*f = list
	return nil
}

// DefaultConfig returns default logger configuration: console only
func DefaultConfig() Config {
	cfg := Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills every unset optional field and normalizes the
// case-insensitive ones.
func (c *Config) ApplyDefaults() {
	c.Level = strings.ToLower(strings.TrimSpace(c.Level))
	if c.Level == "" {
		c.Level = DefaultLevel
	}
	if c.RotateLogs == nil {
		rotate := true
		c.RotateLogs = &rotate
	}
	if c.LogsDir == "" {
		c.LogsDir = DefaultLogsDir()
	}
	if c.DateFormat == "" {
		c.DateFormat = DefaultDateFormat
	}

	c.MaxFiles = strings.ToLower(strings.TrimSpace(c.MaxFiles))
	if c.MaxFiles == "" {
		c.MaxFiles = DefaultMaxFiles
	}

	for i := range c.FileTransports {
		c.FileTransports[i].Level = strings.ToLower(strings.TrimSpace(c.FileTransports[i].Level))
		c.FileTransports[i].MaxFiles = strings.ToLower(strings.TrimSpace(c.FileTransports[i].MaxFiles))
	}
}

// Rotating reports whether file sinks rotate by date
func (c *Config) Rotating() bool {
	return c.RotateLogs == nil || *c.RotateLogs
}

// Clone returns a copy that shares no slices or pointers with c
func (c Config) Clone() Config {
	if c.FileTransports != nil {
		c.FileTransports = append(FileTransports(nil), c.FileTransports...)
	}
	if c.RotateLogs != nil {
		rotate := *c.RotateLogs
		c.RotateLogs = &rotate
	}
	return c
}

// DefaultLogsDir is the directory holding the running executable, or the
// working directory when that cannot be resolved.
func DefaultLogsDir() string {
	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		return filepath.Dir(exe)
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// String renders the configuration for diagnostics
func (c Config) String() string {
	return fmt.Sprintf("level=%s rotate=%t logsDir=%s files=%d dateFormat=%s maxFiles=%s",
		c.Level, c.Rotating(), c.LogsDir, len(c.FileTransports), c.DateFormat, c.MaxFiles)
}
