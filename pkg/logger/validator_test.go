package logger

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestValidate_Defaults(t *testing.T) {
	cfg := Config{}
	require.NoError(t, Validate(&cfg))

	assert.Equal(t, "info", cfg.Level)
	assert.True(t, cfg.Rotating())
	assert.Equal(t, DefaultLogsDir(), cfg.LogsDir)
	assert.Equal(t, "YYYY-MM-DD", cfg.DateFormat)
	assert.Equal(t, "14d", cfg.MaxFiles)
	assert.Empty(t, cfg.FileTransports)
}

func TestValidate_Normalizes(t *testing.T) {
	cfg := Config{
		Level:          " WARN ",
		MaxFiles:       "2W",
		FileTransports: FileTransports{{Filename: "app.log", Level: "Error", MaxFiles: " 3D "}},
	}
	require.NoError(t, Validate(&cfg))

	assert.Equal(t, "warn", cfg.Level)
	assert.Equal(t, "2w", cfg.MaxFiles)
	assert.Equal(t, "error", cfg.FileTransports[0].Level)
	assert.Equal(t, "3d", cfg.FileTransports[0].MaxFiles)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		field   string
		message string
	}{
		{
			name:    "unknown level",
			config:  Config{Level: "critical"},
			field:   "level",
			message: "must be one of: error, warn, info, http, verbose, debug, silly",
		},
		{
			name:    "retention without unit",
			config:  Config{MaxFiles: "7"},
			field:   "maxFiles",
			message: "must be a number followed by a unit (h, d or w), e.g. 14d",
		},
		{
			name:    "retention with unknown unit",
			config:  Config{MaxFiles: "7y"},
			field:   "maxFiles",
			message: "must be a number followed by a unit (h, d or w), e.g. 14d",
		},
		{
			name:    "negative max size",
			config:  Config{MaxSize: -1},
			field:   "maxSize",
			message: "must be greater than or equal to 0",
		},
		{
			name:    "transport without filename",
			config:  Config{FileTransports: FileTransports{{Level: "info"}}},
			field:   "fileTransports[0].filename",
			message: "is required",
		},
		{
			name:    "transport with unknown level",
			config:  Config{FileTransports: FileTransports{{Filename: "app.log", Level: "fatal"}}},
			field:   "fileTransports[0].level",
			message: "must be one of: error, warn, info, http, verbose, debug, silly",
		},
		{
			name:    "transport with bad retention",
			config:  Config{FileTransports: FileTransports{{Filename: "app.log", MaxFiles: "7y"}}},
			field:   "fileTransports[0].maxFiles",
			message: "must be a number followed by a unit (h, d or w), e.g. 14d",
		},
		{
			name:    "date format with layout digits",
			config:  Config{DateFormat: "[v1]-YYYY-MM-DD"},
			field:   "dateFormat",
			message: `cannot be used as a date layout: literal "v1-" contains the digit '1'`,
		},
		{
			name:    "retention past the longest duration",
			config:  Config{MaxFiles: "110000d"},
			field:   "maxFiles",
			message: "must be a number followed by a unit (h, d or w), e.g. 14d",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.config)
			require.Error(t, err)

			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			require.Len(t, cfgErr.Errors, 1)
			assert.Equal(t, tt.field, cfgErr.Errors[0].Field)
			assert.Equal(t, tt.message, cfgErr.Errors[0].Message)
			assert.Contains(t, err.Error(), "invalid logger configuration")
		})
	}
}

func TestValidate_AcceptsEveryLevel(t *testing.T) {
	for _, level := range AllLevels {
		cfg := Config{Level: level.String()}
		assert.NoError(t, Validate(&cfg), level.String())
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := Config{Level: "loud", MaxFiles: "forever"}

	err := Validate(&cfg)
	require.Error(t, err)

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Len(t, cfgErr.Errors, 2)
}

func TestParseRetention(t *testing.T) {
	tests := []struct {
		value    string
		expected time.Duration
		wantErr  bool
	}{
		{"12h", 12 * time.Hour, false},
		{"14d", 14 * 24 * time.Hour, false},
		{"2w", 14 * 24 * time.Hour, false},
		{"0d", 0, false},
		{"7", 0, true},
		{"d", 0, true},
		{"7m", 0, true},
		{"-1d", 0, true},
		{"106751d", 106751 * 24 * time.Hour, false},
		{"110000d", 0, true},
		{"300000d", 0, true},
		{"99999999999999999999h", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := ParseRetention(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFileTransports_YAML(t *testing.T) {
	t.Run("single mapping", func(t *testing.T) {
		var cfg Config
		require.NoError(t, yaml.Unmarshal([]byte(`
level: debug
fileTransports:
  filename: app.log
  level: warn
`), &cfg))

		require.Len(t, cfg.FileTransports, 1)
		assert.Equal(t, FileTransport{Filename: "app.log", Level: "warn"}, cfg.FileTransports[0])
	})

	t.Run("list", func(t *testing.T) {
		var cfg Config
		require.NoError(t, yaml.Unmarshal([]byte(`
rotateLogs: false
fileTransports:
  - filename: a.log
  - filename: b.log
    level: error
    maxFiles: 48h
`), &cfg))

		require.Len(t, cfg.FileTransports, 2)
		assert.Equal(t, "a.log", cfg.FileTransports[0].Filename)
		assert.Equal(t, "error", cfg.FileTransports[1].Level)
		assert.Equal(t, "48h", cfg.FileTransports[1].MaxFiles)
		assert.Equal(t, "14d", cfg.FileTransports[0].Retention(&Config{MaxFiles: "14d"}))
		assert.Equal(t, "48h", cfg.FileTransports[1].Retention(&Config{MaxFiles: "14d"}))
		assert.False(t, cfg.Rotating())
	})
}

func TestFileTransports_JSON(t *testing.T) {
	var single Config
	require.NoError(t, json.Unmarshal([]byte(`{"fileTransports": {"filename": "app.log"}}`), &single))
	require.Len(t, single.FileTransports, 1)
	assert.Equal(t, "app.log", single.FileTransports[0].Filename)

	var list Config
	require.NoError(t, json.Unmarshal([]byte(`{"fileTransports": [{"filename": "a.log"}, {"filename": "b.log"}]}`), &list))
	assert.Len(t, list.FileTransports, 2)
}

func TestConfig_Clone(t *testing.T) {
	original := Config{
		RotateLogs:     boolPtr(true),
		FileTransports: FileTransports{{Filename: "app.log"}},
	}

	clone := original.Clone()
	*clone.RotateLogs = false
	clone.FileTransports[0].Filename = "other.log"

	assert.True(t, *original.RotateLogs)
	assert.Equal(t, "app.log", original.FileTransports[0].Filename)
}
