package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvExpander_ExpandString(t *testing.T) {
	t.Setenv("LOG_ROOT", "/var/log/app")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SECRET_KEY", "hunter2")
	t.Setenv("LOG_EMPTY", "")

	expander := NewEnvExpander([]string{"LOG_*", "*_DIR"})

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Simple variable expansion",
			input:    "${LOG_ROOT}",
			expected: "/var/log/app",
		},
		{
			name:     "Variable in string",
			input:    "${LOG_ROOT}/errors.log",
			expected: "/var/log/app/errors.log",
		},
		{
			name:     "Multiple variables",
			input:    "${LOG_ROOT}:${LOG_LEVEL}",
			expected: "/var/log/app:debug",
		},
		{
			name:     "Not allowed",
			input:    "${SECRET_KEY}",
			expected: "${SECRET_KEY}",
		},
		{
			name:     "Unset variable",
			input:    "${LOG_MISSING}",
			expected: "${LOG_MISSING}",
		},
		{
			name:     "Unset variable with default",
			input:    "${LOG_MISSING:-info}",
			expected: "info",
		},
		{
			name:     "Empty variable with default",
			input:    "${LOG_EMPTY:-warn}",
			expected: "warn",
		},
		{
			name:     "Set variable ignores default",
			input:    "${LOG_LEVEL:-info}",
			expected: "debug",
		},
		{
			name:     "Not allowed keeps default syntax",
			input:    "${SECRET_KEY:-x}",
			expected: "${SECRET_KEY:-x}",
		},
		{
			name:     "No variables",
			input:    "plain text",
			expected: "plain text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, expander.ExpandString(tt.input))
		})
	}
}

func TestEnvExpander_ExpandMap(t *testing.T) {
	t.Setenv("LOG_ROOT", "/srv/logs")

	expander := NewEnvExpander([]string{"*"})
	result, err := expander.ExpandMap(map[string]interface{}{
		"logsDir":  "${LOG_ROOT}",
		"maxSize":  10,
		"compress": true,
		"fileTransports": []interface{}{
			map[string]interface{}{"filename": "${LOG_ROOT}/app.log"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "/srv/logs", result["logsDir"])
	assert.Equal(t, 10, result["maxSize"])
	assert.Equal(t, true, result["compress"])
	transports := result["fileTransports"].([]interface{})
	assert.Equal(t, "/srv/logs/app.log", transports[0].(map[string]interface{})["filename"])
}

func TestEnvExpander_IsVarAllowed(t *testing.T) {
	expander := NewEnvExpander([]string{"LOGSMITH_LEVEL", "*_DIR", "LOG_*"})

	tests := []struct {
		name     string
		varName  string
		expected bool
	}{
		{
			name:     "Exact match",
			varName:  "LOGSMITH_LEVEL",
			expected: true,
		},
		{
			name:     "Wildcard prefix",
			varName:  "LOGS_DIR",
			expected: true,
		},
		{
			name:     "Wildcard suffix",
			varName:  "LOG_FILE",
			expected: true,
		},
		{
			name:     "Not allowed",
			varName:  "SECRET_KEY",
			expected: false,
		},
		{
			name:     "Case sensitive",
			varName:  "logs_dir",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, expander.IsVarAllowed(tt.varName))
		})
	}

	assert.True(t, NewEnvExpander([]string{"*"}).IsVarAllowed("ANYTHING"))
	assert.False(t, NewEnvExpander(nil).IsVarAllowed("ANYTHING"))
}

func TestReferences(t *testing.T) {
	assert.Equal(t, []string{"A", "B_2"}, References("${A}/${B_2:-x}/${A}"))
	assert.Empty(t, References("no refs, $NOT_BRACED"))
}
