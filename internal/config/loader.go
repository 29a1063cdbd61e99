package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/johnnynv/logsmith/pkg/logger"
	"github.com/johnnynv/logsmith/pkg/utils"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "LOGSMITH_"

// DefaultAllowedEnvVars is the ${VAR} allow-list used when the file has no
// security section.
var DefaultAllowedEnvVars = []string{"*"}

// SecurityConfig controls which environment variables a file may reference
type SecurityConfig struct {
	AllowedEnvVars []string `yaml:"allowedEnvVars"`
}

// envOverrides are read from LOGSMITH_* variables. Unset or empty
// variables leave their field nil and the file value in place.
type envOverrides struct {
	Level            *string `env:"LEVEL"`
	LogsDir          *string `env:"LOGS_DIR"`
	OverwriteConsole *bool   `env:"OVERWRITE_CONSOLE"`
	RotateLogs       *bool   `env:"ROTATE_LOGS"`
	DateFormat       *string `env:"DATE_FORMAT"`
	MaxFiles         *string `env:"MAX_FILES"`
	MaxSize          *int    `env:"MAX_SIZE"`
	Compress         *bool   `env:"COMPRESS"`
}

// Loader handles configuration loading and processing
type Loader struct {
	envExpander *utils.EnvExpander
	environment map[string]string

	overridden []string
	unresolved []string
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{}
}

// WithEnvironment makes the loader read overrides from environment instead
// of the process environment.
func (l *Loader) WithEnvironment(environment map[string]string) *Loader {
	l.environment = environment
	return l
}

// LoadFromFile loads configuration from a YAML file
func (l *Loader) LoadFromFile(filePath string) (*logger.Config, error) {
	file, err := os.Open(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("configuration file not found: %s", filePath)
		}
		return nil, fmt.Errorf("failed to open configuration file: %w", err)
	}
	defer file.Close()

	return l.LoadFromReader(file)
}

// LoadFromReader loads configuration from an io.Reader
func (l *Loader) LoadFromReader(reader io.Reader) (*logger.Config, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}

	return l.LoadFromBytes(content)
}

// LoadFromBytes parses YAML, expands ${VAR} references, decodes the result
// and applies LOGSMITH_* overrides. Defaults are not applied; Validate
// does that.
func (l *Loader) LoadFromBytes(content []byte) (*logger.Config, error) {
	// Parse YAML into raw map first
	var rawConfig map[string]interface{}
	if err := yaml.Unmarshal(content, &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if rawConfig == nil {
		rawConfig = map[string]interface{}{}
	}

	securityConfig, err := l.extractSecurityConfig(rawConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to extract security configuration: %w", err)
	}
	delete(rawConfig, "security")

	l.envExpander = utils.NewEnvExpander(securityConfig.AllowedEnvVars)

	expandedConfig, err := l.envExpander.ExpandMap(rawConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to expand environment variables: %w", err)
	}

	// Marshal back to YAML and unmarshal into typed structure
	expandedBytes, err := yaml.Marshal(expandedConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal expanded configuration: %w", err)
	}
	l.unresolved = utils.References(string(expandedBytes))

	var config logger.Config
	if err := yaml.Unmarshal(expandedBytes, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := l.applyEnvOverrides(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// extractSecurityConfig reads the allow-list before anything is expanded
func (l *Loader) extractSecurityConfig(rawConfig map[string]interface{}) (*SecurityConfig, error) {
	securityConfig := &SecurityConfig{
		AllowedEnvVars: DefaultAllowedEnvVars,
	}

	if securityRaw, exists := rawConfig["security"]; exists {
		securityBytes, err := yaml.Marshal(securityRaw)
		if err != nil {
			return nil, err
		}

		if err := yaml.Unmarshal(securityBytes, securityConfig); err != nil {
			return nil, err
		}
	}

	return securityConfig, nil
}

// applyEnvOverrides copies every LOGSMITH_* variable that is set onto config
func (l *Loader) applyEnvOverrides(config *logger.Config) error {
	var overrides envOverrides
	var applied []string

	err := env.ParseWithOptions(&overrides, env.Options{
		Prefix:      EnvPrefix,
		Environment: l.environment,
		OnSet: func(tag string, value interface{}, isDefault bool) {
			if !isDefault && fmt.Sprint(value) != "" {
				applied = append(applied, tag)
			}
		},
	})
	if err != nil {
		return fmt.Errorf("failed to parse environment overrides: %w", err)
	}

	if overrides.Level != nil {
		config.Level = *overrides.Level
	}
	if overrides.LogsDir != nil {
		config.LogsDir = *overrides.LogsDir
	}
	if overrides.OverwriteConsole != nil {
		config.OverwriteConsole = *overrides.OverwriteConsole
	}
	if overrides.RotateLogs != nil {
		config.RotateLogs = overrides.RotateLogs
	}
	if overrides.DateFormat != nil {
		config.DateFormat = *overrides.DateFormat
	}
	if overrides.MaxFiles != nil {
		config.MaxFiles = *overrides.MaxFiles
	}
	if overrides.MaxSize != nil {
		config.MaxSize = *overrides.MaxSize
	}
	if overrides.Compress != nil {
		config.Compress = *overrides.Compress
	}

	sort.Strings(applied)
	l.overridden = applied

	return nil
}

// LoadWithDefaults loads filePath, or only the environment overrides when
// filePath is empty.
func (l *Loader) LoadWithDefaults(filePath string) (*logger.Config, error) {
	if filePath != "" {
		return l.LoadFromFile(filePath)
	}
	return l.LoadFromBytes(nil)
}

// Overridden lists the LOGSMITH_* variables applied by the last load
func (l *Loader) Overridden() []string {
	return append([]string(nil), l.overridden...)
}

// Unresolved lists ${VAR} references the last load could not expand
func (l *Loader) Unresolved() []string {
	return append([]string(nil), l.unresolved...)
}

// Validate applies defaults and validates config
func (l *Loader) Validate(config *logger.Config) error {
	return logger.Validate(config)
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set. With no
// paths it loads ./.env when that file exists.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		paths = []string{".env"}
	}

	if err := godotenv.Load(paths...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}
