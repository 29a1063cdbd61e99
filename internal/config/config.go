package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/johnnynv/logsmith/pkg/logger"
)

// Manager manages the logger configuration of the application
type Manager struct {
	config *logger.Config
	loader *Loader
	logger *logger.Logger
	mu     sync.RWMutex

	// Configuration file path for reload
	configPath string
}

// NewManager creates a new configuration manager that reports through log
func NewManager(log *logger.Logger) *Manager {
	return &Manager{
		loader: NewLoader(),
		logger: log,
	}
}

// Load loads configuration from configPath, or from defaults and the
// environment when configPath is empty, and validates it.
func (m *Manager) Load(configPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.WithComponent("config").
		WithField("path", configPath).
		Info("Loading configuration")

	config, err := m.loader.LoadWithDefaults(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := m.loader.Validate(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if len(config.FileTransports) > 0 && config.Rotating() {
		if err := m.ensureLogsDirectory(config.LogsDir); err != nil {
			return fmt.Errorf("failed to prepare logs directory: %w", err)
		}
	}

	for _, name := range m.loader.Unresolved() {
		m.logger.WithComponent("config").
			WithField("variable", name).
			Warn("Environment variable reference left unexpanded")
	}

	m.config = config
	m.configPath = configPath

	m.logger.WithComponent("config").
		WithFields(logger.Fields{
			"level":      config.Level,
			"transports": len(config.FileTransports),
			"overrides":  m.loader.Overridden(),
		}).
		Info("Configuration loaded successfully")

	return nil
}

// Get returns a copy of the current configuration, nil before Load
func (m *Manager) Get() *logger.Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return nil
	}

	configCopy := m.config.Clone()
	return &configCopy
}

// Reload reloads configuration from the same file
func (m *Manager) Reload() error {
	m.mu.RLock()
	path := m.configPath
	m.mu.RUnlock()

	if path == "" {
		m.logger.WithComponent("config").
			Debug("No configuration file path set for reload")
		return nil
	}

	m.logger.WithComponent("config").
		Info("Reloading configuration")

	return m.Load(path)
}

// Validate loads and validates configPath without keeping the result
func (m *Manager) Validate(configPath string) (*logger.Config, error) {
	config, err := NewLoader().LoadFromFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration for validation: %w", err)
	}

	if err := logger.Validate(config); err != nil {
		return config, err
	}
	return config, nil
}

// GetConfigPath returns the current configuration file path
func (m *Manager) GetConfigPath() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.configPath
}

// SetConfig sets the configuration directly after validating it
func (m *Manager) SetConfig(config logger.Config) error {
	config = config.Clone()
	if err := logger.Validate(&config); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.config = &config

	m.logger.WithComponent("config").
		WithField("transports", len(config.FileTransports)).
		Info("Configuration set programmatically")

	return nil
}

// NewLogger builds a logger from the current configuration
func (m *Manager) NewLogger(opts ...logger.Option) (*logger.Logger, error) {
	config := m.Get()
	if config == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return logger.New(*config, opts...)
}

// ensureLogsDirectory creates the logs directory if it doesn't exist
func (m *Manager) ensureLogsDirectory(logsDir string) error {
	absPath, err := filepath.Abs(logsDir)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(absPath, 0755); err != nil {
		return err
	}

	// Verify it's writable
	testFile := filepath.Join(absPath, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		return fmt.Errorf("logs directory is not writable: %w", err)
	}
	file.Close()
	os.Remove(testFile)

	return nil
}
