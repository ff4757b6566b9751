package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileManager loads and saves the YAML configuration file
type FileManager struct {
	configFilePath string
}

// NewFileManager creates a manager bound to the given file
func NewFileManager(configFilePath string) *FileManager {
	return &FileManager{configFilePath: configFilePath}
}

// Path returns the file the manager reads and writes
func (m *FileManager) Path() string {
	return m.configFilePath
}

// LoadConfig loads the configuration, writing the defaults first when the file is missing or empty.
// The returned config has defaults applied and has been validated.
func (m *FileManager) LoadConfig() (Config, error) {
	if m.configFilePath == "" {
		return Config{}, fmt.Errorf("config file path not set")
	}

	raw, err := os.ReadFile(m.configFilePath)
	if err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	if len(raw) == 0 {
		cfg := Default()
		if err := m.SaveConfig(cfg); err != nil {
			return Config{}, fmt.Errorf("failed to save default config: %w", err)
		}
		return cfg, nil
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", m.configFilePath, err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// SaveConfig writes the configuration to disk
func (m *FileManager) SaveConfig(cfg Config) error {
	if m.configFilePath == "" {
		return fmt.Errorf("config file path not set")
	}

	if err := os.MkdirAll(filepath.Dir(m.configFilePath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	yamlData, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(m.configFilePath, yamlData, 0644)
}

// ConfigExists checks if a non-empty configuration file already exists
func (m *FileManager) ConfigExists() bool {
	info, err := os.Stat(m.configFilePath)
	return err == nil && info.Size() > 0
}

// ApplyEnv overrides settings that deployments conventionally pass through the environment.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if port, ok := lookup("PORT"); ok && port != "" {
		c.Server.Port = port
	}
}
