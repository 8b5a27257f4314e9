package ioconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mganno/mganno/pkg/config"
	"gopkg.in/yaml.v3"
)

// GetConfigDir returns the configuration directory for mganno.
// Uses ~/.config/mganno/ on all platforms for consistency.
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return config.ConfigDir(homeDir), nil
}

// GetDefaultConfigPath returns the full path to the default config file.
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.yaml"), nil
}

// ConfigFileExists checks whether the default config file is present.
func ConfigFileExists() (bool, error) {
	path, err := GetDefaultConfigPath()
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GenerateDefaultConfig creates a documented default config file at the
// default location. Returns the path where the file was created.
// Does NOT overwrite an existing file.
func GenerateDefaultConfig() (string, error) {
	configPath, err := GetDefaultConfigPath()
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(configPath); err == nil {
		return configPath, fmt.Errorf("config file already exists: %s", configPath)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config.Defaults())
	if err != nil {
		return "", fmt.Errorf("failed to marshal default config: %w", err)
	}

	content := append([]byte(header), data...)
	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return configPath, nil
}

const header = `# mganno configuration.
# All values can be overridden with MGANNO_* environment variables,
# e.g. MGANNO_DATABASE_HOST, MGANNO_SERVER_PORT, MGANNO_LOG_LEVEL.
`
