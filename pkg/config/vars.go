package config

import (
	"path/filepath"
)

// AppName is used in generating file system paths.
var AppName = "mganno"

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/mganno by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/mganno/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}
