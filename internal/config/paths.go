package config

import (
	"os"
	"path/filepath"
)

// UserConfigPath returns the path to the user-level config file.
// This follows the XDG Base Directory Specification:
// - Linux: ~/.config/pagecraft/config.yml
// - macOS: ~/Library/Application Support/pagecraft/config.yml
// - Windows: %APPDATA%\pagecraft\config.yml
//
// If XDG_CONFIG_HOME is set, it will be respected on Linux.
func UserConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "pagecraft", "config.yml"), nil
}

// UserConfigDir returns the path to the user-level config directory.
func UserConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "pagecraft"), nil
}

// UserJSONConfigPath returns the user-level JSON config location, used when
// no YAML config exists.
func UserJSONConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "pagecraft", "config.json"), nil
}

// ProjectConfigPath returns the path to the project-level config file.
// This is always .pagecraft/config.yml relative to the current directory.
func ProjectConfigPath() string {
	return filepath.Join(".pagecraft", "config.yml")
}

// ProjectConfigDir returns the path to the project-level config directory.
func ProjectConfigDir() string {
	return ".pagecraft"
}

// ProjectJSONConfigPath returns the project-level JSON config location.
func ProjectJSONConfigPath() string {
	return filepath.Join(".pagecraft", "config.json")
}
