// Package config provides hierarchical configuration management for pagecraft
// using koanf. Configuration is loaded with priority: environment variables >
// project config (.pagecraft/config.yml) > user config
// (~/.config/pagecraft/config.yml) > defaults. YAML is the primary format;
// JSON config files are still accepted at the same paths.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Source tracks where a configuration value came from.
type Source string

const (
	SourceDefault Source = "default"
	SourceUser    Source = "user"
	SourceProject Source = "project"
	SourceEnv     Source = "env"
)

// Configuration holds the pagecraft CLI settings.
type Configuration struct {
	// Provider selects the model backend: "openai" or "groq".
	// Can be set via PAGECRAFT_PROVIDER env var.
	Provider string `koanf:"provider" validate:"omitempty,oneof=openai groq"`

	// Model overrides the provider's default model identifier.
	Model string `koanf:"model"`

	// APIKey authenticates against the provider. Usually supplied via
	// PAGECRAFT_API_KEY (or the provider's own env var) rather than on disk.
	APIKey string `koanf:"api_key"`

	// BaseURL overrides the provider endpoint, e.g. for proxies.
	BaseURL string `koanf:"base_url"`

	// Temperature is passed through to the model (0.0-2.0).
	Temperature float64 `koanf:"temperature" validate:"gte=0,lte=2"`

	// MaxTokens caps each completion. Zero means provider default.
	MaxTokens int `koanf:"max_tokens" validate:"gte=0"`

	// MaxRetries sets extra attempts per stage after the first (0-10).
	MaxRetries int `koanf:"max_retries" validate:"gte=0,lte=10"`

	// RunTimeout bounds an entire run, in seconds. Zero means no timeout.
	RunTimeout int `koanf:"run_timeout" validate:"gte=0"`

	// ReuseQuestions builds the FAQ page directly from the generated
	// question set instead of asking the model again.
	ReuseQuestions bool `koanf:"reuse_questions"`

	// Sequential disables parallel stage execution within a tier.
	Sequential bool `koanf:"sequential"`

	// OutputDir receives the generated JSON documents.
	OutputDir string `koanf:"output_dir"`
}

// Timeout returns the run timeout as a duration, zero when unbounded.
func (c *Configuration) Timeout() time.Duration {
	return time.Duration(c.RunTimeout) * time.Second
}

// Load loads configuration from user, project, and environment sources.
// Priority: Environment variables > Project config > User config > Defaults.
//
// Config paths:
//   - User config: ~/.config/pagecraft/config.yml (XDG compliant)
//   - Project config: .pagecraft/config.yml
//
// JSON variants (config.json) are accepted at the same locations when no
// YAML file exists.
func Load(projectConfigPath string) (*Configuration, error) {
	k := koanf.New(".")

	loadDefaults(k)

	if err := loadUserConfig(k); err != nil {
		return nil, err
	}

	if err := loadProjectConfig(k, projectConfigPath); err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	return finalizeConfig(k)
}

// loadDefaults applies default configuration values.
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadUserConfig loads user-level config, YAML preferred over JSON.
func loadUserConfig(k *koanf.Koanf) error {
	yamlPath, _ := UserConfigPath()
	jsonPath, _ := UserJSONConfigPath()

	if fileExists(yamlPath) {
		if err := loadYAMLConfig(k, yamlPath, "user"); err != nil {
			return fmt.Errorf("loading user config: %w", err)
		}
		return nil
	}
	if fileExists(jsonPath) {
		if err := k.Load(file.Provider(jsonPath), json.Parser()); err != nil {
			return fmt.Errorf("failed to load user config %s: %w", jsonPath, err)
		}
	}
	return nil
}

// loadProjectConfig loads project-level config. A custom path (from --config)
// takes precedence over the default .pagecraft/config.yml location.
func loadProjectConfig(k *koanf.Koanf, customPath string) error {
	yamlPath := ProjectConfigPath()
	if customPath != "" {
		if !fileExists(customPath) {
			return fmt.Errorf("config file not found: %s", customPath)
		}
		if strings.HasSuffix(customPath, ".json") {
			if err := k.Load(file.Provider(customPath), json.Parser()); err != nil {
				return fmt.Errorf("failed to load config %s: %w", customPath, err)
			}
			return nil
		}
		return loadYAMLConfig(k, customPath, "project")
	}

	jsonPath := ProjectJSONConfigPath()
	if fileExists(yamlPath) {
		if err := loadYAMLConfig(k, yamlPath, "project"); err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		return nil
	}
	if fileExists(jsonPath) {
		if err := k.Load(file.Provider(jsonPath), json.Parser()); err != nil {
			return fmt.Errorf("failed to load project config %s: %w", jsonPath, err)
		}
	}
	return nil
}

// loadYAMLConfig validates and loads a YAML config file.
func loadYAMLConfig(k *koanf.Koanf, path, configType string) error {
	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax for %s config: %w", configType, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides.
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.Provider("PAGECRAFT_", ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// finalizeConfig unmarshals, validates, and applies final transformations.
func finalizeConfig(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.OutputDir = expandHomePath(cfg.OutputDir)

	// Fall back to the provider's own key variable when nothing was set,
	// so existing OPENAI_API_KEY/GROQ_API_KEY setups keep working.
	if cfg.APIKey == "" {
		switch cfg.Provider {
		case "groq":
			cfg.APIKey = os.Getenv("GROQ_API_KEY")
		default:
			cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	}

	return &cfg, nil
}

// fileExists returns true if the file exists and is readable.
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys.
// Example: PAGECRAFT_MAX_RETRIES -> max_retries
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, "PAGECRAFT_"))
}

// expandHomePath expands ~ to the user's home directory.
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
