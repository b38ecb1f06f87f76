/*
PURPOSE:
  Defines the runtime configuration structure and loading logic for sitecheck.
  Adheres to "Config IS Code" philosophy.

REQUIREMENTS:
  User-specified:
  - Allow configuration of the project root, content policy and report output.
  - Running with no flags and no config file must validate the current directory.

  Implementation-discovered:
  - Needs to support YAML and JSON config files.
  - Needs to support Environment variables overrides (SITECHECK_...).

ARCHITECTURE INTEGRATION:
  - Used by: internal/cli, internal/engine
  - Dependencies: github.com/knadh/koanf/v2 (layering), gopkg.in/yaml.v3 (YAML
    parsing), github.com/go-playground/validator/v10 (field rules)

ERROR HANDLING:
  - Returns explicit error if config file is invalid.
  - A missing default config file is not an error (falls back to defaults).

IMPLEMENTATION RULES:
  - Priority: Environment variables > Config file > Defaults.
  - Struct tags use koanf for loading and validate for checking.

USAGE:
  cfg, err := config.Load("sitecheck.yaml")

SELF-HEALING INSTRUCTIONS:
  - If new fields are needed, add to Config struct and defaults().

RELATED FILES:
  - internal/config/policy.go
  - internal/cli/root.go

MAINTENANCE:
  - Update when adding new tuning parameters.
*/

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SITECHECK_"

// DefaultFiles are searched in order when no config path is given.
var DefaultFiles = []string{"sitecheck.yaml", "sitecheck.yml", "sitecheck.json"}

// Config represents the full configuration for sitecheck.
type Config struct {
	// Root is the project directory holding index.html and data/.
	Root string `koanf:"root" validate:"required"`
	// PolicyFile overrides the embedded content policy when set.
	PolicyFile string `koanf:"policy_file"`
	// ReportDir enables JSON Lines and CSV check reports.
	ReportDir string `koanf:"report_dir"`
	LogLevel  string `koanf:"log_level" validate:"oneof=debug info warn error"`
}

func defaults() map[string]any {
	return map[string]any{
		"root":        ".",
		"policy_file": "",
		"report_dir":  "",
		"log_level":   "warn",
	}
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Root:     ".",
		LogLevel: "warn",
	}
}

// Load reads configuration from a file.
// If path is specified, it attempts to load that file.
// If path is empty, it searches for default files in order.
// If no file found, defaults are used. Environment variables are applied last.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	for key, value := range defaults() {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("failed to set default %s: %w", key, err)
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, err
		}
	} else {
		for _, name := range DefaultFiles {
			if _, err := os.Stat(name); err == nil {
				path = name // record which file we loaded
				break
			}
		}
	}

	if path != "" {
		if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to read environment overrides: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks field rules on an assembled Config.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// envTransform converts environment variable names to config keys
// Example: SITECHECK_REPORT_DIR -> report_dir
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

func parserFor(path string) koanf.Parser {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return json.Parser()
	}
	return yamlParser{}
}

// yamlParser adapts yaml.v3 to koanf's Parser interface.
type yamlParser struct{}

func (yamlParser) Unmarshal(b []byte) (map[string]any, error) {
	out := map[string]any{}
	if err := yaml.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (yamlParser) Marshal(m map[string]any) ([]byte, error) {
	return yaml.Marshal(m)
}
