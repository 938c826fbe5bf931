package lint

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/gnolang/ternlint/internal"
	tt "github.com/gnolang/ternlint/internal/types"
)

const DefaultConfigName = ".ternlint.yaml"

// Config represents the overall configuration with a name and a slice of rules.
type Config struct {
	Name string `yaml:"name" toml:"name"`
	// LanguageVersion is the default language version, e.g. "7.3" or "latest".
	LanguageVersion string `yaml:"language-version,omitempty" toml:"language-version,omitempty"`
	// Conversions lists implicit conversions beyond the built-in ones, e.g.
	// from a class to its base class.
	Conversions []Conversion             `yaml:"conversions,omitempty" toml:"conversions,omitempty"`
	Ignore      []string                 `yaml:"ignore,omitempty" toml:"ignore,omitempty"`
	Rules       map[string]tt.ConfigRule `yaml:"rules" toml:"rules"`
}

type Conversion struct {
	From string `yaml:"from" toml:"from"`
	To   string `yaml:"to" toml:"to"`
}

// DefaultConfig enables every rule with its default severity.
func DefaultConfig() Config {
	return Config{
		Name:            "ternlint",
		LanguageVersion: "latest",
		Rules:           internal.DefaultRules(),
	}
}

// ParseConfigurationFile reads a YAML or, for a .toml extension, TOML
// configuration. Unknown keys are rejected.
func ParseConfigurationFile(configurationPath string) (Config, error) {
	var config Config

	data, err := os.ReadFile(configurationPath)
	if err != nil {
		return config, err
	}

	switch strings.ToLower(filepath.Ext(configurationPath)) {
	case ".toml":
		meta, err := toml.Decode(string(data), &config)
		if err != nil {
			return config, fmt.Errorf("error parsing %s: %w", configurationPath, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return config, fmt.Errorf("error parsing %s: unknown key %q", configurationPath, undecoded[0].String())
		}
	default:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&config); err != nil {
			return config, fmt.Errorf("error parsing %s: %w", configurationPath, err)
		}
	}

	return config, nil
}

// WriteConfigurationFile writes config as YAML.
func WriteConfigurationFile(configurationPath string, config Config) error {
	d, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(configurationPath, d, 0o644)
}
