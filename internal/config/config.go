package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable that points at a config file.
const EnvVar = "PYAST_CONFIG"

// DefaultPath is tried when neither a flag nor EnvVar names a file.
const DefaultPath = "./pyast.toml"

// Config holds the complete tool configuration
type Config struct {
	Layout LayoutConfig `toml:"layout" yaml:"layout"`
	Output OutputConfig `toml:"output" yaml:"output"`
	Log    LogConfig    `toml:"log" yaml:"log"`
}

// LayoutConfig holds tokenizer settings
type LayoutConfig struct {
	TabWidth                 int  `toml:"tab_width" yaml:"tab_width"`
	IgnoreCommentIndentation bool `toml:"ignore_comment_indentation" yaml:"ignore_comment_indentation"`
}

// OutputConfig holds graph and diagnostic output settings
type OutputConfig struct {
	GraphName string `toml:"graph_name" yaml:"graph_name"`
	Color     string `toml:"color" yaml:"color"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file, chosen by extension.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Errorf("config file not found: %s", path)
		}
		return nil, errors.Wrapf(err, "failed to read config %s", path)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(content), &cfg); err != nil {
			return nil, errors.Wrapf(err, "failed to parse config %s", path)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, &cfg); err != nil {
			return nil, errors.Wrapf(err, "failed to parse config %s", path)
		}
	default:
		return nil, errors.Errorf("unsupported config format %q: use .toml, .yaml or .yml", ext)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", path)
	}

	return &cfg, nil
}

// Resolve loads the configuration named by flagPath, then EnvVar, then
// DefaultPath. When none of them is set and DefaultPath does not exist the
// built-in defaults are returned.
func Resolve(flagPath string) (*Config, error) {
	if flagPath != "" {
		return Load(flagPath)
	}
	if path := os.Getenv(EnvVar); path != "" {
		return Load(path)
	}
	if _, err := os.Stat(DefaultPath); err == nil {
		return Load(DefaultPath)
	}
	return Default(), nil
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.Layout.TabWidth == 0 {
		c.Layout.TabWidth = 1
	}

	if c.Output.GraphName == "" {
		c.Output.GraphName = "G"
	}
	if c.Output.Color == "" {
		c.Output.Color = "auto"
	}

	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}
}

// Validate reports the first setting that has no meaning.
func (c *Config) Validate() error {
	if c.Layout.TabWidth < 1 {
		return errors.Errorf("layout.tab_width must be at least 1, got %d", c.Layout.TabWidth)
	}

	switch c.Output.Color {
	case "auto", "always", "never":
	default:
		return errors.Errorf("output.color must be auto, always or never, got %q", c.Output.Color)
	}

	if strings.ContainsAny(c.Output.GraphName, " \t\n{}\"") {
		return errors.Errorf("output.graph_name %q is not a valid graph identifier", c.Output.GraphName)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return errors.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}

	return nil
}
