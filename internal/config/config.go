// Package config loads logsieve settings from defaults, an optional YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Geun-Oh/logsieve/internal/entry"
	"github.com/Geun-Oh/logsieve/internal/filter"
	"github.com/Geun-Oh/logsieve/internal/sink"
)

// EnvConfigPath names the environment variable holding the config file path.
const EnvConfigPath = "LOGSIEVE_CONFIG"

// Config is the file-level configuration. Command-line flags override it.
type Config struct {
	Filter  FilterConfig        `yaml:"filter"`
	Levels  map[string][]string `yaml:"levels"` // per-level token overrides
	Sources SourceConfig        `yaml:"sources"`
	Output  OutputConfig        `yaml:"output"`
	Logging LoggingConfig       `yaml:"logging"`
}

// FilterConfig mirrors filter.Options.
type FilterConfig struct {
	MinLevel       string `yaml:"min_level"`
	Pattern        string `yaml:"pattern"`
	ExcludePattern string `yaml:"exclude_pattern"`
	CaseSensitive  bool   `yaml:"case_sensitive"`
	FixedStrings   bool   `yaml:"fixed_strings"`
	ContextLines   int    `yaml:"context_lines"`
}

// SourceConfig holds producer defaults.
type SourceConfig struct {
	Tail        int    `yaml:"tail"` // negative means all lines
	DockerHost  string `yaml:"docker_host"`
	KubeContext string `yaml:"kube_context"`
	Namespace   string `yaml:"namespace"`
}

// OutputConfig controls how groups are written.
type OutputConfig struct {
	Format    string `yaml:"format"` // text, json
	Color     string `yaml:"color"`  // auto, always, never
	Meta      bool   `yaml:"meta"`
	Number    bool   `yaml:"number"`
	Separator string `yaml:"separator"`
	File      string `yaml:"file"`
	Stats     bool   `yaml:"stats"`
}

// LoggingConfig contains diagnostic logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Sources: SourceConfig{
			Tail:      100,
			Namespace: "default",
		},
		Output: OutputConfig{
			Format:    "text",
			Color:     "auto",
			Separator: sink.DefaultSeparator,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// DecodeStrict decodes YAML from a reader and rejects any unknown fields.
func DecodeStrict(r io.Reader, out interface{}) error {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Load reads .env, then the YAML file at path. An empty path falls back to
// $LOGSIEVE_CONFIG and then to <user config dir>/logsieve/config.yaml if it exists.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	explicit := path != ""
	if path == "" {
		path = os.Getenv(EnvConfigPath)
		explicit = path != ""
	}
	if path == "" {
		path = DefaultPath()
	}

	if path != "" {
		f, err := os.Open(path)
		switch {
		case err == nil:
			defer f.Close()
			if err := DecodeStrict(f, cfg); err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		default:
			return nil, fmt.Errorf("open config: %w", err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultPath returns the per-user config location, or "" if it cannot be determined.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "logsieve", "config.yaml")
}

func (c *Config) applyEnv() {
	if v := os.Getenv("LOGSIEVE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("LOGSIEVE_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
}

// Validate checks values the filter engine does not validate itself.
func (c *Config) Validate() error {
	switch c.Output.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid config: output.format %q (want text or json)", c.Output.Format)
	}
	switch c.Output.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("invalid config: output.color %q (want auto, always or never)", c.Output.Color)
	}
	for name := range c.Levels {
		if _, err := entry.ParseLevel(name); err != nil {
			return fmt.Errorf("invalid config: levels: %w", err)
		}
	}
	return nil
}

// Lexicon returns the level lexicon with file overrides applied, or nil when there are none.
func (c *Config) Lexicon() (*filter.Lexicon, error) {
	if len(c.Levels) == 0 {
		return nil, nil
	}

	tokens := filter.DefaultTokens()
	for name, toks := range c.Levels {
		level, err := entry.ParseLevel(name)
		if err != nil {
			return nil, &filter.ConfigError{Field: "levels", Value: name, Err: err}
		}
		tokens[level] = toks
	}

	lx, err := filter.NewLexicon(tokens)
	if err != nil {
		return nil, &filter.ConfigError{Field: "levels", Value: "", Err: err}
	}
	return lx, nil
}

// FilterOptions converts the filter section into engine options.
func (c *Config) FilterOptions() (filter.Options, error) {
	lx, err := c.Lexicon()
	if err != nil {
		return filter.Options{}, err
	}
	return filter.Options{
		MinLevel:       c.Filter.MinLevel,
		Pattern:        c.Filter.Pattern,
		ExcludePattern: c.Filter.ExcludePattern,
		CaseSensitive:  c.Filter.CaseSensitive,
		FixedStrings:   c.Filter.FixedStrings,
		ContextLines:   c.Filter.ContextLines,
		Lexicon:        lx,
	}, nil
}
