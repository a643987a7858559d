// Package config provides configuration loading for effectcore.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "effectcore.yaml"

// Config represents the complete effectcore configuration.
type Config struct {
	Content ContentConfig `yaml:"content"`
	Engine  EngineConfig  `yaml:"engine"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
	Reports ReportsConfig `yaml:"reports"`
}

// ContentConfig locates the Lua content and the scenario.
type ContentConfig struct {
	// Dir holds the .lua content files.
	Dir string `yaml:"dir"`
	// Scenario is the YAML universe fixture to load.
	Scenario string `yaml:"scenario"`
}

// EngineConfig tunes effect passes.
type EngineConfig struct {
	// Workers bounds read-phase parallelism (0 = GOMAXPROCS).
	Workers int `yaml:"workers"`
	// Verify checks the ledger against the meters after every pass.
	Verify bool `yaml:"verify"`
	// ShuffleSeed, when set, shuffles active groups before each pass.
	ShuffleSeed *int64 `yaml:"shuffle_seed"`
}

// LogConfig configures slog output.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is text or json.
	Format string `yaml:"format"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	// Addr serves /metrics when non-empty (e.g. ":9108").
	Addr string `yaml:"addr"`
}

// ReportsConfig configures pass report output.
type ReportsConfig struct {
	// Dir receives pass-<turn>-<id>.json files (empty = current directory).
	Dir string `yaml:"dir"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Content: ContentConfig{
			Dir:      "content",
			Scenario: "scenarios/demo.yaml",
		},
		Engine: EngineConfig{
			Workers: 0,
			Verify:  true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Reports: ReportsConfig{
			Dir: "reports",
		},
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Content.Dir == "" {
		return fmt.Errorf("content.dir is required")
	}
	if c.Engine.Workers < 0 {
		return fmt.Errorf("engine.workers must not be negative")
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file over the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return config, nil
}

// Load reads path, or DefaultFile when path is empty and that file exists,
// and validates the result. With no file at all the defaults are used.
func Load(path string) (*Config, error) {
	if path == "" {
		if _, err := os.Stat(DefaultFile); err != nil {
			return DefaultConfig(), nil
		}
		path = DefaultFile
	}
	cfg, err := LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown level %q", s)
	}
}

// NewLogger builds the slog logger the config asks for.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, _ := ParseLevel(c.Log.Level)
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
