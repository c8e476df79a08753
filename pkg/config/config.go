package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml"
)

// Config holds all configuration options for mood.
type Config struct {
	// Analysis settings
	Analysis AnalysisConfig `koanf:"analysis" toml:"analysis"`

	// File exclusion patterns
	Exclude ExcludeConfig `koanf:"exclude" toml:"exclude"`

	// Cache settings
	Cache CacheConfig `koanf:"cache" toml:"cache"`

	// Output settings
	Output OutputConfig `koanf:"output" toml:"output"`

	// Logging settings
	Log LogConfig `koanf:"log" toml:"log"`
}

// AnalysisConfig controls how sources are loaded and measured.
type AnalysisConfig struct {
	IncludeTests bool   `koanf:"include_tests" toml:"include_tests"`
	MaxFileSize  int64  `koanf:"max_file_size" toml:"max_file_size"` // bytes, 0 = unlimited
	Workers      int    `koanf:"workers" toml:"workers"`             // 0 = 2x NumCPU
	Receiver     string `koanf:"receiver" toml:"receiver"`
}

// ExcludeConfig defines file exclusion patterns.
type ExcludeConfig struct {
	Patterns  []string `koanf:"patterns" toml:"patterns"`
	Dirs      []string `koanf:"dirs" toml:"dirs"`
	Gitignore bool     `koanf:"gitignore" toml:"gitignore"`
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled" toml:"enabled"`
	Dir     string `koanf:"dir" toml:"dir"`
	TTL     int    `koanf:"ttl" toml:"ttl"` // TTL in hours
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format string `koanf:"format" toml:"format"` // text, records, json, markdown, toon, yaml
	Color  bool   `koanf:"color" toml:"color"`
}

// LogConfig controls diagnostic logging on stderr.
type LogConfig struct {
	Level    string `koanf:"level" toml:"level"`       // debug, info, warn, error
	Encoding string `koanf:"encoding" toml:"encoding"` // console, json
}

// Formats lists the accepted output formats.
var Formats = []string{"text", "records", "json", "markdown", "toon", "yaml"}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			IncludeTests: false,
			MaxFileSize:  0,
			Workers:      0,
			Receiver:     "self",
		},
		Exclude: ExcludeConfig{
			Patterns: []string{},
			Dirs: []string{
				".git",
				".mood",
				".venv",
				"venv",
				".tox",
				"__pycache__",
				"site-packages",
				"node_modules",
				"build",
				"dist",
			},
			Gitignore: true,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".mood/cache",
			TTL:     24,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
		Log: LogConfig{
			Level:    "warn",
			Encoding: "console",
		},
	}
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	// Determine parser based on extension
	var parser koanf.Parser
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// configNames are searched, in order, in each of searchDirs.
var (
	configNames = []string{
		"mood.toml",
		"mood.yaml",
		"mood.yml",
		"mood.json",
		".mood.toml",
		".mood.yaml",
		".mood.yml",
		".mood.json",
	}
	searchDirs = []string{".", ".mood"}
)

// Find returns the first config file found in the standard locations
// relative to dir, or "".
func Find(dir string) string {
	for _, sub := range searchDirs {
		for _, name := range configNames {
			path := filepath.Join(dir, sub, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}
	}
	return ""
}

// LoadOrDefault tries to load config from standard locations or returns defaults.
// The returned path is "" when defaults are used.
func LoadOrDefault() (*Config, string, error) {
	path := Find(".")
	if path == "" {
		return DefaultConfig(), "", nil
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// Validate rejects settings no component can honor.
func (c *Config) Validate() error {
	if !isOneOf(c.Output.Format, Formats) {
		return fmt.Errorf("output.format %q: want one of %s", c.Output.Format, strings.Join(Formats, ", "))
	}
	if !isOneOf(c.Log.Level, []string{"debug", "info", "warn", "error"}) {
		return fmt.Errorf("log.level %q: want debug, info, warn or error", c.Log.Level)
	}
	if !isOneOf(c.Log.Encoding, []string{"console", "json"}) {
		return fmt.Errorf("log.encoding %q: want console or json", c.Log.Encoding)
	}
	if c.Analysis.Workers < 0 {
		return fmt.Errorf("analysis.workers must not be negative, got %d", c.Analysis.Workers)
	}
	if c.Analysis.MaxFileSize < 0 {
		return fmt.Errorf("analysis.max_file_size must not be negative, got %d", c.Analysis.MaxFileSize)
	}
	if c.Analysis.Receiver == "" {
		return fmt.Errorf("analysis.receiver must not be empty")
	}
	return nil
}

func isOneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

// EncodeTOML renders the config as a TOML document.
func (c *Config) EncodeTOML() ([]byte, error) {
	return gotoml.Marshal(*c)
}

// ShouldExclude checks if a path should be excluded from analysis.
// path is relative to the analyzed root.
func (c *Config) ShouldExclude(path string) bool {
	path = filepath.ToSlash(path)
	parts := strings.Split(path, "/")

	// Check directory exclusions
	for _, dir := range c.Exclude.Dirs {
		for _, p := range parts[:len(parts)-1] {
			if p == dir {
				return true
			}
		}
	}

	// Check pattern exclusions
	base := parts[len(parts)-1]
	for _, pattern := range c.Exclude.Patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}

	return !c.Analysis.IncludeTests && IsTestPath(path)
}

// IsTestPath reports whether path looks like a Python test module:
// test_*.py, *_test.py, or anything under a tests/ directory.
func IsTestPath(path string) bool {
	parts := strings.Split(filepath.ToSlash(path), "/")
	for _, p := range parts[:len(parts)-1] {
		if p == "tests" || p == "test" {
			return true
		}
	}
	base := parts[len(parts)-1]
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return strings.HasPrefix(stem, "test_") || strings.HasSuffix(stem, "_test") || base == "conftest.py"
}
