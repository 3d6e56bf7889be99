// Package models defines data structures for configuration and analysis.
package models

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultConfigPath = "serp-benchmark.yaml"

// Config holds runtime configuration for an analyze run.
// Values come from the YAML file first; CLI flags override them.
type Config struct {
	Rows     RowsConfig   `yaml:"rows"`
	Language string       `yaml:"language"` // russian, english, auto
	TopTerms int          `yaml:"top_terms"`
	Fetch    FetchConfig  `yaml:"fetch"`
	Workers  WorkerConfig `yaml:"workers"`
	Report   ReportConfig `yaml:"report"`
	DB       DBConfig     `yaml:"db"`
}

// RowsConfig points at the input table. Exactly one of Path or URL is used;
// URL wins when both are set.
type RowsConfig struct {
	Path string `yaml:"path"`
	URL  string `yaml:"url"` // published CSV export of a spreadsheet
}

// FetchConfig controls competitor page downloads.
type FetchConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
	MaxBytes  int64         `yaml:"max_bytes"`
	CacheDir  string        `yaml:"cache_dir"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`
}

type WorkerConfig struct {
	Sites int `yaml:"sites"`
	Pages int `yaml:"pages"`
}

type ReportConfig struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format"` // markdown, yaml, json
}

type DBConfig struct {
	Path     string `yaml:"path"`
	Disabled bool   `yaml:"disabled"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero values with their defaults.
func (c *Config) ApplyDefaults() {
	if c.Language == "" {
		c.Language = "russian"
	}
	if c.TopTerms <= 0 {
		c.TopTerms = 20
	}
	if c.Fetch.Timeout <= 0 {
		c.Fetch.Timeout = 10 * time.Second
	}
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = "Mozilla/5.0"
	}
	if c.Fetch.MaxBytes <= 0 {
		c.Fetch.MaxBytes = 10 * 1024 * 1024
	}
	if c.Fetch.CacheDir != "" && c.Fetch.CacheTTL <= 0 {
		c.Fetch.CacheTTL = 24 * time.Hour
	}
	if c.Workers.Sites <= 0 {
		c.Workers.Sites = 2
	}
	if c.Workers.Pages <= 0 {
		c.Workers.Pages = 4
	}
	if c.Report.Path == "" {
		c.Report.Path = "recommendations.md"
	}
	if c.Report.Format == "" {
		c.Report.Format = "markdown"
	}
}

// Validate reports configuration values that cannot be used.
func (c *Config) Validate() error {
	switch c.Language {
	case "russian", "english", "auto":
	default:
		return fmt.Errorf("unsupported language %q (want russian, english or auto)", c.Language)
	}
	switch c.Report.Format {
	case "markdown", "yaml", "json":
	default:
		return fmt.Errorf("unsupported report format %q (want markdown, yaml or json)", c.Report.Format)
	}
	return nil
}

// LoadConfig reads a YAML config file. A missing file at the default path
// yields the default configuration.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && path == DefaultConfigPath {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.ApplyDefaults()

	return cfg, nil
}
