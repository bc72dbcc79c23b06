// Package config loads run configuration from a YAML file with
// environment overrides. Nothing in the pipeline reads configuration
// from anywhere else; the loaded Config is passed in explicitly.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// CatalogConfig holds settings for the external product catalog service.
type CatalogConfig struct {
	// BaseURL is the catalog service root, e.g. "https://dummyjson.com".
	BaseURL string `yaml:"base_url"`

	// TimeoutSeconds bounds each individual lookup call.
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// MaxConcurrentLookups caps the enricher's fan-out over distinct keys.
	MaxConcurrentLookups int `yaml:"max_concurrent_lookups"`

	// RequestsPerSecond rate-limits calls to the shared catalog service.
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

// Timeout returns the per-call timeout as a duration.
func (c CatalogConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is "text" or "json".
	Format string `yaml:"format"`
}

// Config is the full run configuration.
type Config struct {
	// InputPath is the delimited sales transaction file to ingest.
	InputPath string `yaml:"input_path"`

	// EnrichedPath is where the enriched dataset is written.
	EnrichedPath string `yaml:"enriched_path"`

	// ReportPath is where the text report is written.
	ReportPath string `yaml:"report_path"`

	// Delimiter is the single-character field separator, e.g. "|" or ",".
	Delimiter string `yaml:"delimiter"`

	// Encoding names the input character encoding. Supported: utf-8,
	// latin-1 (iso-8859-1), cp1252 (windows-1252).
	Encoding string `yaml:"encoding"`

	Catalog CatalogConfig `yaml:"catalog"`
	Log     LogConfig     `yaml:"log"`
}

// Default returns the configuration used when no file or overrides are
// present.
func Default() *Config {
	return &Config{
		InputPath:    "data/sales_data.txt",
		EnrichedPath: "data/enriched_sales_data.txt",
		ReportPath:   "output/sales_report.txt",
		Delimiter:    "|",
		Encoding:     "utf-8",
		Catalog: CatalogConfig{
			BaseURL:              "https://dummyjson.com",
			TimeoutSeconds:       10,
			MaxConcurrentLookups: 4,
			RequestsPerSecond:    10,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from path (optional), applies SALES_*
// environment overrides on top of defaults, and validates the result.
// A missing file is only an error when a path was given explicitly.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Best effort; a missing .env file is not an error.
	_ = godotenv.Load()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.InputPath = getEnv("SALES_INPUT_PATH", c.InputPath)
	c.EnrichedPath = getEnv("SALES_ENRICHED_PATH", c.EnrichedPath)
	c.ReportPath = getEnv("SALES_REPORT_PATH", c.ReportPath)
	c.Delimiter = getEnv("SALES_DELIMITER", c.Delimiter)
	c.Encoding = getEnv("SALES_ENCODING", c.Encoding)
	c.Catalog.BaseURL = getEnv("SALES_CATALOG_URL", c.Catalog.BaseURL)
	c.Catalog.TimeoutSeconds = getEnvInt("SALES_CATALOG_TIMEOUT_SECONDS", c.Catalog.TimeoutSeconds)
	c.Catalog.MaxConcurrentLookups = getEnvInt("SALES_CATALOG_MAX_CONCURRENT", c.Catalog.MaxConcurrentLookups)
	c.Log.Level = getEnv("SALES_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("SALES_LOG_FORMAT", c.Log.Format)
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("input_path must not be empty")
	}
	if c.EnrichedPath == "" || c.ReportPath == "" {
		return fmt.Errorf("enriched_path and report_path must not be empty")
	}
	if len([]rune(c.Delimiter)) != 1 {
		return fmt.Errorf("delimiter must be exactly one character, got %q", c.Delimiter)
	}
	switch strings.ToLower(c.Encoding) {
	case "utf-8", "utf8", "latin-1", "iso-8859-1", "cp1252", "windows-1252":
	default:
		return fmt.Errorf("unsupported encoding %q", c.Encoding)
	}
	if c.Catalog.BaseURL == "" {
		return fmt.Errorf("catalog.base_url must not be empty")
	}
	if c.Catalog.TimeoutSeconds <= 0 {
		return fmt.Errorf("catalog.timeout_seconds must be positive")
	}
	if c.Catalog.MaxConcurrentLookups <= 0 {
		return fmt.Errorf("catalog.max_concurrent_lookups must be positive")
	}
	if c.Catalog.RequestsPerSecond <= 0 {
		return fmt.Errorf("catalog.requests_per_second must be positive")
	}
	return nil
}

// DelimiterRune returns the delimiter as a rune.
func (c *Config) DelimiterRune() rune {
	return []rune(c.Delimiter)[0]
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
