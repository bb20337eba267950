package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the lexis shell.
type Config struct {
	Index   IndexConfig   `yaml:"index"`
	Search  SearchConfig  `yaml:"search"`
	History HistoryConfig `yaml:"history"`
	Metrics MetricsConfig `yaml:"metrics"`
	Logging LoggingConfig `yaml:"logging"`
}

// IndexConfig holds indexing configuration.
type IndexConfig struct {
	Includes      []string `yaml:"includes" validate:"dive,required"`
	Excludes      []string `yaml:"excludes" validate:"dive,required"`
	StopwordsFile string   `yaml:"stopwords_file"`
	Stopwords     []string `yaml:"stopwords"`
	Workers       int      `yaml:"workers" validate:"gte=1,lte=256"`
}

// SearchConfig holds query configuration.
type SearchConfig struct {
	MaxResults int `yaml:"max_results" validate:"gte=1"`
	CacheSize  int `yaml:"cache_size" validate:"gte=0"`
}

// HistoryConfig controls the on-disk query history.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path" validate:"required_if=Enabled true"`
	Limit   int    `yaml:"limit" validate:"gte=1"`
}

// MetricsConfig holds the Prometheus scrape endpoint. Empty Addr disables it.
type MetricsConfig struct {
	Addr string `yaml:"addr" validate:"omitempty,hostname_port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Index: IndexConfig{
			Includes: []string{"**/*"},
			Excludes: []string{"**/.git/**", "**/node_modules/**", "**/vendor/**", "**/.lexis/**"},
			Workers:  8,
		},
		Search: SearchConfig{
			MaxResults: 10,
			CacheSize:  128,
		},
		History: HistoryConfig{
			Enabled: false,
			Path:    filepath.Join(".lexis", "history.db"),
			Limit:   20,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for lexis.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "lexis.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".lexis", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	cfg := DefaultConfig()
	applyEnvOverrides(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LEXIS_STOPWORDS_FILE"); v != "" {
		cfg.Index.StopwordsFile = v
	}
	if v := os.Getenv("LEXIS_STOPWORDS"); v != "" {
		cfg.Index.Stopwords = strings.Split(v, ",")
	}
	if v := os.Getenv("LEXIS_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Index.Workers = n
		}
	}
	if v := os.Getenv("LEXIS_MAX_RESULTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Search.MaxResults = n
		}
	}
	if v := os.Getenv("LEXIS_HISTORY_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.History.Enabled = b
		}
	}
	if v := os.Getenv("LEXIS_HISTORY_PATH"); v != "" {
		cfg.History.Path = v
	}
	if v := os.Getenv("LEXIS_METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
	if v := os.Getenv("LEXIS_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LEXIS_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}

var validate = validator.New()

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadStopwords reads a stop-word file, one or more words per line.
func LoadStopwords(path string, split func(string) []string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading stopwords file %s: %w", path, err)
	}
	return split(string(data)), nil
}
