package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LEXIS_STOPWORDS_FILE", "LEXIS_STOPWORDS", "LEXIS_WORKERS", "LEXIS_MAX_RESULTS",
		"LEXIS_HISTORY_ENABLED", "LEXIS_HISTORY_PATH", "LEXIS_METRICS_ADDR",
		"LEXIS_LOG_LEVEL", "LEXIS_LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Search.MaxResults != 10 {
		t.Errorf("expected MaxResults=10, got %d", cfg.Search.MaxResults)
	}
	if cfg.Search.CacheSize != 128 {
		t.Errorf("expected CacheSize=128, got %d", cfg.Search.CacheSize)
	}
	if cfg.History.Enabled {
		t.Error("expected history to be disabled by default")
	}
	if cfg.History.Limit != 20 {
		t.Errorf("expected history Limit=20, got %d", cfg.History.Limit)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoad_NonExistent(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	clearEnv(t)
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "lexis.yaml")

	content := `
index:
  stopwords: [the, and, is]
  workers: 4
search:
  max_results: 5
logging:
  level: debug
  format: json
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cfg.Index.Stopwords) != 3 {
		t.Errorf("expected 3 stopwords, got %v", cfg.Index.Stopwords)
	}
	if cfg.Index.Workers != 4 {
		t.Errorf("expected Workers=4, got %d", cfg.Index.Workers)
	}
	if cfg.Search.MaxResults != 5 {
		t.Errorf("expected MaxResults=5, got %d", cfg.Search.MaxResults)
	}
	if cfg.Search.CacheSize != 128 {
		t.Errorf("expected default CacheSize to survive, got %d", cfg.Search.CacheSize)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected json format, got %s", cfg.Logging.Format)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	configPath := filepath.Join(t.TempDir(), "lexis.yaml")
	if err := os.WriteFile(configPath, []byte("search: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadFromDir(t *testing.T) {
	clearEnv(t)
	tmpDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpDir, ".lexis"), 0755); err != nil {
		t.Fatal(err)
	}
	configPath := filepath.Join(tmpDir, ".lexis", "config.yaml")

	content := `
search:
  max_results: 3
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Search.MaxResults != 3 {
		t.Errorf("expected MaxResults=3, got %d", cfg.Search.MaxResults)
	}

	empty, err := LoadFromDir(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if empty.Search.MaxResults != 10 {
		t.Errorf("expected default MaxResults, got %d", empty.Search.MaxResults)
	}
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("LEXIS_MAX_RESULTS", "25")
	t.Setenv("LEXIS_STOPWORDS", "a,the")
	t.Setenv("LEXIS_HISTORY_ENABLED", "true")
	t.Setenv("LEXIS_LOG_LEVEL", "error")
	t.Setenv("LEXIS_WORKERS", "not-a-number")

	cfg, err := LoadFromDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Search.MaxResults != 25 {
		t.Errorf("expected MaxResults=25, got %d", cfg.Search.MaxResults)
	}
	if len(cfg.Index.Stopwords) != 2 || cfg.Index.Stopwords[1] != "the" {
		t.Errorf("unexpected stopwords %v", cfg.Index.Stopwords)
	}
	if !cfg.History.Enabled {
		t.Error("expected history enabled")
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("expected level error, got %s", cfg.Logging.Level)
	}
	if cfg.Index.Workers != 8 {
		t.Errorf("invalid override should be ignored, got %d", cfg.Index.Workers)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero max results", func(c *Config) { c.Search.MaxResults = 0 }, "MaxResults"},
		{"bad log level", func(c *Config) { c.Logging.Level = "chatty" }, "Level"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "Format"},
		{"history without path", func(c *Config) { c.History.Enabled = true; c.History.Path = "" }, "Path"},
		{"bad metrics addr", func(c *Config) { c.Metrics.Addr = "not an addr" }, "Addr"},
		{"no workers", func(c *Config) { c.Index.Workers = 0 }, "Workers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("expected error mentioning %s, got %v", tt.field, err)
			}
		})
	}

	cfg := DefaultConfig()
	cfg.Metrics.Addr = "localhost:9090"
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid metrics addr, got %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "lexis.yaml")
	cfg := DefaultConfig()
	cfg.Search.MaxResults = 42
	cfg.Index.Stopwords = []string{"the"}

	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Search.MaxResults != 42 || len(loaded.Index.Stopwords) != 1 {
		t.Errorf("round trip lost values: %+v", loaded.Search)
	}
}

func TestLoadStopwords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stop.txt")
	if err := os.WriteFile(path, []byte("the and\nis\n"), 0644); err != nil {
		t.Fatal(err)
	}

	words, err := LoadStopwords(path, strings.Fields)
	if err != nil {
		t.Fatal(err)
	}
	if len(words) != 3 {
		t.Errorf("expected 3 words, got %v", words)
	}

	if _, err := LoadStopwords(filepath.Join(t.TempDir(), "missing"), strings.Fields); err == nil {
		t.Error("expected error for missing file")
	}
}
