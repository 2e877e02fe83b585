package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Provider != "openai" {
		t.Errorf("Provider = %q", cfg.Provider)
	}
	if cfg.BatchSize != 20 || cfg.Retries != 10 {
		t.Errorf("BatchSize = %d, Retries = %d", cfg.BatchSize, cfg.Retries)
	}
	if cfg.Temperature != 0.3 || cfg.TimeoutSeconds != 120 {
		t.Errorf("Temperature = %g, TimeoutSeconds = %d", cfg.Temperature, cfg.TimeoutSeconds)
	}
	if cfg.SourceLanguage != "auto" {
		t.Errorf("SourceLanguage = %q", cfg.SourceLanguage)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
provider = "ollama"
model = "qwen2.5"
batch_size = 5
bilingual = true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !exists || resolved == "" {
		t.Fatalf("exists = %v, resolved = %q", exists, resolved)
	}
	if cfg.Provider != "ollama" || cfg.Model != "qwen2.5" {
		t.Errorf("Provider = %q, Model = %q", cfg.Provider, cfg.Model)
	}
	if cfg.BatchSize != 5 || !cfg.Bilingual {
		t.Errorf("BatchSize = %d, Bilingual = %v", cfg.BatchSize, cfg.Bilingual)
	}
	// untouched keys keep their defaults
	if cfg.Retries != 10 || cfg.SourceLanguage != "auto" {
		t.Errorf("Retries = %d, SourceLanguage = %q", cfg.Retries, cfg.SourceLanguage)
	}
}

func TestLoadMissingExplicitPathFails(t *testing.T) {
	if _, _, _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestApplyEnvOverridesFile(t *testing.T) {
	cfg := Default()
	cfg.Provider = "openai"

	env := map[string]string{
		"SUBLATE_PROVIDER":    "anthropic",
		"SUBLATE_API_KEY":     "sk-test",
		"SUBLATE_BATCH_SIZE":  "8",
		"SUBLATE_TEMPERATURE": "0.7",
		"SUBLATE_KEEP_NAMES":  "true",
	}
	if err := cfg.applyEnv(func(key string) string { return env[key] }); err != nil {
		t.Fatal(err)
	}

	if cfg.Provider != "anthropic" || cfg.APIKey != "sk-test" {
		t.Errorf("Provider = %q, APIKey = %q", cfg.Provider, cfg.APIKey)
	}
	if cfg.BatchSize != 8 || cfg.Temperature != 0.7 || !cfg.KeepNames {
		t.Errorf("BatchSize = %d, Temperature = %g, KeepNames = %v",
			cfg.BatchSize, cfg.Temperature, cfg.KeepNames)
	}
}

func TestApplyEnvRejectsBadValues(t *testing.T) {
	cfg := Default()
	env := map[string]string{"SUBLATE_BATCH_SIZE": "many"}
	if err := cfg.applyEnv(func(key string) string { return env[key] }); err == nil {
		t.Fatal("expected error for non-numeric batch size")
	}
}

func TestValidate(t *testing.T) {
	valid := Default()
	valid.TargetLanguage = "es"
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing target", func(c *Config) { c.TargetLanguage = "" }},
		{"unknown provider", func(c *Config) { c.Provider = "bard" }},
		{"zero batch size", func(c *Config) { c.BatchSize = 0 }},
		{"zero retries", func(c *Config) { c.Retries = 0 }},
		{"temperature too high", func(c *Config) { c.Temperature = 2.5 }},
		{"zero timeout", func(c *Config) { c.TimeoutSeconds = 0 }},
		{"unknown format", func(c *Config) { c.OutputFormat = "sub" }},
	}
	for _, tt := range tests {
		cfg := valid
		tt.mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}
