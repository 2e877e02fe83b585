// Package config loads sublate settings from file, environment, and flags.
// Precedence is defaults, then the TOML config file, then SUBLATE_*
// environment variables; command line flags are applied last by the CLI.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"sublate/internal/provider"
)

//go:embed sample_config.toml
var sampleConfig string

// Config encapsulates all configuration values for sublate.
type Config struct {
	// Provider selects the translation backend (openai, vllm, ollama,
	// anthropic, gemini).
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	BaseURL  string `toml:"base_url"`
	APIKey   string `toml:"api_key"`

	Temperature    float64 `toml:"temperature"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	BatchSize      int     `toml:"batch_size"`
	Retries        int     `toml:"retries"`

	SourceLanguage string `toml:"source_language"`
	TargetLanguage string `toml:"target_language"`

	Bilingual    bool   `toml:"bilingual"`
	KeepNames    bool   `toml:"keep_names"`
	OutputFormat string `toml:"output_format"`

	TVDBAPIKey string `toml:"tvdb_api_key"`

	Debug   bool `toml:"debug"`
	Verbose bool `toml:"verbose"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Provider:       "openai",
		Temperature:    provider.DefaultTemperature,
		TimeoutSeconds: 120,
		BatchSize:      20,
		Retries:        provider.DefaultRetries,
		SourceLanguage: "auto",
	}
}

// SampleConfig returns an annotated config file for `sublate config init`.
func SampleConfig() string {
	return sampleConfig
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/sublate/config.toml")
}

// Load builds a Config from defaults, the TOML file at path (or the default
// location when path is empty; a missing file is not an error), and the
// SUBLATE_* environment. It reports the resolved path and whether a file
// was read.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// Validate checks the fields a translation run depends on. It runs after
// flag overrides so the CLI reports the effective values.
func (c *Config) Validate() error {
	if c.TargetLanguage == "" {
		return errors.New("target language is required")
	}
	found := false
	for _, name := range provider.Names() {
		if c.Provider == name {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("unknown provider %q (available: %s)",
			c.Provider, strings.Join(provider.Names(), ", "))
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("batch size must be at least 1, got %d", c.BatchSize)
	}
	if c.Retries < 1 {
		return fmt.Errorf("retries must be at least 1, got %d", c.Retries)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %g", c.Temperature)
	}
	if c.TimeoutSeconds < 1 {
		return fmt.Errorf("timeout must be at least 1 second, got %d", c.TimeoutSeconds)
	}
	if c.OutputFormat != "" {
		switch c.OutputFormat {
		case "srt", "vtt", "ass":
		default:
			return fmt.Errorf("unknown output format %q (available: srt, vtt, ass)",
				c.OutputFormat)
		}
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	setString := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	setString("SUBLATE_PROVIDER", &c.Provider)
	setString("SUBLATE_MODEL", &c.Model)
	setString("SUBLATE_BASE_URL", &c.BaseURL)
	setString("SUBLATE_API_KEY", &c.APIKey)
	setString("SUBLATE_SOURCE_LANGUAGE", &c.SourceLanguage)
	setString("SUBLATE_TARGET_LANGUAGE", &c.TargetLanguage)
	setString("SUBLATE_OUTPUT_FORMAT", &c.OutputFormat)
	setString("SUBLATE_TVDB_API_KEY", &c.TVDBAPIKey)

	if v := getenv("SUBLATE_TEMPERATURE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("SUBLATE_TEMPERATURE: %w", err)
		}
		c.Temperature = f
	}
	setInt := func(key string, dst *int) error {
		v := getenv(key)
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
		return nil
	}
	if err := setInt("SUBLATE_TIMEOUT", &c.TimeoutSeconds); err != nil {
		return err
	}
	if err := setInt("SUBLATE_BATCH_SIZE", &c.BatchSize); err != nil {
		return err
	}
	if err := setInt("SUBLATE_RETRIES", &c.Retries); err != nil {
		return err
	}
	setBool := func(key string, dst *bool) error {
		v := getenv(key)
		if v == "" {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = b
		return nil
	}
	if err := setBool("SUBLATE_BILINGUAL", &c.Bilingual); err != nil {
		return err
	}
	if err := setBool("SUBLATE_KEEP_NAMES", &c.KeepNames); err != nil {
		return err
	}
	if err := setBool("SUBLATE_DEBUG", &c.Debug); err != nil {
		return err
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", false, fmt.Errorf("config file not found: %s", expanded)
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}
