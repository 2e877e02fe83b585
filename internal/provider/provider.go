// Package provider implements the pluggable translation backends. Every
// variant speaks a chat-style HTTP API and shares one retry and response
// extraction protocol; they differ only in endpoint shape, payload schema,
// and defaults.
package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sublate/internal/control"
	"sublate/internal/logging"
)

// wire-level shape for both request and response payloads
type TranslationUnit struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// outcome of language identification
type LanguageResult struct {
	Language string `json:"language"`
	Code     string `json:"code"`
}

// Valid reports whether the result names a language at all.
func (r LanguageResult) Valid() bool {
	return r.Language != "" || r.Code != ""
}

func (r LanguageResult) String() string {
	switch {
	case r.Language != "" && r.Code != "":
		return fmt.Sprintf("%s (%s)", r.Language, r.Code)
	case r.Language != "":
		return r.Language
	default:
		return r.Code
	}
}

// per-batch translation options
type TranslateOptions struct {
	// KeepNames forbids translating personal and place names.
	KeepNames bool
	// Context is an optional series/episode context block for the system
	// prompt.
	Context string
}

// Provider is the capability every backend variant exposes.
type Provider interface {
	Name() string
	Model() string

	// Translate sends one batch of units and returns the translated units.
	// Parse failures are retried up to the configured ceiling; a count
	// mismatch between request and response is logged, not fatal.
	Translate(
		ctx context.Context,
		units []TranslationUnit,
		sourceLang, targetLang string,
		opts TranslateOptions,
	) ([]TranslationUnit, error)

	// Identify names the language of a text sample.
	Identify(ctx context.Context, sampleText string) (LanguageResult, error)
}

const (
	DefaultRetries     = 10
	identifyRetries    = 3
	DefaultTemperature = 0.3
	DefaultTimeout     = 120 * time.Second
)

var (
	ErrUnknownProvider = errors.New("unknown provider")
	ErrRetryExhausted  = errors.New("retry budget exhausted")
	ErrDetectionFailed = errors.New("language detection failed")
)

// Settings configures one Provider instance for a run.
type Settings struct {
	Name        string
	Model       string
	BaseURL     string
	APIKey      string
	Temperature float64
	Timeout     time.Duration
	Retries     int

	// Signals, when set, lets an external cancel/skip abort in-flight calls.
	Signals *control.Signals
}

// Names lists the recognized provider names.
func Names() []string {
	return []string{"openai", "ollama", "vllm", "anthropic", "gemini"}
}

// New builds the Provider named by settings.Name.
func New(
	ctx context.Context,
	settings Settings,
	log *logging.Logger,
) (Provider, error) {
	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}
	if settings.Retries <= 0 {
		settings.Retries = DefaultRetries
	}
	if log == nil {
		log = logging.NewNop()
	}

	var (
		b   backend
		err error
	)
	switch settings.Name {
	case "openai":
		b = newOpenAIBackend(settings)
	case "vllm":
		b = newVLLMBackend(settings)
	case "ollama":
		b = newOllamaBackend(settings)
	case "anthropic":
		b, err = newAnthropicBackend(settings)
	case "gemini":
		b, err = newGeminiBackend(ctx, settings)
	default:
		return nil, fmt.Errorf(
			"%w: %q (available: openai, ollama, vllm, anthropic, gemini)",
			ErrUnknownProvider, settings.Name,
		)
	}
	if err != nil {
		return nil, err
	}

	return &client{
		backend: b,
		retries: settings.Retries,
		signals: settings.Signals,
		log:     log,
	}, nil
}
