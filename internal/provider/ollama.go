package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	ollamaDefaultBaseURL = "http://localhost:11434"
	ollamaDefaultModel   = "llama3.1"
	ollamaDefaultTimeout = 300 * time.Second
)

// ollamaBackend speaks Ollama's native chat endpoint over plain HTTP.
type ollamaBackend struct {
	httpClient  *http.Client
	baseURL     string
	modelName   string
	temperature float64
}

func newOllamaBackend(s Settings) *ollamaBackend {
	baseURL := strings.TrimSuffix(s.BaseURL, "/")
	if baseURL == "" {
		baseURL = ollamaDefaultBaseURL
	}
	model := s.Model
	if model == "" {
		model = ollamaDefaultModel
	}
	temperature := s.Temperature
	if temperature == 0 {
		temperature = DefaultTemperature
	}
	timeout := s.Timeout
	if timeout == DefaultTimeout {
		// local models run slower than hosted APIs
		timeout = ollamaDefaultTimeout
	}

	return &ollamaBackend{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     baseURL,
		modelName:   model,
		temperature: temperature,
	}
}

func (b *ollamaBackend) name() string { return "ollama" }

func (b *ollamaBackend) model() string { return b.modelName }

type ollamaChatRequest struct {
	Model    string              `json:"model"`
	Stream   bool                `json:"stream"`
	Options  ollamaChatOptions   `json:"options"`
	Messages []ollamaChatMessage `json:"messages"`
}

type ollamaChatOptions struct {
	Temperature float64 `json:"temperature"`
}

type ollamaChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatResponse struct {
	Message ollamaChatMessage `json:"message"`
}

func (b *ollamaBackend) chat(
	ctx context.Context,
	system, user string,
) (string, error) {
	payload := ollamaChatRequest{
		Model:   b.modelName,
		Stream:  false,
		Options: ollamaChatOptions{Temperature: b.temperature},
		Messages: []ollamaChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode ollama request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, b.baseURL+"/api/chat", bytes.NewReader(body),
	)
	if err != nil {
		return "", fmt.Errorf("failed to build ollama request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama chat failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf(
			"ollama chat failed: status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(detail)),
		)
	}

	var decoded ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode ollama response: %w", err)
	}

	if decoded.Message.Content == "" {
		return "", &ParseError{
			Preview: "",
			Err:     fmt.Errorf("no text in ollama response"),
		}
	}
	return decoded.Message.Content, nil
}
