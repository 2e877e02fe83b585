package provider

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	openAIDefaultBaseURL = "https://api.openai.com/v1"
	openAIDefaultModel   = "gpt-4o-mini"

	vllmDefaultBaseURL = "http://localhost:8000/v1"
	vllmDefaultModel   = "default"
)

// openaiBackend speaks the OpenAI-compatible chat completions API through
// the official SDK. The vLLM variant reuses it with self-hosted defaults.
type openaiBackend struct {
	client       openai.Client
	providerName string
	modelName    string
	temperature  float64
}

func newOpenAIBackend(s Settings) *openaiBackend {
	baseURL := s.BaseURL
	if baseURL == "" {
		baseURL = openAIDefaultBaseURL
	}
	model := s.Model
	if model == "" {
		model = openAIDefaultModel
	}
	temperature := s.Temperature
	if temperature == 0 {
		temperature = DefaultTemperature
	}

	client := openai.NewClient(
		option.WithAPIKey(s.APIKey),
		option.WithBaseURL(baseURL),
		option.WithRequestTimeout(s.Timeout),
	)

	return &openaiBackend{
		client:       client,
		providerName: "openai",
		modelName:    model,
		temperature:  temperature,
	}
}

// vLLM serves the same API shape from a self-hosted endpoint and ignores
// the API key, so the variant is just different defaults.
func newVLLMBackend(s Settings) *openaiBackend {
	if s.BaseURL == "" {
		s.BaseURL = vllmDefaultBaseURL
	}
	if s.Model == "" {
		s.Model = vllmDefaultModel
	}
	if s.APIKey == "" {
		s.APIKey = "EMPTY"
	}

	b := newOpenAIBackend(s)
	b.providerName = "vllm"
	return b
}

func (b *openaiBackend) name() string { return b.providerName }

func (b *openaiBackend) model() string { return b.modelName }

func (b *openaiBackend) chat(
	ctx context.Context,
	system, user string,
) (string, error) {
	completion, err := b.client.Chat.Completions.New(
		ctx,
		openai.ChatCompletionNewParams{
			Model:       b.modelName,
			Temperature: openai.Float(b.temperature),
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.SystemMessage(system),
				openai.UserMessage(user),
			},
		},
	)
	if err != nil {
		return "", fmt.Errorf("%s chat completion failed: %w", b.providerName, err)
	}

	if completion == nil || len(completion.Choices) == 0 {
		return "", &ParseError{
			Preview: "",
			Err:     fmt.Errorf("empty response from %s", b.providerName),
		}
	}
	content := completion.Choices[0].Message.Content
	if content == "" {
		return "", &ParseError{
			Preview: "",
			Err:     fmt.Errorf("no text in %s response", b.providerName),
		}
	}
	return content, nil
}
