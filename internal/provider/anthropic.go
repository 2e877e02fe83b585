package provider

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// anthropicBackend speaks the Anthropic Messages API through the official
// SDK.
type anthropicBackend struct {
	client      anthropic.Client
	modelName   string
	temperature float64
}

func newAnthropicBackend(s Settings) (*anthropicBackend, error) {
	if s.APIKey == "" {
		return nil, fmt.Errorf("anthropic: API key is required")
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(s.APIKey),
		option.WithRequestTimeout(s.Timeout),
	}
	if s.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(s.BaseURL))
	}

	model := s.Model
	if model == "" {
		model = string(anthropic.ModelClaudeHaiku4_5)
	}
	temperature := s.Temperature
	if temperature == 0 {
		temperature = DefaultTemperature
	}

	return &anthropicBackend{
		client:      anthropic.NewClient(clientOpts...),
		modelName:   model,
		temperature: temperature,
	}, nil
}

func (b *anthropicBackend) name() string { return "anthropic" }

func (b *anthropicBackend) model() string { return b.modelName }

func (b *anthropicBackend) chat(
	ctx context.Context,
	system, user string,
) (string, error) {
	message, err := b.client.Messages.New(
		ctx,
		anthropic.MessageNewParams{
			Model:       anthropic.Model(b.modelName),
			MaxTokens:   8192,
			Temperature: anthropic.Float(b.temperature),
			System: []anthropic.TextBlockParam{
				{Text: system},
			},
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
			},
		},
	)
	if err != nil {
		return "", fmt.Errorf("anthropic chat failed: %w", err)
	}

	if message == nil || len(message.Content) == 0 {
		return "", &ParseError{
			Preview: "",
			Err:     fmt.Errorf("empty response from anthropic"),
		}
	}

	var text string
	for _, block := range message.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return "", &ParseError{
			Preview: "",
			Err:     fmt.Errorf("no text in anthropic response"),
		}
	}
	return text, nil
}
