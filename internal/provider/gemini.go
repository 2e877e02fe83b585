package provider

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

const geminiDefaultModel = "gemini-2.5-flash"

// geminiBackend speaks the Gemini API through the official SDK.
type geminiBackend struct {
	client      *genai.Client
	modelName   string
	temperature float64
}

func newGeminiBackend(ctx context.Context, s Settings) (*geminiBackend, error) {
	if s.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     s.APIKey,
		HTTPClient: &http.Client{Timeout: s.Timeout},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to create client: %w", err)
	}

	model := s.Model
	if model == "" {
		model = geminiDefaultModel
	}
	temperature := s.Temperature
	if temperature == 0 {
		temperature = DefaultTemperature
	}

	return &geminiBackend{
		client:      client,
		modelName:   model,
		temperature: temperature,
	}, nil
}

func (b *geminiBackend) name() string { return "gemini" }

func (b *geminiBackend) model() string { return b.modelName }

func (b *geminiBackend) chat(
	ctx context.Context,
	system, user string,
) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(float32(b.temperature)),
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	}

	contents := []*genai.Content{
		genai.NewContentFromParts(
			[]*genai.Part{genai.NewPartFromText(user)},
			genai.RoleUser,
		),
	}

	result, err := b.client.Models.GenerateContent(
		ctx, b.modelName, contents, config,
	)
	if err != nil {
		return "", fmt.Errorf("gemini chat failed: %w", err)
	}

	if result == nil || len(result.Candidates) == 0 {
		return "", &ParseError{
			Preview: "",
			Err:     fmt.Errorf("empty response from gemini"),
		}
	}

	var text string
	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				text += part.Text
			}
		}
		if text != "" {
			break
		}
	}
	if text == "" {
		return "", &ParseError{
			Preview: "",
			Err:     fmt.Errorf("no text in gemini response"),
		}
	}
	return text, nil
}
