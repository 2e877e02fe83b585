package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// MachineTranslator renders short metadata strings, such as episode titles,
// into the target subtitle language when the catalog has no localization.
type MachineTranslator interface {
	Translate(ctx context.Context, text, targetCode string) (string, error)
}

const googleTranslateURL = "https://translate.googleapis.com/translate_a/single"

// GoogleTranslator uses the unauthenticated web translation endpoint. Good
// enough for a handful of titles per file; not meant for subtitle bodies.
type GoogleTranslator struct {
	httpClient *http.Client
	baseURL    string
}

func NewGoogleTranslator(httpClient *http.Client) *GoogleTranslator {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &GoogleTranslator{httpClient: httpClient, baseURL: googleTranslateURL}
}

func (g *GoogleTranslator) Translate(
	ctx context.Context,
	text, targetCode string,
) (string, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", "auto")
	params.Set("tl", targetCode)
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil,
	)
	if err != nil {
		return "", fmt.Errorf("failed to build translation request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("machine translation failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("machine translation returned status %d", resp.StatusCode)
	}

	// The gtx endpoint answers with nested arrays; the first element holds
	// the translated segments as [translated, original, ...] triples.
	var decoded []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode translation response: %w", err)
	}
	if len(decoded) == 0 {
		return "", fmt.Errorf("machine translation returned no segments")
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(decoded[0], &segments); err != nil {
		return "", fmt.Errorf("failed to decode translation segments: %w", err)
	}

	var sb strings.Builder
	for _, segment := range segments {
		if len(segment) == 0 {
			continue
		}
		var piece string
		if err := json.Unmarshal(segment[0], &piece); err != nil {
			continue
		}
		sb.WriteString(piece)
	}
	result := strings.TrimSpace(sb.String())
	if result == "" {
		return "", fmt.Errorf("machine translation returned empty text")
	}
	return result, nil
}
