// Package detect identifies the source language of a subtitle file by
// sampling its first entries and asking a provider.
package detect

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sublate/internal/provider"
	"sublate/internal/subtitle"
)

// ErrInvalidResult means identification returned syntactically valid data
// that names no language at all.
var ErrInvalidResult = errors.New("invalid language detection result")

// DefaultSampleSize is how many leading entries are sent for detection.
const DefaultSampleSize = 5

// Detect samples the first sampleSize entries (0 means DefaultSampleSize),
// joins their text with newlines, and asks the provider to identify the
// language.
func Detect(
	ctx context.Context,
	entries []subtitle.Entry,
	p provider.Provider,
	sampleSize int,
) (provider.LanguageResult, error) {
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}
	if sampleSize > len(entries) {
		sampleSize = len(entries)
	}

	texts := make([]string, 0, sampleSize)
	for _, e := range entries[:sampleSize] {
		texts = append(texts, e.Text)
	}

	result, err := p.Identify(ctx, strings.Join(texts, "\n"))
	if err != nil {
		return provider.LanguageResult{}, err
	}
	if !result.Valid() {
		return provider.LanguageResult{}, fmt.Errorf(
			"%w: response carries neither language nor code", ErrInvalidResult,
		)
	}
	return result, nil
}
