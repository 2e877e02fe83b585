package detect

import (
	"context"
	"errors"
	"strings"
	"testing"

	"sublate/internal/provider"
	"sublate/internal/subtitle"
)

type stubProvider struct {
	result     provider.LanguageResult
	err        error
	lastSample string
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Model() string { return "stub" }

func (s *stubProvider) Translate(
	ctx context.Context,
	units []provider.TranslationUnit,
	sourceLang, targetLang string,
	opts provider.TranslateOptions,
) ([]provider.TranslationUnit, error) {
	return nil, errors.New("not used")
}

func (s *stubProvider) Identify(
	ctx context.Context,
	sampleText string,
) (provider.LanguageResult, error) {
	s.lastSample = sampleText
	return s.result, s.err
}

func makeEntries(texts ...string) []subtitle.Entry {
	entries := make([]subtitle.Entry, len(texts))
	for i, text := range texts {
		entries[i] = subtitle.Entry{Index: i, Text: text, Style: "Default"}
	}
	return entries
}

func TestDetectSamplesFirstEntries(t *testing.T) {
	stub := &stubProvider{
		result: provider.LanguageResult{Language: "English", Code: "en"},
	}
	entries := makeEntries("one", "two", "three", "four", "five", "six", "seven")

	result, err := Detect(context.Background(), entries, stub, 0)
	if err != nil {
		t.Fatalf("Detect returned error: %v", err)
	}
	if result.Language != "English" || result.Code != "en" {
		t.Errorf("unexpected result: %+v", result)
	}

	lines := strings.Split(stub.lastSample, "\n")
	if len(lines) != DefaultSampleSize {
		t.Errorf("expected %d sampled lines, got %d", DefaultSampleSize, len(lines))
	}
	if lines[0] != "one" || lines[4] != "five" {
		t.Errorf("unexpected sample: %q", stub.lastSample)
	}
}

func TestDetectShortFile(t *testing.T) {
	stub := &stubProvider{
		result: provider.LanguageResult{Code: "ja"},
	}
	entries := makeEntries("only", "two")

	if _, err := Detect(context.Background(), entries, stub, 5); err != nil {
		t.Fatalf("Detect returned error: %v", err)
	}
	if stub.lastSample != "only\ntwo" {
		t.Errorf("unexpected sample: %q", stub.lastSample)
	}
}

func TestDetectRejectsEmptyResult(t *testing.T) {
	stub := &stubProvider{result: provider.LanguageResult{}}

	_, err := Detect(context.Background(), makeEntries("text"), stub, 5)
	if !errors.Is(err, ErrInvalidResult) {
		t.Fatalf("expected ErrInvalidResult, got %v", err)
	}
}

func TestDetectPropagatesProviderError(t *testing.T) {
	wantErr := errors.New("backend down")
	stub := &stubProvider{err: wantErr}

	_, err := Detect(context.Background(), makeEntries("text"), stub, 5)
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected provider error, got %v", err)
	}
}
