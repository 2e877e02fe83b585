package provider

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ParseError means the backend's text never yielded valid structured data.
// Preview carries a truncated copy of the offending response.
type ParseError struct {
	Preview string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf(
		"could not parse structured data from response: %v (response: %s)",
		e.Err, e.Preview,
	)
}

func (e *ParseError) Unwrap() error { return e.Err }

const previewLen = 200

var (
	fencedBlockRegex = regexp.MustCompile("(?s)```(?:json)?\\s*\n?(.*?)\n?```")
	arraySpanRegex   = regexp.MustCompile(`(?s)\[.*\]`)
	objectSpanRegex  = regexp.MustCompile(`(?s)\{.*?\}`)
)

// ExtractUnits recovers a translation array from free-form backend text.
// Strategies, in order: the whole trimmed text, the contents of a fenced
// code block, the first [...] span. The first syntactically valid array
// wins; no count or shape validation happens here.
func ExtractUnits(text string) ([]TranslationUnit, error) {
	trimmed := strings.TrimSpace(text)

	for _, candidate := range candidates(trimmed, arraySpanRegex) {
		var units []TranslationUnit
		if err := json.Unmarshal(
			[]byte(fixInvalidEscapes(candidate)), &units,
		); err == nil {
			return units, nil
		}
	}

	return nil, &ParseError{
		Preview: truncate(trimmed, previewLen),
		Err:     fmt.Errorf("no valid JSON array found"),
	}
}

// ExtractResult recovers a language identification object, using the same
// strategy ladder as ExtractUnits with a {...} span instead of [...].
func ExtractResult(text string) (LanguageResult, error) {
	trimmed := strings.TrimSpace(text)

	for _, candidate := range candidates(trimmed, objectSpanRegex) {
		var result LanguageResult
		if err := json.Unmarshal([]byte(candidate), &result); err == nil {
			return result, nil
		}
	}

	return LanguageResult{}, &ParseError{
		Preview: truncate(trimmed, previewLen),
		Err:     fmt.Errorf("no valid JSON object found"),
	}
}

func candidates(trimmed string, spanRegex *regexp.Regexp) []string {
	out := []string{trimmed}
	if m := fencedBlockRegex.FindStringSubmatch(trimmed); m != nil {
		out = append(out, strings.TrimSpace(m[1]))
	}
	if span := spanRegex.FindString(trimmed); span != "" {
		out = append(out, span)
	}
	return out
}

// fixInvalidEscapes rewrites invalid JSON escapes like \N (the ASS/SRT line
// break) to \\N so the array still parses while the literal sequence
// survives in the decoded text.
func fixInvalidEscapes(s string) string {
	var result strings.Builder
	result.Grow(len(s))

	i := 0
	for i < len(s) {
		if i < len(s)-1 && s[i] == '\\' {
			switch next := s[i+1]; next {
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't', 'u':
				result.WriteByte(s[i])
				result.WriteByte(next)
			default:
				result.WriteString(`\\`)
				result.WriteByte(next)
			}
			i += 2
			continue
		}
		result.WriteByte(s[i])
		i++
	}

	return result.String()
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
