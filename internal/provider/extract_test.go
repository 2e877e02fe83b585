package provider

import (
	"errors"
	"testing"
)

func TestExtractUnitsPlainArray(t *testing.T) {
	units, err := ExtractUnits(`[{"index":0,"text":"hi"}]`)
	if err != nil {
		t.Fatalf("ExtractUnits returned error: %v", err)
	}
	if len(units) != 1 || units[0].Index != 0 || units[0].Text != "hi" {
		t.Errorf("unexpected units: %+v", units)
	}
}

func TestExtractUnitsFencedBlock(t *testing.T) {
	for _, text := range []string{
		"```json\n[{\"index\":0,\"text\":\"hi\"}]\n```",
		"```\n[{\"index\":0,\"text\":\"hi\"}]\n```",
	} {
		units, err := ExtractUnits(text)
		if err != nil {
			t.Fatalf("ExtractUnits(%q) returned error: %v", text, err)
		}
		if len(units) != 1 || units[0].Text != "hi" {
			t.Errorf("ExtractUnits(%q): unexpected units %+v", text, units)
		}
	}
}

func TestExtractUnitsEmbeddedInProse(t *testing.T) {
	text := "Here is the translation you asked for:\n" +
		`[{"index":0,"text":"hi"}]` +
		"\nLet me know if you need anything else."
	units, err := ExtractUnits(text)
	if err != nil {
		t.Fatalf("ExtractUnits returned error: %v", err)
	}
	if len(units) != 1 || units[0].Text != "hi" {
		t.Errorf("unexpected units: %+v", units)
	}
}

func TestExtractUnitsInvalidEscapes(t *testing.T) {
	units, err := ExtractUnits(`[{"index":0,"text":"line one\Nline two"}]`)
	if err != nil {
		t.Fatalf("ExtractUnits returned error: %v", err)
	}
	if units[0].Text != `line one\Nline two` {
		t.Errorf("expected literal \\N preserved, got %q", units[0].Text)
	}
}

func TestExtractUnitsNotJSON(t *testing.T) {
	_, err := ExtractUnits("not json")
	if err == nil {
		t.Fatal("expected error for non-JSON input")
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if parseErr.Preview != "not json" {
		t.Errorf("unexpected preview %q", parseErr.Preview)
	}
}

func TestExtractUnitsPreviewTruncated(t *testing.T) {
	long := make([]byte, 1000)
	for i := range long {
		long[i] = 'x'
	}
	_, err := ExtractUnits(string(long))
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if len(parseErr.Preview) > previewLen+3 {
		t.Errorf("preview too long: %d bytes", len(parseErr.Preview))
	}
}

func TestExtractResult(t *testing.T) {
	for _, text := range []string{
		`{"language":"English","code":"en"}`,
		"```json\n{\"language\":\"English\",\"code\":\"en\"}\n```",
		"The language is: {\"language\":\"English\",\"code\":\"en\"} as requested.",
	} {
		result, err := ExtractResult(text)
		if err != nil {
			t.Fatalf("ExtractResult(%q) returned error: %v", text, err)
		}
		if result.Language != "English" || result.Code != "en" {
			t.Errorf("ExtractResult(%q): unexpected result %+v", text, result)
		}
	}
}

func TestExtractResultNotJSON(t *testing.T) {
	_, err := ExtractResult("English")
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
}

func TestLanguageResultValid(t *testing.T) {
	if (LanguageResult{}).Valid() {
		t.Error("empty result should be invalid")
	}
	if !(LanguageResult{Language: "English"}).Valid() {
		t.Error("language-only result should be valid")
	}
	if !(LanguageResult{Code: "en"}).Valid() {
		t.Error("code-only result should be valid")
	}
}
