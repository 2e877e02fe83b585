package provider

import (
	"embed"
	"encoding/json"
	"strings"
)

//go:embed prompts/*.txt
var promptFS embed.FS

var (
	systemTemplate = mustPrompt("prompts/system_prompt.txt")
	userTemplate   = mustPrompt("prompts/user_prompt.txt")
	keepNamesRule  = mustPrompt("prompts/keep_names_rule.txt")
)

func mustPrompt(name string) string {
	data, err := promptFS.ReadFile(name)
	if err != nil {
		panic("provider: missing embedded prompt " + name)
	}
	return string(data)
}

// buildPrompts renders the system and user instructions for one batch.
func buildPrompts(
	units []TranslationUnit,
	sourceLang, targetLang string,
	opts TranslateOptions,
) (system, user string) {
	entriesJSON, _ := json.MarshalIndent(units, "", "  ")

	rule := ""
	if opts.KeepNames {
		rule = keepNamesRule
	}

	replacements := map[string]string{
		"keep_names_rule": rule,
		"context":         opts.Context,
		"source_lang":     sourceLang,
		"target_lang":     targetLang,
		"entries_json":    string(entriesJSON),
	}

	return replacePlaceholders(systemTemplate, replacements),
		replacePlaceholders(userTemplate, replacements)
}

// replacePlaceholders substitutes {key} tokens. Plain string replacement is
// used instead of a template engine so literal braces in the templates
// (ASS override tags, JSON examples) pass through untouched.
func replacePlaceholders(template string, replacements map[string]string) string {
	result := template
	for key, value := range replacements {
		result = strings.ReplaceAll(result, "{"+key+"}", value)
	}
	return result
}

const identifySystemPrompt = `You are a language detection assistant. Given subtitle text, identify the language.
Respond with ONLY a JSON object: {"language": "<language name>", "code": "<ISO 639-1 code>"}
Do not repeat the input. Do not explain. Only output the JSON object.
`

const identifyUserPrompt = `What language is this text written in? Reply with only a JSON object like {"language": "English", "code": "en"}.

Text:
{sample_text}
`
