// Package language maps short language codes to the full names used in
// translation prompts.
package language

import (
	_ "embed"
	"encoding/json"
	"sort"
	"strings"
	"sync"
)

//go:embed languages.json
var languagesJSON []byte

var (
	loadOnce  sync.Once
	languages map[string]string
)

func table() map[string]string {
	loadOnce.Do(func() {
		if err := json.Unmarshal(languagesJSON, &languages); err != nil {
			// the table is embedded at build time, a parse failure is a bug
			panic("language: malformed languages.json: " + err.Error())
		}
	})
	return languages
}

// Resolve turns a known code into its full name ("ja" -> "Japanese").
// Inputs that are not known codes are returned unchanged, on the assumption
// they already are language names.
func Resolve(codeOrName string) string {
	langs := table()
	if name, ok := langs[codeOrName]; ok {
		return name
	}
	for code, name := range langs {
		if strings.EqualFold(code, codeOrName) {
			return name
		}
	}
	return codeOrName
}

// Codes returns all known language codes in sorted order.
func Codes() []string {
	langs := table()
	codes := make([]string, 0, len(langs))
	for code := range langs {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Name returns the full name for a code, without passthrough.
func Name(code string) (string, bool) {
	name, ok := table()[code]
	return name, ok
}
