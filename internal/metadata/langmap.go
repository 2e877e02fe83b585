package metadata

import (
	_ "embed"
	"encoding/json"
	"sync"
)

//go:embed tvdb_languages.json
var tvdbLanguagesJSON []byte

var (
	tvdbLanguagesOnce sync.Once
	tvdbLanguages     map[string]string
)

// TVDBLanguage maps an ISO 639-1 subtitle language code to the three-letter
// code the TVDB API uses in translation paths. The second result is false
// for languages the catalog does not carry.
func TVDBLanguage(code string) (string, bool) {
	tvdbLanguagesOnce.Do(func() {
		if err := json.Unmarshal(tvdbLanguagesJSON, &tvdbLanguages); err != nil {
			panic("metadata: corrupt embedded language table: " + err.Error())
		}
	})
	lang, ok := tvdbLanguages[code]
	return lang, ok
}
