package metadata

import (
	"context"
	"fmt"
	"strings"

	"sublate/internal/language"
	"sublate/internal/logging"
)

// Builder assembles the prompt context block for one subtitle file: series
// and episode titles in both the source and target languages, so the model
// keeps official localized names straight.
type Builder struct {
	client *Client
	mt     MachineTranslator
	log    *logging.Logger
}

func NewBuilder(client *Client, mt MachineTranslator, log *logging.Logger) *Builder {
	if log == nil {
		log = logging.NewNop()
	}
	return &Builder{client: client, mt: mt, log: log}
}

// side is one language the context is rendered in.
type side struct {
	code     string
	tvdbLang string
	label    string
}

// Build returns the context block for filename, or "" when the filename has
// no episode marker, the series is unknown to the catalog, or no titles
// could be resolved. Catalog lookups that fail outright return an error;
// missing translations fall back to English plus machine translation.
func (b *Builder) Build(
	ctx context.Context,
	filename, sourceCode, targetCode string,
) (string, error) {
	info, ok := ParseSeriesInfo(filename)
	if !ok {
		b.log.Debugw("no episode marker in filename, skipping context", "file", filename)
		return "", nil
	}

	sides := buildSides(sourceCode, targetCode)
	if len(sides) == 0 {
		b.log.Debugw("no catalog language for source or target, skipping context",
			"source", sourceCode, "target", targetCode)
		return "", nil
	}

	seriesID, found, err := b.client.SearchSeries(ctx, info.Series)
	if err != nil {
		return "", err
	}
	if !found {
		b.log.Debugw("series not found in catalog", "series", info.Series)
		return "", nil
	}

	episodeID, haveEpisode, err := b.client.EpisodeID(
		ctx, seriesID, info.Season, info.Episode,
	)
	if err != nil {
		return "", err
	}
	if !haveEpisode {
		b.log.Debugw("episode not found in catalog",
			"series", info.Series, "season", info.Season, "episode", info.Episode)
	}

	var lines []string
	for _, s := range sides {
		title := b.localizedTitle(ctx, s, func(lang string) (*Translation, error) {
			return b.client.SeriesTranslation(ctx, seriesID, lang)
		})
		if title != "" {
			lines = append(lines, fmt.Sprintf("Series title (%s): %s", s.label, title))
		}
	}
	if haveEpisode {
		marker := fmt.Sprintf("S%02dE%02d", info.Season, info.Episode)
		for _, s := range sides {
			title := b.localizedTitle(ctx, s, func(lang string) (*Translation, error) {
				return b.client.EpisodeTranslation(ctx, episodeID, lang)
			})
			if title != "" {
				lines = append(lines,
					fmt.Sprintf("Episode title (%s, %s): %s", s.label, marker, title))
			}
		}
	}

	if len(lines) == 0 {
		return "", nil
	}
	header := "Context about this series/episode " +
		"(use for accurate translation of names, places, and cultural references):"
	return header + "\n" + strings.Join(lines, "\n"), nil
}

// localizedTitle resolves a title in the side's language, falling back to
// the English record machine-translated into that language, then to the
// English title verbatim.
func (b *Builder) localizedTitle(
	ctx context.Context,
	s side,
	fetch func(lang string) (*Translation, error),
) string {
	t, err := fetch(s.tvdbLang)
	if err != nil {
		b.log.Warnw("catalog translation lookup failed", "lang", s.tvdbLang, "error", err)
	}
	if t != nil && t.Name != "" {
		return t.Name
	}
	if s.tvdbLang == "eng" {
		return ""
	}

	eng, err := fetch("eng")
	if err != nil {
		b.log.Warnw("catalog translation lookup failed", "lang", "eng", "error", err)
		return ""
	}
	if eng == nil || eng.Name == "" {
		return ""
	}
	if b.mt != nil {
		translated, err := b.mt.Translate(ctx, eng.Name, s.code)
		if err == nil {
			b.log.Debugw("machine-translated catalog title",
				"from", eng.Name, "to", translated, "lang", s.code)
			return translated
		}
		b.log.Warnw("machine translation of catalog title failed",
			"title", eng.Name, "lang", s.code, "error", err)
	}
	return eng.Name
}

// buildSides maps the source and target codes to catalog languages,
// dropping auto-detect placeholders, unmapped codes, and duplicates.
func buildSides(sourceCode, targetCode string) []side {
	var sides []side
	seen := make(map[string]bool)
	for _, code := range []string{sourceCode, targetCode} {
		if code == "" || code == "auto" {
			continue
		}
		lang, ok := TVDBLanguage(code)
		if !ok || seen[lang] {
			continue
		}
		seen[lang] = true
		label, ok := language.Name(code)
		if !ok {
			label = code
		}
		sides = append(sides, side{code: code, tvdbLang: lang, label: label})
	}
	return sides
}
