package subtitle

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultStyle is assigned to entries in formats without style support.
const DefaultStyle = "Default"

// Entry is a single timed subtitle line. Start and End are offsets from the
// beginning of the media in milliseconds. Index is the entry's position in
// presentation order within one file.
type Entry struct {
	Index int
	Start int
	End   int
	Text  string
	Style string
}

// supported subtitle formats
type Format string

const (
	FormatSRT Format = "srt"
	FormatVTT Format = "vtt"
	FormatASS Format = "ass"
)

var subtitleExtensions = map[string]Format{
	".srt": FormatSRT,
	".vtt": FormatVTT,
	".ass": FormatASS,
	".ssa": FormatASS,
}

var videoExtensions = map[string]bool{
	".mkv":  true,
	".mp4":  true,
	".avi":  true,
	".webm": true,
	".mov":  true,
	".flv":  true,
	".wmv":  true,
}

func IsSubtitleFile(path string) bool {
	_, ok := subtitleExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

func IsVideoFile(path string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(path))]
}

// FormatForPath maps a file extension to a Format.
func FormatForPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	format, ok := subtitleExtensions[ext]
	if !ok {
		return "", fmt.Errorf("unsupported subtitle format: %s", ext)
	}
	return format, nil
}

// Parse reads a subtitle file into an ordered entry list. The format is
// chosen by file extension.
func Parse(path string) ([]Entry, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatSRT:
		return parseSRT(path)
	case FormatVTT:
		return parseVTT(path)
	case FormatASS:
		return parseASS(path)
	default:
		return nil, fmt.Errorf("unsupported subtitle format: %s", format)
	}
}

// OutputPath derives the output file path for a translation. The target
// language code is inserted before the extension, replacing an existing
// short language suffix if the stem carries one ("movie.en.srt" becomes
// "movie.ja.srt"). outputFormat overrides the extension when set.
func OutputPath(inputPath, targetLang, outputFormat string) string {
	ext := filepath.Ext(inputPath)
	if outputFormat != "" {
		ext = outputFormat
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
	}

	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	if i := strings.LastIndex(stem, "."); i > 0 {
		suffix := stem[i+1:]
		if len(suffix) <= 3 && isAlpha(suffix) {
			stem = stem[:i]
		}
	}

	return filepath.Join(
		filepath.Dir(inputPath),
		fmt.Sprintf("%s.%s%s", stem, targetLang, ext),
	)
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}
