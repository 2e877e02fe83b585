package metadata

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// SeriesInfo is the series name and episode position recovered from a
// release-style filename.
type SeriesInfo struct {
	Series  string
	Season  int
	Episode int
}

// Filename shapes seen in the wild, most specific first. The Sonarr-style
// " - S01E01" separator must win over the generic dotted form so the series
// name is not cut short.
var seriesPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(.+?)\s+-\s+S(\d{1,2})E(\d{1,3})`),
	regexp.MustCompile(`(?i)^(.+?)[. _]S(\d{1,2})E(\d{1,3})`),
	regexp.MustCompile(`(?i)^(.+?)[. _](\d{1,2})x(\d{1,3})`),
}

// ParseSeriesInfo extracts series name, season, and episode from a subtitle
// or video filename. It returns false for filenames with no recognizable
// episode marker, movies included.
func ParseSeriesInfo(path string) (SeriesInfo, bool) {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	for _, pattern := range seriesPatterns {
		m := pattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		season, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		episode, err := strconv.Atoi(m[3])
		if err != nil {
			continue
		}
		series := strings.ReplaceAll(m[1], ".", " ")
		series = strings.ReplaceAll(series, "_", " ")
		series = strings.TrimSpace(series)
		if series == "" {
			continue
		}
		return SeriesInfo{Series: series, Season: season, Episode: episode}, true
	}
	return SeriesInfo{}, false
}
