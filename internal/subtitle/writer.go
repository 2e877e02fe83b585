package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Write serializes entries to path, choosing the format by extension.
// Each entry keeps its own timing and style.
func Write(entries []Entry, path string) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}
	if err := ensureDir(path); err != nil {
		return err
	}

	var content string
	switch format {
	case FormatSRT:
		content = renderSRT(entries)
	case FormatVTT:
		content = renderVTT(entries)
	case FormatASS:
		content = renderASS(entries)
	default:
		return fmt.Errorf("unsupported subtitle format: %s", format)
	}

	return os.WriteFile(path, []byte(content), 0644)
}

func renderSRT(entries []Entry) string {
	var sb strings.Builder
	for i, entry := range entries {
		sb.WriteString(fmt.Sprintf("%d\n", i+1))
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			formatSRTTime(entry.Start),
			formatSRTTime(entry.End)))
		sb.WriteString(entry.Text)
		sb.WriteString("\n\n")
	}
	return sb.String()
}

func renderVTT(entries []Entry) string {
	var sb strings.Builder
	sb.WriteString("WEBVTT\n\n")
	for i, entry := range entries {
		sb.WriteString(fmt.Sprintf("%d\n", i+1))
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			formatVTTTime(entry.Start),
			formatVTTTime(entry.End)))
		sb.WriteString(entry.Text)
		sb.WriteString("\n\n")
	}
	return sb.String()
}

func renderASS(entries []Entry) string {
	var sb strings.Builder

	sb.WriteString("[Script Info]\n")
	sb.WriteString("Title: Translated Subtitles\n")
	sb.WriteString("ScriptType: v4.00+\n")
	sb.WriteString("Collisions: Normal\n")
	sb.WriteString("PlayDepth: 0\n\n")

	sb.WriteString("[V4+ Styles]\n")
	sb.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")
	for _, name := range styleNames(entries) {
		sb.WriteString(fmt.Sprintf("Style: %s,Arial,20,&H00FFFFFF,&H000000FF,&H00000000,&H00000000,0,0,0,0,100,100,0,0,1,2,2,2,10,10,10,1\n", name))
	}
	sb.WriteString("\n")

	sb.WriteString("[Events]\n")
	sb.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")
	for _, entry := range entries {
		style := entry.Style
		if style == "" {
			style = DefaultStyle
		}
		sb.WriteString(fmt.Sprintf("Dialogue: 0,%s,%s,%s,,0,0,0,,%s\n",
			formatASSTime(entry.Start),
			formatASSTime(entry.End),
			style,
			strings.ReplaceAll(entry.Text, "\n", `\N`)))
	}
	return sb.String()
}

func styleNames(entries []Entry) []string {
	seen := map[string]bool{DefaultStyle: true}
	names := []string{DefaultStyle}
	for _, entry := range entries {
		if entry.Style != "" && !seen[entry.Style] {
			seen[entry.Style] = true
			names = append(names, entry.Style)
		}
	}
	sort.Strings(names[1:])
	return names
}

func formatSRTTime(ms int) string {
	h, m, s, millis := splitMillis(ms)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, millis)
}

func formatVTTTime(ms int) string {
	h, m, s, millis := splitMillis(ms)
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, millis)
}

func formatASSTime(ms int) string {
	h, m, s, millis := splitMillis(ms)
	return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, millis/10)
}

func splitMillis(ms int) (hours, minutes, seconds, millis int) {
	if ms < 0 {
		ms = 0
	}
	millis = ms % 1000
	seconds = (ms / 1000) % 60
	minutes = (ms / 60000) % 60
	hours = ms / 3600000
	return
}

func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0755)
}
