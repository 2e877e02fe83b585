package subtitle

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

var assTimestampRegex = regexp.MustCompile(
	`^(\d+):(\d{2}):(\d{2})\.(\d{2})$`,
)

func parseASS(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ASS file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	var entries []Entry
	scanner := bufio.NewScanner(file)

	inEvents := false
	var formatColumns []string
	lineNum := 0

	for scanner.Scan() {
		line := scanner.Text()
		lineNum++

		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}

		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			section := strings.ToLower(
				strings.TrimSuffix(strings.TrimPrefix(trimmed, "["), "]"),
			)
			inEvents = section == "events"
			continue
		}
		if !inEvents {
			continue
		}

		if strings.HasPrefix(trimmed, "Format:") {
			formatPart := strings.TrimPrefix(trimmed, "Format:")
			formatColumns = strings.Split(formatPart, ",")
			for i := range formatColumns {
				formatColumns[i] = strings.TrimSpace(formatColumns[i])
			}
			continue
		}

		if !strings.HasPrefix(trimmed, "Dialogue:") {
			continue
		}
		if len(formatColumns) == 0 {
			return nil, fmt.Errorf(
				"ASS file has a Dialogue line before the Format line (line %d)",
				lineNum,
			)
		}

		entry, err := parseDialogue(trimmed, formatColumns)
		if err != nil {
			return nil, fmt.Errorf(
				"failed to parse Dialogue at line %d: %w", lineNum, err,
			)
		}
		entry.Index = len(entries)
		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASS file: %w", err)
	}

	return entries, nil
}

func parseDialogue(line string, columns []string) (Entry, error) {
	content := strings.TrimSpace(strings.TrimPrefix(line, "Dialogue:"))

	// the Text column is last and may itself contain commas
	fields := strings.SplitN(content, ",", len(columns))
	if len(fields) < len(columns) {
		return Entry{}, fmt.Errorf(
			"expected %d fields, got %d", len(columns), len(fields),
		)
	}

	entry := Entry{Style: DefaultStyle}
	for i, col := range columns {
		value := fields[i]
		switch strings.ToLower(col) {
		case "start":
			ms, err := assTimestampMillis(strings.TrimSpace(value))
			if err != nil {
				return Entry{}, fmt.Errorf("invalid start timestamp: %w", err)
			}
			entry.Start = ms
		case "end":
			ms, err := assTimestampMillis(strings.TrimSpace(value))
			if err != nil {
				return Entry{}, fmt.Errorf("invalid end timestamp: %w", err)
			}
			entry.End = ms
		case "style":
			if s := strings.TrimSpace(value); s != "" {
				entry.Style = s
			}
		case "text":
			entry.Text = strings.ReplaceAll(value, `\N`, "\n")
		}
	}
	return entry, nil
}

func assTimestampMillis(s string) (int, error) {
	matches := assTimestampRegex.FindStringSubmatch(s)
	if len(matches) != 5 {
		return 0, fmt.Errorf("malformed timestamp %q", s)
	}
	h, _ := strconv.Atoi(matches[1])
	m, _ := strconv.Atoi(matches[2])
	sec, _ := strconv.Atoi(matches[3])
	cs, _ := strconv.Atoi(matches[4])
	return ((h*60+m)*60+sec)*1000 + cs*10, nil
}
