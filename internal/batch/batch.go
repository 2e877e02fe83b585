package batch

import (
	"errors"

	"sublate/internal/subtitle"
)

var ErrInvalidBatchSize = errors.New("batch size must be at least 1")

// Split groups entries into contiguous batches of at most size entries.
// Concatenating the batches reproduces the input exactly. An empty input
// yields no batches.
func Split(entries []subtitle.Entry, size int) ([][]subtitle.Entry, error) {
	if size < 1 {
		return nil, ErrInvalidBatchSize
	}

	var batches [][]subtitle.Entry
	for i := 0; i < len(entries); i += size {
		end := i + size
		if end > len(entries) {
			end = len(entries)
		}
		batches = append(batches, entries[i:end])
	}
	return batches, nil
}
