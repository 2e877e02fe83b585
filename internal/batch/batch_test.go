package batch

import (
	"errors"
	"fmt"
	"testing"

	"sublate/internal/subtitle"
)

func makeEntries(n int) []subtitle.Entry {
	entries := make([]subtitle.Entry, n)
	for i := range entries {
		entries[i] = subtitle.Entry{
			Index: i,
			Start: i * 1000,
			End:   i*1000 + 900,
			Text:  fmt.Sprintf("line %d", i),
			Style: "Default",
		}
	}
	return entries
}

func TestSplitPartitionsExactly(t *testing.T) {
	for _, tc := range []struct {
		entries int
		size    int
	}{
		{0, 1},
		{1, 1},
		{5, 2},
		{6, 2},
		{10, 3},
		{3, 100},
	} {
		entries := makeEntries(tc.entries)
		batches, err := Split(entries, tc.size)
		if err != nil {
			t.Fatalf("Split(%d, %d) returned error: %v", tc.entries, tc.size, err)
		}

		var flat []subtitle.Entry
		for i, b := range batches {
			if len(b) == 0 {
				t.Errorf("Split(%d, %d): batch %d is empty", tc.entries, tc.size, i)
			}
			if len(b) > tc.size {
				t.Errorf(
					"Split(%d, %d): batch %d has %d entries",
					tc.entries, tc.size, i, len(b),
				)
			}
			if i < len(batches)-1 && len(b) != tc.size {
				t.Errorf(
					"Split(%d, %d): non-final batch %d has %d entries, want %d",
					tc.entries, tc.size, i, len(b), tc.size,
				)
			}
			flat = append(flat, b...)
		}

		if len(flat) != len(entries) {
			t.Fatalf(
				"Split(%d, %d): concatenation has %d entries, want %d",
				tc.entries, tc.size, len(flat), len(entries),
			)
		}
		for i := range flat {
			if flat[i] != entries[i] {
				t.Errorf(
					"Split(%d, %d): entry %d changed after split",
					tc.entries, tc.size, i,
				)
			}
		}
	}
}

func TestSplitEmptyInputYieldsNoBatches(t *testing.T) {
	batches, err := Split(nil, 5)
	if err != nil {
		t.Fatalf("Split(nil, 5) returned error: %v", err)
	}
	if len(batches) != 0 {
		t.Errorf("expected no batches, got %d", len(batches))
	}
}

func TestSplitRejectsNonPositiveSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		_, err := Split(makeEntries(3), size)
		if !errors.Is(err, ErrInvalidBatchSize) {
			t.Errorf("Split(_, %d): expected ErrInvalidBatchSize, got %v", size, err)
		}
	}
}
