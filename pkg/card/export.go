package card

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// DedupeStats reports what deduplication did to the card sequence.
type DedupeStats struct {
	Before  int
	After   int
	Removed int
}

// Dedupe collapses cards sharing a resolved word. The first card seen for
// each word survives with its DuplicateCount set to the total number of
// occurrences; later duplicates are dropped entirely. Input order is
// preserved among survivors.
func Dedupe(cards []Card) ([]Card, DedupeStats) {
	counts := make(map[string]int, len(cards))
	for _, c := range cards {
		counts[c.Word]++
	}

	out := make([]Card, 0, len(counts))
	seen := make(map[string]bool, len(counts))
	for _, c := range cards {
		if seen[c.Word] {
			continue
		}
		seen[c.Word] = true
		c.DuplicateCount = counts[c.Word]
		out = append(out, c)
	}

	return out, DedupeStats{Before: len(cards), After: len(out), Removed: len(cards) - len(out)}
}

// WriteCSV writes cards to path, creating parent directories as needed.
func WriteCSV(path string, cards []Card) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create csv file: %w", err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&cards, f); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}
