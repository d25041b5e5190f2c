// Package vocab loads the user's target word list and derives the ordered
// lookup candidates tried against dictionary sources.
package vocab

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// TargetWord is one entry from the vocabulary list. A trailing (…) group
// forces the kana reading used for lookups and a […] group forces the
// dictionary entry to look under; both are optional and independent.
//
//	精霊               plain word
//	精霊(せいれい)      forced reading
//	食べた[食べる]      forced lookup form
//	食べた(たべた)[食べる]
type TargetWord struct {
	Surface          string
	ForcedReading    string
	ForcedLookupForm string
}

var (
	lookupFormRe = regexp.MustCompile(`\[([^\]]+)\]`)
	readingRe    = regexp.MustCompile(`\(([^)]+)\)`)
	splitRe      = regexp.MustCompile(`[\n,\t]`)
)

// Parse interprets a single word-list entry. Returns false for blank input.
func Parse(entry string) (TargetWord, bool) {
	w := strings.TrimSpace(entry)
	if w == "" {
		return TargetWord{}, false
	}

	var tw TargetWord
	if m := lookupFormRe.FindStringSubmatch(w); m != nil {
		tw.ForcedLookupForm = strings.TrimSpace(m[1])
		w = strings.Replace(w, m[0], "", 1)
	}
	if m := readingRe.FindStringSubmatch(w); m != nil {
		tw.ForcedReading = strings.TrimSpace(m[1])
		w = strings.Replace(w, m[0], "", 1)
	}
	tw.Surface = strings.TrimSpace(w)
	if tw.Surface == "" {
		return TargetWord{}, false
	}
	return tw, true
}

// Load reads a word list file. Entries are separated by newlines, commas or
// tabs; blank entries are skipped.
func Load(path string) ([]TargetWord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read word list: %w", err)
	}

	var words []TargetWord
	for _, entry := range splitRe.Split(string(data), -1) {
		if tw, ok := Parse(entry); ok {
			words = append(words, tw)
		}
	}
	return words, nil
}
