package vocab

import (
	"strings"

	"github.com/subsmith/subsmith/pkg/kana"
)

// Candidates produces the ordered lookup candidates for a matched word.
// surface is the word as matched in the subtitle and lemma the analyzer's
// reconstructed dictionary form. A forced lookup form replaces the lemma
// outright.
//
// Katakana loanwords are more reliably found under their original script
// than under an analyzer-normalized lemma, so a fully-katakana surface is
// tried first; everything else is tried lemma-first. A lemma ending in く
// additionally gets a き variant, which covers verb stems surfacing inside
// compounds. The order depends only on the inputs, never on dictionary
// contents, and the result is deduplicated and never empty.
func Candidates(surface, lemma string, w TargetWord) []string {
	if w.ForcedLookupForm != "" {
		lemma = w.ForcedLookupForm
	}
	if lemma == "" {
		lemma = surface
	}

	var ordered []string
	if kana.IsFullyKatakana(surface) && w.ForcedLookupForm == "" {
		ordered = append(ordered, surface)
		if lemma != surface {
			ordered = append(ordered, lemma)
		}
	} else {
		ordered = append(ordered, lemma)
		if surface != lemma {
			ordered = append(ordered, surface)
		}
	}

	if strings.HasSuffix(lemma, "く") {
		ordered = append(ordered, strings.TrimSuffix(lemma, "く")+"き")
	}

	seen := make(map[string]bool, len(ordered))
	out := ordered[:0]
	for _, c := range ordered {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	if len(out) == 0 {
		return []string{surface}
	}
	return out
}
