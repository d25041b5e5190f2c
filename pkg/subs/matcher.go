package subs

import (
	"strings"

	"github.com/subsmith/subsmith/pkg/vocab"
)

// Match determines which target words occur in a normalized sentence given
// the lemmas the analyzer produced for it. A word matches when its surface
// appears in the lemma set (catches inflected forms the analyzer recovers)
// or as a literal substring of the sentence (catches words the analyzer
// mis-segments). Results keep word-list order, so matching is deterministic
// regardless of map iteration.
func Match(sentence string, lemmas []string, words []vocab.TargetWord) []vocab.TargetWord {
	if sentence == "" || len(words) == 0 {
		return nil
	}

	lemmaSet := make(map[string]bool, len(lemmas))
	for _, l := range lemmas {
		lemmaSet[l] = true
	}

	var matched []vocab.TargetWord
	for _, w := range words {
		if lemmaSet[w.Surface] || strings.Contains(sentence, w.Surface) {
			matched = append(matched, w)
		}
	}
	return matched
}
