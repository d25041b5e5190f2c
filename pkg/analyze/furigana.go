package analyze

import (
	"strings"

	"github.com/subsmith/subsmith/pkg/kana"
)

func isKanji(r rune) bool {
	return (r >= '一' && r <= '龯') || r == '々' || r == '〆' || r == 'ヵ' || r == 'ヶ'
}

func containsKanji(s string) bool {
	for _, r := range s {
		if isKanji(r) {
			return true
		}
	}
	return false
}

// Furigana annotates text with bracketed hiragana glosses in the
// `漢字[かんじ]` convention used by flashcard applications. Trailing
// okurigana stays outside the brackets so only the kanji run is glossed;
// tokens without kanji pass through unchanged. Tokens are joined with
// spaces so consumers can tell gloss boundaries apart.
func (a *Analyzer) Furigana(text string) string {
	if text == "" {
		return ""
	}

	var out []string
	for _, t := range a.Analyze(text) {
		yomi := kana.KatakanaToHiragana(t.Reading)
		if yomi == "" || yomi == t.Surface || !containsKanji(t.Surface) {
			out = append(out, t.Surface)
			continue
		}

		// Index just past the last kanji in the surface.
		runes := []rune(t.Surface)
		kanjiEnd := 0
		for i, r := range runes {
			if isKanji(r) {
				kanjiEnd = i + 1
			}
		}

		if kanjiEnd < len(runes) {
			kanjiPart := string(runes[:kanjiEnd])
			okurigana := string(runes[kanjiEnd:])
			yomiKanji := yomi
			if okurigana != "" && strings.HasSuffix(yomi, okurigana) {
				yomiKanji = strings.TrimSuffix(yomi, okurigana)
			}
			out = append(out, kanjiPart+"["+yomiKanji+"]"+okurigana)
		} else {
			out = append(out, t.Surface+"["+yomi+"]")
		}
	}

	return strings.Join(out, " ")
}
