// Package kana provides script-range classification and conversion helpers
// for hiragana and katakana text. All functions are pure and operate on
// runes; markup-aware callers should strip tags first (see StripMarkup).
package kana

import (
	"regexp"
	"strings"
)

const (
	katakanaFirst = 'ァ'
	katakanaLast  = 'ヶ'
	hiraganaFirst = 'ぁ'
	hiraganaLast  = 'ゖ'

	// ProlongedSoundMark is the katakana-hiragana prolonged sound mark ー.
	ProlongedSoundMark = 'ー'
	middleDot          = '・'
)

// Offset between the katakana and hiragana blocks; the two ranges are
// codepoint-aligned so conversion is a constant shift.
const kataToHiraOffset = 0x60

// IsFullyKatakana reports whether s is non-empty and consists only of
// katakana characters, the prolonged sound mark and the katakana middle dot.
func IsFullyKatakana(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < katakanaFirst || r > katakanaLast) && r != ProlongedSoundMark && r != middleDot {
			return false
		}
	}
	return true
}

// IsKana reports whether r is in the hiragana or katakana block.
// The prolonged sound mark is not counted; it carries no mora of its own.
func IsKana(r rune) bool {
	return (r >= hiraganaFirst && r <= hiraganaLast) || (r >= katakanaFirst && r <= katakanaLast)
}

// smallKana are the size-reduced kana. They attach to the preceding mora
// and contribute no mora of their own.
var smallKana = map[rune]bool{
	'ぁ': true, 'ぃ': true, 'ぅ': true, 'ぇ': true, 'ぉ': true,
	'ゃ': true, 'ゅ': true, 'ょ': true, 'ゎ': true, 'っ': true,
	'ァ': true, 'ィ': true, 'ゥ': true, 'ェ': true, 'ォ': true,
	'ャ': true, 'ュ': true, 'ョ': true, 'ヮ': true, 'ッ': true,
	'ヵ': true, 'ヶ': true,
}

// IsSmall reports whether r is a size-reduced kana character.
func IsSmall(r rune) bool { return smallKana[r] }

// KatakanaToHiragana converts every katakana codepoint in s to its hiragana
// counterpart. Other characters pass through unchanged, so the function is
// idempotent on already-hiragana input.
func KatakanaToHiragana(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= katakanaFirst && r <= katakanaLast {
			r -= kataToHiraOffset
		}
		b.WriteRune(r)
	}
	return b.String()
}

// HiraganaToKatakana is the inverse shift, used when normalizing analyzer
// readings against dictionary readings (both sides compared in katakana).
func HiraganaToKatakana(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= hiraganaFirst && r <= hiraganaLast {
			r += kataToHiraOffset
		}
		b.WriteRune(r)
	}
	return b.String()
}

// vowelColumns maps each hiragana kana to its vowel column. ん is absent:
// it carries no vowel and defaults to the u column when prolonged.
var vowelColumns = map[rune]rune{}

func init() {
	cols := map[rune]string{
		'a': "あかがさざただなはばぱまやらわゃぁゎ",
		'i': "いきぎしじちぢにひびぴみりぃゐ",
		'u': "うくぐすずつづぬふぶぷむゆるゅぅっゔ",
		'e': "えけげせぜてでねへべぺめれぇゑ",
		'o': "おこごそぞとどのほぼぽもよろをょぉ",
	}
	for col, kanas := range cols {
		for _, k := range kanas {
			vowelColumns[k] = col
		}
	}
}

// Long-vowel orthography per column: the e column prolongs with い (せい)
// and the o column with う (こう).
var longVowelFor = map[rune]rune{
	'a': 'あ',
	'i': 'い',
	'u': 'う',
	'e': 'い',
	'o': 'う',
}

// ExpandLongVowel replaces each prolonged sound mark with the kana implied
// by the preceding mora's vowel column. ん defaults to the u column and a
// leading mark with nothing before it defaults to the a column. Operates on
// hiragana; callers holding katakana should convert first.
func ExpandLongVowel(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	var prev rune
	for _, r := range s {
		if r == ProlongedSoundMark {
			col := 'a'
			if prev != 0 {
				if c, ok := vowelColumns[prev]; ok {
					col = c
				} else {
					col = 'u' // ん and anything else without a vowel
				}
			}
			b.WriteRune(longVowelFor[col])
			// prev stays: a run of marks repeats the same vowel
			continue
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}

var tagRe = regexp.MustCompile(`<[^>]+>`)

// StripMarkup removes angle-bracket tags, leaving only text content.
func StripMarkup(s string) string {
	return tagRe.ReplaceAllString(s, "")
}

// MoraCount counts the moras in s. Size-reduced kana and characters outside
// the kana ranges contribute zero; the prolonged sound mark carries a full
// mora of its own. Markup is stripped first.
func MoraCount(s string) int {
	n := 0
	for _, r := range StripMarkup(s) {
		if (IsKana(r) && !IsSmall(r)) || r == ProlongedSoundMark {
			n++
		}
	}
	return n
}

// SplitMorae splits a plain kana reading into mora units. Small kana attach
// to the unit of the preceding full kana; the prolonged sound mark stands as
// its own mora. Other non-kana runes attach to the preceding unit so nothing
// is lost.
func SplitMorae(s string) []string {
	var morae []string
	for _, r := range s {
		standalone := (IsKana(r) && !IsSmall(r)) || r == ProlongedSoundMark
		if !standalone && len(morae) > 0 {
			morae[len(morae)-1] += string(r)
			continue
		}
		morae = append(morae, string(r))
	}
	return morae
}
