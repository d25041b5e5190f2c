// Package analyze wraps the kagome morphological analyzer behind the small
// token contract the mining pipeline consumes: surface form, dictionary
// (lemma) form and kana reading per token.
package analyze

import (
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"

	"github.com/subsmith/subsmith/pkg/kana"
)

// Token represents a single analyzed unit of text.
type Token struct {
	Surface  string // the text as it appears (e.g. "行っ")
	BaseForm string // the dictionary form (e.g. "行く")
	Reading  string // the pronunciation (katakana, e.g. "イッ"); empty if unknown
}

// Analyzer handles text segmentation. Tokenization is deterministic for
// identical input, so an Analyzer is safe to share across worker goroutines.
type Analyzer struct {
	t *tokenizer.Tokenizer
}

// NewAnalyzer creates a new tokenizer instance over the bundled IPA dictionary.
func NewAnalyzer() (*Analyzer, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &Analyzer{t: t}, nil
}

// Analyze breaks text into tokens with readings and base forms.
func (a *Analyzer) Analyze(text string) []Token {
	tokens := a.t.Tokenize(text)
	var result []Token

	for _, token := range tokens {
		if token.Class == tokenizer.DUMMY {
			continue
		}
		if strings.TrimSpace(token.Surface) == "" {
			continue
		}

		// Kagome IPA features: 6 is the base form, 7 the katakana reading.
		features := token.Features()

		base := token.Surface
		if len(features) > 6 && features[6] != "*" {
			base = features[6]
		}

		reading := ""
		if len(features) > 7 && features[7] != "*" {
			reading = features[7]
		}

		result = append(result, Token{
			Surface:  token.Surface,
			BaseForm: base,
			Reading:  reading,
		})
	}

	return result
}

// Lemmas returns the dictionary form of every token in text, in order.
func (a *Analyzer) Lemmas(text string) []string {
	tokens := a.Analyze(text)
	lemmas := make([]string, 0, len(tokens))
	for _, t := range tokens {
		lemmas = append(lemmas, t.BaseForm)
	}
	return lemmas
}

// Lemma reconstructs the dictionary form of word by concatenating the base
// forms of its tokens. A word spanning several tokens (compounds, analyzer
// splits) still yields one citation form. Returns word itself when the
// analyzer produces nothing.
func (a *Analyzer) Lemma(word string) string {
	tokens := a.Analyze(word)
	if len(tokens) == 0 {
		return word
	}
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.BaseForm)
	}
	if b.Len() == 0 {
		return word
	}
	return b.String()
}

// Reading returns the concatenated katakana reading of text, used as the
// target when selecting among alternate dictionary readings. Tokens without
// a known reading contribute their surface unchanged.
func (a *Analyzer) Reading(text string) string {
	var b strings.Builder
	for _, t := range a.Analyze(text) {
		if t.Reading != "" {
			b.WriteString(t.Reading)
		} else {
			b.WriteString(kana.HiraganaToKatakana(t.Surface))
		}
	}
	return b.String()
}
