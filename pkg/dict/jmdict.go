package dict

import (
	"encoding/json"
	"fmt"
	"html"
	"os"
	"strings"
)

// JMdictEntry matches the structure of jmdict-simplified entries.
type JMdictEntry struct {
	Id    string          `json:"id"`
	Kanji []JMdictElement `json:"kanji"`
	Kana  []JMdictElement `json:"kana"`
	Sense []JMdictSense   `json:"sense"`
}

type JMdictElement struct {
	Text   string   `json:"text"`
	Common bool     `json:"common"`
	Tags   []string `json:"tags"`
}

type JMdictSense struct {
	PartOfSpeech []string      `json:"partOfSpeech"`
	Gloss        []JMdictGloss `json:"gloss"`
}

type JMdictGloss struct {
	Text string `json:"text"`
	Lang string `json:"lang"` // defaults to 'eng' if missing
}

// LoadJMdictSimplified reads a jmdict-simplified JSON file, accepting both
// the { "words": [...] } wrapper and a bare array.
func LoadJMdictSimplified(path string) ([]JMdictEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var wrapper struct {
		Words []JMdictEntry `json:"words"`
	}
	dec := json.NewDecoder(f)
	if err := dec.Decode(&wrapper); err == nil && len(wrapper.Words) > 0 {
		return wrapper.Words, nil
	}

	if _, err := f.Seek(0, 0); err != nil {
		return nil, err
	}
	var entries []JMdictEntry
	if err := json.NewDecoder(f).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to parse dictionary file: %w", err)
	}
	return entries, nil
}

// PrimaryReading returns the first kana element's text, or "".
func (e JMdictEntry) PrimaryReading() string {
	if len(e.Kana) > 0 {
		return e.Kana[0].Text
	}
	return ""
}

// DefinitionHTML renders the entry's senses as a glossary list. Gloss text
// is escaped; part-of-speech tags render as a bracketed prefix.
func (e JMdictEntry) DefinitionHTML() string {
	var b strings.Builder
	b.WriteString("<ol>")
	for _, sense := range e.Sense {
		var glosses []string
		for _, g := range sense.Gloss {
			if g.Lang == "" || g.Lang == "eng" {
				glosses = append(glosses, html.EscapeString(g.Text))
			}
		}
		if len(glosses) == 0 {
			continue
		}
		b.WriteString("<li>")
		if len(sense.PartOfSpeech) > 0 {
			b.WriteString(`<span class="pos">[` + html.EscapeString(strings.Join(sense.PartOfSpeech, ", ")) + `]</span> `)
		}
		b.WriteString(strings.Join(glosses, "; "))
		b.WriteString("</li>")
	}
	b.WriteString("</ol>")
	if b.String() == "<ol></ol>" {
		return ""
	}
	return b.String()
}
