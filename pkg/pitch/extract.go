package pitch

import (
	"strings"

	"github.com/subsmith/subsmith/pkg/kana"
)

// Accent is one reading+accent pair extracted from dictionary markup.
type Accent struct {
	Reading  string // kana reading, may carry overline span markup
	Position string // drop position in the bracket convention, e.g. "[2]"
}

// PlainReading returns the reading with markup stripped.
func (a Accent) PlainReading() string { return kana.StripMarkup(a.Reading) }

// Drop parses the numeric drop position; zero when the label is malformed.
func (a Accent) Drop() int {
	n, _ := ParsePosition(a.Position)
	return n
}

// markup tokens emitted by the scanner. Modeling the input as a token
// stream keeps the "first structural break ends the relevant span" rule
// explicit instead of burying it in regular expressions.
type tokKind int

const (
	tokText tokKind = iota
	tokOpen
	tokClose
)

type tok struct {
	kind  tokKind
	name  string // tag name, lowercased
	class string // value of the class attribute, open tags only
	text  string // text runs only
}

func scanMarkup(s string) []tok {
	var toks []tok
	for len(s) > 0 {
		lt := strings.IndexByte(s, '<')
		if lt < 0 {
			toks = append(toks, tok{kind: tokText, text: s})
			break
		}
		if lt > 0 {
			toks = append(toks, tok{kind: tokText, text: s[:lt]})
			s = s[lt:]
		}
		gt := strings.IndexByte(s, '>')
		if gt < 0 {
			// Unterminated tag: treat the rest as text.
			toks = append(toks, tok{kind: tokText, text: s})
			break
		}
		inner := strings.TrimSpace(s[1:gt])
		s = s[gt+1:]
		if inner == "" {
			continue
		}
		if strings.HasPrefix(inner, "/") {
			toks = append(toks, tok{kind: tokClose, name: strings.ToLower(strings.TrimSpace(inner[1:]))})
			continue
		}
		inner = strings.TrimSuffix(inner, "/") // self-closing <br/>
		name, attrs, _ := strings.Cut(inner, " ")
		toks = append(toks, tok{
			kind:  tokOpen,
			name:  strings.ToLower(name),
			class: attrValue(attrs, "class"),
		})
	}
	return toks
}

func attrValue(attrs, key string) string {
	rest := attrs
	for rest != "" {
		i := strings.Index(rest, key+"=")
		if i < 0 {
			return ""
		}
		rest = rest[i+len(key)+1:]
		if rest == "" {
			return ""
		}
		if q := rest[0]; q == '"' || q == '\'' {
			if end := strings.IndexByte(rest[1:], q); end >= 0 {
				return rest[1 : 1+end]
			}
			return ""
		}
		if end := strings.IndexByte(rest, ' '); end >= 0 {
			return rest[:end]
		}
		return rest
	}
	return ""
}

const overlineSpan = `<span style="text-decoration: overline;">`

// ExtractAccents parses span-level accent markup as emitted by indexed
// pronunciation dictionaries. Each paragraph holds one independent reading;
// a <br> inside a paragraph is the structural break separating the bare
// word's contour from a following particle segment, which is discarded.
// Spans carry their tone in the class attribute: tune-0 is low, tune-1 high
// and tune-2 high with the drop falling after that span.
//
// Pairs that are textually identical after markup stripping are collapsed,
// keeping first occurrence.
func ExtractAccents(markup string) []Accent {
	if strings.TrimSpace(markup) == "" {
		return nil
	}

	var all []Accent

	var (
		parts   []string
		pos     int // mora position reached so far
		drop    int
		open    string // class of the currently open tune span
		stopped bool   // structural break seen, skip to end of paragraph
	)

	flush := func() {
		if len(parts) > 0 {
			all = append(all, Accent{
				Reading:  strings.Join(parts, ""),
				Position: PositionLabel(drop),
			})
		}
		parts, pos, drop, open, stopped = nil, 0, 0, "", false
	}

	for _, tk := range scanMarkup(markup) {
		switch tk.kind {
		case tokOpen:
			switch tk.name {
			case "p":
				flush()
			case "br":
				stopped = true
			case "span":
				if strings.HasPrefix(tk.class, "tune-") {
					open = tk.class
				}
			}
		case tokClose:
			if tk.name == "p" {
				flush()
			} else if tk.name == "span" {
				open = ""
			}
		case tokText:
			if stopped || open == "" {
				continue
			}
			text := tk.text
			switch open {
			case "tune-0":
				parts = append(parts, text)
			case "tune-1":
				parts = append(parts, overlineSpan+text+`</span>`)
			case "tune-2":
				parts = append(parts, overlineSpan+text+`</span>`)
				drop = pos + kana.MoraCount(text)
			}
			pos += kana.MoraCount(text)
		}
	}
	flush()

	return dedupeAccents(all)
}

func dedupeAccents(accents []Accent) []Accent {
	seen := make(map[string]bool, len(accents))
	out := accents[:0]
	for _, a := range accents {
		key := a.PlainReading() + "\x00" + a.Position
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, a)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Select picks the accent pair whose reading best matches target, the
// concrete reading reported by the morphological analyzer. Score is the
// count of position-aligned equal characters over the longer length, with
// an exact match short-circuiting; ties prefer the last-listed pair, since
// dictionaries commonly list the primary pronunciation last. With no
// target the last-listed pair wins outright.
func Select(accents []Accent, target string) (Accent, bool) {
	if len(accents) == 0 {
		return Accent{}, false
	}
	if len(accents) == 1 {
		return accents[0], true
	}
	if target == "" {
		return accents[len(accents)-1], true
	}

	normTarget := normalizeReading(target)
	best := accents[len(accents)-1]
	bestScore := -1.0

	for _, a := range accents {
		cand := normalizeReading(a.Reading)
		if cand == normTarget {
			return a, true
		}
		if s := similarity(cand, normTarget); s >= bestScore {
			bestScore = s
			best = a
		}
	}
	return best, true
}

// normalizeReading strips markup and lifts everything to katakana so
// analyzer output and dictionary text compare on equal footing.
func normalizeReading(s string) string {
	return kana.HiraganaToKatakana(kana.StripMarkup(s))
}

func similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	longer := len(ra)
	if len(rb) > longer {
		longer = len(rb)
	}
	if longer == 0 {
		return 0
	}
	n := len(ra)
	if len(rb) < n {
		n = len(rb)
	}
	matches := 0
	for i := 0; i < n; i++ {
		if ra[i] == rb[i] {
			matches++
		}
	}
	return float64(matches) / float64(longer)
}
