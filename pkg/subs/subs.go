// Package subs loads time-coded subtitle files and decides which target
// words occur on each line.
package subs

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/asticode/go-astisub"
)

// Line is one subtitle cue with millisecond timing and raw text that may
// still carry styling markup.
type Line struct {
	StartMS int64
	EndMS   int64
	Raw     string
}

// Load reads an SRT/ASS/SSA/VTT subtitle file.
func Load(path string) ([]Line, error) {
	s, err := astisub.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load subtitles from %s: %w", path, err)
	}

	lines := make([]Line, 0, len(s.Items))
	for _, item := range s.Items {
		var parts []string
		for _, l := range item.Lines {
			var b strings.Builder
			for _, li := range l.Items {
				b.WriteString(li.Text)
			}
			parts = append(parts, b.String())
		}
		lines = append(lines, Line{
			StartMS: item.StartAt.Milliseconds(),
			EndMS:   item.EndAt.Milliseconds(),
			Raw:     strings.Join(parts, "\\N"),
		})
	}
	return lines, nil
}

var (
	assOverrideRe = regexp.MustCompile(`\{[^}]*\}`)
	htmlTagRe     = regexp.MustCompile(`<[^>]+>`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
)

// Normalize strips styling from raw subtitle text: ASS override blocks,
// HTML tags, the \N line-break escape, ideographic spaces, and collapsed
// whitespace runs. An empty result means the line carries no usable text.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = assOverrideRe.ReplaceAllString(s, "")
	s = htmlTagRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, `\N`, "\n")
	s = strings.ReplaceAll(s, "　", " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
