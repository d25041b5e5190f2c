// Package pitch classifies Japanese pitch-accent positions and renders
// mora-aligned accent contours as HTML markup.
//
// Accent positions travel between dictionary collaborators and this engine
// as bracketed numbers: "[0]", "[1]", "[3]". The number is the mora index
// after which pitch drops from high to low; zero means no drop inside the
// word.
package pitch

import (
	"fmt"
	"regexp"
	"strconv"
)

// AccentType is one of the four Japanese pitch-accent classes.
type AccentType int

const (
	// Heiban: low on the first mora, rises and stays high through the word
	// and any following particle.
	Heiban AccentType = iota
	// Atamadaka: high on the first mora only.
	Atamadaka
	// Nakadaka: the drop falls inside the word.
	Nakadaka
	// Odaka: high through the last mora, dropping only on a following
	// particle.
	Odaka
)

func (t AccentType) String() string {
	switch t {
	case Heiban:
		return "heiban"
	case Atamadaka:
		return "atamadaka"
	case Nakadaka:
		return "nakadaka"
	case Odaka:
		return "odaka"
	}
	return fmt.Sprintf("AccentType(%d)", int(t))
}

// Label returns the Japanese display name used on cards.
func (t AccentType) Label() string {
	switch t {
	case Heiban:
		return "平板式"
	case Atamadaka:
		return "頭高型"
	case Nakadaka:
		return "中高型"
	case Odaka:
		return "尾高型"
	}
	return ""
}

// Color returns the display color associated with the accent type. Carried
// as data only; nothing branches on it.
func (t AccentType) Color() string {
	switch t {
	case Atamadaka:
		return "#f54360"
	case Heiban:
		return "#39c1ff"
	case Nakadaka:
		return "#fca311"
	case Odaka:
		return "#40D4A6"
	}
	return "#afa2ff"
}

// Classify maps a drop position and mora count to an accent type. Total:
// every non-negative drop yields exactly one class.
func Classify(drop, moraCount int) AccentType {
	switch {
	case drop == 0:
		return Heiban
	case drop == 1:
		return Atamadaka
	case drop > 1 && drop == moraCount:
		return Odaka
	default:
		return Nakadaka
	}
}

var positionRe = regexp.MustCompile(`\[(\d+)\]`)

// ParsePosition extracts the drop position from a bracketed marker such as
// "[2]". Returns false when no marker is present.
func ParsePosition(s string) (int, bool) {
	m := positionRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// PositionLabel formats a drop position in the bracket convention.
func PositionLabel(n int) string { return fmt.Sprintf("[%d]", n) }

// Result bundles everything the card needs about one resolved accent.
type Result struct {
	Markup string     // mora-by-mora contour rendering
	Drop   int        // drop position, 0 for heiban
	Type   AccentType // classification of Drop against the mora count
	Source string     // provenance (dictionary identifier)
}
