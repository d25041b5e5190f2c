package pitch

import (
	"strings"

	"github.com/subsmith/subsmith/pkg/kana"
)

// Render draws the accent contour for a plain kana reading as inline-styled
// HTML. Each mora becomes an independently positioned span so the contour
// survives line wrapping; small kana ride inside the preceding mora's span
// without styling of their own.
//
// Marking rules per classification:
//   - heiban: overline from the second mora onward
//   - atamadaka: overline and drop tick on the first mora only
//   - nakadaka/odaka: overline from the second mora through the drop
//     position, drop tick at the drop position
func Render(reading string, drop int) string {
	if reading == "" {
		return ""
	}

	morae := kana.SplitMorae(reading)
	color := Classify(drop, len(morae)).Color()

	var spans []string
	for i, mora := range morae {
		idx := i + 1 // mora positions are 1-based

		var overline, dropTick bool
		switch {
		case drop == 0:
			overline = idx > 1
		case drop == 1:
			overline = idx == 1
			dropTick = idx == 1
		default:
			overline = idx >= 2 && idx <= drop
			dropTick = idx == drop
		}

		spans = append(spans, renderMora(mora, color, overline, dropTick))
	}

	return `<span style="display:inline;">` + strings.Join(spans, "") + `</span>`
}

func renderMora(mora, color string, overline, dropTick bool) string {
	markStyles := []string{"border-color:" + color}
	if overline || dropTick {
		markStyles = append(markStyles,
			"display:block",
			"user-select:none",
			"pointer-events:none",
			"position:absolute",
			"top:0.1em",
			"left:0",
			"right:0",
			"height:0",
			"border-top-width:0.1em",
			"border-top-style:solid",
		)
	}
	if dropTick {
		// Trailing vertical tick after the mora.
		markStyles = append(markStyles,
			"right:-0.1em",
			"height:0.4em",
			"border-right-width:0.1em",
			"border-right-style:solid",
		)
	}

	containerStyles := []string{"display:inline-block", "position:relative"}
	if dropTick {
		containerStyles = append(containerStyles, "padding-right:0.1em", "margin-right:0.1em")
	}

	return `<span style="` + strings.Join(containerStyles, ";") + `;">` +
		`<span style="display:inline;">` + mora + `</span>` +
		`<span style="` + strings.Join(markStyles, ";") + `;"></span>` +
		`</span>`
}
