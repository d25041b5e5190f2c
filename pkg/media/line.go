package media

import "context"

// DefaultPadS is how far the extraction window extends past each cue
// boundary. Subtitle timing tends to clip speech onsets, so the cut
// breathes a little on both sides.
const DefaultPadS = 0.25

// LineMedia is the extracted media for one subtitle line. StartS and EndS
// are the padded window bounds actually captured.
type LineMedia struct {
	ScreenshotPath string
	AudioPath      string
	StartS         float64
	EndS           float64
}

// ExtractLine captures the window's midpoint frame and its audio for a cue,
// padded by x.PadS on both sides (DefaultPadS when zero). Files already on
// disk are reused rather than re-encoded.
func (x *Extractor) ExtractLine(ctx context.Context, videoPath string, startMS, endMS int64) (LineMedia, error) {
	pad := x.PadS
	if pad == 0 {
		pad = DefaultPadS
	}
	start := MSToS(startMS) - pad
	if start < 0 {
		start = 0
	}
	end := MSToS(endMS) + pad

	m := LineMedia{
		ScreenshotPath: x.ScreenshotPath(videoPath, startMS, endMS),
		AudioPath:      x.AudioPath(videoPath, startMS, endMS),
		StartS:         start,
		EndS:           end,
	}

	if !exists(m.ScreenshotPath) {
		mid := start + (end-start)/2
		if err := x.Screenshot(ctx, videoPath, mid, m.ScreenshotPath); err != nil {
			return LineMedia{}, err
		}
	}
	if !exists(m.AudioPath) {
		if err := x.CutAudio(ctx, videoPath, start, end, m.AudioPath); err != nil {
			return LineMedia{}, err
		}
	}
	return m, nil
}
