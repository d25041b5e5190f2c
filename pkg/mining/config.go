// Package mining orchestrates a full run: subtitle lines in, an ordered
// card sequence out. It owns the line loop, the per-word resolution against
// the configured fallback chains, and the worker pool that spreads lines
// across CPUs while keeping output in original line order.
package mining

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Config is everything a run needs, resolved before the core starts. The
// processor holds no ambient state beyond it.
type Config struct {
	// Required inputs.
	VideoPath string
	SubsPath  string
	WordsPath string

	// OutDir receives extracted media files.
	OutDir string

	// FFmpegPath overrides the ffmpeg binary; PATH lookup when empty.
	FFmpegPath string
	// VideoFilter is an optional ffmpeg -vf chain for screenshots.
	VideoFilter string
	// PadS widens each extraction window, in seconds.
	PadS float64

	// Workers is the line-loop parallelism; NumCPU when zero.
	Workers int
}

// ConfigError collects every problem found during validation so the
// operator sees the full list at once.
type ConfigError struct {
	Problems []string
}

func (e *ConfigError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}

// Validate checks the config before any processing begins. A non-nil
// return means the run must not start.
func (c *Config) Validate() error {
	var problems []string
	for _, in := range []struct{ label, path string }{
		{"video", c.VideoPath},
		{"subtitles", c.SubsPath},
		{"word list", c.WordsPath},
	} {
		if in.path == "" {
			problems = append(problems, fmt.Sprintf("%s path is required", in.label))
			continue
		}
		if _, err := os.Stat(in.path); err != nil {
			problems = append(problems, fmt.Sprintf("%s file not found: %s", in.label, in.path))
		}
	}
	if c.OutDir == "" {
		problems = append(problems, "output directory is required")
	}
	if c.PadS < 0 {
		problems = append(problems, "pad must not be negative")
	}
	if len(problems) > 0 {
		return &ConfigError{Problems: problems}
	}
	return nil
}

func (c *Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}
