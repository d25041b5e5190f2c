// Package media extracts still frames and audio clips from a video by
// invoking an external ffmpeg binary. Output paths derive deterministically
// from the source name and cue timing, so re-runs and concurrent extraction
// for distinct lines never collide.
package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Extractor shells out to ffmpeg for screenshots and audio cuts.
type Extractor struct {
	// FFmpegPath is the binary to invoke; "ffmpeg" (resolved via PATH)
	// when empty.
	FFmpegPath string
	// VideoFilter is an optional -vf filter chain applied to screenshots.
	VideoFilter string
	// OutDir receives extracted files.
	OutDir string
	// PadS widens the extraction window on both sides, in seconds.
	// DefaultPadS when zero.
	PadS float64
}

// ExtractionError wraps an ffmpeg failure with the command's stderr, which
// is where ffmpeg explains itself.
type ExtractionError struct {
	Op     string
	Err    error
	Stderr string
}

func (e *ExtractionError) Error() string {
	msg := fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	if e.Stderr != "" {
		msg += ": " + lastLine(e.Stderr)
	}
	return msg
}

func (e *ExtractionError) Unwrap() error { return e.Err }

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return lines[len(lines)-1]
}

func (x *Extractor) ffmpeg() string {
	if x.FFmpegPath != "" {
		return x.FFmpegPath
	}
	return "ffmpeg"
}

// BaseName derives the shared stem for a line's media files.
func BaseName(videoPath string, startMS, endMS int64) string {
	stem := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	return fmt.Sprintf("%s_%d_%d", stem, startMS, endMS)
}

// ScreenshotPath returns the deterministic output path for a line's frame.
func (x *Extractor) ScreenshotPath(videoPath string, startMS, endMS int64) string {
	return filepath.Join(x.OutDir, BaseName(videoPath, startMS, endMS)+".jpg")
}

// AudioPath returns the deterministic output path for a line's clip.
func (x *Extractor) AudioPath(videoPath string, startMS, endMS int64) string {
	return filepath.Join(x.OutDir, BaseName(videoPath, startMS, endMS)+".m4a")
}

func (x *Extractor) run(ctx context.Context, op string, args []string) error {
	cmd := exec.CommandContext(ctx, x.ffmpeg(), args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return &ExtractionError{Op: op, Err: err, Stderr: stderr.String()}
	}
	return nil
}

// Screenshot captures a single frame at t seconds into out as a JPEG at
// roughly 95% quality.
func (x *Extractor) Screenshot(ctx context.Context, videoPath string, t float64, out string) error {
	args := []string{"-y", "-ss", fmt.Sprintf("%.3f", t), "-i", videoPath}
	if x.VideoFilter != "" {
		args = append(args, "-vf", x.VideoFilter)
	}
	args = append(args, "-vframes", "1", "-c:v", "mjpeg", "-q:v", "2", out)
	return x.run(ctx, "screenshot", args)
}

// CutAudio extracts the [start, end] second window into out as stereo AAC.
func (x *Extractor) CutAudio(ctx context.Context, videoPath string, start, end float64, out string) error {
	dur := end - start
	if dur < 0.01 {
		dur = 0.01
	}
	args := []string{
		"-y", "-ss", fmt.Sprintf("%.3f", start), "-t", fmt.Sprintf("%.3f", dur),
		"-i", videoPath, "-vn", "-ac", "2", "-ar", "48000",
		"-c:a", "aac", "-b:a", "192k", out,
	}
	return x.run(ctx, "audio cut", args)
}

// MSToS converts milliseconds to seconds.
func MSToS(ms int64) float64 { return float64(ms) / 1000.0 }

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

var mimeByExt = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".ogg":  "audio/ogg",
	".wav":  "audio/wav",
	".aac":  "audio/aac",
}

// FileToDataURI base64-encodes a file as a data URI, inferring the MIME
// type from the extension.
func FileToDataURI(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read media file: %w", err)
	}
	return BytesToDataURI(data, mimeByExt[strings.ToLower(filepath.Ext(path))]), nil
}

// BytesToDataURI base64-encodes raw bytes as a data URI.
func BytesToDataURI(data []byte, mime string) string {
	if mime == "" {
		mime = "application/octet-stream"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
