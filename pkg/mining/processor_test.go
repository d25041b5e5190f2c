package mining

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/subsmith/subsmith/pkg/analyze"
	"github.com/subsmith/subsmith/pkg/dict"
	"github.com/subsmith/subsmith/pkg/pitch"
)

var (
	sharedAnalyzer     *analyze.Analyzer
	sharedAnalyzerOnce sync.Once
)

func testAnalyzer(t *testing.T) *analyze.Analyzer {
	t.Helper()
	sharedAnalyzerOnce.Do(func() {
		a, err := analyze.NewAnalyzer()
		if err != nil {
			t.Fatalf("NewAnalyzer: %v", err)
		}
		sharedAnalyzer = a
	})
	return sharedAnalyzer
}

type fakeDefs struct {
	name    string
	entries map[string]string
}

func (f *fakeDefs) Name() string { return f.name }
func (f *fakeDefs) LookupDefinition(term string) (string, bool, error) {
	v, ok := f.entries[term]
	return v, ok, nil
}

type fakeAudio struct {
	name    string
	entries map[string]dict.AudioEntry
}

func (f *fakeAudio) Name() string { return f.name }
func (f *fakeAudio) LookupAudio(term string) (dict.AudioEntry, bool, error) {
	v, ok := f.entries[term]
	return v, ok, nil
}

type fakeFreq struct {
	name    string
	entries map[string]dict.FrequencyEntry
}

func (f *fakeFreq) Name() string { return f.name }
func (f *fakeFreq) LookupFrequency(term string) (dict.FrequencyEntry, bool, error) {
	v, ok := f.entries[term]
	return v, ok, nil
}

// writeRun lays out a run directory: subtitles, word list, a placeholder
// video file, and pre-extracted media so no ffmpeg binary is needed.
func writeRun(t *testing.T, srt string, words string, mediaCues [][2]int64) Config {
	t.Helper()
	dir := t.TempDir()
	video := filepath.Join(dir, "ep.mkv")
	subsPath := filepath.Join(dir, "ep.srt")
	wordsPath := filepath.Join(dir, "words.txt")
	outDir := filepath.Join(dir, "out")

	for path, content := range map[string]string{
		video:     "not a real video",
		subsPath:  srt,
		wordsPath: words,
	} {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, cue := range mediaCues {
		for _, ext := range []string{".jpg", ".m4a"} {
			name := fmt.Sprintf("ep_%d_%d%s", cue[0], cue[1], ext)
			if err := os.WriteFile(filepath.Join(outDir, name), []byte("media"), 0o644); err != nil {
				t.Fatal(err)
			}
		}
	}

	return Config{
		VideoPath:  video,
		SubsPath:   subsPath,
		WordsPath:  wordsPath,
		OutDir:     outDir,
		FFmpegPath: filepath.Join(dir, "no-such-ffmpeg"),
		Workers:    2,
	}
}

const schoolSRT = `1
00:00:01,000 --> 00:00:03,000
ジョンは学校に行った。

2
00:00:04,000 --> 00:00:05,500
おはよう。

`

func TestRunEndToEnd(t *testing.T) {
	cfg := writeRun(t, schoolSRT, "学校, 行く", [][2]int64{{1000, 3000}})
	sources := Sources{
		Definitions: []dict.DefinitionSource{&fakeDefs{name: "jmdict", entries: map[string]string{
			"学校": "<ol><li>school</li></ol>",
			"行く": "<ol><li>to go</li></ol>",
		}}},
		Audio: []dict.AudioSource{&fakeAudio{name: "nhk", entries: map[string]dict.AudioEntry{
			"学校": {
				Accents:   []pitch.Accent{{Reading: "ガッコー", Position: "[0]"}},
				PitchFrom: "nhk",
				Audio:     []byte("clip"),
				MIME:      "audio/mpeg",
				AudioFrom: "nhk",
			},
		}}},
		Frequency: []dict.FrequencySource{&fakeFreq{name: "bccwj", entries: map[string]dict.FrequencyEntry{
			"学校": {Display: "262", Rank: 262},
		}}},
	}
	p, err := NewProcessor(cfg, testAnalyzer(t), sources, nil)
	if err != nil {
		t.Fatalf("NewProcessor: %v", err)
	}
	res, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.LinesTotal != 2 || res.LinesMatched != 1 || res.LinesFailed != 0 {
		t.Errorf("line stats = %+v", res)
	}
	if len(res.Cards) != 2 {
		t.Fatalf("got %d cards, want 2", len(res.Cards))
	}

	var words []string
	for _, c := range res.Cards {
		words = append(words, c.Word)
	}
	got := strings.Join(words, ",")
	if got != "学校,行く" && got != "行く,学校" {
		t.Fatalf("card words = %s", got)
	}
	if res.Cards[0].Picture == "" || res.Cards[0].Picture != res.Cards[1].Picture {
		t.Error("both cards must reference the same screenshot")
	}
	if res.Cards[0].SentenceAudio != res.Cards[1].SentenceAudio {
		t.Error("both cards must reference the same sentence audio")
	}

	for _, c := range res.Cards {
		if c.Sentence != "ジョンは学校に行った。" {
			t.Errorf("sentence = %q", c.Sentence)
		}
		if c.SentenceFurigana == "" {
			t.Error("furigana must be present")
		}
		if c.StartTime != 0.75 || c.EndTime != 3.25 {
			t.Errorf("padded window = [%v, %v]", c.StartTime, c.EndTime)
		}
		if c.Episode != "S01E01" {
			t.Errorf("episode = %q", c.Episode)
		}
		var other string
		if c.Word == "学校" {
			other = "行く"
			if c.PitchType != "平板式" || c.PitchPosition != "[0]" {
				t.Errorf("学校 pitch = %s %s", c.PitchType, c.PitchPosition)
			}
			if c.Frequency != "262" || c.FrequencySort != "262" {
				t.Errorf("学校 frequency = %q sort %q", c.Frequency, c.FrequencySort)
			}
			if !strings.HasPrefix(c.WordAudio, "data:audio/mpeg;base64,") {
				t.Errorf("word audio = %q", c.WordAudio)
			}
			if !strings.Contains(c.AllReadings, "ガッコー") {
				t.Errorf("all readings = %q", c.AllReadings)
			}
		} else {
			other = "学校"
			if c.Lemma != "行く" {
				t.Errorf("行く lemma = %q", c.Lemma)
			}
		}
		if c.Word == other {
			t.Error("words must be distinct")
		}
		if c.Definition == "" {
			t.Errorf("%s definition missing", c.Word)
		}
	}
}

func TestRunPreservesLineOrder(t *testing.T) {
	var srt strings.Builder
	var cues [][2]int64
	for i := 0; i < 12; i++ {
		start := int64(i+1) * 2000
		end := start + 1000
		fmt.Fprintf(&srt, "%d\n00:00:%02d,000 --> 00:00:%02d,000\n学校%d\n\n", i+1, (i+1)*2, (i+1)*2+1, i)
		cues = append(cues, [2]int64{start, end})
	}
	cfg := writeRun(t, srt.String(), "学校", cues)
	cfg.Workers = 4

	p, err := NewProcessor(cfg, testAnalyzer(t), Sources{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	res, err := p.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Cards) != 12 {
		t.Fatalf("got %d cards, want 12", len(res.Cards))
	}
	for i, c := range res.Cards {
		if want := fmt.Sprintf("学校%d", i); c.Sentence != want {
			t.Errorf("card %d sentence = %q, want %q", i, c.Sentence, want)
		}
	}
}

func TestMediaFailureSkipsLineOnly(t *testing.T) {
	// Media pre-extracted only for the second cue; the first line has to
	// shell out to a binary that does not exist and is abandoned.
	srt := `1
00:00:01,000 --> 00:00:03,000
学校はここだ。

2
00:00:04,000 --> 00:00:06,000
学校に行く。

`
	cfg := writeRun(t, srt, "学校", [][2]int64{{4000, 6000}})
	p, err := NewProcessor(cfg, testAnalyzer(t), Sources{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	res, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("media failure must not fail the run: %v", err)
	}
	if res.LinesFailed != 1 {
		t.Errorf("LinesFailed = %d, want 1", res.LinesFailed)
	}
	if len(res.Cards) != 1 || res.Cards[0].Sentence != "学校に行く。" {
		t.Errorf("cards = %+v", res.Cards)
	}
}

func TestRunInterrupted(t *testing.T) {
	cfg := writeRun(t, schoolSRT, "学校", [][2]int64{{1000, 3000}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p, err := NewProcessor(cfg, testAnalyzer(t), Sources{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	res, err := p.Run(ctx)
	if err != nil {
		t.Fatalf("interruption must not be an error: %v", err)
	}
	if !res.Interrupted {
		t.Error("Interrupted not set")
	}
}

func TestNewProcessorRejectsBadConfig(t *testing.T) {
	_, err := NewProcessor(Config{}, nil, Sources{}, nil)
	if err == nil {
		t.Fatal("expected validation error")
	}
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error type = %T", err)
	}
	if len(cfgErr.Problems) < 4 {
		t.Errorf("problems = %v, want every missing input reported", cfgErr.Problems)
	}
}

func TestForcedReadingKeepsSurfaceWord(t *testing.T) {
	srt := `1
00:00:01,000 --> 00:00:03,000
蛍が飛んでいる。

`
	cfg := writeRun(t, srt, "蛍(ほたる)", [][2]int64{{1000, 3000}})
	sources := Sources{
		Definitions: []dict.DefinitionSource{&fakeDefs{name: "jmdict", entries: map[string]string{
			"ほたる": "<ol><li>firefly</li></ol>",
		}}},
	}
	p, err := NewProcessor(cfg, testAnalyzer(t), sources, nil)
	if err != nil {
		t.Fatal(err)
	}
	res, err := p.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Cards) != 1 {
		t.Fatalf("got %d cards", len(res.Cards))
	}
	c := res.Cards[0]
	if c.Word != "蛍" {
		t.Errorf("word = %q, a forced-reading hit must keep the surface", c.Word)
	}
	if c.Definition == "" {
		t.Error("definition missing")
	}
}
