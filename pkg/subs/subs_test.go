package subs

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/subsmith/subsmith/pkg/vocab"
)

func TestLoadSRT(t *testing.T) {
	srt := `1
00:00:01,000 --> 00:00:03,500
ジョンは学校に行った。

2
00:00:04,000 --> 00:00:06,000
<i>コーヒーを飲む</i>
`
	path := filepath.Join(t.TempDir(), "ep.srt")
	if err := os.WriteFile(path, []byte(srt), 0644); err != nil {
		t.Fatal(err)
	}

	lines, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0].StartMS != 1000 || lines[0].EndMS != 3500 {
		t.Errorf("timing = %d..%d, want 1000..3500", lines[0].StartMS, lines[0].EndMS)
	}
	if Normalize(lines[0].Raw) != "ジョンは学校に行った。" {
		t.Errorf("normalized text = %q", Normalize(lines[0].Raw))
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.srt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"ass override stripped", `{\an8}こんにちは`, "こんにちは"},
		{"html stripped", "<i>こんにちは</i>", "こんにちは"},
		{"line break escape", `一行目\N二行目`, "一行目 二行目"},
		{"ideographic space", "あ　い", "あ い"},
		{"whitespace collapsed", "あ   い \t う", "あ い う"},
		{"empty", "", ""},
		{"markup only", `{\i1}<b></b>`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMatch(t *testing.T) {
	words := []vocab.TargetWord{
		{Surface: "学校"},
		{Surface: "行く"},
		{Surface: "精霊"},
	}
	sentence := "ジョンは学校に行った。"
	lemmas := []string{"ジョン", "は", "学校", "に", "行く", "た", "。"}

	got := Match(sentence, lemmas, words)
	want := []vocab.TargetWord{{Surface: "学校"}, {Surface: "行く"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Match = %+v, want %+v", got, want)
	}
}

func TestMatchSubstringFallback(t *testing.T) {
	// The analyzer mis-segmented the word, but it still appears literally.
	words := []vocab.TargetWord{{Surface: "精霊"}}
	got := Match("精霊の守り人", []string{"精", "霊", "の", "守り", "人"}, words)
	if len(got) != 1 || got[0].Surface != "精霊" {
		t.Errorf("Match = %+v, want substring hit for 精霊", got)
	}
}

func TestMatchNone(t *testing.T) {
	words := []vocab.TargetWord{{Surface: "学校"}}
	if got := Match("こんにちは", []string{"こんにちは"}, words); got != nil {
		t.Errorf("Match = %+v, want nil", got)
	}
	if got := Match("", []string{"学校"}, words); got != nil {
		t.Errorf("empty sentence must match nothing, got %+v", got)
	}
}

func TestEpisodeInfo(t *testing.T) {
	tests := []struct {
		name    string
		video   string
		words   string
		title   string
		episode string
	}{
		{"underscore code in word list", "show.mkv", "words_S1_E5.txt", "show", "S01E05"},
		{"plain code in word list", "show.mkv", "words_S02E11.txt", "show", "S02E11"},
		{"ep only", "show.mkv", "words_Ep7.txt", "show", "S01E07"},
		{"code from video", "My_Show_S01E03_1080p.mkv", "words.txt", "My Show", "S01E03"},
		{"bracket number from video", "[Group] Fumetsu [03].mkv", "words.txt", "Fumetsu", "S01E03"},
		{"nothing recognizable", "movie.mkv", "words.txt", "movie", "S01E01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, episode := EpisodeInfo(tt.video, tt.words)
			if title != tt.title || episode != tt.episode {
				t.Errorf("EpisodeInfo = (%q, %q), want (%q, %q)", title, episode, tt.title, tt.episode)
			}
		})
	}
}
