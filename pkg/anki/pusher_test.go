package anki

import (
	"context"
	"strings"
	"testing"

	"github.com/subsmith/subsmith/pkg/card"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{-1, "00:00"},
		{0, "00:00"},
		{65.5, "01:05"},
		{599, "09:59"},
		{3665.5, "1:01:05"},
	}
	for _, tt := range tests {
		if got := FormatTimestamp(tt.seconds); got != tt.want {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestStripDataURI(t *testing.T) {
	if got := stripDataURI("data:image/jpeg;base64,YWJj"); got != "YWJj" {
		t.Errorf("got %q", got)
	}
	if got := stripDataURI("YWJj"); got != "YWJj" {
		t.Errorf("bare base64 should pass through, got %q", got)
	}
}

func TestHighlightWord(t *testing.T) {
	got := highlightWord("学校に行った。", "学校")
	if got != `<span class="highlight">学校</span>に行った。` {
		t.Errorf("got %q", got)
	}
	if got := highlightWord("学校に行った。", "先生"); got != "学校に行った。" {
		t.Errorf("absent word must leave sentence untouched, got %q", got)
	}
}

func TestReadingHTMLRegeneratesMarkup(t *testing.T) {
	c := card.Card{
		Word:          "蛍",
		Reading:       "ホタル",
		PitchPosition: "[1]",
		AllReadings:   `[{"reading":"ホタル","pitch_position":"[1]"}]`,
	}
	got := readingHTML(c)
	if !strings.HasPrefix(got, "<ol><li>") {
		t.Fatalf("not a list: %q", got)
	}
	// Non-katakana headword converts the reading to hiragana.
	if !strings.Contains(got, "ほ") || strings.Contains(got, "ホ") {
		t.Errorf("reading not converted to hiragana: %q", got)
	}
	if !strings.Contains(got, "border-top-style:solid") {
		t.Errorf("missing accent markup: %q", got)
	}
}

func TestReadingHTMLKeepsKatakanaHeadword(t *testing.T) {
	c := card.Card{
		Word:          "コーヒー",
		Reading:       "コーヒー",
		PitchPosition: "[3]",
	}
	got := readingHTML(c)
	if !strings.Contains(got, "コ") {
		t.Errorf("katakana headword must keep katakana reading: %q", got)
	}
}

func TestPushUploadsMediaAndNotes(t *testing.T) {
	fake, client := newFake(t, map[string]string{
		"version":        "6",
		"createDeck":     "1",
		"storeMediaFile": `"ok"`,
		"addNote":        "42",
	})
	p := NewPusher(client, PushConfig{Deck: "Mining", Model: "Japanese", Tags: []string{"auto"}}, nil)

	cards := []card.Card{{
		Word:          "学校",
		Sentence:      "学校に行った。",
		Picture:       "data:image/jpeg;base64,YWJj",
		SentenceAudio: "data:audio/mp4;base64,YWJj",
	}}
	pushed, failed, err := p.Push(context.Background(), cards)
	if err != nil {
		t.Fatalf("Push: %v", err)
	}
	if pushed != 1 || failed != 0 {
		t.Errorf("pushed=%d failed=%d", pushed, failed)
	}

	var actions []string
	for _, r := range fake.requests {
		actions = append(actions, r.Action)
	}
	want := "version,createDeck,storeMediaFile,storeMediaFile,addNote"
	if got := strings.Join(actions, ","); got != want {
		t.Errorf("actions = %s, want %s", got, want)
	}
}

func TestPushFailsFastWhenUnreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1") // nothing listens here
	p := NewPusher(client, PushConfig{Deck: "Mining", Model: "Japanese"}, nil)
	_, failed, err := p.Push(context.Background(), []card.Card{{Word: "学校"}})
	if err == nil {
		t.Fatal("expected handshake error")
	}
	if failed != 1 {
		t.Errorf("failed = %d, want full batch", failed)
	}
}

func TestMiscInfo(t *testing.T) {
	c := card.Card{AnimeName: "Fumetsu", Episode: "S01E03", StartTime: 65.5}
	if got := miscInfo(c); got != "Fumetsu | S01E03 | 01:05" {
		t.Errorf("miscInfo = %q", got)
	}
	if got := miscInfo(card.Card{}); got != "" {
		t.Errorf("empty card miscInfo = %q", got)
	}
}
