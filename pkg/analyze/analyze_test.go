package analyze

import (
	"strings"
	"testing"
)

func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	a, err := NewAnalyzer()
	if err != nil {
		t.Fatalf("NewAnalyzer failed: %v", err)
	}
	return a
}

func TestAnalyzeInflectedVerb(t *testing.T) {
	a := newTestAnalyzer(t)

	tokens := a.Analyze("学校に行った")
	if len(tokens) == 0 {
		t.Fatal("no tokens produced")
	}

	var sawIku bool
	for _, tok := range tokens {
		if tok.BaseForm == "行く" {
			sawIku = true
		}
	}
	if !sawIku {
		t.Errorf("expected a token with base form 行く, got %+v", tokens)
	}
}

func TestLemmas(t *testing.T) {
	a := newTestAnalyzer(t)

	lemmas := a.Lemmas("ジョンは学校に行った。")
	found := map[string]bool{}
	for _, l := range lemmas {
		found[l] = true
	}
	for _, want := range []string{"学校", "行く"} {
		if !found[want] {
			t.Errorf("Lemmas missing %q, got %v", want, lemmas)
		}
	}
}

func TestLemmaReconstruction(t *testing.T) {
	a := newTestAnalyzer(t)

	tests := []struct {
		word string
		want string
	}{
		{"食べた", "食べる"},
		{"学校", "学校"},
		{"", ""},
	}
	for _, tt := range tests {
		got := a.Lemma(tt.word)
		if tt.word == "" {
			// Empty input falls back to itself.
			if got != "" {
				t.Errorf("Lemma(%q) = %q, want empty", tt.word, got)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("Lemma(%q) = %q, want %q", tt.word, got, tt.want)
		}
	}
}

func TestReading(t *testing.T) {
	a := newTestAnalyzer(t)

	got := a.Reading("学校")
	if got != "ガッコウ" {
		t.Errorf("Reading(学校) = %q, want ガッコウ", got)
	}
}

func TestFurigana(t *testing.T) {
	a := newTestAnalyzer(t)

	got := a.Furigana("学校に行った")
	if !strings.Contains(got, "学校[がっこう]") {
		t.Errorf("Furigana missing gloss for 学校: %q", got)
	}
	// Okurigana stays outside the brackets.
	if !strings.Contains(got, "行[い]っ") && !strings.Contains(got, "行っ[いっ]") {
		t.Errorf("Furigana missing gloss for 行った: %q", got)
	}
	if a.Furigana("") != "" {
		t.Error("Furigana of empty input should be empty")
	}
}
