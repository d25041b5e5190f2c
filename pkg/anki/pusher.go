package anki

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/subsmith/subsmith/pkg/card"
	"github.com/subsmith/subsmith/pkg/kana"
	"github.com/subsmith/subsmith/pkg/pitch"
)

// PushConfig names the deck and note type that receive cards.
type PushConfig struct {
	Deck            string
	Model           string
	Tags            []string
	AllowDuplicates bool
}

// Pusher uploads cards as Anki notes, media first, then the note itself.
type Pusher struct {
	client *Client
	cfg    PushConfig
	log    *zap.SugaredLogger
}

// NewPusher wires a pusher to an AnkiConnect client.
func NewPusher(client *Client, cfg PushConfig, log *zap.SugaredLogger) *Pusher {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Pusher{client: client, cfg: cfg, log: log}
}

// Push uploads every card and returns how many succeeded and failed. A card
// failing never stops the batch; an unreachable AnkiConnect at the initial
// handshake does.
func (p *Pusher) Push(ctx context.Context, cards []card.Card) (pushed, failed int, err error) {
	version, err := p.client.Version(ctx)
	if err != nil {
		return 0, len(cards), fmt.Errorf("ankiconnect handshake failed: %w", err)
	}
	p.log.Infow("connected to ankiconnect", "version", version, "deck", p.cfg.Deck, "cards", len(cards))

	if err := p.client.CreateDeck(ctx, p.cfg.Deck); err != nil {
		p.log.Warnw("deck creation failed", "deck", p.cfg.Deck, "error", err)
	}

	// perWord disambiguates media filenames when several cards share a word.
	perWord := make(map[string]int)
	for i, c := range cards {
		perWord[c.Word]++
		if err := p.pushOne(ctx, c, perWord[c.Word]); err != nil {
			p.log.Warnw("card push failed", "word", c.Word, "index", i+1, "error", err)
			failed++
			continue
		}
		p.log.Debugw("card pushed", "word", c.Word, "index", i+1)
		pushed++
	}
	return pushed, failed, nil
}

func (p *Pusher) pushOne(ctx context.Context, c card.Card, nth int) error {
	picture, err := p.uploadMedia(ctx, c.Picture, fmt.Sprintf("%s_%d_pic.jpg", c.Word, nth))
	if err != nil {
		p.log.Warnw("picture upload failed", "word", c.Word, "error", err)
	}
	wordAudio, err := p.uploadAudio(ctx, c.WordAudio, c.Word, nth, "word")
	if err != nil {
		p.log.Warnw("word audio upload failed", "word", c.Word, "error", err)
	}
	sentenceAudio, err := p.uploadAudio(ctx, c.SentenceAudio, c.Word, nth, "sent")
	if err != nil {
		p.log.Warnw("sentence audio upload failed", "word", c.Word, "error", err)
	}

	fields := map[string]string{
		"word":                 c.Word,
		"sentence":             highlightWord(c.Sentence, c.Word),
		"sentenceFurigana":     c.SentenceFurigana,
		"sentenceEng":          "",
		"reading":              readingHTML(c),
		"sentenceCard":         "",
		"audioCard":            "",
		"notes":                "",
		"picture":              imgTag(picture),
		"wordAudio":            soundTag(wordAudio),
		"sentenceAudio":        soundTag(sentenceAudio),
		"selectionText":        "",
		"definition":           c.Definition,
		"glossary":             c.Definition,
		"pitchPosition":        pitchPositionHTML(c.PitchPosition),
		"pitch":                c.PitchType,
		"frequency":            frequencyHTML(c.Frequency),
		"freqSort":             c.FrequencySort,
		"miscInfo":             miscInfo(c),
		"dictionaryPreference": "",
	}

	_, err = p.client.AddNote(ctx, Note{
		DeckName:  p.cfg.Deck,
		ModelName: p.cfg.Model,
		Fields:    fields,
		Tags:      p.cfg.Tags,
		Options: NoteOptions{
			AllowDuplicate: p.cfg.AllowDuplicates,
			DuplicateScope: "collection",
		},
	})
	return err
}

func (p *Pusher) uploadMedia(ctx context.Context, dataURI, filename string) (string, error) {
	b64 := stripDataURI(dataURI)
	if b64 == "" {
		return "", nil
	}
	if err := p.client.StoreMediaFile(ctx, filename, b64); err != nil {
		return "", err
	}
	return filename, nil
}

func (p *Pusher) uploadAudio(ctx context.Context, dataURI, word string, nth int, kind string) (string, error) {
	if dataURI == "" {
		return "", nil
	}
	return p.uploadMedia(ctx, dataURI, fmt.Sprintf("%s_%d_%s.%s", word, nth, kind, audioExt(dataURI)))
}

// stripDataURI drops a data:<mime>;base64, prefix if present.
func stripDataURI(s string) string {
	if !strings.HasPrefix(s, "data:") {
		return s
	}
	_, b64, ok := strings.Cut(s, ";base64,")
	if !ok {
		return s
	}
	return b64
}

func audioExt(dataURI string) string {
	switch {
	case strings.Contains(dataURI, "audio/mpeg"):
		return "mp3"
	case strings.Contains(dataURI, "audio/aac"):
		return "aac"
	case strings.Contains(dataURI, "audio/mp4"):
		return "m4a"
	default:
		return "m4a"
	}
}

func imgTag(filename string) string {
	if filename == "" {
		return ""
	}
	return fmt.Sprintf(`<img src="%s" />`, filename)
}

func soundTag(filename string) string {
	if filename == "" {
		return ""
	}
	return fmt.Sprintf("[sound:%s]", filename)
}

func highlightWord(sentence, word string) string {
	if word == "" || !strings.Contains(sentence, word) {
		return sentence
	}
	return strings.ReplaceAll(sentence, word, `<span class="highlight">`+word+`</span>`)
}

func pitchPositionHTML(position string) string {
	if position == "" {
		return ""
	}
	n := strings.Trim(position, "[]")
	return fmt.Sprintf(`<ol><li><span style="display:inline;"><span>[</span><span>%s</span><span>]</span></span></li></ol>`, n)
}

func frequencyHTML(display string) string {
	if display == "" {
		return ""
	}
	return fmt.Sprintf(`<ul style="text-align: left;"><li>BCCWJ: %s</li></ul>`, display)
}

// accentRef is one entry of a card's all_readings JSON field.
type accentRef struct {
	Reading       string `json:"reading"`
	PitchPosition string `json:"pitch_position"`
}

// readingHTML renders every accent candidate recorded on the card as an
// ordered list, regenerating pitch markup over cleaned hiragana. Katakana
// headwords keep their katakana reading.
func readingHTML(c card.Card) string {
	if c.Reading == "" {
		return ""
	}
	var refs []accentRef
	if c.AllReadings != "" {
		if err := json.Unmarshal([]byte(c.AllReadings), &refs); err != nil {
			refs = nil
		}
	}
	if len(refs) == 0 {
		refs = []accentRef{{Reading: c.Reading, PitchPosition: c.PitchPosition}}
	}

	var b strings.Builder
	b.WriteString("<ol>")
	for _, ref := range refs {
		clean := kana.StripMarkup(ref.Reading)
		if !kana.IsFullyKatakana(c.Word) {
			clean = kana.ExpandLongVowel(kana.KatakanaToHiragana(clean))
		}
		drop, ok := pitch.ParsePosition(ref.PitchPosition)
		if ok && clean != "" {
			b.WriteString("<li>" + pitch.Render(clean, drop) + "</li>")
		} else {
			b.WriteString("<li>" + ref.Reading + "</li>")
		}
	}
	b.WriteString("</ol>")
	return b.String()
}

// miscInfo joins show, episode and cue timestamp for the note footer.
func miscInfo(c card.Card) string {
	var parts []string
	if c.AnimeName != "" {
		parts = append(parts, c.AnimeName)
	}
	if c.Episode != "" {
		parts = append(parts, c.Episode)
	}
	if c.StartTime > 0 {
		parts = append(parts, FormatTimestamp(c.StartTime))
	}
	return strings.Join(parts, " | ")
}

// FormatTimestamp renders seconds as mm:ss, or h:mm:ss past the hour mark.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		return "00:00"
	}
	total := int(seconds)
	h, m, s := total/3600, total%3600/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
