package mining

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/subsmith/subsmith/pkg/analyze"
	"github.com/subsmith/subsmith/pkg/card"
	"github.com/subsmith/subsmith/pkg/dict"
	"github.com/subsmith/subsmith/pkg/kana"
	"github.com/subsmith/subsmith/pkg/media"
	"github.com/subsmith/subsmith/pkg/pitch"
	"github.com/subsmith/subsmith/pkg/subs"
	"github.com/subsmith/subsmith/pkg/vocab"
)

// Processor runs the mining pipeline for one video/subtitle/word-list
// triple. It is safe to call Run once per Processor.
type Processor struct {
	cfg       Config
	analyzer  *analyze.Analyzer
	extractor *media.Extractor
	log       *zap.SugaredLogger

	defChain   dict.Chain[dict.DefinitionSource, string]
	audioChain dict.Chain[dict.AudioSource, dict.AudioEntry]
	freqChain  dict.Chain[dict.FrequencySource, dict.FrequencyEntry]
}

// Result is one run's output. Cards are in original subtitle line order,
// not yet deduplicated.
type Result struct {
	Cards        []card.Card
	Title        string
	Episode      string
	LinesTotal   int
	LinesMatched int
	LinesFailed  int // lines abandoned because media extraction failed
	Interrupted  bool
}

// NewProcessor validates cfg and assembles the pipeline. A validation
// failure means the run must not start.
func NewProcessor(cfg Config, analyzer *analyze.Analyzer, sources Sources, log *zap.SugaredLogger) (*Processor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	p := &Processor{
		cfg:      cfg,
		analyzer: analyzer,
		extractor: &media.Extractor{
			FFmpegPath:  cfg.FFmpegPath,
			VideoFilter: cfg.VideoFilter,
			OutDir:      cfg.OutDir,
			PadS:        cfg.PadS,
		},
		log: log,
	}
	p.defChain, p.audioChain, p.freqChain = sources.chains(log)
	return p, nil
}

// lineOutcome is one line's contribution, merged back in line order.
type lineOutcome struct {
	cards    []card.Card
	matched  bool
	mediaErr error
}

// Run mines the whole subtitle file. Lines are processed in parallel;
// cancellation stops scheduling new lines, lets lines in flight finish,
// and returns whatever cards were produced so far.
func (p *Processor) Run(ctx context.Context) (Result, error) {
	lines, err := subs.Load(p.cfg.SubsPath)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load subtitles: %w", err)
	}
	words, err := vocab.Load(p.cfg.WordsPath)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load word list: %w", err)
	}
	if err := os.MkdirAll(p.cfg.OutDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("failed to create output directory: %w", err)
	}

	title, episode := subs.EpisodeInfo(p.cfg.VideoPath, p.cfg.WordsPath)
	p.log.Infow("run starting",
		"title", title, "episode", episode,
		"lines", len(lines), "words", len(words), "workers", p.cfg.workers())

	outcomes := make([]lineOutcome, len(lines))
	pool := newWorkerPool(p.cfg.workers())
	pool.start(ctx)
	for i := range lines {
		i := i
		line := lines[i]
		if !pool.submit(ctx, func(jobCtx context.Context) {
			outcomes[i] = p.processLine(jobCtx, line, words, title, episode)
		}) {
			break
		}
	}
	pool.close()

	res := Result{
		Title:       title,
		Episode:     episode,
		LinesTotal:  len(lines),
		Interrupted: ctx.Err() != nil,
	}
	for _, out := range outcomes {
		if out.matched {
			res.LinesMatched++
		}
		if out.mediaErr != nil {
			res.LinesFailed++
		}
		res.Cards = append(res.Cards, out.cards...)
	}

	p.log.Infow("run finished",
		"cards", len(res.Cards),
		"matched_lines", res.LinesMatched,
		"failed_lines", res.LinesFailed,
		"interrupted", res.Interrupted)
	return res, nil
}

func (p *Processor) processLine(ctx context.Context, line subs.Line, words []vocab.TargetWord, title, episode string) lineOutcome {
	sent := subs.Normalize(line.Raw)
	if sent == "" {
		return lineOutcome{}
	}

	lemmas := p.analyzer.Lemmas(sent)
	matched := subs.Match(sent, lemmas, words)
	if len(matched) == 0 {
		return lineOutcome{}
	}
	p.log.Infow("line matched", "sentence", sent, "words", len(matched), "start_ms", line.StartMS)

	lm, err := p.extractor.ExtractLine(ctx, p.cfg.VideoPath, line.StartMS, line.EndMS)
	if err != nil {
		// Cards cannot exist without the paired screenshot and clip, so
		// the whole line is abandoned. The run continues.
		p.log.Warnw("media extraction failed, line skipped",
			"start_ms", line.StartMS, "end_ms", line.EndMS, "error", err)
		return lineOutcome{matched: true, mediaErr: err}
	}

	picture, err := media.FileToDataURI(lm.ScreenshotPath)
	if err != nil {
		p.log.Warnw("media encoding failed, line skipped", "path", lm.ScreenshotPath, "error", err)
		return lineOutcome{matched: true, mediaErr: err}
	}
	sentenceAudio, err := media.FileToDataURI(lm.AudioPath)
	if err != nil {
		p.log.Warnw("media encoding failed, line skipped", "path", lm.AudioPath, "error", err)
		return lineOutcome{matched: true, mediaErr: err}
	}

	furigana := p.analyzer.Furigana(sent)

	out := lineOutcome{matched: true}
	for _, w := range matched {
		c := p.buildCard(w, sent, furigana, lm, picture, sentenceAudio, title, episode)
		out.cards = append(out.cards, c)
	}
	return out
}

// buildCard resolves one matched word through the three independent chains
// and assembles its card. Chain misses leave fields empty; nothing here
// fails the card.
func (p *Processor) buildCard(w vocab.TargetWord, sent, furigana string, lm media.LineMedia, picture, sentenceAudio, title, episode string) card.Card {
	lemma := p.analyzer.Lemma(w.Surface)
	if w.ForcedLookupForm != "" {
		p.log.Debugw("using forced lookup form", "word", w.Surface, "form", w.ForcedLookupForm)
		lemma = w.ForcedLookupForm
	}
	candidates := vocab.Candidates(w.Surface, lemma, w)
	p.log.Debugw("resolving word", "word", w.Surface, "lemma", lemma, "candidates", candidates)

	defRes := p.defChain.Resolve(w.ForcedReading, candidates)
	audioRes := p.audioChain.Resolve(w.ForcedReading, candidates)
	freqRes := p.freqChain.Resolve("", candidates)

	c := card.Card{
		Word:             w.Surface,
		Sentence:         sent,
		SentenceFurigana: furigana,
		Picture:          picture,
		SentenceAudio:    sentenceAudio,
		AnimeName:        title,
		Episode:          episode,
		StartTime:        lm.StartS,
		EndTime:          lm.EndS,
		Lemma:            lemma,
	}

	if defRes.Found {
		c.Definition = defRes.Value
		// A hit through the forced kana reading keeps the literal surface
		// as the card's word; only a candidate hit promotes the query.
		if defRes.Query != w.ForcedReading {
			c.Word = defRes.Query
		}
		p.log.Debugw("definition resolved", "word", w.Surface, "query", defRes.Query, "source", defRes.Source)
	} else {
		p.log.Debugw("definition not found", "word", w.Surface)
	}

	if audioRes.Found {
		p.applyAudio(&c, w, audioRes)
	} else {
		p.log.Debugw("reading not found", "word", w.Surface)
	}

	if freqRes.Found {
		c.Frequency = freqRes.Value.Display
		c.FrequencySort = strconv.FormatFloat(freqRes.Value.Rank, 'f', -1, 64)
		p.log.Debugw("frequency resolved", "word", w.Surface, "display", c.Frequency, "source", freqRes.Source)
	}

	return c
}

// accentRef is one all_readings JSON entry; the column is a wire contract
// with the note templates.
type accentRef struct {
	Reading       string `json:"reading"`
	PitchPosition string `json:"pitch_position"`
}

func (p *Processor) applyAudio(c *card.Card, w vocab.TargetWord, res dict.Resolution[dict.AudioEntry]) {
	entry := res.Value

	target := w.ForcedReading
	if target == "" {
		target = p.analyzer.Reading(res.Query)
	}
	acc, ok := pitch.Select(entry.Accents, target)
	if ok {
		plain := acc.PlainReading()
		drop := acc.Drop()
		c.Reading = acc.Reading
		c.PitchPosition = pitch.PositionLabel(drop)
		c.PitchType = pitch.Classify(drop, kana.MoraCount(plain)).Label()
		c.PitchSource = entry.PitchFrom
		p.log.Debugw("reading resolved",
			"word", w.Surface, "reading", plain, "position", c.PitchPosition,
			"alternates", len(entry.Accents), "source", res.Source)
	}

	if len(entry.Accents) > 0 {
		refs := make([]accentRef, 0, len(entry.Accents))
		for _, a := range entry.Accents {
			refs = append(refs, accentRef{Reading: a.Reading, PitchPosition: pitch.PositionLabel(a.Drop())})
		}
		if data, err := json.Marshal(refs); err == nil {
			c.AllReadings = string(data)
		}
	}

	if len(entry.Audio) > 0 {
		c.WordAudio = media.BytesToDataURI(entry.Audio, entry.MIME)
		c.WordAudioSource = entry.AudioFrom
		p.log.Debugw("word audio resolved", "word", w.Surface, "source", entry.AudioFrom)
	}
}
