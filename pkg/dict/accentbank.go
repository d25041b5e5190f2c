package dict

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/subsmith/subsmith/pkg/pitch"
)

// AccentBank is an audio/pitch source backed by a bank file on disk. Two
// formats are supported:
//
//   - a markup bank: a JSON array of {term, markup, audio, mime} records,
//     where markup is the raw span-level accent markup an indexed
//     pronunciation dictionary emits (parsed through pitch.ExtractAccents
//     at load time) and audio is a path relative to the bank file;
//   - a Yomichan term_meta_bank: triples [term, "pitch", {reading,
//     pitches: [{position}, ...]}], pitch-only.
type AccentBank struct {
	name    string
	baseDir string
	entries map[string][]bankEntry
}

type bankEntry struct {
	accents   []pitch.Accent
	audioPath string // relative to baseDir, empty for pitch-only entries
	mime      string
}

type markupBankRecord struct {
	Term   string `json:"term"`
	Markup string `json:"markup"`
	Audio  string `json:"audio"`
	MIME   string `json:"mime"`
}

// LoadMarkupBank reads a markup bank file.
func LoadMarkupBank(path, name string) (*AccentBank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read accent bank: %w", err)
	}

	var records []markupBankRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse accent bank %s: %w", path, err)
	}

	bank := &AccentBank{
		name:    name,
		baseDir: filepath.Dir(path),
		entries: make(map[string][]bankEntry, len(records)),
	}
	for _, rec := range records {
		if rec.Term == "" {
			continue
		}
		mime := rec.MIME
		if mime == "" && rec.Audio != "" {
			mime = mimeForExt(filepath.Ext(rec.Audio))
		}
		bank.entries[rec.Term] = append(bank.entries[rec.Term], bankEntry{
			accents:   pitch.ExtractAccents(rec.Markup),
			audioPath: rec.Audio,
			mime:      mime,
		})
	}
	return bank, nil
}

// LoadYomichanPitchBank reads "pitch" entries from a Yomichan
// term_meta_bank file. The resulting source carries no audio.
func LoadYomichanPitchBank(path, name string) (*AccentBank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pitch bank: %w", err)
	}

	var raw [][]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse pitch bank %s: %w", path, err)
	}

	bank := &AccentBank{
		name:    name,
		baseDir: filepath.Dir(path),
		entries: map[string][]bankEntry{},
	}
	for _, entry := range raw {
		if len(entry) < 3 {
			continue
		}
		var term, metaType string
		if err := json.Unmarshal(entry[0], &term); err != nil {
			continue
		}
		if err := json.Unmarshal(entry[1], &metaType); err != nil || metaType != "pitch" {
			continue
		}
		var value struct {
			Reading string `json:"reading"`
			Pitches []struct {
				Position int `json:"position"`
			} `json:"pitches"`
		}
		if err := json.Unmarshal(entry[2], &value); err != nil || value.Reading == "" {
			continue
		}
		var accents []pitch.Accent
		for _, p := range value.Pitches {
			accents = append(accents, pitch.Accent{
				Reading:  value.Reading,
				Position: pitch.PositionLabel(p.Position),
			})
		}
		if len(accents) == 0 {
			continue
		}
		bank.entries[term] = append(bank.entries[term], bankEntry{accents: accents})
	}
	return bank, nil
}

func mimeForExt(ext string) string {
	switch ext {
	case ".mp3":
		return "audio/mpeg"
	case ".aac":
		return "audio/aac"
	case ".wav":
		return "audio/wav"
	case ".ogg":
		return "audio/ogg"
	case ".m4a":
		return "audio/mp4"
	}
	return "application/octet-stream"
}

// Len reports the number of distinct terms in the bank.
func (b *AccentBank) Len() int { return len(b.entries) }

// Name implements Source.
func (b *AccentBank) Name() string { return b.name }

// LookupAudio implements AudioSource. Audio bytes are read lazily; a
// missing clip file is a real error (the entry claims audio it cannot
// deliver) and surfaces as a CollaboratorFailure for this source.
func (b *AccentBank) LookupAudio(term string) (AudioEntry, bool, error) {
	entries, ok := b.entries[term]
	if !ok {
		return AudioEntry{}, false, nil
	}

	out := AudioEntry{}
	for _, e := range entries {
		if len(e.accents) > 0 {
			out.Accents = append(out.Accents, e.accents...)
			out.PitchFrom = b.name
		}
		if e.audioPath != "" && out.Audio == nil {
			data, err := os.ReadFile(filepath.Join(b.baseDir, e.audioPath))
			if err != nil {
				return AudioEntry{}, false, fmt.Errorf("failed to read audio clip for %s: %w", term, err)
			}
			out.Audio = data
			out.MIME = e.mime
			out.AudioFrom = b.name
		}
	}
	if out.Accents == nil && out.Audio == nil {
		return AudioEntry{}, false, nil
	}
	return out, true, nil
}
