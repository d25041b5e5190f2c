package mining

import (
	"go.uber.org/zap"

	"github.com/subsmith/subsmith/pkg/dict"
)

// Sources are the dictionary collaborators a run resolves against, each
// list in ascending priority order. Empty lists are fine; the matching
// card fields stay empty.
type Sources struct {
	Definitions []dict.DefinitionSource
	Audio       []dict.AudioSource
	Frequency   []dict.FrequencySource
}

// chains instantiates the three independent fallback chains over the
// configured source lists. A source failing mid-lookup is logged and
// treated as a miss for that source only.
func (s Sources) chains(log *zap.SugaredLogger) (
	def dict.Chain[dict.DefinitionSource, string],
	audio dict.Chain[dict.AudioSource, dict.AudioEntry],
	freq dict.Chain[dict.FrequencySource, dict.FrequencyEntry],
) {
	onError := func(kind string) func(source, candidate string, err error) {
		return func(source, candidate string, err error) {
			log.Warnw("source lookup failed", "chain", kind, "source", source, "candidate", candidate, "error", err)
		}
	}
	def = dict.Chain[dict.DefinitionSource, string]{
		Sources: s.Definitions,
		Lookup: func(src dict.DefinitionSource, candidate string) (string, bool, error) {
			return src.LookupDefinition(candidate)
		},
		OnError: onError("definition"),
	}
	audio = dict.Chain[dict.AudioSource, dict.AudioEntry]{
		Sources: s.Audio,
		Lookup: func(src dict.AudioSource, candidate string) (dict.AudioEntry, bool, error) {
			return src.LookupAudio(candidate)
		},
		OnError: onError("audio"),
	}
	freq = dict.Chain[dict.FrequencySource, dict.FrequencyEntry]{
		Sources: s.Frequency,
		Lookup: func(src dict.FrequencySource, candidate string) (dict.FrequencyEntry, bool, error) {
			return src.LookupFrequency(candidate)
		},
		OnError: onError("frequency"),
	}
	return def, audio, freq
}
