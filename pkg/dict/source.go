// Package dict defines the dictionary source contracts the mining pipeline
// resolves against, the generic first-match-wins fallback resolver, and the
// concrete sources shipped with subsmith (sqlite definition store, frequency
// index, accent banks).
//
// A source list's slice order is its priority order, fixed at configuration
// time. "Not found" is an expected outcome and is modeled as ok=false, never
// as an error; a source returning an error is treated as a miss for that
// source only and the chain continues.
package dict

import (
	"sync"

	"github.com/subsmith/subsmith/pkg/pitch"
)

// DefinitionSource looks up definition HTML for a term.
type DefinitionSource interface {
	Name() string
	LookupDefinition(term string) (html string, ok bool, err error)
}

// AudioEntry is the bundle an audio/pitch source returns for a term.
type AudioEntry struct {
	Audio     []byte // clip bytes, may be nil when the source is pitch-only
	MIME      string
	AudioFrom string // identifier of the dictionary that supplied the clip

	// Accents holds every independent reading+accent pair the source
	// offers, in listed order; selection among them happens downstream
	// against the analyzer's reading.
	Accents   []pitch.Accent
	PitchFrom string
}

// AudioSource looks up audio and pitch-accent information for a term.
type AudioSource interface {
	Name() string
	LookupAudio(term string) (entry AudioEntry, ok bool, err error)
}

// FrequencyEntry is a corpus frequency record.
type FrequencyEntry struct {
	Display string  // display string, e.g. "1204" or "1204㋕"
	Rank    float64 // numeric sort rank, lower = more frequent
}

// FrequencySource looks up corpus frequency for a term.
type FrequencySource interface {
	Name() string
	LookupFrequency(term string) (entry FrequencyEntry, ok bool, err error)
}

// The Exclusive* wrappers impose a one-lookup-in-flight discipline on
// sources whose underlying handle is not safe for concurrent reads
// (external indexed-dictionary adapters, typically). Sources backed by
// database/sql or plain maps do not need them.

// ExclusiveDefinition serializes access to a DefinitionSource.
type ExclusiveDefinition struct {
	mu    sync.Mutex
	Inner DefinitionSource
}

func (e *ExclusiveDefinition) Name() string { return e.Inner.Name() }

func (e *ExclusiveDefinition) LookupDefinition(term string) (string, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Inner.LookupDefinition(term)
}

// ExclusiveAudio serializes access to an AudioSource.
type ExclusiveAudio struct {
	mu    sync.Mutex
	Inner AudioSource
}

func (e *ExclusiveAudio) Name() string { return e.Inner.Name() }

func (e *ExclusiveAudio) LookupAudio(term string) (AudioEntry, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Inner.LookupAudio(term)
}

// ExclusiveFrequency serializes access to a FrequencySource.
type ExclusiveFrequency struct {
	mu    sync.Mutex
	Inner FrequencySource
}

func (e *ExclusiveFrequency) Name() string { return e.Inner.Name() }

func (e *ExclusiveFrequency) LookupFrequency(term string) (FrequencyEntry, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Inner.LookupFrequency(term)
}
