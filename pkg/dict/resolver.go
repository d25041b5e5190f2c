package dict

// Source is the least any dictionary source exposes: a provenance name.
type Source interface {
	Name() string
}

// Resolution is the outcome of walking one fallback chain. Found=false is
// the expected "nothing anywhere" outcome, not an error.
type Resolution[R any] struct {
	Value  R
	Query  string // the candidate that produced the hit
	Source string // identifier of the source that produced it
	Found  bool
}

// Chain is one fallback chain over an ordered source list. The same engine
// runs the definition, audio/pitch and frequency chains; the three
// instantiations are fully independent of one another.
type Chain[S Source, R any] struct {
	// Sources in ascending priority order (first = tried first).
	Sources []S
	// Lookup queries one source for one candidate. ok=false means miss.
	Lookup func(source S, candidate string) (R, bool, error)
	// OnError observes a source failing during lookup. The failure is
	// scoped to that source: the chain continues regardless. May be nil.
	OnError func(source, candidate string, err error)
}

// Resolve walks candidates in order and, per candidate, sources in priority
// order, returning the first hit tagged with the candidate and source that
// produced it. A non-empty forced value is attempted alone across all
// sources first; only if it misses everywhere does control fall through to
// the candidate list.
func (c Chain[S, R]) Resolve(forced string, candidates []string) Resolution[R] {
	if forced != "" {
		if res, ok := c.tryCandidate(forced); ok {
			return res
		}
	}
	for _, cand := range candidates {
		if res, ok := c.tryCandidate(cand); ok {
			return res
		}
	}
	return Resolution[R]{}
}

func (c Chain[S, R]) tryCandidate(candidate string) (Resolution[R], bool) {
	for _, src := range c.Sources {
		value, ok, err := c.Lookup(src, candidate)
		if err != nil {
			if c.OnError != nil {
				c.OnError(src.Name(), candidate, err)
			}
			continue
		}
		if ok {
			return Resolution[R]{
				Value:  value,
				Query:  candidate,
				Source: src.Name(),
				Found:  true,
			}, true
		}
	}
	return Resolution[R]{}, false
}
