package score

import (
	"math"
	"regexp"
)

// Signals maps every configured signal key to a value in [0,1].
type Signals map[string]float64

// Scorer computes keyword-driven signal values for a text blob.
type Scorer struct {
	vocab *Vocabulary
}

// NewScorer builds a scorer over the given vocabulary, defaulting to
// the built-in tables when nil.
func NewScorer(v *Vocabulary) *Scorer {
	if v == nil {
		v = DefaultVocabulary()
	}
	return &Scorer{vocab: v}
}

// Score evaluates every signal key against the text. The value of a key
// is the fraction of its patterns that match, capped at 1.0.
//
// Popularity is special: it blends in the caller-supplied recency so a
// fresh, prominent item scores high even without keyword hits:
//
//	popularity = min(1.0, 0.5 + 0.5*recency + 0.5*keyword)
//
// There is no randomness and no wall-clock dependency beyond recency.
func (s *Scorer) Score(text string, recency float64) Signals {
	out := make(Signals, len(s.vocab.Signals))
	for _, rule := range s.vocab.Signals {
		out[rule.Key] = keywordScore(text, rule.Patterns)
	}
	out[SignalPopularity] = math.Min(1.0, 0.5+0.5*recency+0.5*out[SignalPopularity])
	return out
}

func keywordScore(text string, patterns []*regexp.Regexp) float64 {
	if len(patterns) == 0 {
		return 0
	}
	hits := 0.0
	for _, p := range patterns {
		if p.MatchString(text) {
			hits++
		}
	}
	return math.Min(1.0, hits/float64(len(patterns)))
}
