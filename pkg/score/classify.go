package score

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Classifier assigns free text to topical buckets and attributes it to
// a single vendor label. Pure and deterministic for a given vocabulary.
type Classifier struct {
	vocab *Vocabulary
	caser cases.Caser
}

// NewClassifier builds a classifier over the given vocabulary,
// defaulting to the built-in tables when nil.
func NewClassifier(v *Vocabulary) *Classifier {
	if v == nil {
		v = DefaultVocabulary()
	}
	return &Classifier{
		vocab: v,
		caser: cases.Title(language.English),
	}
}

// Buckets returns every bucket whose rule matches the text, in rule
// order. Text that matches nothing lands in the fallback bucket so no
// item is ever dropped.
func (c *Classifier) Buckets(text string) []string {
	var hits []string
	for _, rule := range c.vocab.Buckets {
		for _, p := range rule.Patterns {
			if p.MatchString(text) {
				hits = append(hits, rule.Name)
				break
			}
		}
	}
	if len(hits) == 0 {
		return []string{c.vocab.Fallback}
	}
	return hits
}

// Vendor returns the title-cased form of the first vendor hint found as
// a substring of the lowered text. Hint order is the vocabulary's, not
// a map's, so the result is stable across runs.
func (c *Classifier) Vendor(text string) string {
	t := strings.ToLower(text)
	for _, hint := range c.vocab.Vendors {
		if strings.Contains(t, hint) {
			return c.caser.String(hint)
		}
	}
	return VendorOther
}
