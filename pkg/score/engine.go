package score

import (
	"regexp"
	"strings"
)

// Item is a single ingested news record. Title is the only required
// field; an item with no title is treated as empty text and still
// classifies (into the fallback bucket as "Other"). Score is the
// precomputed recency/prominence relevance in [0,1] supplied by the
// fetch layer, 0 when absent.
type Item struct {
	ID          string  `json:"id,omitempty"`
	Title       string  `json:"title"`
	URL         string  `json:"url,omitempty"`
	Source      string  `json:"source,omitempty"`
	PublishedAt string  `json:"published_at,omitempty"`
	Summary     string  `json:"summary,omitempty"`
	Score       float64 `json:"score,omitempty"`
}

// TopPerBucketDefault is the number of rows kept per bucket when the
// caller does not override it.
const TopPerBucketDefault = 5

const (
	whatsNewMaxLen  = 140
	whatsNewDefault = "Recent update"
)

// Engine wires the classifier, scorer, aggregator, and ranker into a
// single synchronous pass over a news batch. Each invocation is
// independent and idempotent for the same input.
type Engine struct {
	vocab      *Vocabulary
	classifier *Classifier
	scorer     *Scorer
	weights    Weights
	topK       int
}

// NewEngine builds an engine. Nil vocabulary or weights and a
// non-positive topK fall back to the defaults.
func NewEngine(v *Vocabulary, w Weights, topK int) *Engine {
	if v == nil {
		v = DefaultVocabulary()
	}
	if w == nil {
		w = DefaultWeights()
	}
	if topK <= 0 {
		topK = TopPerBucketDefault
	}
	return &Engine{
		vocab:      v,
		classifier: NewClassifier(v),
		scorer:     NewScorer(v),
		weights:    w,
		topK:       topK,
	}
}

// Leaderboard classifies, scores, aggregates, and ranks the batch.
// Items fold in input order, which decides the first-wins descriptive
// fields and example slots; an empty batch yields a leaderboard where
// every bucket is an empty list.
func (e *Engine) Leaderboard(items []Item) (Leaderboard, error) {
	agg := NewAggregator(e.vocab)
	for _, item := range items {
		agg.Add(e.observe(item))
	}
	return Rank(agg, e.weights, e.topK)
}

// observe turns one item into a foldable observation.
func (e *Engine) observe(item Item) Observation {
	text := strings.TrimSpace(item.Title + " " + item.Summary)

	o := Observation{
		Buckets:      e.classifier.Buckets(text),
		Vendor:       e.classifier.Vendor(text),
		Signals:      e.scorer.Score(text, item.Score),
		WhatsNew:     whatsNew(item.Title),
		WhatsNewDate: item.PublishedAt,
		Example: Example{
			Title:  item.Title,
			URL:    item.URL,
			Signal: roundTo(item.Score, 2),
			Date:   item.PublishedAt,
		},
	}
	o.MainPro, o.MainCon = deriveProCon(text)

	return o
}

// whatsNew derives the headline shown on the aggregate: the title
// clipped to 140 characters, or a placeholder for untitled items.
func whatsNew(title string) string {
	t := strings.TrimSpace(title)
	if t == "" {
		return whatsNewDefault
	}
	if r := []rune(t); len(r) > whatsNewMaxLen {
		return string(r[:whatsNewMaxLen])
	}
	return t
}

var performanceProPattern = regexp.MustCompile(
	`(?i)\b(benchmark|leaderboard|MMLU|reasoning|accuracy|SOTA|realism|fidelity)\b`)

var (
	proCostTerms        = []string{"cheap", "afford", "pricing", "throughput", "latency", "serverless", "efficient"}
	proPrivacyTerms     = []string{"privacy", "on-device", "watermark", "consent", "likeness"}
	conAvailabilityTerm = []string{"limited", "bug", "outage", "downtime", "restriction", "waitlist"}
	conCostTerms        = []string{"price increase", "expensive", "costly"}
	conIPTerms          = []string{"copyright", "likeness", "lawsuit"}
)

// deriveProCon extracts headline pros and cons from keyword hits.
// Empty strings mean no hit; the aggregator treats them as no-ops.
func deriveProCon(text string) (pro, con string) {
	t := strings.ToLower(text)

	var pros, cons []string
	if performanceProPattern.MatchString(t) || strings.Contains(t, "benchmark") {
		pros = append(pros, "Strong benchmarks")
	}
	if containsAny(t, proCostTerms) {
		pros = append(pros, "Good cost/throughput")
	}
	if containsAny(t, proPrivacyTerms) {
		pros = append(pros, "Privacy-friendly")
	}

	if containsAny(t, conAvailabilityTerm) {
		cons = append(cons, "Availability limits")
	}
	if containsAny(t, conCostTerms) {
		cons = append(cons, "Higher cost")
	}
	if containsAny(t, conIPTerms) {
		cons = append(cons, "Potential IP/likeness risk")
	}

	return strings.Join(pros, "; "), strings.Join(cons, "; ")
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
