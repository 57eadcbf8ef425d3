package score

// Key identifies one aggregate: a vendor observed inside a bucket.
// A composite struct key avoids the collisions string concatenation
// would invite.
type Key struct {
	Bucket string
	Vendor string
}

// Example references one contributing item on an aggregate.
type Example struct {
	Title  string  `json:"title"`
	URL    string  `json:"url,omitempty"`
	Signal float64 `json:"signal"`
	Date   string  `json:"date,omitempty"`
}

// Aggregate merges every observation of one (bucket, vendor) pair.
// Signal values only ever grow (per-key max), descriptive fields are
// write-once (nil means unset), and best_used_for is fixed per bucket.
type Aggregate struct {
	Signals      Signals
	Examples     []Example
	WhatsNew     *string
	WhatsNewDate *string
	MainPro      *string
	MainCon      *string
	BestUsedFor  string
}

// Observation is a single classified and scored item, ready to fold.
type Observation struct {
	Buckets      []string
	Vendor       string
	Signals      Signals
	WhatsNew     string
	WhatsNewDate string
	MainPro      string
	MainCon      string
	Example      Example
}

const maxExamples = 3

// Aggregator folds observations into one aggregate per (bucket, vendor)
// pair. Fold order is the caller's contract: descriptive fields and
// example slots are first-wins, so callers present the items they want
// surfaced first (the news fetcher delivers most-prominent-first).
type Aggregator struct {
	vocab *Vocabulary
	byKey map[Key]*Aggregate
	order []Key
}

// NewAggregator builds an empty aggregator over the given vocabulary,
// defaulting to the built-in tables when nil.
func NewAggregator(v *Vocabulary) *Aggregator {
	if v == nil {
		v = DefaultVocabulary()
	}
	return &Aggregator{
		vocab: v,
		byKey: map[Key]*Aggregate{},
	}
}

// Add folds the observation into the aggregate of every bucket it
// belongs to.
func (a *Aggregator) Add(o Observation) {
	for _, bucket := range o.Buckets {
		a.fold(Key{Bucket: bucket, Vendor: o.Vendor}, o)
	}
}

// Len returns the number of distinct (bucket, vendor) aggregates.
func (a *Aggregator) Len() int {
	return len(a.byKey)
}

// Get returns the aggregate for a key, or nil when absent.
func (a *Aggregator) Get(k Key) *Aggregate {
	return a.byKey[k]
}

func (a *Aggregator) fold(k Key, o Observation) {
	agg, ok := a.byKey[k]
	if !ok {
		agg = &Aggregate{
			Signals:     zeroSignals(a.vocab),
			BestUsedFor: a.vocab.BestFor[k.Bucket],
		}
		a.byKey[k] = agg
		// First-seen order drives stable tie-breaks at rank time.
		a.order = append(a.order, k)
	}

	for key, val := range o.Signals {
		if val > agg.Signals[key] {
			agg.Signals[key] = val
		}
	}

	setOnce(&agg.WhatsNew, o.WhatsNew)
	setOnce(&agg.WhatsNewDate, o.WhatsNewDate)
	setOnce(&agg.MainPro, o.MainPro)
	setOnce(&agg.MainCon, o.MainCon)

	if len(agg.Examples) < maxExamples {
		agg.Examples = append(agg.Examples, o.Example)
	}
}

// setOnce writes val only when the field is still unset and val is
// non-empty. Later observations never overwrite.
func setOnce(dst **string, val string) {
	if *dst == nil && val != "" {
		v := val
		*dst = &v
	}
}

// zeroSignals seeds every configured key so max-merge never sees a
// missing entry.
func zeroSignals(v *Vocabulary) Signals {
	s := make(Signals, len(v.Signals))
	for _, r := range v.Signals {
		s[r.Key] = 0
	}
	return s
}
