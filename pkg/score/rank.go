package score

import (
	"fmt"
	"math"
	"sort"
)

// Weights maps signal keys to their share of the total score.
type Weights map[string]float64

const weightTolerance = 1e-6

// DefaultWeights returns the standard weight vector:
// popularity 40%, performance 25%, cost 10%, privacy 10%, innovation 15%.
func DefaultWeights() Weights {
	return Weights{
		SignalPopularity:  0.40,
		SignalPerformance: 0.25,
		SignalCost:        0.10,
		SignalPrivacy:     0.10,
		SignalInnovation:  0.15,
	}
}

// Validate rejects weight vectors that do not sum to 1.0. Renormalizing
// silently would mask a misconfiguration, so ranking fails instead.
func (w Weights) Validate() error {
	var sum float64
	for _, v := range w {
		sum += v
	}
	if math.Abs(sum-1.0) > weightTolerance {
		return fmt.Errorf("weights must sum to 1.0, got %.4f", sum)
	}
	return nil
}

// Row is one leaderboard line: an aggregate reduced to a single
// weighted total and prepared for display.
type Row struct {
	Label        string    `json:"label"`
	ScoreTotal   float64   `json:"score_total"`
	Scores       Signals   `json:"scores"`
	Examples     []Example `json:"examples"`
	WhatsNew     *string   `json:"whats_new"`
	WhatsNewDate *string   `json:"whats_new_date"`
	BestUsedFor  string    `json:"best_used_for"`
	MainPro      *string   `json:"main_pro"`
	MainCon      *string   `json:"main_con"`
}

// Leaderboard maps every bucket to its ranked rows, best first.
type Leaderboard map[string][]Row

// Rank reduces aggregates to per-bucket rows sorted descending by
// weighted total and truncated to topK. Ties keep the order in which
// vendors were first folded, never an order derived from label text.
// Every vocabulary bucket is present in the result, possibly empty.
func Rank(agg *Aggregator, weights Weights, topK int) (Leaderboard, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("topK must be positive, got %d", topK)
	}
	if err := weights.Validate(); err != nil {
		return nil, err
	}

	lb := make(Leaderboard, len(agg.vocab.Buckets))
	for _, name := range agg.vocab.BucketNames() {
		lb[name] = []Row{}
	}

	for _, k := range agg.order {
		a := agg.byKey[k]

		var total float64
		scores := make(Signals, len(a.Signals))
		for key, val := range a.Signals {
			total += weights[key] * val
			scores[key] = roundTo(val, 3)
		}

		lb[k.Bucket] = append(lb[k.Bucket], Row{
			Label:        k.Vendor,
			ScoreTotal:   roundTo(total, 4),
			Scores:       scores,
			Examples:     a.Examples,
			WhatsNew:     a.WhatsNew,
			WhatsNewDate: a.WhatsNewDate,
			BestUsedFor:  a.BestUsedFor,
			MainPro:      a.MainPro,
			MainCon:      a.MainCon,
		})
	}

	for bucket, rows := range lb {
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].ScoreTotal > rows[j].ScoreTotal
		})
		if len(rows) > topK {
			rows = rows[:topK]
		}
		lb[bucket] = rows
	}

	return lb, nil
}

func roundTo(v float64, places int) float64 {
	f := math.Pow(10, float64(places))
	return math.Round(v*f) / f
}
