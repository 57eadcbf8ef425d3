package feed

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/mchmarny/aipulse/pkg/score"
)

// WindowDaysDefault is the fetch window when no override is given.
const WindowDaysDefault = 2

var (
	wireServiceNames = []string{"reuters", "bloomberg", "wsj", "financial times"}
	firstPartyNames  = []string{"openai", "google", "microsoft", "meta", "anthropic", "amazon"}
)

// Recency decays exponentially with item age. The half-life is half the
// fetch window, so in a 2-day window a day-old item still scores ~0.37.
// A missing or unparseable timestamp is treated as now, never an error.
func Recency(publishedAt string, windowDays int, now time.Time) float64 {
	if windowDays <= 0 {
		windowDays = WindowDaysDefault
	}

	t, err := time.Parse(time.RFC3339, publishedAt)
	if err != nil {
		if t, err = time.Parse(score.GeneratedAtFormat, publishedAt); err != nil {
			t = now
		}
	}

	ageHours := now.Sub(t).Hours()
	if ageHours < 0 {
		ageHours = 0
	}

	halfLife := float64(windowDays*24) / 2
	return math.Exp(-ageHours / halfLife)
}

// SourceWeight nudges scores up for wire services and first-party lab
// announcements.
func SourceWeight(name string) float64 {
	if name == "" {
		return 1.0
	}
	n := strings.ToLower(name)
	for _, k := range wireServiceNames {
		if strings.Contains(n, k) {
			return 1.15
		}
	}
	for _, k := range firstPartyNames {
		if strings.Contains(n, k) {
			return 1.2
		}
	}
	return 1.0
}

func sortByScoreDesc(items []score.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
}

func roundTo(v float64, places int) float64 {
	f := math.Pow(10, float64(places))
	return math.Round(v*f) / f
}
