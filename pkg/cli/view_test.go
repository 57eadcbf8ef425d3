package cli

import (
	"testing"

	"github.com/mchmarny/aipulse/pkg/score"
	"github.com/stretchr/testify/assert"
)

func TestPad(t *testing.T) {
	assert.Equal(t, "abc       ", pad("abc", 10))
	assert.Len(t, pad("", 5), 5)

	// Wide runes count double so the padded width stays constant.
	assert.Equal(t, 10, visibleWidth(pad("日本語", 10)))

	// Over-long values get truncated with an ellipsis.
	got := pad("a very long vendor name here", 10)
	assert.Contains(t, got, "…")
	assert.Equal(t, 10, visibleWidth(got))
}

func visibleWidth(s string) int {
	w := 0
	for _, r := range s {
		switch {
		case r == '…':
			w++
		case r > 0x2E7F: // CJK range used in the fixtures
			w += 2
		default:
			w++
		}
	}
	return w
}

func TestDeref(t *testing.T) {
	assert.Empty(t, deref(nil))
	v := "something"
	assert.Equal(t, "something", deref(&v))
}

func TestRenderLeaderboard(t *testing.T) {
	note := "GPT-5 sets new benchmark"
	lb := score.Leaderboard{
		score.BucketLLM:   {{Label: "OpenAI", ScoreTotal: 0.8123, WhatsNew: &note}},
		score.BucketImage: {},
	}

	out := renderLeaderboard(lb, "2025-06-01T00:00:00Z")

	assert.Contains(t, out, "generated: 2025-06-01T00:00:00Z")
	assert.Contains(t, out, score.BucketLLM)
	assert.Contains(t, out, "OpenAI")
	assert.Contains(t, out, "0.8123")
	assert.Contains(t, out, note)
	assert.Contains(t, out, score.BucketImage)
	assert.Contains(t, out, "(no signals)")
}

func TestRenderLeaderboardCustomBucket(t *testing.T) {
	lb := score.Leaderboard{
		"Robotics": {{Label: "Figure", ScoreTotal: 0.5}},
	}

	out := renderLeaderboard(lb, "")
	assert.Contains(t, out, "Robotics")
	assert.Contains(t, out, "Figure")
	assert.NotContains(t, out, "generated:")
}

func TestOptional(t *testing.T) {
	assert.Nil(t, optional(""))

	v := optional("bucket")
	assert.NotNil(t, v)
	assert.Equal(t, "bucket", *v)
}
