package score

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssemble_OwnsLeaderboardAndTimestamp(t *testing.T) {
	lb := Leaderboard{BucketLLM: []Row{}}
	now := time.Date(2026, 8, 24, 10, 30, 0, 0, time.UTC)

	doc, err := Assemble(lb, nil, now)
	require.NoError(t, err)

	var ts string
	require.NoError(t, json.Unmarshal(doc[DocFieldGeneratedAt], &ts))
	assert.Equal(t, "2026-08-24T10:30:00Z", ts)

	var got Leaderboard
	require.NoError(t, json.Unmarshal(doc[DocFieldLeaderboard], &got))
	assert.Contains(t, got, BucketLLM)
}

func TestAssemble_PreservesUnknownFields(t *testing.T) {
	prior := Document{
		"top_news":     json.RawMessage(`[{"title":"kept"}]`),
		"custom_field": json.RawMessage(`{"anything":42}`),
		"leaderboard":  json.RawMessage(`{"stale":true}`),
	}

	doc, err := Assemble(Leaderboard{}, prior, time.Now())
	require.NoError(t, err)

	assert.Equal(t, prior["top_news"], doc["top_news"])
	assert.Equal(t, prior["custom_field"], doc["custom_field"])
	// engine-owned field is last-writer-wins
	assert.NotEqual(t, prior["leaderboard"], doc[DocFieldLeaderboard])
}

func TestAssemble_DoesNotMutatePrior(t *testing.T) {
	prior := Document{"leaderboard": json.RawMessage(`{"stale":true}`)}

	_, err := Assemble(Leaderboard{}, prior, time.Now())
	require.NoError(t, err)
	assert.Equal(t, json.RawMessage(`{"stale":true}`), prior["leaderboard"])
}

func TestAssemble_TimestampIsUTCSecondPrecision(t *testing.T) {
	local := time.Date(2026, 8, 24, 12, 0, 0, 999999999, time.FixedZone("X", 3600))

	doc, err := Assemble(Leaderboard{}, nil, local)
	require.NoError(t, err)

	var ts string
	require.NoError(t, json.Unmarshal(doc[DocFieldGeneratedAt], &ts))
	parsed, err := time.Parse(GeneratedAtFormat, ts)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-24T11:00:00Z", parsed.Format(GeneratedAtFormat))
}
