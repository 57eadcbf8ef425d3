package data

import (
	"testing"
	"time"

	"github.com/mchmarny/aipulse/pkg/score"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testFetchedAt = time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

func TestSaveItems_NilDB(t *testing.T) {
	_, err := SaveItems(nil, []score.Item{{ID: "a", Title: "t"}}, testFetchedAt)
	assert.Error(t, err)
}

func TestSaveItems_Empty(t *testing.T) {
	db := setupTestDB(t)
	n, err := SaveItems(db, nil, testFetchedAt)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestSaveItems_Roundtrip(t *testing.T) {
	db := setupTestDB(t)

	items := []score.Item{
		{ID: "aaa", Title: "first", URL: "https://a", Source: "Reuters", PublishedAt: "2026-08-23T10:00:00Z", Summary: "s", Score: 0.9},
		{ID: "bbb", Title: "second", Score: 0.4},
	}

	n, err := SaveItems(db, items, testFetchedAt)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := GetRecentItems(db, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Title)
	assert.Equal(t, "Reuters", got[0].Source)
	assert.Equal(t, 0.9, got[0].Score)
}

func TestSaveItems_UpsertByID(t *testing.T) {
	db := setupTestDB(t)

	_, err := SaveItems(db, []score.Item{{ID: "aaa", Title: "old", Score: 0.1}}, testFetchedAt)
	require.NoError(t, err)
	_, err = SaveItems(db, []score.Item{{ID: "aaa", Title: "new", Score: 0.8}}, testFetchedAt.Add(time.Hour))
	require.NoError(t, err)

	got, err := GetRecentItems(db, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].Title)
	assert.Equal(t, 0.8, got[0].Score)
}

func TestSaveItems_SkipsMissingID(t *testing.T) {
	db := setupTestDB(t)

	n, err := SaveItems(db, []score.Item{{Title: "no id"}, {ID: "x", Title: "ok"}}, testFetchedAt)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestGetRecentItems_Limit(t *testing.T) {
	db := setupTestDB(t)

	items := []score.Item{
		{ID: "a", Title: "a", Score: 0.1},
		{ID: "b", Title: "b", Score: 0.9},
		{ID: "c", Title: "c", Score: 0.5},
	}
	_, err := SaveItems(db, items, testFetchedAt)
	require.NoError(t, err)

	got, err := GetRecentItems(db, 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Title, "highest score first within a fetch")
}
