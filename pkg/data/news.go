package data

import (
	"database/sql"
	"time"

	"github.com/mchmarny/aipulse/pkg/score"
	"github.com/pkg/errors"
)

const (
	insertNewsItemSQL = `INSERT INTO news_item (id, title, url, source, published_at, summary, score, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			summary = excluded.summary,
			score = excluded.score,
			fetched_at = excluded.fetched_at
	`

	selectRecentItemsSQL = `SELECT id, title, url, source, published_at, summary, score
		FROM news_item
		ORDER BY fetched_at DESC, score DESC
		LIMIT ?
	`
)

// SaveItems upserts the fetched batch into the history store and
// returns the number of rows written.
func SaveItems(db *sql.DB, items []score.Item, fetchedAt time.Time) (int, error) {
	if db == nil {
		return 0, errDBNotInitialized
	}
	if len(items) == 0 {
		return 0, nil
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, errors.Wrap(err, "failed to start news tx")
	}

	stmt, err := tx.Prepare(insertNewsItemSQL)
	if err != nil {
		rollbackTransaction(tx)
		return 0, errors.Wrap(err, "failed to prepare news insert")
	}

	at := fetchedAt.UTC().Format(score.GeneratedAtFormat)
	saved := 0
	for _, item := range items {
		if item.ID == "" {
			continue
		}
		if _, err := stmt.Exec(item.ID, item.Title, item.URL, item.Source,
			item.PublishedAt, item.Summary, item.Score, at); err != nil {
			rollbackTransaction(tx)
			return 0, errors.Wrapf(err, "failed to insert news item %s", item.ID)
		}
		saved++
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "failed to commit news tx")
	}

	return saved, nil
}

// GetRecentItems returns the most recently fetched items, best first.
func GetRecentItems(db *sql.DB, limit int) ([]score.Item, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}
	if limit <= 0 {
		limit = score.TopPerBucketDefault
	}

	rows, err := db.Query(selectRecentItemsSQL, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query news items")
	}
	defer rows.Close()

	items := make([]score.Item, 0, limit)
	for rows.Next() {
		var it score.Item
		var url, source, published, summary sql.NullString
		if err := rows.Scan(&it.ID, &it.Title, &url, &source, &published, &summary, &it.Score); err != nil {
			return nil, errors.Wrap(err, "failed to scan news item")
		}
		it.URL = url.String
		it.Source = source.String
		it.PublishedAt = published.String
		it.Summary = summary.String
		items = append(items, it)
	}

	return items, rows.Err()
}
