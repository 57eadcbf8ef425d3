package data

import (
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/mchmarny/aipulse/pkg/score"
	"github.com/pkg/errors"
)

const (
	insertRunSQL = `INSERT INTO run (generated_at, item_count) VALUES (?, ?)`

	insertRunRowSQL = `INSERT INTO run_row (run_id, bucket, label, position, score_total)
		VALUES (?, ?, ?, ?, ?)
	`

	queryRunsLimitDefault = 100
)

// RunRow is one recorded leaderboard line, used for trend queries
// across past runs.
type RunRow struct {
	RunID       int64   `json:"run_id" yaml:"runId"`
	GeneratedAt string  `json:"generated_at" yaml:"generatedAt"`
	Bucket      string  `json:"bucket" yaml:"bucket"`
	Label       string  `json:"label" yaml:"label"`
	Position    int     `json:"position" yaml:"position"`
	ScoreTotal  float64 `json:"score_total" yaml:"scoreTotal"`
}

// SaveRun records one leaderboard computation and its per-bucket rows.
func SaveRun(db *sql.DB, generatedAt time.Time, itemCount int, lb score.Leaderboard) (int64, error) {
	if db == nil {
		return 0, errDBNotInitialized
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, errors.Wrap(err, "failed to start run tx")
	}

	res, err := tx.Exec(insertRunSQL, generatedAt.UTC().Format(score.GeneratedAtFormat), itemCount)
	if err != nil {
		rollbackTransaction(tx)
		return 0, errors.Wrap(err, "failed to insert run")
	}

	runID, err := res.LastInsertId()
	if err != nil {
		rollbackTransaction(tx)
		return 0, errors.Wrap(err, "failed to get run id")
	}

	stmt, err := tx.Prepare(insertRunRowSQL)
	if err != nil {
		rollbackTransaction(tx)
		return 0, errors.Wrap(err, "failed to prepare run row insert")
	}

	for bucket, rows := range lb {
		for i, row := range rows {
			if _, err := stmt.Exec(runID, bucket, row.Label, i+1, row.ScoreTotal); err != nil {
				rollbackTransaction(tx)
				return 0, errors.Wrapf(err, "failed to insert run row %s/%s", bucket, row.Label)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "failed to commit run tx")
	}

	return runID, nil
}

// QueryRuns returns recorded leaderboard rows, newest run first. The
// bucket and label filters are optional.
func QueryRuns(db *sql.DB, bucket, label *string, limit int) ([]RunRow, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}
	if limit <= 0 {
		limit = queryRunsLimitDefault
	}

	q := sq.Select("r.id", "r.generated_at", "w.bucket", "w.label", "w.position", "w.score_total").
		From("run_row w").
		Join("run r ON r.id = w.run_id").
		OrderBy("r.id DESC", "w.bucket", "w.position").
		Limit(uint64(limit))

	if bucket != nil {
		q = q.Where(sq.Eq{"w.bucket": *bucket})
	}
	if label != nil {
		q = q.Where(sq.Eq{"w.label": *label})
	}

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build runs query")
	}

	rows, err := db.Query(sqlStr, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query runs")
	}
	defer rows.Close()

	list := make([]RunRow, 0)
	for rows.Next() {
		var r RunRow
		if err := rows.Scan(&r.RunID, &r.GeneratedAt, &r.Bucket, &r.Label, &r.Position, &r.ScoreTotal); err != nil {
			return nil, errors.Wrap(err, "failed to scan run row")
		}
		list = append(list, r)
	}

	return list, rows.Err()
}
