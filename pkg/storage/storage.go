// Package storage persists scrape history in a SQLite database inside the
// tool's cache directory. The whole directory is a night-ops deletion
// target, so nothing here is treated as durable.
package storage

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

type DB struct {
	sql *sql.DB
}

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS scrape_runs (
  id          INTEGER PRIMARY KEY,
  url         TEXT NOT NULL,
  fetched_at  INTEGER NOT NULL,
  body_bytes  INTEGER NOT NULL,
  extracted   INTEGER NOT NULL,
  matched     INTEGER NOT NULL,
  scripts     INTEGER NOT NULL DEFAULT 0,
  media       INTEGER NOT NULL DEFAULT 0,
  api         INTEGER NOT NULL DEFAULT 0,
  documents   INTEGER NOT NULL DEFAULT 0,
  html        INTEGER NOT NULL DEFAULT 0,
  other       INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_runs_time ON scrape_runs(fetched_at);
    `); err != nil {
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// RecordRun appends one scrape run to the history.
func (d *DB) RecordRun(ctx context.Context, r Run) error {
	fetchedAt := r.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now().UTC()
	}
	_, err := d.sql.ExecContext(ctx, `
INSERT INTO scrape_runs (url, fetched_at, body_bytes, extracted, matched, scripts, media, api, documents, html, other)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.URL, fetchedAt.Unix(), r.BodyBytes, r.Extracted, r.Matched,
		r.Scripts, r.Media, r.API, r.Documents, r.HTML, r.Other)
	return err
}

// RecentRuns returns up to limit runs, most recent first.
func (d *DB) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.sql.QueryContext(ctx, `
SELECT id, url, fetched_at, body_bytes, extracted, matched, scripts, media, api, documents, html, other
FROM scrape_runs
ORDER BY fetched_at DESC, id DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var fetchedAt int64
		if err := rows.Scan(&r.ID, &r.URL, &fetchedAt, &r.BodyBytes, &r.Extracted, &r.Matched,
			&r.Scripts, &r.Media, &r.API, &r.Documents, &r.HTML, &r.Other); err != nil {
			return nil, err
		}
		r.FetchedAt = time.Unix(fetchedAt, 0).UTC()
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
