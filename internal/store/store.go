// Package store persists finished news items keyed by canonical URL.
// It is an upsert log with a bounded most-recent read, not a cache.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/realify/newsdesk/internal/news"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS news_items (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	url TEXT NOT NULL UNIQUE,
	source_id TEXT NOT NULL,
	heading TEXT NOT NULL,
	summary TEXT NOT NULL,
	degraded INTEGER NOT NULL DEFAULT 0,
	picture TEXT NOT NULL DEFAULT '',
	fetched_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_news_items_source ON news_items(source_id);
CREATE INDEX IF NOT EXISTS idx_news_items_fetched ON news_items(fetched_at);
`

// Stats summarizes the store contents. DistinctSourceCount is
// recomputed per call rather than kept as a running counter, so failed
// partial writes cannot make it drift.
type Stats struct {
	TotalCount          int `json:"total_count"`
	DistinctSourceCount int `json:"distinct_source_count"`
}

// Store is a sqlite-backed result store. Concurrent upserts are
// single-row writes keyed by url; last write wins on the same url.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at dsn and applies the schema.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Upsert inserts the item or, when the url already exists, replaces the
// stored heading, summary, picture, and fetch time. Never duplicates a
// row.
func (s *Store) Upsert(ctx context.Context, item news.Item) error {
	if item.URL == "" {
		return fmt.Errorf("upsert: empty url")
	}
	const query = `
	INSERT INTO news_items (url, source_id, heading, summary, degraded, picture, fetched_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(url) DO UPDATE SET
		source_id = excluded.source_id,
		heading = excluded.heading,
		summary = excluded.summary,
		degraded = excluded.degraded,
		picture = excluded.picture,
		fetched_at = excluded.fetched_at
	`
	_, err := s.db.ExecContext(ctx, query,
		item.URL,
		item.SourceID,
		item.Heading,
		item.Summary,
		boolToInt(item.Degraded),
		item.Picture,
		item.FetchedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", item.URL, err)
	}
	return nil
}

// ListRecent returns up to limit items, most recently fetched first,
// ties broken by insertion order.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]news.Item, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
	SELECT url, source_id, heading, summary, degraded, picture, fetched_at
	FROM news_items
	ORDER BY fetched_at DESC, id ASC
	LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent: %w", err)
	}
	defer rows.Close()

	var items []news.Item
	for rows.Next() {
		var it news.Item
		var degraded int
		var fetchedAt time.Time
		if err := rows.Scan(&it.URL, &it.SourceID, &it.Heading, &it.Summary, &degraded, &it.Picture, &fetchedAt); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		it.Degraded = degraded != 0
		it.FetchedAt = fetchedAt.UTC()
		items = append(items, it)
	}
	return items, rows.Err()
}

// Stats reports the total row count and the number of distinct sources.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*), COUNT(DISTINCT source_id) FROM news_items`)
	if err := row.Scan(&st.TotalCount, &st.DistinctSourceCount); err != nil {
		return Stats{}, fmt.Errorf("stats: %w", err)
	}
	return st, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
