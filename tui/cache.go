// Package tui is the interactive recording browser behind `agr ls`:
// a tcell list with a preview pane rendered through the terminal
// emulator. Previews are cached in a small sqlite store keyed by
// path and mtime so re-opening the browser doesn't replay every cast
// again.
package tui

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// PreviewCache persists rendered previews between browser runs.
type PreviewCache struct {
	db *sql.DB
}

// OpenPreviewCache opens (or creates) the cache database at path.
// Pass ":memory:" for a throwaway cache.
func OpenPreviewCache(path string) (*PreviewCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening preview cache: %w", err)
	}

	const schema = `
CREATE TABLE IF NOT EXISTS previews (
	path    TEXT    NOT NULL PRIMARY KEY,
	mtime   INTEGER NOT NULL,
	preview TEXT    NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing preview cache: %w", err)
	}

	return &PreviewCache{db: db}, nil
}

// Get returns the cached preview for path, but only when the cached
// mtime still matches; a stale entry is a miss.
func (c *PreviewCache) Get(path string, mtime int64) ([]string, bool) {
	var gotMtime int64
	var preview string
	err := c.db.QueryRow(
		`SELECT mtime, preview FROM previews WHERE path = ?`, path,
	).Scan(&gotMtime, &preview)
	if err != nil || gotMtime != mtime {
		return nil, false
	}
	if preview == "" {
		return nil, true
	}
	return strings.Split(preview, "\n"), true
}

// Put stores (or replaces) the preview for path.
func (c *PreviewCache) Put(path string, mtime int64, lines []string) error {
	_, err := c.db.Exec(
		`INSERT INTO previews (path, mtime, preview) VALUES (?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET mtime = excluded.mtime, preview = excluded.preview`,
		path, mtime, strings.Join(lines, "\n"),
	)
	if err != nil {
		return fmt.Errorf("storing preview: %w", err)
	}
	return nil
}

// Forget drops the cached preview for a deleted recording.
func (c *PreviewCache) Forget(path string) error {
	if _, err := c.db.Exec(`DELETE FROM previews WHERE path = ?`, path); err != nil {
		return fmt.Errorf("dropping preview: %w", err)
	}
	return nil
}

func (c *PreviewCache) Close() error {
	return c.db.Close()
}
