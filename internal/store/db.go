package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS artists (
	id         TEXT PRIMARY KEY,
	slug       TEXT NOT NULL UNIQUE,
	name       TEXT NOT NULL,
	created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS documents (
	id             TEXT PRIMARY KEY,
	artist_id      TEXT NOT NULL REFERENCES artists(id) ON DELETE CASCADE,
	filename       TEXT NOT NULL,
	storage_path   TEXT NOT NULL,
	doc_type       TEXT NOT NULL,
	extracted_text TEXT NOT NULL,
	word_count     INTEGER NOT NULL,
	file_size      INTEGER NOT NULL,
	created_at     INTEGER NOT NULL,
	UNIQUE (artist_id, filename)
);

CREATE TABLE IF NOT EXISTS chunks (
	document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
	idx         INTEGER NOT NULL,
	text        TEXT NOT NULL,
	start_rune  INTEGER NOT NULL,
	end_rune    INTEGER NOT NULL,
	PRIMARY KEY (document_id, idx)
);

CREATE TABLE IF NOT EXISTS style_guides (
	artist_id  TEXT PRIMARY KEY REFERENCES artists(id) ON DELETE CASCADE,
	content    TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_documents_artist ON documents(artist_id, created_at);
`

// openDB opens the metadata database with WAL and foreign keys enabled and
// applies the schema
func openDB(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("store: mkdir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}

	// pragmas are per connection
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: %s: %w", p, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: exec schema: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	return db, nil
}
