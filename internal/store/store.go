// Package store provides the SQLite-backed quest/labor snapshot source.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS quests (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	creator     TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	embarked    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	completed   DATETIME
);

CREATE TABLE IF NOT EXISTS labors (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	quest_id   INTEGER REFERENCES quests(id),
	hostname   TEXT NOT NULL,
	state      TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	closed_at  DATETIME
);

CREATE INDEX IF NOT EXISTS idx_labors_quest ON labors(quest_id);
CREATE INDEX IF NOT EXISTS idx_labors_open ON labors(closed_at) WHERE closed_at IS NULL;
`

// DB wraps a sql.DB with snapshot-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
