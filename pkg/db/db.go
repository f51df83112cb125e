// Package db is the SQLite-backed corpus statistics store. It exposes
// additive merge writes used by the import pipeline and read queries used by
// the suggestion and sentence engines.
package db

import (
	"database/sql"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const migrationsSQL = `
CREATE TABLE IF NOT EXISTS files (
	file_id INTEGER PRIMARY KEY AUTOINCREMENT,
	filename TEXT NOT NULL UNIQUE,
	word_count INTEGER NOT NULL DEFAULT 0,
	import_date TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS words (
	word_id INTEGER PRIMARY KEY AUTOINCREMENT,
	word_text TEXT NOT NULL UNIQUE,
	total_count INTEGER NOT NULL DEFAULT 0,
	sentence_start_count INTEGER NOT NULL DEFAULT 0,
	sentence_end_count INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS word_files (
	word_id INTEGER NOT NULL REFERENCES words(word_id),
	file_id INTEGER NOT NULL REFERENCES files(file_id),
	count_in_file INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (word_id, file_id)
);

CREATE TABLE IF NOT EXISTS word_relations_bigram (
	from_word_id INTEGER NOT NULL REFERENCES words(word_id),
	to_word_id INTEGER NOT NULL REFERENCES words(word_id),
	frequency INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (from_word_id, to_word_id)
);

CREATE TABLE IF NOT EXISTS word_relations_trigram (
	first_word_id INTEGER NOT NULL REFERENCES words(word_id),
	second_word_id INTEGER NOT NULL REFERENCES words(word_id),
	next_word_id INTEGER NOT NULL REFERENCES words(word_id),
	frequency INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (first_word_id, second_word_id, next_word_id)
);

CREATE INDEX IF NOT EXISTS idx_words_total ON words(total_count DESC);
CREATE INDEX IF NOT EXISTS idx_words_starts ON words(sentence_start_count DESC);
CREATE INDEX IF NOT EXISTS idx_bigram_from ON word_relations_bigram(from_word_id, frequency DESC);
CREATE INDEX IF NOT EXISTS idx_trigram_ctx ON word_relations_trigram(first_word_id, second_word_id, frequency DESC)
`

// InitDB runs migrations on the given DB connection using the embedded SQL.
func InitDB(db *sql.DB) error {
	stmts := strings.Split(migrationsSQL, ";")
	for _, s := range stmts {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Open opens (creating if needed) the SQLite database at path and runs the
// migrations.
func Open(path string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := InitDB(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}
