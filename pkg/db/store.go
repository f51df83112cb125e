package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/yousefbali/SentenceBuilder/pkg/corpus"
)

// DBExecutor is an interface that allows methods to accept either *sql.DB or
// *sql.Tx, so the same merge functions run standalone or inside an import
// transaction.
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// MergeFileRecord creates or updates the row for filename and returns its
// id. word_count and import_date are the only fields in the schema with
// replace semantics: re-importing a file overwrites both while every other
// statistic accumulates.
func MergeFileRecord(ctx context.Context, ex DBExecutor, filename string, wordCount int) (int64, error) {
	trimmed := strings.TrimSpace(filename)
	if trimmed == "" {
		return 0, fmt.Errorf("filename must be non-empty")
	}

	var id int64
	query := `INSERT INTO files (filename, word_count, import_date)
			  VALUES (?, ?, ?)
			  ON CONFLICT(filename) DO UPDATE SET
			    word_count = excluded.word_count,
			    import_date = excluded.import_date
			  RETURNING file_id`
	if err := ex.QueryRowContext(ctx, query, trimmed, wordCount, time.Now()).Scan(&id); err != nil {
		return 0, fmt.Errorf("upsert file %s: %w", trimmed, err)
	}
	return id, nil
}

// MergeWordStats adds delta onto the cumulative counters for word, creating
// the row on first sight, and returns the word id.
func MergeWordStats(ctx context.Context, ex DBExecutor, word string, delta corpus.WordStats) (int64, error) {
	if word == "" {
		return 0, fmt.Errorf("word must be non-empty")
	}

	var id int64
	query := `INSERT INTO words (word_text, total_count, sentence_start_count, sentence_end_count)
			  VALUES (?, ?, ?, ?)
			  ON CONFLICT(word_text) DO UPDATE SET
			    total_count = words.total_count + excluded.total_count,
			    sentence_start_count = words.sentence_start_count + excluded.sentence_start_count,
			    sentence_end_count = words.sentence_end_count + excluded.sentence_end_count
			  RETURNING word_id`
	err := ex.QueryRowContext(ctx, query,
		word, delta.TotalCount, delta.SentenceStartCount, delta.SentenceEndCount).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert word %s: %w", word, err)
	}
	return id, nil
}

// WordID returns the id for an already-merged word.
func WordID(ctx context.Context, ex DBExecutor, word string) (int64, error) {
	var id int64
	err := ex.QueryRowContext(ctx, `SELECT word_id FROM words WHERE word_text = ?`, word).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("lookup word %s: %w", word, err)
	}
	return id, nil
}

// MergeBigram adds delta onto the frequency of the directed edge from -> to.
func MergeBigram(ctx context.Context, ex DBExecutor, fromID, toID int64, delta int) error {
	if delta < 1 {
		return fmt.Errorf("bigram delta must be positive, got %d", delta)
	}
	query := `INSERT INTO word_relations_bigram (from_word_id, to_word_id, frequency)
			  VALUES (?, ?, ?)
			  ON CONFLICT(from_word_id, to_word_id) DO UPDATE SET
			    frequency = word_relations_bigram.frequency + excluded.frequency`
	if _, err := ex.ExecContext(ctx, query, fromID, toID, delta); err != nil {
		return fmt.Errorf("upsert bigram %d->%d: %w", fromID, toID, err)
	}
	return nil
}

// MergeTrigram adds delta onto the frequency of the edge (first, second) -> next.
func MergeTrigram(ctx context.Context, ex DBExecutor, firstID, secondID, nextID int64, delta int) error {
	if delta < 1 {
		return fmt.Errorf("trigram delta must be positive, got %d", delta)
	}
	query := `INSERT INTO word_relations_trigram (first_word_id, second_word_id, next_word_id, frequency)
			  VALUES (?, ?, ?, ?)
			  ON CONFLICT(first_word_id, second_word_id, next_word_id) DO UPDATE SET
			    frequency = word_relations_trigram.frequency + excluded.frequency`
	if _, err := ex.ExecContext(ctx, query, firstID, secondID, nextID, delta); err != nil {
		return fmt.Errorf("upsert trigram %d,%d->%d: %w", firstID, secondID, nextID, err)
	}
	return nil
}

// MergeWordFileCount adds delta onto the per-document occurrence count for
// the (word, file) pair. Like the global counters this accumulates across
// re-imports of the same filename.
func MergeWordFileCount(ctx context.Context, ex DBExecutor, wordID, fileID int64, delta int) error {
	if delta < 1 {
		return fmt.Errorf("word-file delta must be positive, got %d", delta)
	}
	query := `INSERT INTO word_files (word_id, file_id, count_in_file)
			  VALUES (?, ?, ?)
			  ON CONFLICT(word_id, file_id) DO UPDATE SET
			    count_in_file = word_files.count_in_file + excluded.count_in_file`
	if _, err := ex.ExecContext(ctx, query, wordID, fileID, delta); err != nil {
		return fmt.Errorf("upsert word_file %d/%d: %w", wordID, fileID, err)
	}
	return nil
}
