package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/yousefbali/SentenceBuilder/pkg/corpus"
)

// Store wraps an open connection and implements corpus.Reader directly over
// SQL. All frequency-ranked queries carry word_text as a secondary sort key
// so results are stable between calls on an unchanged corpus.
type Store struct {
	db *sql.DB
}

// NewStore wraps conn. The caller keeps ownership of the connection.
func NewStore(conn *sql.DB) *Store {
	return &Store{db: conn}
}

// DB exposes the underlying connection for the import pipeline, which needs
// its own transactions.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) candidates(ctx context.Context, query string, args ...interface{}) ([]corpus.Candidate, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []corpus.Candidate
	for rows.Next() {
		var c corpus.Candidate
		if err := rows.Scan(&c.Word, &c.Frequency); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// BigramSuccessors implements corpus.Reader.
func (s *Store) BigramSuccessors(ctx context.Context, from string, limit int) ([]corpus.Candidate, error) {
	if limit <= 0 || from == "" {
		return nil, nil
	}
	return s.candidates(ctx, `
		SELECT w2.word_text, r.frequency
		FROM words w1
		JOIN word_relations_bigram r ON r.from_word_id = w1.word_id
		JOIN words w2 ON w2.word_id = r.to_word_id
		WHERE w1.word_text = ?
		ORDER BY r.frequency DESC, w2.word_text ASC
		LIMIT ?`, from, limit)
}

// TrigramSuccessors implements corpus.Reader.
func (s *Store) TrigramSuccessors(ctx context.Context, first, second string, limit int) ([]corpus.Candidate, error) {
	if limit <= 0 || first == "" || second == "" {
		return nil, nil
	}
	return s.candidates(ctx, `
		SELECT w3.word_text, t.frequency
		FROM words w1
		JOIN word_relations_trigram t ON t.first_word_id = w1.word_id
		JOIN words w2 ON w2.word_id = t.second_word_id
		JOIN words w3 ON w3.word_id = t.next_word_id
		WHERE w1.word_text = ? AND w2.word_text = ?
		ORDER BY t.frequency DESC, w3.word_text ASC
		LIMIT ?`, first, second, limit)
}

// WordStats implements corpus.Reader. A word that was never imported yields
// ok == false, not an error.
func (s *Store) WordStats(ctx context.Context, word string) (corpus.WordStats, bool, error) {
	var st corpus.WordStats
	err := s.db.QueryRowContext(ctx, `
		SELECT total_count, sentence_start_count, sentence_end_count
		FROM words WHERE word_text = ?`, word).
		Scan(&st.TotalCount, &st.SentenceStartCount, &st.SentenceEndCount)
	if errors.Is(err, sql.ErrNoRows) {
		return corpus.WordStats{}, false, nil
	}
	if err != nil {
		return corpus.WordStats{}, false, err
	}
	return st, true, nil
}

// TopWords implements corpus.Reader.
func (s *Store) TopWords(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT word_text FROM words
		ORDER BY total_count DESC, word_text ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// WordsByFirstLetter implements corpus.Reader.
func (s *Store) WordsByFirstLetter(ctx context.Context, letter rune, limit int) ([]corpus.Candidate, error) {
	if limit <= 0 {
		return nil, nil
	}
	return s.candidates(ctx, `
		SELECT word_text, total_count
		FROM words
		WHERE word_text LIKE ?
		ORDER BY total_count DESC, word_text ASC
		LIMIT ?`, string(letter)+"%", limit)
}

// BestStartingWord implements corpus.Reader: the word most often observed at
// a sentence start, ties broken by overall frequency.
func (s *Store) BestStartingWord(ctx context.Context) (string, bool, error) {
	var word string
	err := s.db.QueryRowContext(ctx, `
		SELECT word_text FROM words
		ORDER BY sentence_start_count DESC, total_count DESC, word_text ASC
		LIMIT 1`).Scan(&word)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return word, true, nil
}

// Totals returns corpus-wide aggregates for the stats view.
func (s *Store) Totals(ctx context.Context) (CorpusTotals, error) {
	var t CorpusTotals
	row := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM files),
			(SELECT COUNT(*) FROM words),
			(SELECT IFNULL(SUM(total_count), 0) FROM words),
			(SELECT IFNULL(SUM(frequency), 0) FROM word_relations_bigram),
			(SELECT IFNULL(SUM(frequency), 0) FROM word_relations_trigram)`)
	if err := row.Scan(&t.Files, &t.DistinctWords, &t.TokenMass, &t.BigramMass, &t.TrigramMass); err != nil {
		return CorpusTotals{}, err
	}
	return t, nil
}

// TopWordRecords returns the limit most frequent words with their full
// counters, for analytics output.
func (s *Store) TopWordRecords(ctx context.Context, limit int) ([]WordRecord, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT word_id, word_text, total_count, sentence_start_count, sentence_end_count
		FROM words
		ORDER BY total_count DESC, word_text ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []WordRecord
	for rows.Next() {
		var w WordRecord
		if err := rows.Scan(&w.ID, &w.Text, &w.TotalCount, &w.SentenceStartCount, &w.SentenceEndCount); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// ListFiles returns every imported document ordered by most recent import.
func (s *Store) ListFiles(ctx context.Context) ([]FileRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT file_id, filename, word_count, import_date
		FROM files
		ORDER BY import_date DESC, filename ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FileRecord
	for rows.Next() {
		var f FileRecord
		if err := rows.Scan(&f.ID, &f.Filename, &f.WordCount, &f.ImportDate); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Reset deletes every statistic in the store inside one transaction. This is
// the only operation that ever decrements a counter.
func (s *Store) Reset(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // ignored if committed
	}()

	for _, table := range []string{
		"word_relations_trigram",
		"word_relations_bigram",
		"word_files",
		"words",
		"files",
	} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}
	return tx.Commit()
}
