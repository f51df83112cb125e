// Package corpus defines the shared value types and the read interface that
// the suggestion and sentence engines use to query accumulated n-gram
// statistics. Both the SQLite store and the in-memory snapshot implement
// Reader, so the engines never care where the counts live.
package corpus

import "context"

// Candidate is a possible next word together with the n-gram frequency that
// supports it.
type Candidate struct {
	Word      string
	Frequency int
}

// WordStats holds the per-word counters accumulated across all imports.
// SentenceStartCount and SentenceEndCount are always <= TotalCount.
type WordStats struct {
	TotalCount         int
	SentenceStartCount int
	SentenceEndCount   int
}

// EndProbability returns the empirical probability that the word ends a
// sentence, or 0 when the word has never been observed.
func (s WordStats) EndProbability() float64 {
	if s.TotalCount <= 0 {
		return 0
	}
	return float64(s.SentenceEndCount) / float64(s.TotalCount)
}

// Reader is the read-side contract over the corpus statistics. A missing
// word or n-gram context is an empty result, never an error; errors are
// reserved for the backing store failing.
//
// Candidate lists are ordered by descending frequency with the word text as
// a stable secondary key, so repeated calls against an unchanged corpus
// return identical orderings.
type Reader interface {
	// BigramSuccessors returns up to limit words observed directly after
	// from, ordered by descending bigram frequency.
	BigramSuccessors(ctx context.Context, from string, limit int) ([]Candidate, error)

	// TrigramSuccessors returns up to limit words observed after the
	// two-word context (first, second), ordered by descending trigram
	// frequency.
	TrigramSuccessors(ctx context.Context, first, second string, limit int) ([]Candidate, error)

	// WordStats returns the counters for word. ok is false when the word
	// has never been imported.
	WordStats(ctx context.Context, word string) (stats WordStats, ok bool, err error)

	// TopWords returns up to limit words ordered by descending total count.
	TopWords(ctx context.Context, limit int) ([]string, error)

	// WordsByFirstLetter returns up to limit words starting with letter,
	// ordered by descending total count. The caller filters out its own
	// seed word where needed.
	WordsByFirstLetter(ctx context.Context, letter rune, limit int) ([]Candidate, error)

	// BestStartingWord returns the word with the highest sentence-start
	// count, breaking ties by total count. ok is false for an empty corpus.
	BestStartingWord(ctx context.Context) (word string, ok bool, err error)
}
