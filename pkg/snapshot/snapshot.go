// Package snapshot provides an immutable in-memory view of the corpus
// statistics implementing corpus.Reader. A snapshot is built from the store
// in one pass and then never mutated; Cache swaps whole snapshots
// atomically, so readers always see a consistent corpus version instead of
// an ambient map being rebuilt underneath them.
package snapshot

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/tchap/go-patricia/v2/patricia"

	"github.com/yousefbali/SentenceBuilder/pkg/corpus"
)

type bigramKey struct {
	First  string
	Second string
}

// Snapshot is a point-in-time copy of every corpus statistic. All successor
// lists are pre-sorted by descending frequency with word text as the
// secondary key, matching the store's ordering.
type Snapshot struct {
	Version uint64
	BuiltAt time.Time

	words    map[string]corpus.WordStats
	bigrams  map[string][]corpus.Candidate
	trigrams map[bigramKey][]corpus.Candidate
	byTotal  []corpus.Candidate

	trie *patricia.Trie

	bestStart string
	hasWords  bool
}

func sortCandidates(cands []corpus.Candidate) {
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].Frequency != cands[j].Frequency {
			return cands[i].Frequency > cands[j].Frequency
		}
		return cands[i].Word < cands[j].Word
	})
}

// Build reads the whole store and returns a snapshot of it.
func Build(ctx context.Context, conn *sql.DB) (*Snapshot, error) {
	s := &Snapshot{
		BuiltAt:  time.Now(),
		words:    make(map[string]corpus.WordStats),
		bigrams:  make(map[string][]corpus.Candidate),
		trigrams: make(map[bigramKey][]corpus.Candidate),
		trie:     patricia.NewTrie(),
	}

	rows, err := conn.QueryContext(ctx, `
		SELECT word_text, total_count, sentence_start_count, sentence_end_count
		FROM words`)
	if err != nil {
		return nil, fmt.Errorf("snapshot words: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var w string
		var st corpus.WordStats
		if err := rows.Scan(&w, &st.TotalCount, &st.SentenceStartCount, &st.SentenceEndCount); err != nil {
			return nil, err
		}
		s.words[w] = st
		s.trie.Insert(patricia.Prefix(w), st.TotalCount)
		s.byTotal = append(s.byTotal, corpus.Candidate{Word: w, Frequency: st.TotalCount})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sortCandidates(s.byTotal)

	brows, err := conn.QueryContext(ctx, `
		SELECT w1.word_text, w2.word_text, r.frequency
		FROM word_relations_bigram r
		JOIN words w1 ON w1.word_id = r.from_word_id
		JOIN words w2 ON w2.word_id = r.to_word_id`)
	if err != nil {
		return nil, fmt.Errorf("snapshot bigrams: %w", err)
	}
	defer brows.Close()
	for brows.Next() {
		var from string
		var c corpus.Candidate
		if err := brows.Scan(&from, &c.Word, &c.Frequency); err != nil {
			return nil, err
		}
		s.bigrams[from] = append(s.bigrams[from], c)
	}
	if err := brows.Err(); err != nil {
		return nil, err
	}
	for _, cands := range s.bigrams {
		sortCandidates(cands)
	}

	trows, err := conn.QueryContext(ctx, `
		SELECT w1.word_text, w2.word_text, w3.word_text, t.frequency
		FROM word_relations_trigram t
		JOIN words w1 ON w1.word_id = t.first_word_id
		JOIN words w2 ON w2.word_id = t.second_word_id
		JOIN words w3 ON w3.word_id = t.next_word_id`)
	if err != nil {
		return nil, fmt.Errorf("snapshot trigrams: %w", err)
	}
	defer trows.Close()
	for trows.Next() {
		var key bigramKey
		var c corpus.Candidate
		if err := trows.Scan(&key.First, &key.Second, &c.Word, &c.Frequency); err != nil {
			return nil, err
		}
		s.trigrams[key] = append(s.trigrams[key], c)
	}
	if err := trows.Err(); err != nil {
		return nil, err
	}
	for _, cands := range s.trigrams {
		sortCandidates(cands)
	}

	s.computeBestStart()
	return s, nil
}

func (s *Snapshot) computeBestStart() {
	var best string
	var bestStats corpus.WordStats
	for w, st := range s.words {
		if !s.hasWords {
			s.hasWords = true
			best, bestStats = w, st
			continue
		}
		switch {
		case st.SentenceStartCount != bestStats.SentenceStartCount:
			if st.SentenceStartCount > bestStats.SentenceStartCount {
				best, bestStats = w, st
			}
		case st.TotalCount != bestStats.TotalCount:
			if st.TotalCount > bestStats.TotalCount {
				best, bestStats = w, st
			}
		case w < best:
			best, bestStats = w, st
		}
	}
	s.bestStart = best
}

// WordCount returns the number of distinct words captured.
func (s *Snapshot) WordCount() int { return len(s.words) }

func limited(cands []corpus.Candidate, limit int) []corpus.Candidate {
	if limit <= 0 || len(cands) == 0 {
		return nil
	}
	if len(cands) > limit {
		cands = cands[:limit]
	}
	// Callers must not observe shared backing arrays.
	out := make([]corpus.Candidate, len(cands))
	copy(out, cands)
	return out
}

// BigramSuccessors implements corpus.Reader.
func (s *Snapshot) BigramSuccessors(ctx context.Context, from string, limit int) ([]corpus.Candidate, error) {
	return limited(s.bigrams[from], limit), nil
}

// TrigramSuccessors implements corpus.Reader.
func (s *Snapshot) TrigramSuccessors(ctx context.Context, first, second string, limit int) ([]corpus.Candidate, error) {
	return limited(s.trigrams[bigramKey{First: first, Second: second}], limit), nil
}

// WordStats implements corpus.Reader.
func (s *Snapshot) WordStats(ctx context.Context, word string) (corpus.WordStats, bool, error) {
	st, ok := s.words[word]
	return st, ok, nil
}

// TopWords implements corpus.Reader.
func (s *Snapshot) TopWords(ctx context.Context, limit int) ([]string, error) {
	top := limited(s.byTotal, limit)
	out := make([]string, len(top))
	for i, c := range top {
		out[i] = c.Word
	}
	return out, nil
}

// WordsByFirstLetter implements corpus.Reader using the patricia trie.
func (s *Snapshot) WordsByFirstLetter(ctx context.Context, letter rune, limit int) ([]corpus.Candidate, error) {
	if limit <= 0 {
		return nil, nil
	}
	var cohort []corpus.Candidate
	err := s.trie.VisitSubtree(patricia.Prefix(string(letter)), func(p patricia.Prefix, item patricia.Item) error {
		total, _ := item.(int)
		cohort = append(cohort, corpus.Candidate{Word: string(p), Frequency: total})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortCandidates(cohort)
	if len(cohort) > limit {
		cohort = cohort[:limit]
	}
	return cohort, nil
}

// BestStartingWord implements corpus.Reader.
func (s *Snapshot) BestStartingWord(ctx context.Context) (string, bool, error) {
	return s.bestStart, s.hasWords, nil
}

// Cache holds the current snapshot and swaps it atomically on rebuild.
// Readers keep whatever snapshot they grabbed; there is no partially
// rebuilt state to observe.
type Cache struct {
	current atomic.Pointer[Snapshot]
	version atomic.Uint64
}

// Current returns the latest snapshot, or nil before the first rebuild.
func (c *Cache) Current() *Snapshot {
	return c.current.Load()
}

// Rebuild builds a fresh snapshot from conn and publishes it.
func (c *Cache) Rebuild(ctx context.Context, conn *sql.DB) (*Snapshot, error) {
	s, err := Build(ctx, conn)
	if err != nil {
		return nil, err
	}
	s.Version = c.version.Add(1)
	c.current.Store(s)
	return s, nil
}
