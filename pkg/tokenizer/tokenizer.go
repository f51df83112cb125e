// Package tokenizer turns raw plain text into normalized word tokens and
// accumulates document-scoped n-gram statistics: per-word totals with
// sentence start/end counts, plus bigram and trigram frequency maps. The
// result is transient; pkg/ingest merges it into the store exactly once.
package tokenizer

import (
	"fmt"
	"os"
	"strings"
)

// Bigram is an ordered pair of adjacent normalized words within a sentence.
type Bigram struct {
	From string
	To   string
}

// Trigram is an ordered triple of consecutive normalized words within a
// sentence.
type Trigram struct {
	First  string
	Second string
	Next   string
}

// WordCounts holds the counters for one word within a single document.
type WordCounts struct {
	Total  int
	Starts int
	Ends   int
}

// Result carries everything observed in one document. All counts are local
// to that document; nothing has been merged into the corpus yet.
type Result struct {
	// TokenCount is the number of emitted tokens, including terminal
	// punctuation tokens. Tokens that normalize to the empty string are
	// not counted.
	TokenCount int
	Words      map[string]WordCounts
	Bigrams    map[Bigram]int
	Trigrams   map[Trigram]int
}

// BigramMass returns the summed frequency of all bigram observations.
func (r *Result) BigramMass() int {
	total := 0
	for _, n := range r.Bigrams {
		total += n
	}
	return total
}

// TrigramMass returns the summed frequency of all trigram observations.
func (r *Result) TrigramMass() int {
	total := 0
	for _, n := range r.Trigrams {
		total += n
	}
	return total
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isWordByte(b byte) bool {
	return isLetter(b) || b == '\''
}

func isTerminal(b byte) bool {
	return b == '.' || b == '!' || b == '?'
}

// Normalize reduces a raw token to the canonical form used as the storage
// key: lower-cased, boundary characters that are neither ASCII letters nor
// apostrophes stripped, and a trailing possessive 's removed when the
// remainder is longer than the suffix itself. Returns "" when nothing
// survives; callers must discard such tokens.
func Normalize(token string) string {
	s := strings.ToLower(token)

	start := 0
	for start < len(s) && !isWordByte(s[start]) {
		start++
	}
	end := len(s)
	for end > start && !isWordByte(s[end-1]) {
		end--
	}
	s = s[start:end]

	if len(s) > 2 && strings.HasSuffix(s, "'s") {
		s = s[:len(s)-2]
	}
	return s
}

// Tokenize scans text and returns the accumulated statistics for it.
//
// A token is either a maximal run of ASCII letters and apostrophes or a
// single terminal punctuation mark (. ! ?). Every other byte is a
// separator. The two-word adjacency window resets at each terminal token so
// no bigram or trigram ever crosses a sentence boundary. A word at the very
// end of the document with no trailing terminal is intentionally not
// counted as a sentence ending.
func Tokenize(text string) *Result {
	res := &Result{
		Words:    make(map[string]WordCounts),
		Bigrams:  make(map[Bigram]int),
		Trigrams: make(map[Trigram]int),
	}

	var prev1, prev2 string
	atStart := true

	emitWord := func(raw string) {
		word := Normalize(raw)
		if word == "" {
			// Discarded tokens leave the adjacency window untouched.
			return
		}
		res.TokenCount++

		wc := res.Words[word]
		wc.Total++
		if atStart {
			wc.Starts++
		}
		res.Words[word] = wc

		if prev1 != "" {
			res.Bigrams[Bigram{From: prev1, To: word}]++
		}
		if prev2 != "" {
			res.Trigrams[Trigram{First: prev2, Second: prev1, Next: word}]++
		}

		atStart = false
		prev2 = prev1
		prev1 = word
	}

	emitTerminal := func() {
		res.TokenCount++
		if prev1 != "" {
			wc := res.Words[prev1]
			wc.Ends++
			res.Words[prev1] = wc
		}
		atStart = true
		prev1 = ""
		prev2 = ""
	}

	runStart := -1
	for i := 0; i < len(text); i++ {
		b := text[i]
		switch {
		case isWordByte(b):
			if runStart < 0 {
				runStart = i
			}
		case isTerminal(b):
			if runStart >= 0 {
				emitWord(text[runStart:i])
				runStart = -1
			}
			emitTerminal()
		default:
			if runStart >= 0 {
				emitWord(text[runStart:i])
				runStart = -1
			}
		}
	}
	if runStart >= 0 {
		emitWord(text[runStart:])
	}

	return res
}

// TokenizeFile reads the file at path and tokenizes its contents. The file
// must be a regular file; anything else aborts before any byte is read so
// the caller can refuse the import with the corpus untouched.
func TokenizeFile(path string) (*Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: not a regular file", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Tokenize(string(data)), nil
}
