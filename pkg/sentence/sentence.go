// Package sentence implements the sentence generation strategies. Each
// strategy extends a seed word or phrase by repeatedly selecting a next word
// from the corpus n-gram statistics until no candidate exists, the length
// cap is hit, or a strategy-specific stop condition fires. Words are never
// retracted once appended.
package sentence

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/yousefbali/SentenceBuilder/pkg/corpus"
	"github.com/yousefbali/SentenceBuilder/pkg/tokenizer"
)

// Candidate pool caps keep each lookup bounded regardless of corpus size.
const (
	bigramPoolSize       = 100
	trigramPoolSize      = 100
	alliterativePoolSize = 200
)

// Algorithm produces a word sequence from a seed. A corpus with no data for
// the seed yields the seed alone (or an empty string on an empty corpus),
// never an error. Cancellation mid-generation returns the partial sequence
// together with the context error.
type Algorithm interface {
	// Name is the stable key used to select the algorithm.
	Name() string
	// Description is a human-readable label.
	Description() string
	// Generate extends seed up to maxWords whitespace-separated words.
	// maxWords <= 0 yields "".
	Generate(ctx context.Context, r corpus.Reader, seed string, maxWords int) (string, error)
}

// Registry returns every available generation strategy. The stochastic
// strategies share rng; pass nil for a time-seeded source.
func Registry(rng *rand.Rand) []Algorithm {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return []Algorithm{
		BigramGreedy{},
		TrigramGreedy{},
		&BigramRandomWalk{Rng: rng},
		&AlliterativeRandom{Rng: rng},
		&SmartTrigramSampling{Rng: rng},
	}
}

// ByName returns the strategy registered under name, or nil.
func ByName(name string, rng *rand.Rand) Algorithm {
	for _, a := range Registry(rng) {
		if a.Name() == name {
			return a
		}
	}
	return nil
}

// resolveSeed parses the seed text into normalized words. An empty seed is
// replaced by the corpus-wide best starting word: highest sentence-start
// count, ties broken by total count. On an empty corpus the result is empty.
func resolveSeed(ctx context.Context, r corpus.Reader, seed string) ([]string, error) {
	var words []string
	for _, f := range strings.Fields(seed) {
		if w := tokenizer.Normalize(f); w != "" {
			words = append(words, w)
		}
	}
	if len(words) > 0 {
		return words, nil
	}

	start, ok, err := r.BestStartingWord(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return []string{start}, nil
}

func joinWords(words []string) string {
	return strings.Join(words, " ")
}

// clip enforces the maxWords cap on an already-resolved seed.
func clip(words []string, maxWords int) []string {
	if len(words) > maxWords {
		return words[:maxWords]
	}
	return words
}
