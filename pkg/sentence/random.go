package sentence

import (
	"context"
	"math/rand"

	"github.com/yousefbali/SentenceBuilder/pkg/corpus"
)

// sampleProportional draws one candidate with probability proportional to
// its raw frequency. Returns the zero Candidate and false on an empty pool.
func sampleProportional(rng *rand.Rand, cands []corpus.Candidate) (corpus.Candidate, bool) {
	if len(cands) == 0 {
		return corpus.Candidate{}, false
	}
	total := 0
	for _, c := range cands {
		total += c.Frequency
	}
	if total <= 0 {
		return cands[len(cands)-1], true
	}
	r := rng.Intn(total)
	acc := 0
	for _, c := range cands {
		acc += c.Frequency
		if r < acc {
			return c, true
		}
	}
	return cands[len(cands)-1], true
}

// BigramRandomWalk walks the bigram graph, sampling each next word with
// probability proportional to its edge frequency among the top candidates.
type BigramRandomWalk struct {
	Rng *rand.Rand
}

func (*BigramRandomWalk) Name() string        { return "bigram-random" }
func (*BigramRandomWalk) Description() string { return "Bigram random walk" }

func (a *BigramRandomWalk) Generate(ctx context.Context, r corpus.Reader, seed string, maxWords int) (string, error) {
	if maxWords <= 0 {
		return "", nil
	}
	words, err := resolveSeed(ctx, r, seed)
	if err != nil {
		return "", err
	}
	if len(words) == 0 {
		return "", nil
	}
	words = clip(words, maxWords)

	for len(words) < maxWords {
		if err := ctx.Err(); err != nil {
			return joinWords(words), err
		}
		cands, err := r.BigramSuccessors(ctx, words[len(words)-1], bigramPoolSize)
		if err != nil {
			return joinWords(words), err
		}
		next, ok := sampleProportional(a.Rng, cands)
		if !ok {
			break
		}
		words = append(words, next.Word)
	}
	return joinWords(words), nil
}

// AlliterativeRandom fills the sentence with uniform draws (with
// replacement) from the most frequent words sharing the seed's first
// letter. A seed starting with a non-letter, or one with no alliterative
// cohort, comes back alone.
type AlliterativeRandom struct {
	Rng *rand.Rand
}

func (*AlliterativeRandom) Name() string        { return "alliterative-random" }
func (*AlliterativeRandom) Description() string { return "Alliterative (same first letter)" }

func (a *AlliterativeRandom) Generate(ctx context.Context, r corpus.Reader, seed string, maxWords int) (string, error) {
	if maxWords <= 0 {
		return "", nil
	}
	words, err := resolveSeed(ctx, r, seed)
	if err != nil {
		return "", err
	}
	if len(words) == 0 {
		return "", nil
	}
	words = clip(words, maxWords)

	first := rune(words[0][0])
	if first < 'a' || first > 'z' {
		return joinWords(words), nil
	}

	pool, err := r.WordsByFirstLetter(ctx, first, alliterativePoolSize)
	if err != nil {
		return joinWords(words), err
	}
	cohort := make([]string, 0, len(pool))
	for _, c := range pool {
		if c.Word != words[0] {
			cohort = append(cohort, c.Word)
		}
	}
	if len(cohort) == 0 {
		return joinWords(words), nil
	}

	for len(words) < maxWords {
		if err := ctx.Err(); err != nil {
			return joinWords(words), err
		}
		words = append(words, cohort[a.Rng.Intn(len(cohort))])
	}
	return joinWords(words), nil
}
