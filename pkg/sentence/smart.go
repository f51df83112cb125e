package sentence

import (
	"context"
	"math"
	"math/rand"

	"github.com/yousefbali/SentenceBuilder/pkg/corpus"
)

const (
	// alpha is the exponent applied to frequencies when sampling;
	// < 1.0 flattens the distribution toward diversity.
	alpha = 0.7

	// endThreshold is the minimum empirical p(end | word) for a token to
	// count as a good sentence ending.
	endThreshold = 0.35

	// minLengthForEnding is the minimum sentence length before early
	// stopping on an ending word is considered.
	minLengthForEnding = 6
)

// SmartTrigramSampling prefers trigram context, falls back to bigrams when
// the trigram lookup yields no rows, samples with frequency^alpha weights,
// and stops early on words that frequently end sentences in the corpus.
type SmartTrigramSampling struct {
	Rng *rand.Rand
}

func (*SmartTrigramSampling) Name() string        { return "smart-trigram" }
func (*SmartTrigramSampling) Description() string { return "Smart trigram (sample + endings)" }

// sampleWeighted draws one candidate with probability proportional to
// frequency^alpha. Returns false on an empty pool.
func (a *SmartTrigramSampling) sampleWeighted(cands []corpus.Candidate) (corpus.Candidate, bool) {
	if len(cands) == 0 {
		return corpus.Candidate{}, false
	}
	total := 0.0
	for _, c := range cands {
		total += math.Pow(float64(c.Frequency), alpha)
	}
	r := a.Rng.Float64() * total
	acc := 0.0
	for _, c := range cands {
		acc += math.Pow(float64(c.Frequency), alpha)
		if r <= acc {
			return c, true
		}
	}
	// Floating-point rounding can leave r marginally above the last
	// accumulator; return the final candidate rather than nothing.
	return cands[len(cands)-1], true
}

// next samples a continuation for the current window: trigram candidates
// for (first, second) when any exist, else bigram candidates for second.
func (a *SmartTrigramSampling) next(ctx context.Context, r corpus.Reader, first, second string) (corpus.Candidate, bool, error) {
	if first != "" {
		cands, err := r.TrigramSuccessors(ctx, first, second, trigramPoolSize)
		if err != nil {
			return corpus.Candidate{}, false, err
		}
		if c, ok := a.sampleWeighted(cands); ok {
			return c, true, nil
		}
	}
	cands, err := r.BigramSuccessors(ctx, second, bigramPoolSize)
	if err != nil {
		return corpus.Candidate{}, false, err
	}
	c, ok := a.sampleWeighted(cands)
	return c, ok, nil
}

func (a *SmartTrigramSampling) Generate(ctx context.Context, r corpus.Reader, seed string, maxWords int) (string, error) {
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

		first := ""
		if len(words) >= 2 {
			first = words[len(words)-2]
		}
		second := words[len(words)-1]

		cand, ok, err := a.next(ctx, r, first, second)
		if err != nil {
			return joinWords(words), err
		}
		if !ok {
			break
		}
		words = append(words, cand.Word)

		if len(words) >= minLengthForEnding {
			stats, found, err := r.WordStats(ctx, cand.Word)
			if err != nil {
				return joinWords(words), err
			}
			if found && stats.EndProbability() >= endThreshold {
				break
			}
		}
	}
	return joinWords(words), nil
}
