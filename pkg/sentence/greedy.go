package sentence

import (
	"context"

	"github.com/yousefbali/SentenceBuilder/pkg/corpus"
)

// BigramGreedy extends the sequence by always taking the single most
// frequent bigram successor of the last word. Fully deterministic; ties are
// broken by the reader's stable word-text ordering.
type BigramGreedy struct{}

func (BigramGreedy) Name() string        { return "bigram-greedy" }
func (BigramGreedy) Description() string { return "Bigram greedy" }

func (BigramGreedy) Generate(ctx context.Context, r corpus.Reader, seed string, maxWords int) (string, error) {
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
		cands, err := r.BigramSuccessors(ctx, words[len(words)-1], 1)
		if err != nil {
			return joinWords(words), err
		}
		if len(cands) == 0 {
			break
		}
		words = append(words, cands[0].Word)
	}
	return joinWords(words), nil
}

// TrigramGreedy uses the last two words as trigram context and takes the
// most frequent successor. With only one word available it bootstraps a
// second via the bigram table; once running it never falls back to bigrams,
// so a context with no trigram continuation ends the sentence.
type TrigramGreedy struct{}

func (TrigramGreedy) Name() string        { return "trigram-greedy" }
func (TrigramGreedy) Description() string { return "Trigram greedy" }

func (TrigramGreedy) Generate(ctx context.Context, r corpus.Reader, seed string, maxWords int) (string, error) {
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

	if len(words) == 1 && len(words) < maxWords {
		cands, err := r.BigramSuccessors(ctx, words[0], 1)
		if err != nil {
			return joinWords(words), err
		}
		if len(cands) > 0 {
			words = append(words, cands[0].Word)
		}
	}

	for len(words) < maxWords {
		if err := ctx.Err(); err != nil {
			return joinWords(words), err
		}
		if len(words) < 2 {
			break
		}
		first, second := words[len(words)-2], words[len(words)-1]
		cands, err := r.TrigramSuccessors(ctx, first, second, 1)
		if err != nil {
			return joinWords(words), err
		}
		if len(cands) == 0 {
			break
		}
		words = append(words, cands[0].Word)
	}
	return joinWords(words), nil
}
