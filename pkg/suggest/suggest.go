// Package suggest implements the autocomplete strategies. Every strategy is
// deterministic: the same corpus state and the same typed context always
// produce the same ordered candidate list, which is what an inline
// completion UI needs.
package suggest

import (
	"context"
	"strings"

	"github.com/yousefbali/SentenceBuilder/pkg/corpus"
	"github.com/yousefbali/SentenceBuilder/pkg/tokenizer"
)

// Algorithm ranks candidate next words for the text typed so far. A context
// with no matching statistics yields an empty list, never an error.
type Algorithm interface {
	// Name is the stable key used to select the algorithm.
	Name() string
	// Description is a human-readable label.
	Description() string
	// Suggest returns up to limit candidate words. Blank text or a
	// non-positive limit yield an empty result.
	Suggest(ctx context.Context, r corpus.Reader, text string, limit int) ([]string, error)
}

// Registry returns every available autocomplete strategy.
func Registry() []Algorithm {
	return []Algorithm{
		Bigram{},
		ContextTrigram{},
		GlobalFrequency{},
		Alliterative{},
	}
}

// ByName returns the strategy registered under name, or nil.
func ByName(name string) Algorithm {
	for _, a := range Registry() {
		if a.Name() == name {
			return a
		}
	}
	return nil
}

// lastTokens splits text on whitespace and normalizes the trailing n tokens,
// most recent last. Tokens that normalize away are dropped.
func lastTokens(text string, n int) []string {
	fields := strings.Fields(text)
	out := make([]string, 0, n)
	for i := len(fields) - 1; i >= 0 && len(out) < n; i-- {
		if w := tokenizer.Normalize(fields[i]); w != "" {
			out = append([]string{w}, out...)
		}
	}
	return out
}

func words(cands []corpus.Candidate, limit int) []string {
	if len(cands) > limit {
		cands = cands[:limit]
	}
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.Word
	}
	return out
}

// Bigram suggests the most frequent direct successors of the last word.
type Bigram struct{}

func (Bigram) Name() string        { return "bigram" }
func (Bigram) Description() string { return "Bigram top-N" }

func (Bigram) Suggest(ctx context.Context, r corpus.Reader, text string, limit int) ([]string, error) {
	if limit <= 0 || strings.TrimSpace(text) == "" {
		return nil, nil
	}
	toks := lastTokens(text, 1)
	if len(toks) == 0 {
		return nil, nil
	}
	cands, err := r.BigramSuccessors(ctx, toks[0], limit)
	if err != nil {
		return nil, err
	}
	return words(cands, limit), nil
}

// ContextTrigram uses the last two words as trigram context when available
// and falls back to bigram suggestions on the last word alone when the
// trigram lookup returns no rows at all.
type ContextTrigram struct{}

func (ContextTrigram) Name() string        { return "trigram" }
func (ContextTrigram) Description() string { return "Context trigram (with bigram fallback)" }

func (ContextTrigram) Suggest(ctx context.Context, r corpus.Reader, text string, limit int) ([]string, error) {
	if limit <= 0 || strings.TrimSpace(text) == "" {
		return nil, nil
	}
	toks := lastTokens(text, 2)
	if len(toks) == 0 {
		return nil, nil
	}

	if len(toks) == 2 {
		cands, err := r.TrigramSuccessors(ctx, toks[0], toks[1], limit)
		if err != nil {
			return nil, err
		}
		if len(cands) > 0 {
			return words(cands, limit), nil
		}
	}

	// Single word of context, or a trigram context the corpus has never
	// seen: use bigram statistics on the last word.
	cands, err := r.BigramSuccessors(ctx, toks[len(toks)-1], limit)
	if err != nil {
		return nil, err
	}
	return words(cands, limit), nil
}

// GlobalFrequency ignores the content of the context and returns the most
// frequent words in the whole corpus.
type GlobalFrequency struct{}

func (GlobalFrequency) Name() string        { return "global" }
func (GlobalFrequency) Description() string { return "Global frequency (no context)" }

func (GlobalFrequency) Suggest(ctx context.Context, r corpus.Reader, text string, limit int) ([]string, error) {
	if limit <= 0 || strings.TrimSpace(text) == "" {
		return nil, nil
	}
	return r.TopWords(ctx, limit)
}

// Alliterative suggests frequent words sharing the first letter of the last
// word, excluding that word itself.
type Alliterative struct{}

func (Alliterative) Name() string        { return "alliterative" }
func (Alliterative) Description() string { return "Alliterative (same first letter)" }

func (Alliterative) Suggest(ctx context.Context, r corpus.Reader, text string, limit int) ([]string, error) {
	if limit <= 0 || strings.TrimSpace(text) == "" {
		return nil, nil
	}
	toks := lastTokens(text, 1)
	if len(toks) == 0 {
		return nil, nil
	}
	seed := toks[0]
	first := rune(seed[0])
	if first < 'a' || first > 'z' {
		// No meaningful cohort for apostrophe-led tokens.
		return nil, nil
	}

	// Over-fetch one so excluding the seed still fills the limit.
	cands, err := r.WordsByFirstLetter(ctx, first, limit+1)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, limit)
	for _, c := range cands {
		if c.Word == seed {
			continue
		}
		out = append(out, c.Word)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}
