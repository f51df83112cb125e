package sentence

import (
	"context"
	"database/sql"
	"math/rand"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yousefbali/SentenceBuilder/pkg/db"
	"github.com/yousefbali/SentenceBuilder/pkg/ingest"
	"github.com/yousefbali/SentenceBuilder/pkg/tokenizer"
)

func setupReader(t *testing.T, text string) *db.Store {
	t.Helper()
	conn, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	require.NoError(t, db.InitDB(conn))
	t.Cleanup(func() { conn.Close() })

	if text != "" {
		im := ingest.NewImporter(conn)
		_, err = im.ImportDocument(context.Background(), "fixture.txt", tokenizer.Tokenize(text))
		require.NoError(t, err)
	}
	return db.NewStore(conn)
}

const walkText = "the cat sat on the mat. the cat sat on the rug. the dog ran."

func TestBigramGreedy(t *testing.T) {
	r := setupReader(t, walkText)
	ctx := context.Background()

	got, err := BigramGreedy{}.Generate(ctx, r, "the", 5)
	require.NoError(t, err)
	assert.Equal(t, "the cat sat on the", got)

	// Deterministic: same corpus, same seed, same output.
	again, err := BigramGreedy{}.Generate(ctx, r, "the", 5)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestBigramGreedyStopsWithoutSuccessor(t *testing.T) {
	r := setupReader(t, walkText)

	got, err := BigramGreedy{}.Generate(context.Background(), r, "ran", 10)
	require.NoError(t, err)
	assert.Equal(t, "ran", got, "'ran' only appears before a sentence boundary")
}

func TestBigramGreedyEmptySeedUsesBestStart(t *testing.T) {
	r := setupReader(t, walkText)

	got, err := BigramGreedy{}.Generate(context.Background(), r, "", 3)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "the "), "'the' starts all three sentences, got %q", got)
}

func TestTrigramGreedy(t *testing.T) {
	r := setupReader(t, walkText)
	ctx := context.Background()

	got, err := TrigramGreedy{}.Generate(ctx, r, "the cat", 5)
	require.NoError(t, err)
	assert.Equal(t, "the cat sat on the", got)
}

func TestTrigramGreedyBootstrapsSecondWord(t *testing.T) {
	r := setupReader(t, walkText)

	got, err := TrigramGreedy{}.Generate(context.Background(), r, "dog", 10)
	require.NoError(t, err)
	// Second word comes from the bigram table; (dog, ran) has no trigram
	// continuation and this variant never falls back mid-generation.
	assert.Equal(t, "dog ran", got)
}

func TestTrigramGreedyNoMidGenerationFallback(t *testing.T) {
	r := setupReader(t, walkText)

	got, err := TrigramGreedy{}.Generate(context.Background(), r, "dog ran", 10)
	require.NoError(t, err)
	assert.Equal(t, "dog ran", got, "missing trigram context ends generation even though dog-> bigrams exist")
}

func TestBigramRandomWalkFollowsEdges(t *testing.T) {
	r := setupReader(t, walkText)
	ctx := context.Background()

	algo := &BigramRandomWalk{Rng: rand.New(rand.NewSource(1))}
	got, err := algo.Generate(ctx, r, "the", 8)
	require.NoError(t, err)

	words := strings.Fields(got)
	require.NotEmpty(t, words)
	assert.LessOrEqual(t, len(words), 8)
	assert.Equal(t, "the", words[0])

	// Every step must be an observed bigram edge.
	for i := 1; i < len(words); i++ {
		cands, err := r.BigramSuccessors(ctx, words[i-1], 100)
		require.NoError(t, err)
		found := false
		for _, c := range cands {
			if c.Word == words[i] {
				found = true
				break
			}
		}
		assert.True(t, found, "%s -> %s is not an observed bigram", words[i-1], words[i])
	}
}

func TestAlliterativeRandom(t *testing.T) {
	r := setupReader(t, walkText)

	algo := &AlliterativeRandom{Rng: rand.New(rand.NewSource(1))}
	got, err := algo.Generate(context.Background(), r, "rug", 6)
	require.NoError(t, err)

	words := strings.Fields(got)
	require.Len(t, words, 6)
	assert.Equal(t, "rug", words[0])
	for _, w := range words[1:] {
		// 'ran' is the only other r-word; sampling is with replacement.
		assert.Equal(t, "ran", w)
	}
}

func TestAlliterativeRandomNoCohort(t *testing.T) {
	r := setupReader(t, walkText)
	algo := &AlliterativeRandom{Rng: rand.New(rand.NewSource(1))}

	got, err := algo.Generate(context.Background(), r, "dog", 6)
	require.NoError(t, err)
	assert.Equal(t, "dog", got, "no other d-words exist, seed comes back alone")
}

func TestSmartTrigramSamplingEarlyStop(t *testing.T) {
	// Chain with unique continuations; "gg" ends a sentence half the time,
	// well above the stopping threshold.
	r := setupReader(t, "aa bb cc dd ee ff gg hh. xx gg.")

	algo := &SmartTrigramSampling{Rng: rand.New(rand.NewSource(1))}
	got, err := algo.Generate(context.Background(), r, "aa", 20)
	require.NoError(t, err)
	assert.Equal(t, "aa bb cc dd ee ff gg", got, "generation stops on the likely sentence ender")
}

func TestSmartTrigramSamplingBigramFallback(t *testing.T) {
	// (xx, gg) has no trigram continuation, so the step to "hh" must come
	// from the bigram fallback; (gg, hh) then has neither trigrams nor
	// bigram successors and the walk ends.
	r := setupReader(t, "aa bb cc dd ee ff gg hh. xx gg.")

	algo := &SmartTrigramSampling{Rng: rand.New(rand.NewSource(1))}
	got, err := algo.Generate(context.Background(), r, "xx", 20)
	require.NoError(t, err)
	assert.Equal(t, "xx gg hh", got)
}

func TestGenerationTerminationAndCap(t *testing.T) {
	r := setupReader(t, walkText)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))

	for _, algo := range Registry(rng) {
		for _, seed := range []string{"", "the", "the cat", "zzz"} {
			got, err := algo.Generate(ctx, r, seed, 4)
			require.NoError(t, err, algo.Name())
			assert.LessOrEqual(t, len(strings.Fields(got)), 4,
				"%s exceeded maxWords for seed %q", algo.Name(), seed)
		}
	}
}

func TestGenerationEmptyCorpus(t *testing.T) {
	r := setupReader(t, "")
	ctx := context.Background()
	rng := rand.New(rand.NewSource(7))

	for _, algo := range Registry(rng) {
		got, err := algo.Generate(ctx, r, "", 5)
		require.NoError(t, err, algo.Name())
		assert.Equal(t, "", got, "%s must yield nothing on an empty corpus", algo.Name())

		got, err = algo.Generate(ctx, r, "seed", 5)
		require.NoError(t, err, algo.Name())
		assert.Equal(t, "seed", got, "%s returns at most the seed on an empty corpus", algo.Name())
	}
}

func TestGenerationMaxWordsZero(t *testing.T) {
	r := setupReader(t, walkText)
	rng := rand.New(rand.NewSource(7))

	for _, algo := range Registry(rng) {
		got, err := algo.Generate(context.Background(), r, "the", 0)
		require.NoError(t, err, algo.Name())
		assert.Equal(t, "", got, algo.Name())
	}
}

func TestGenerationCancellationReturnsPartial(t *testing.T) {
	r := setupReader(t, walkText)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := BigramGreedy{}.Generate(ctx, r, "the", 10)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "the", got, "the words generated so far are returned alongside the error")
}

func TestRegistryAndByName(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	names := map[string]bool{}
	for _, a := range Registry(rng) {
		names[a.Name()] = true
		assert.NotEmpty(t, a.Description())
		assert.Equal(t, a.Name(), ByName(a.Name(), rng).Name())
	}
	assert.Len(t, names, 5)
	assert.Nil(t, ByName("nope", rng))
}
