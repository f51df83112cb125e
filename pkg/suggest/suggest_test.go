package suggest

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yousefbali/SentenceBuilder/pkg/db"
	"github.com/yousefbali/SentenceBuilder/pkg/ingest"
	"github.com/yousefbali/SentenceBuilder/pkg/tokenizer"
)

const fixtureText = "The quick brown fox jumps. The quick brown cat naps. " +
	"The slow dog barks. apple and avocado and apricot. apple pie."

func setupReader(t *testing.T) *db.Store {
	t.Helper()
	conn, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	require.NoError(t, db.InitDB(conn))
	t.Cleanup(func() { conn.Close() })

	im := ingest.NewImporter(conn)
	_, err = im.ImportDocument(context.Background(), "fixture.txt", tokenizer.Tokenize(fixtureText))
	require.NoError(t, err)

	return db.NewStore(conn)
}

func TestBigramSuggest(t *testing.T) {
	r := setupReader(t)
	ctx := context.Background()

	got, err := Bigram{}.Suggest(ctx, r, "the", 10)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "quick", got[0], "the->quick has frequency 2")

	got, err = Bigram{}.Suggest(ctx, r, "The quick", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"brown"}, got, "only the last word is context")
}

func TestBigramSuggestEmptyCases(t *testing.T) {
	r := setupReader(t)
	ctx := context.Background()

	got, err := Bigram{}.Suggest(ctx, r, "", 10)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = Bigram{}.Suggest(ctx, r, "   ", 10)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = Bigram{}.Suggest(ctx, r, "the", 0)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = Bigram{}.Suggest(ctx, r, "unseenword", 10)
	require.NoError(t, err)
	assert.Empty(t, got, "a lookup miss is an empty result, not an error")
}

func TestSuggestDeterminism(t *testing.T) {
	r := setupReader(t)
	ctx := context.Background()

	for _, algo := range Registry() {
		first, err := algo.Suggest(ctx, r, "the quick", 5)
		require.NoError(t, err, algo.Name())
		second, err := algo.Suggest(ctx, r, "the quick", 5)
		require.NoError(t, err, algo.Name())
		assert.Equal(t, first, second, "%s must be deterministic", algo.Name())
	}
}

func TestContextTrigramUsesTrigramsWhenPresent(t *testing.T) {
	r := setupReader(t)
	ctx := context.Background()

	got, err := ContextTrigram{}.Suggest(ctx, r, "the quick", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"brown"}, got)
}

func TestContextTrigramFallsBackToBigram(t *testing.T) {
	r := setupReader(t)
	ctx := context.Background()

	// No (slow, quick, *) trigram exists: output must match the plain
	// bigram suggestion for the last word alone.
	fallback, err := ContextTrigram{}.Suggest(ctx, r, "slow quick", 10)
	require.NoError(t, err)
	direct, err := Bigram{}.Suggest(ctx, r, "quick", 10)
	require.NoError(t, err)
	assert.Equal(t, direct, fallback)

	// Single word of context skips straight to bigram.
	single, err := ContextTrigram{}.Suggest(ctx, r, "quick", 10)
	require.NoError(t, err)
	assert.Equal(t, direct, single)
}

func TestGlobalFrequency(t *testing.T) {
	r := setupReader(t)
	ctx := context.Background()

	got, err := GlobalFrequency{}.Suggest(ctx, r, "anything", 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "the", got[0], "'the' is the most frequent word")

	got, err = GlobalFrequency{}.Suggest(ctx, r, "   ", 3)
	require.NoError(t, err)
	assert.Empty(t, got, "blank context yields nothing even without ranking context")
}

func TestAlliterative(t *testing.T) {
	r := setupReader(t)
	ctx := context.Background()

	got, err := Alliterative{}.Suggest(ctx, r, "apple", 5)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	for _, w := range got {
		assert.Equal(t, byte('a'), w[0], "every suggestion starts with 'a'")
		assert.NotEqual(t, "apple", w, "the seed itself is excluded")
	}
	assert.Equal(t, "and", got[0], "'and' is the most frequent a-word besides the seed")
}

func TestAlliterativeNonLetterSeed(t *testing.T) {
	r := setupReader(t)

	got, err := Alliterative{}.Suggest(context.Background(), r, "'twas", 5)
	require.NoError(t, err)
	assert.Empty(t, got, "apostrophe-led seeds have no cohort")
}

func TestRegistryAndByName(t *testing.T) {
	names := map[string]bool{}
	for _, a := range Registry() {
		names[a.Name()] = true
		assert.NotEmpty(t, a.Description())
		assert.Equal(t, a.Name(), ByName(a.Name()).Name())
	}
	assert.Len(t, names, 4)
	assert.Nil(t, ByName("nope"))
}
