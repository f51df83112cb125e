package ingest

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/yousefbali/SentenceBuilder/pkg/db"
	"github.com/yousefbali/SentenceBuilder/pkg/tokenizer"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	conn.SetMaxOpenConns(1)
	if err := db.InitDB(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestImportDocumentScenario(t *testing.T) {
	conn := setupTestDB(t)
	im := NewImporter(conn)
	ctx := context.Background()

	res := tokenizer.Tokenize("The cat sat. The cat ran.")
	sum, err := im.ImportDocument(ctx, "pets.txt", res)
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	if sum.Filename != "pets.txt" || sum.DistinctWords != 4 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if sum.Tokens != 8 { // six words plus two terminals
		t.Fatalf("expected 8 tokens, got %d", sum.Tokens)
	}

	store := db.NewStore(conn)
	cat, ok, err := store.WordStats(ctx, "cat")
	if err != nil || !ok {
		t.Fatalf("word stats: ok=%v err=%v", ok, err)
	}
	if cat.TotalCount != 2 || cat.SentenceStartCount != 0 {
		t.Fatalf("unexpected cat stats: %+v", cat)
	}

	succ, err := store.BigramSuccessors(ctx, "the", 10)
	if err != nil {
		t.Fatalf("successors: %v", err)
	}
	if len(succ) != 1 || succ[0].Word != "cat" || succ[0].Frequency != 2 {
		t.Fatalf("expected the->cat freq 2, got %+v", succ)
	}

	tri, err := store.TrigramSuccessors(ctx, "the", "cat", 10)
	if err != nil {
		t.Fatalf("trigram successors: %v", err)
	}
	if len(tri) != 2 || tri[0].Frequency != 1 || tri[1].Frequency != 1 {
		t.Fatalf("expected two trigram successors with freq 1, got %+v", tri)
	}
}

// Importing the same document twice doubles every accumulated counter. The
// files row alone keeps replace semantics for word_count and import_date.
func TestReimportDoubles(t *testing.T) {
	conn := setupTestDB(t)
	im := NewImporter(conn)
	ctx := context.Background()

	res := tokenizer.Tokenize("The cat sat. The cat ran.")
	if _, err := im.ImportDocument(ctx, "pets.txt", res); err != nil {
		t.Fatalf("first import: %v", err)
	}
	res2 := tokenizer.Tokenize("The cat sat. The cat ran.")
	if _, err := im.ImportDocument(ctx, "pets.txt", res2); err != nil {
		t.Fatalf("second import: %v", err)
	}

	store := db.NewStore(conn)
	cat, _, err := store.WordStats(ctx, "cat")
	if err != nil {
		t.Fatalf("word stats: %v", err)
	}
	if cat.TotalCount != 4 {
		t.Fatalf("expected doubled total 4, got %d", cat.TotalCount)
	}

	succ, err := store.BigramSuccessors(ctx, "the", 10)
	if err != nil {
		t.Fatalf("successors: %v", err)
	}
	if succ[0].Frequency != 4 {
		t.Fatalf("expected doubled frequency 4, got %d", succ[0].Frequency)
	}

	var fileCount, wordCount int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM files`).Scan(&fileCount); err != nil {
		t.Fatalf("count files: %v", err)
	}
	if fileCount != 1 {
		t.Fatalf("expected single file row, got %d", fileCount)
	}
	if err := conn.QueryRow(`SELECT word_count FROM files WHERE filename='pets.txt'`).Scan(&wordCount); err != nil {
		t.Fatalf("file word_count: %v", err)
	}
	if wordCount != 8 {
		t.Fatalf("expected word_count=8 (replaced, not summed), got %d", wordCount)
	}

	var inFile int
	if err := conn.QueryRow(`
		SELECT wf.count_in_file FROM word_files wf
		JOIN words w ON w.word_id = wf.word_id
		WHERE w.word_text = 'cat'`).Scan(&inFile); err != nil {
		t.Fatalf("count_in_file: %v", err)
	}
	if inFile != 4 {
		t.Fatalf("expected count_in_file=4, got %d", inFile)
	}
}

func TestImportDocumentCanceledLeavesNoState(t *testing.T) {
	conn := setupTestDB(t)
	im := NewImporter(conn)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := tokenizer.Tokenize("a b c. d e f.")
	if _, err := im.ImportDocument(ctx, "doc.txt", res); err == nil {
		t.Fatal("expected cancellation error")
	}

	var words, files int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM words`).Scan(&words); err != nil {
		t.Fatalf("count words: %v", err)
	}
	if err := conn.QueryRow(`SELECT COUNT(*) FROM files`).Scan(&files); err != nil {
		t.Fatalf("count files: %v", err)
	}
	if words != 0 || files != 0 {
		t.Fatalf("expected untouched corpus, got %d words / %d files", words, files)
	}
}

func TestImportFiles(t *testing.T) {
	conn := setupTestDB(t)
	im := NewImporter(conn)
	ctx := context.Background()

	dir := t.TempDir()
	paths := make([]string, 0, 3)
	for name, text := range map[string]string{
		"a.txt": "the cat sat.",
		"b.txt": "the dog ran.",
		"c.txt": "a bird flew.",
	} {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(text), 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
		paths = append(paths, p)
	}

	var progress int
	im.OnProgress = func(done, total int) {
		progress = done
		if total != 3 {
			t.Errorf("expected total 3, got %d", total)
		}
	}

	sums, err := im.ImportFiles(ctx, paths)
	if err != nil {
		t.Fatalf("import files: %v", err)
	}
	if len(sums) != 3 {
		t.Fatalf("expected 3 summaries, got %d", len(sums))
	}
	if progress != 3 {
		t.Fatalf("expected final progress 3, got %d", progress)
	}
	// Summaries come back in input order regardless of tokenize order.
	for i, s := range sums {
		if s.Filename != filepath.Base(paths[i]) {
			t.Fatalf("summary %d out of order: %+v", i, s)
		}
	}

	var files int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM files`).Scan(&files); err != nil {
		t.Fatalf("count files: %v", err)
	}
	if files != 3 {
		t.Fatalf("expected 3 files, got %d", files)
	}
}

func TestImportFilesStopsOnUnreadableFile(t *testing.T) {
	conn := setupTestDB(t)
	im := NewImporter(conn)
	ctx := context.Background()

	dir := t.TempDir()
	good := filepath.Join(dir, "good.txt")
	if err := os.WriteFile(good, []byte("hello world."), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	missing := filepath.Join(dir, "missing.txt")

	sums, err := im.ImportFiles(ctx, []string{good, missing})
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	// The document committed before the failure stays committed.
	if len(sums) != 1 || sums[0].Filename != "good.txt" {
		t.Fatalf("expected good.txt committed, got %+v", sums)
	}
}
