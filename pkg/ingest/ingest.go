// Package ingest merges tokenization results into the corpus store. Each
// document is one transaction: either every counter lands or none do.
// Multi-file imports tokenize on a worker pool while all database merges
// stay serialized in a single consumer.
package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/yousefbali/SentenceBuilder/pkg/corpus"
	"github.com/yousefbali/SentenceBuilder/pkg/db"
	"github.com/yousefbali/SentenceBuilder/pkg/tokenizer"
)

// ImportSummary reports what one committed document contributed.
type ImportSummary struct {
	Filename      string
	Tokens        int
	DistinctWords int
	BigramMass    int
	TrigramMass   int
}

// Importer writes tokenization results into the store.
type Importer struct {
	DB *sql.DB
	// Logger is used for informational messages. nil means no logging.
	Logger *log.Logger
	// OnProgress is called after each committed file with the number of
	// finished files and the total.
	OnProgress func(done, total int)

	// Workers bounds concurrent tokenization in ImportFiles.
	Workers int
}

// NewImporter creates an Importer with default concurrency.
func NewImporter(conn *sql.DB) *Importer {
	return &Importer{
		DB:      conn,
		Workers: 4,
	}
}

// ImportDocument merges one document's statistics into the corpus inside a
// single transaction. Word, bigram, trigram and per-file counters are
// summed onto whatever is already stored; only the file's token count and
// import date are overwritten. Any failure or cancellation rolls the whole
// document back, leaving the corpus exactly as it was.
func (im *Importer) ImportDocument(ctx context.Context, filename string, res *tokenizer.Result) (*ImportSummary, error) {
	if res == nil {
		return nil, fmt.Errorf("import %s: nil tokenization result", filename)
	}

	tx, err := im.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("import %s: begin tx: %w", filename, err)
	}
	defer func() {
		_ = tx.Rollback() // ignored if committed
	}()

	fileID, err := db.MergeFileRecord(ctx, tx, filename, res.TokenCount)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", filename, err)
	}

	// Deterministic merge order keeps repeated imports byte-for-byte
	// reproducible in logs and traces.
	words := make([]string, 0, len(res.Words))
	for w := range res.Words {
		words = append(words, w)
	}
	sort.Strings(words)

	wordIDs := make(map[string]int64, len(words))
	for _, w := range words {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		counts := res.Words[w]
		id, err := db.MergeWordStats(ctx, tx, w, corpus.WordStats{
			TotalCount:         counts.Total,
			SentenceStartCount: counts.Starts,
			SentenceEndCount:   counts.Ends,
		})
		if err != nil {
			return nil, fmt.Errorf("import %s: %w", filename, err)
		}
		wordIDs[w] = id
		if err := db.MergeWordFileCount(ctx, tx, id, fileID, counts.Total); err != nil {
			return nil, fmt.Errorf("import %s: %w", filename, err)
		}
	}

	bigrams := make([]tokenizer.Bigram, 0, len(res.Bigrams))
	for b := range res.Bigrams {
		bigrams = append(bigrams, b)
	}
	sort.Slice(bigrams, func(i, j int) bool {
		if bigrams[i].From != bigrams[j].From {
			return bigrams[i].From < bigrams[j].From
		}
		return bigrams[i].To < bigrams[j].To
	})
	for _, b := range bigrams {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := db.MergeBigram(ctx, tx, wordIDs[b.From], wordIDs[b.To], res.Bigrams[b]); err != nil {
			return nil, fmt.Errorf("import %s: %w", filename, err)
		}
	}

	trigrams := make([]tokenizer.Trigram, 0, len(res.Trigrams))
	for tg := range res.Trigrams {
		trigrams = append(trigrams, tg)
	}
	sort.Slice(trigrams, func(i, j int) bool {
		a, b := trigrams[i], trigrams[j]
		if a.First != b.First {
			return a.First < b.First
		}
		if a.Second != b.Second {
			return a.Second < b.Second
		}
		return a.Next < b.Next
	})
	for _, tg := range trigrams {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := db.MergeTrigram(ctx, tx, wordIDs[tg.First], wordIDs[tg.Second], wordIDs[tg.Next], res.Trigrams[tg]); err != nil {
			return nil, fmt.Errorf("import %s: %w", filename, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("import %s: commit: %w", filename, err)
	}

	sum := &ImportSummary{
		Filename:      filename,
		Tokens:        res.TokenCount,
		DistinctWords: len(res.Words),
		BigramMass:    res.BigramMass(),
		TrigramMass:   res.TrigramMass(),
	}
	if im.Logger != nil {
		im.Logger.Info("imported document",
			"file", sum.Filename,
			"tokens", sum.Tokens,
			"words", sum.DistinctWords,
			"bigrams", sum.BigramMass,
			"trigrams", sum.TrigramMass)
	}
	return sum, nil
}

// ImportFile tokenizes the file at path and imports it under its base name.
func (im *Importer) ImportFile(ctx context.Context, path string) (*ImportSummary, error) {
	res, err := tokenizer.TokenizeFile(path)
	if err != nil {
		return nil, err
	}
	return im.ImportDocument(ctx, filepath.Base(path), res)
}

type fileResult struct {
	Index int
	Path  string
	Res   *tokenizer.Result
	Err   error
}

// ImportFiles imports every path, tokenizing concurrently on a worker pool
// while committing documents one at a time in input order. The first
// tokenization or storage error cancels the remaining work; documents
// committed before the error stay committed (the transaction boundary is
// the single document). Returns the summaries of the committed documents.
func (im *Importer) ImportFiles(ctx context.Context, paths []string) ([]*ImportSummary, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	wp := NewWorkerPool(im.Workers, im.Workers*2)
	wp.Start(ctx)

	// Buffered to len(paths) so workers never block on a departed consumer.
	resultCh := make(chan fileResult, len(paths))

	go func() {
		for i, p := range paths {
			idx, path := i, p
			job := func(jctx context.Context) error {
				res, err := tokenizer.TokenizeFile(path)
				select {
				case resultCh <- fileResult{Index: idx, Path: path, Res: res, Err: err}:
				case <-jctx.Done():
				}
				return nil
			}
			if err := wp.SubmitCtx(ctx, job); err != nil {
				// Canceled mid-submit. Wait for in-flight jobs before
				// closing the channel they write to.
				wp.Close()
				close(resultCh)
				return
			}
		}
		wp.Close()
		close(resultCh)
	}()

	summaries := make([]*ImportSummary, 0, len(paths))
	pending := make(map[int]fileResult)
	next := 0

	for fr := range resultCh {
		pending[fr.Index] = fr

		// Commit contiguous finished files so output order matches input.
		for {
			cur, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++

			if cur.Err != nil {
				cancel()
				return summaries, fmt.Errorf("tokenize %s: %w", cur.Path, cur.Err)
			}
			sum, err := im.ImportDocument(ctx, filepath.Base(cur.Path), cur.Res)
			if err != nil {
				cancel()
				return summaries, err
			}
			summaries = append(summaries, sum)
			if im.OnProgress != nil {
				im.OnProgress(len(summaries), len(paths))
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return summaries, err
	}
	return summaries, nil
}
