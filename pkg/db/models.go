package db

import "time"

// FileRecord is one imported source document.
type FileRecord struct {
	ID         int64
	Filename   string
	WordCount  int
	ImportDate time.Time
}

// WordRecord is the canonical row for a normalized word.
type WordRecord struct {
	ID                 int64
	Text               string
	TotalCount         int
	SentenceStartCount int
	SentenceEndCount   int
}

// CorpusTotals summarizes the whole corpus for analytics views.
type CorpusTotals struct {
	Files         int
	DistinctWords int
	TokenMass     int
	BigramMass    int
	TrigramMass   int
}
