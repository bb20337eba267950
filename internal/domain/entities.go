package domain

import "time"

// FrequencyEntry pairs a key with an occurrence count. In the inverted index the
// key is a document id, in the forward index it is a term.
type FrequencyEntry struct {
	Key   string
	Count int
}

// Document is the tokenized content of one source file, keyed by its canonical path.
type Document struct {
	ID     string
	Tokens []string
}

// SearchResult is a scored match of a query against one document.
type SearchResult struct {
	DocumentID string           `json:"document_id"`
	Matches    []FrequencyEntry `json:"matches"`
	TotalHits  int              `json:"total_hits"`
	Score      int              `json:"score"`
}

// MatchCount returns the number of query terms found in the document.
func (r SearchResult) MatchCount() int {
	return len(r.Matches)
}

type Stats struct {
	Terms     int
	Documents int
}

// HistoryEntry is one recorded shell query.
type HistoryEntry struct {
	Command string    `json:"command"`
	Terms   []string  `json:"terms"`
	Results int       `json:"results"`
	At      time.Time `json:"at"`
}
