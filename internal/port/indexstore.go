package port

import "lexis/internal/domain"

// IndexStore owns the inverted and forward indexes.
type IndexStore interface {
	IndexReaderView

	Load(doc domain.Document)

	Unload(documentID string)

	Reload(docs []domain.Document)

	Documents() []string

	Stats() domain.Stats
}

// IndexReaderView runs fn against a consistent snapshot of the index.
type IndexReaderView interface {
	View(fn func(tx IndexReader))
}

// IndexReader is valid only inside the View callback that produced it.
type IndexReader interface {
	Lookup(term string) []domain.FrequencyEntry

	DocumentTerms(documentID string) []domain.FrequencyEntry

	TermCount() int

	DocumentCount() int
}
