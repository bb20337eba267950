package port

import "lexis/internal/domain"

// Searcher ranks loaded documents against query terms.
type Searcher interface {
	// Search returns at most maxResults results, best first.
	Search(terms []string, maxResults int) []domain.SearchResult
}

// Suggester proposes terms that co-occur with a fully matched query.
type Suggester interface {
	Suggest(terms []string, count int) []string
}
