package retriever

import (
	"sort"
	"strings"

	"lexis/internal/domain"
	"lexis/internal/port"
)

// TopScore is the score of a document that matches every query term with the
// highest reference count.
const TopScore = 100

// Searcher ranks loaded documents by how many query terms they contain and how
// often they mention them.
type Searcher struct {
	store  port.IndexReaderView
	filter port.TermFilter
}

var _ port.Searcher = (*Searcher)(nil)

func NewSearcher(store port.IndexReaderView, filter port.TermFilter) *Searcher {
	return &Searcher{store: store, filter: filter}
}

// Search returns at most maxResults documents, best first. A query that is empty
// or made only of stop words yields no results.
func (s *Searcher) Search(terms []string, maxResults int) []domain.SearchResult {
	var results []domain.SearchResult
	s.store.View(func(tx port.IndexReader) {
		results = s.search(tx, s.filterTerms(terms), maxResults)
	})
	return results
}

func (s *Searcher) filterTerms(terms []string) []string {
	if s.filter == nil {
		return terms
	}
	return s.filter.Filter(terms)
}

// search runs against an open view. terms must already be filtered.
func (s *Searcher) search(tx port.IndexReader, terms []string, maxResults int) []domain.SearchResult {
	n := len(terms)
	if n == 0 || maxResults <= 0 || tx.TermCount() == 0 {
		return nil
	}

	matches := accumulate(tx, terms)
	if len(matches) == 0 {
		return nil
	}

	top := matches[0]
	for _, m := range matches[1:] {
		if ranksBefore(m, top) {
			top = m
		}
	}

	scored := make([]domain.SearchResult, len(matches))
	for i, m := range matches {
		m.Score = score(m, top, n)
		scored[i] = m
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return ranksBefore(scored[i], scored[j])
	})

	if len(scored) > maxResults {
		scored = scored[:maxResults]
	}
	return scored
}

// accumulate collects per-document matches in the order documents are first
// seen while walking the query terms.
func accumulate(tx port.IndexReader, terms []string) []domain.SearchResult {
	var matches []domain.SearchResult
	position := make(map[string]int)

	for _, term := range terms {
		term = strings.ToLower(term)
		for _, entry := range tx.Lookup(term) {
			hit := domain.FrequencyEntry{Key: term, Count: entry.Count}
			if i, ok := position[entry.Key]; ok {
				matches[i].Matches = append(matches[i].Matches, hit)
				matches[i].TotalHits += entry.Count
				continue
			}
			position[entry.Key] = len(matches)
			matches = append(matches, domain.SearchResult{
				DocumentID: entry.Key,
				Matches:    []domain.FrequencyEntry{hit},
				TotalHits:  entry.Count,
			})
		}
	}
	return matches
}

// ranksBefore orders by matched term count, then by total hits.
func ranksBefore(a, b domain.SearchResult) bool {
	if a.MatchCount() != b.MatchCount() {
		return a.MatchCount() > b.MatchCount()
	}
	return a.TotalHits > b.TotalHits
}

// score is floor(100 * ((n-1)/n + hits/(n*topHits))) when the top result
// matches all n terms, and floor(100 * matched/n) otherwise.
func score(r, top domain.SearchResult, n int) int {
	if top.MatchCount() == n {
		return TopScore * ((n-1)*top.TotalHits + r.TotalHits) / (n * top.TotalHits)
	}
	return TopScore * r.MatchCount() / n
}
