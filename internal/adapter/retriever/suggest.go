package retriever

import (
	"sort"
	"strings"

	"lexis/internal/domain"
	"lexis/internal/port"
)

// Suggester proposes terms that co-occur with a query in documents matching
// every query term.
type Suggester struct {
	searcher *Searcher
}

var _ port.Suggester = (*Suggester)(nil)

func NewSuggester(searcher *Searcher) *Suggester {
	return &Suggester{searcher: searcher}
}

// Suggest returns up to count terms ranked by their summed frequency across the
// fully matching documents. Query terms themselves are never suggested.
func (s *Suggester) Suggest(terms []string, count int) []string {
	if count <= 0 {
		return nil
	}

	var suggestions []string
	s.searcher.store.View(func(tx port.IndexReader) {
		suggestions = suggest(tx, s.searcher, terms, count)
	})
	return suggestions
}

func suggest(tx port.IndexReader, searcher *Searcher, terms []string, count int) []string {
	filtered := searcher.filterTerms(terms)
	results := searcher.search(tx, filtered, tx.DocumentCount())

	var merged []domain.FrequencyEntry
	position := make(map[string]int)
	for _, r := range results {
		if r.MatchCount() != len(filtered) {
			continue
		}
		entries := tx.DocumentTerms(r.DocumentID)
		if len(entries) > count {
			entries = entries[:count]
		}
		for _, e := range entries {
			if i, ok := position[e.Key]; ok {
				merged[i].Count += e.Count
				continue
			}
			position[e.Key] = len(merged)
			merged = append(merged, e)
		}
	}

	query := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		query[strings.ToLower(t)] = struct{}{}
	}
	candidates := merged[:0]
	for _, e := range merged {
		if _, ok := query[e.Key]; !ok {
			candidates = append(candidates, e)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Count > candidates[j].Count
	})
	if len(candidates) > count {
		candidates = candidates[:count]
	}

	suggestions := make([]string, len(candidates))
	for i, e := range candidates {
		suggestions[i] = e.Key
	}
	return suggestions
}
