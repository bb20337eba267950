package memstore

import (
	"sort"
	"strings"
	"sync"

	"lexis/internal/domain"
	"lexis/internal/port"
)

// MemoryStore keeps the inverted index (term -> documents) and the forward
// index (document -> terms) side by side. Term keys are always lowercase.
type MemoryStore struct {
	mu       sync.RWMutex
	filter   port.TermFilter
	inverted map[string][]domain.FrequencyEntry
	forward  map[string][]domain.FrequencyEntry
}

var _ port.IndexStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store. Every loaded document passes through
// filter before it is indexed.
func NewMemoryStore(filter port.TermFilter) *MemoryStore {
	return &MemoryStore{
		filter:   filter,
		inverted: make(map[string][]domain.FrequencyEntry),
		forward:  make(map[string][]domain.FrequencyEntry),
	}
}

// Load indexes doc, replacing anything previously loaded under the same id.
func (s *MemoryStore) Load(doc domain.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unload(doc.ID)
	s.load(doc)
}

// Unload removes every trace of documentID. Unknown ids are ignored.
func (s *MemoryStore) Unload(documentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unload(documentID)
}

// Reload replaces the contribution of each document in one exclusive step.
func (s *MemoryStore) Reload(docs []domain.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range docs {
		s.unload(doc.ID)
		s.load(doc)
	}
}

func (s *MemoryStore) load(doc domain.Document) {
	tokens := doc.Tokens
	if s.filter != nil {
		tokens = s.filter.Filter(tokens)
	}

	terms := make([]domain.FrequencyEntry, 0)
	position := make(map[string]int)
	for _, token := range tokens {
		term := strings.ToLower(token)
		if i, ok := position[term]; ok {
			terms[i].Count++
			continue
		}
		position[term] = len(terms)
		terms = append(terms, domain.FrequencyEntry{Key: term, Count: 1})
	}

	for _, e := range terms {
		s.inverted[e.Key] = append(s.inverted[e.Key], domain.FrequencyEntry{Key: doc.ID, Count: e.Count})
	}

	sort.SliceStable(terms, func(i, j int) bool {
		return terms[i].Count > terms[j].Count
	})
	s.forward[doc.ID] = terms
}

func (s *MemoryStore) unload(documentID string) {
	if _, ok := s.forward[documentID]; !ok {
		return
	}
	for term, entries := range s.inverted {
		filtered := entries[:0]
		for _, e := range entries {
			if e.Key != documentID {
				filtered = append(filtered, e)
			}
		}
		if len(filtered) == 0 {
			delete(s.inverted, term)
		} else {
			s.inverted[term] = filtered
		}
	}
	delete(s.forward, documentID)
}

// View runs fn while holding the read lock, so every lookup made through tx
// sees the same index state.
func (s *MemoryStore) View(fn func(tx port.IndexReader)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(readTx{s: s})
}

// Documents returns the loaded document ids in lexical order.
func (s *MemoryStore) Documents() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.forward))
	for id := range s.forward {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *MemoryStore) Stats() domain.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Stats{Terms: len(s.inverted), Documents: len(s.forward)}
}

// readTx reads the store without locking; the enclosing View holds the lock.
type readTx struct {
	s *MemoryStore
}

func (tx readTx) Lookup(term string) []domain.FrequencyEntry {
	return copyEntries(tx.s.inverted[strings.ToLower(term)])
}

func (tx readTx) DocumentTerms(documentID string) []domain.FrequencyEntry {
	return copyEntries(tx.s.forward[documentID])
}

func (tx readTx) TermCount() int {
	return len(tx.s.inverted)
}

func (tx readTx) DocumentCount() int {
	return len(tx.s.forward)
}

func copyEntries(entries []domain.FrequencyEntry) []domain.FrequencyEntry {
	if len(entries) == 0 {
		return nil
	}
	out := make([]domain.FrequencyEntry, len(entries))
	copy(out, entries)
	return out
}
