package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"strings"
	"sync"

	"lexis/internal/domain"
	"lexis/internal/port"
)

// QueryCache is a bounded LRU of search results. Entries carry the index
// generation they were computed against; Invalidate bumps the generation.
type QueryCache struct {
	mu       sync.RWMutex
	entries  map[string]*cacheEntry
	order    []string
	maxSize  int
	indexGen uint64
	hits     uint64
	misses   uint64
}

type cacheEntry struct {
	results  []domain.SearchResult
	indexGen uint64
}

func NewQueryCache(maxSize int) *QueryCache {
	if maxSize <= 0 {
		maxSize = 128
	}
	return &QueryCache{
		entries: make(map[string]*cacheEntry),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
	}
}

func cacheKey(terms []string, limit int) string {
	h := sha256.New()
	for _, t := range terms {
		h.Write([]byte(strings.ToLower(t)))
		h.Write([]byte{0})
	}
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(int64(limit)))
	h.Write(n[:])
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:16])
}

func (c *QueryCache) Get(terms []string, limit int) ([]domain.SearchResult, bool) {
	key := cacheKey(terms, limit)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[key]
	if !exists {
		c.misses++
		return nil, false
	}
	if entry.indexGen != c.indexGen {
		delete(c.entries, key)
		c.removeFromOrder(key)
		c.misses++
		return nil, false
	}

	c.moveToEnd(key)
	c.hits++
	return entry.results, true
}

// Put stores results computed while the index was at generation gen. Results
// from an older generation are dropped.
func (c *QueryCache) Put(terms []string, limit int, gen uint64, results []domain.SearchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.indexGen {
		return
	}

	key := cacheKey(terms, limit)
	entry := &cacheEntry{results: results, indexGen: gen}

	if _, exists := c.entries[key]; exists {
		c.entries[key] = entry
		c.moveToEnd(key)
		return
	}

	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}
	c.entries[key] = entry
	c.order = append(c.order, key)
}

// Generation returns the current index generation.
func (c *QueryCache) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.indexGen
}

func (c *QueryCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*cacheEntry)
	c.order = c.order[:0]
	c.indexGen++
}

func (c *QueryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Counters returns the number of hits and misses since creation.
func (c *QueryCache) Counters() (hits, misses uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

func (c *QueryCache) evictOldest() {
	if len(c.order) == 0 {
		return
	}
	oldest := c.order[0]
	c.order = c.order[1:]
	delete(c.entries, oldest)
}

func (c *QueryCache) moveToEnd(key string) {
	c.removeFromOrder(key)
	c.order = append(c.order, key)
}

func (c *QueryCache) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// CachedSearcher serves repeated queries from a QueryCache.
type CachedSearcher struct {
	searcher port.Searcher
	cache    *QueryCache
}

var _ port.Searcher = (*CachedSearcher)(nil)

func NewCachedSearcher(searcher port.Searcher, cache *QueryCache) *CachedSearcher {
	return &CachedSearcher{
		searcher: searcher,
		cache:    cache,
	}
}

func (s *CachedSearcher) Search(terms []string, maxResults int) []domain.SearchResult {
	if results, hit := s.cache.Get(terms, maxResults); hit {
		return results
	}

	gen := s.cache.Generation()
	results := s.searcher.Search(terms, maxResults)
	s.cache.Put(terms, maxResults, gen, results)
	return results
}
