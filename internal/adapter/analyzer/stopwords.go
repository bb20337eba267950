package analyzer

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// MinTermLength is the shortest token, in characters, that can become a term.
const MinTermLength = 2

// StopWordFilter removes stop words and single-character tokens.
type StopWordFilter struct {
	stopwords map[string]struct{}
}

// NewStopWordFilter creates a filter for the given words. Matching is
// case-insensitive; a nil or empty list only drops short tokens.
func NewStopWordFilter(words []string) *StopWordFilter {
	stops := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		stops[w] = struct{}{}
	}
	return &StopWordFilter{stopwords: stops}
}

// Filter returns the tokens that are neither stop words nor shorter than
// MinTermLength, in their original order and spelling.
func (f *StopWordFilter) Filter(tokens []string) []string {
	kept := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if f.Keep(token) {
			kept = append(kept, token)
		}
	}
	return kept
}

// Keep reports whether a single token survives filtering.
func (f *StopWordFilter) Keep(token string) bool {
	if utf8.RuneCountInString(token) < MinTermLength {
		return false
	}
	_, isStop := f.stopwords[strings.ToLower(token)]
	return !isStop
}

// Len returns the number of distinct stop words.
func (f *StopWordFilter) Len() int {
	return len(f.stopwords)
}

// Words returns the stop words in lexical order.
func (f *StopWordFilter) Words() []string {
	words := make([]string, 0, len(f.stopwords))
	for w := range f.stopwords {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}
