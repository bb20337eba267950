package analyzer

import (
	"regexp"

	bleveregexp "github.com/blevesearch/bleve/v2/analysis/tokenizer/regexp"
)

// wordPattern matches a maximal run of letters, digits or underscores.
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Tokenizer splits text into raw word tokens. Case and stop words are left to the
// index, so the output keeps the source spelling.
type Tokenizer struct {
	words *bleveregexp.RegexpTokenizer
}

// NewTokenizer creates a new Tokenizer.
func NewTokenizer() *Tokenizer {
	return &Tokenizer{
		words: bleveregexp.NewRegexpTokenizer(wordPattern),
	}
}

// Tokenize returns the words of text in order of appearance.
func (t *Tokenizer) Tokenize(text string) []string {
	stream := t.words.Tokenize([]byte(text))
	tokens := make([]string, 0, len(stream))
	for _, token := range stream {
		tokens = append(tokens, string(token.Term))
	}
	return tokens
}
