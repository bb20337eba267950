package port

type Tokenizer interface {
	Tokenize(text string) []string
}

// TermFilter drops tokens that must never reach the index or a query.
type TermFilter interface {
	Filter(tokens []string) []string
}
