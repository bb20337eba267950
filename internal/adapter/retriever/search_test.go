package retriever

import (
	"reflect"
	"testing"

	"lexis/internal/adapter/analyzer"
	"lexis/internal/adapter/memstore"
	"lexis/internal/domain"
)

const maxHits = 10

func loadCorpus(stopwords ...string) (*memstore.MemoryStore, *Searcher) {
	filter := analyzer.NewStopWordFilter(stopwords)
	st := memstore.NewMemoryStore(filter)
	st.Load(domain.Document{ID: "f1", Tokens: []string{"Hash", "table", "is", "implementation", "Map", "interface", "Hash", "table", "hASh"}})
	st.Load(domain.Document{ID: "f2", Tokens: []string{"implementation", "inevitable", "implementation"}})
	return st, NewSearcher(st, filter)
}

func ids(results []domain.SearchResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.DocumentID
	}
	return out
}

func scores(results []domain.SearchResult) []int {
	out := make([]int, len(results))
	for i, r := range results {
		out[i] = r.Score
	}
	return out
}

func TestSearch_FindsMatches(t *testing.T) {
	_, s := loadCorpus()

	results := s.Search([]string{"Hash", "table", "implementation"}, maxHits)
	if got := ids(results); !reflect.DeepEqual(got, []string{"f1", "f2"}) {
		t.Fatalf("expected [f1 f2], got %v", got)
	}
	if results[0].Score <= results[1].Score {
		t.Errorf("expected f1 to outscore f2, got %v", scores(results))
	}
	if got := scores(results); !reflect.DeepEqual(got, []int{100, 77}) {
		t.Errorf("expected scores [100 77], got %v", got)
	}
}

func TestSearch_Scoring(t *testing.T) {
	cases := []struct {
		name       string
		query      []string
		wantIDs    []string
		wantScores []int
	}{
		{"full match ranks by frequency", []string{"implementation", "hash"}, []string{"f1", "f2"}, []int{100, 75}},
		{"unique full match", []string{"Hash", "table", "Map"}, []string{"f1"}, []int{100}},
		{"partial match ties broken by hits", []string{"hash", "inevitable"}, []string{"f1", "f2"}, []int{50, 50}},
		{"single term", []string{"implementation"}, []string{"f2", "f1"}, []int{100, 50}},
		{"duplicate query terms count twice", []string{"inevitable", "inevitable"}, []string{"f2"}, []int{100}},
	}

	_, s := loadCorpus()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			results := s.Search(tc.query, maxHits)
			if got := ids(results); !reflect.DeepEqual(got, tc.wantIDs) {
				t.Errorf("ids = %v, want %v", got, tc.wantIDs)
			}
			if got := scores(results); !reflect.DeepEqual(got, tc.wantScores) {
				t.Errorf("scores = %v, want %v", got, tc.wantScores)
			}
		})
	}
}

func TestSearch_PartialBranchUsesCoverage(t *testing.T) {
	_, s := loadCorpus()

	// no document holds all three terms
	results := s.Search([]string{"hash", "inevitable", "interface"}, maxHits)
	if got := ids(results); !reflect.DeepEqual(got, []string{"f1", "f2"}) {
		t.Fatalf("expected [f1 f2], got %v", got)
	}
	if got := scores(results); !reflect.DeepEqual(got, []int{66, 33}) {
		t.Errorf("expected scores [66 33], got %v", got)
	}
}

func TestSearch_CaseInsensitive(t *testing.T) {
	_, s := loadCorpus()

	upper := s.Search([]string{"MAP", "INTERFACE"}, maxHits)
	lower := s.Search([]string{"map", "interface"}, maxHits)
	if len(upper) != 1 {
		t.Fatalf("expected 1 result, got %d", len(upper))
	}
	if !reflect.DeepEqual(upper, lower) {
		t.Errorf("results differ by case: %v vs %v", upper, lower)
	}
	want := []domain.FrequencyEntry{{Key: "map", Count: 1}, {Key: "interface", Count: 1}}
	if !reflect.DeepEqual(upper[0].Matches, want) {
		t.Errorf("matches = %v, want %v", upper[0].Matches, want)
	}
}

func TestSearch_EmptyResults(t *testing.T) {
	_, s := loadCorpus("is")

	cases := []struct {
		name  string
		query []string
		limit int
	}{
		{"empty query", []string{}, maxHits},
		{"nil query", nil, maxHits},
		{"only stop words", []string{"is"}, maxHits},
		{"only short words", []string{"a", "b"}, maxHits},
		{"unknown words", []string{"silmarillion", "mythopoeia"}, maxHits},
		{"zero limit", []string{"hash"}, 0},
		{"negative limit", []string{"hash"}, -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := s.Search(tc.query, tc.limit); len(got) != 0 {
				t.Errorf("expected no results, got %v", got)
			}
		})
	}
}

func TestSearch_EmptyIndex(t *testing.T) {
	filter := analyzer.NewStopWordFilter(nil)
	s := NewSearcher(memstore.NewMemoryStore(filter), filter)

	if got := s.Search([]string{"hash"}, maxHits); len(got) != 0 {
		t.Errorf("expected no results, got %v", got)
	}
}

func TestSearch_LimitResults(t *testing.T) {
	_, s := loadCorpus()

	results := s.Search([]string{"implementation"}, 1)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].DocumentID != "f2" {
		t.Errorf("expected f2 first, got %s", results[0].DocumentID)
	}
}

func TestSearch_StopWordsReduceTermCount(t *testing.T) {
	_, s := loadCorpus("table")

	// "table" is dropped, so n = 2 and f1 matches both remaining terms
	results := s.Search([]string{"hash", "table", "map"}, maxHits)
	if len(results) != 1 || results[0].Score != TopScore {
		t.Errorf("expected a single top-scoring result, got %v", results)
	}
}

func TestSearch_AfterUnload(t *testing.T) {
	st, s := loadCorpus()
	st.Unload("f1")

	results := s.Search([]string{"hash", "implementation"}, maxHits)
	if got := ids(results); !reflect.DeepEqual(got, []string{"f2"}) {
		t.Errorf("expected [f2], got %v", got)
	}
}
