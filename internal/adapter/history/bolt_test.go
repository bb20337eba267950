package history

import (
	"path/filepath"
	"testing"
	"time"

	"lexis/internal/domain"
)

func openHistory(t *testing.T, path string) *BoltHistory {
	t.Helper()
	h, err := NewBoltHistory(path)
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func TestBoltHistory_AppendRecent(t *testing.T) {
	h := openHistory(t, filepath.Join(t.TempDir(), "history.db"))
	defer h.Close()

	queries := [][]string{{"hash"}, {"hash", "table"}, {"implementation"}}
	for i, q := range queries {
		err := h.Append(domain.HistoryEntry{Command: "search", Terms: q, Results: i})
		if err != nil {
			t.Fatal(err)
		}
	}

	entries, err := h.Recent(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Terms[0] != "implementation" || entries[1].Results != 1 {
		t.Errorf("expected newest first, got %+v", entries)
	}
	if entries[0].At.IsZero() {
		t.Error("expected timestamp to be set")
	}
}

func TestBoltHistory_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	h := openHistory(t, path)
	if err := h.Append(domain.HistoryEntry{Command: "suggest", Terms: []string{"hash"}, At: at}); err != nil {
		t.Fatal(err)
	}
	if err := h.Close(); err != nil {
		t.Fatal(err)
	}

	h = openHistory(t, path)
	defer h.Close()
	entries, err := h.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Command != "suggest" || !entries[0].At.Equal(at) {
		t.Errorf("unexpected entries after reopen: %+v", entries)
	}
}

func TestBoltHistory_Clear(t *testing.T) {
	h := openHistory(t, filepath.Join(t.TempDir(), "history.db"))
	defer h.Close()

	h.Append(domain.HistoryEntry{Command: "search", Terms: []string{"hash"}})
	if err := h.Clear(); err != nil {
		t.Fatal(err)
	}
	entries, err := h.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}

func TestBoltHistory_NonPositiveLimit(t *testing.T) {
	h := openHistory(t, filepath.Join(t.TempDir(), "history.db"))
	defer h.Close()

	h.Append(domain.HistoryEntry{Command: "search"})
	if entries, _ := h.Recent(0); len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}
