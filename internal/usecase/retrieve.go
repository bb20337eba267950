package usecase

import (
	"context"
	"time"

	"lexis/internal/domain"
	"lexis/internal/logger"
	"lexis/internal/metrics"
	"lexis/internal/port"
)

// QueryUseCase handles search and suggestion requests.
type QueryUseCase struct {
	searcher   port.Searcher
	suggester  port.Suggester
	history    port.History
	metrics    *metrics.Metrics
	maxResults int
}

// NewQueryUseCase creates a new query use case. history and m may be nil.
func NewQueryUseCase(
	searcher port.Searcher,
	suggester port.Suggester,
	history port.History,
	m *metrics.Metrics,
	maxResults int,
) *QueryUseCase {
	return &QueryUseCase{
		searcher:   searcher,
		suggester:  suggester,
		history:    history,
		metrics:    m,
		maxResults: maxResults,
	}
}

// Search returns the best maxResults matches for terms and how long the
// search took.
func (u *QueryUseCase) Search(ctx context.Context, terms []string) ([]domain.SearchResult, time.Duration) {
	start := time.Now()
	results := u.searcher.Search(terms, u.maxResults)
	elapsed := time.Since(start)

	if u.metrics != nil {
		outcome := "match"
		if len(results) == 0 {
			outcome = "no_match"
		}
		u.metrics.SearchesTotal.WithLabelValues(outcome).Inc()
		u.metrics.SearchLatency.Observe(elapsed.Seconds())
	}

	logger.FromContext(ctx).Debug("search", "terms", terms, "results", len(results), "elapsed", elapsed)
	u.record(ctx, "search", terms, len(results))
	return results, elapsed
}

// Suggest returns up to count terms related to the query.
func (u *QueryUseCase) Suggest(ctx context.Context, terms []string, count int) []string {
	suggestions := u.suggester.Suggest(terms, count)

	if u.metrics != nil {
		u.metrics.SuggestionsTotal.Inc()
	}

	logger.FromContext(ctx).Debug("suggest", "terms", terms, "count", count, "suggestions", len(suggestions))
	u.record(ctx, "suggest", terms, len(suggestions))
	return suggestions
}

// History returns the most recent queries, newest first.
func (u *QueryUseCase) History(limit int) ([]domain.HistoryEntry, error) {
	if u.history == nil {
		return nil, nil
	}
	return u.history.Recent(limit)
}

// ClearHistory drops every recorded query.
func (u *QueryUseCase) ClearHistory() error {
	if u.history == nil {
		return nil
	}
	return u.history.Clear()
}

// record stores the query in history. Failures are logged and never fail the query.
func (u *QueryUseCase) record(ctx context.Context, command string, terms []string, results int) {
	if u.history == nil {
		return
	}
	entry := domain.HistoryEntry{
		Command: command,
		Terms:   append([]string(nil), terms...),
		Results: results,
		At:      time.Now(),
	}
	if err := u.history.Append(entry); err != nil {
		logger.FromContext(ctx).Warn("failed to record query", "error", err)
	}
}
