package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"lexis/config"
	"lexis/internal/adapter/analyzer"
	"lexis/internal/adapter/cache"
	"lexis/internal/adapter/fs"
	"lexis/internal/adapter/history"
	"lexis/internal/adapter/memstore"
	"lexis/internal/adapter/retriever"
	"lexis/internal/metrics"
	"lexis/internal/port"
	"lexis/internal/usecase"
)

// app holds the wired components behind the shell.
type app struct {
	index     *usecase.IndexUseCase
	query     *usecase.QueryUseCase
	metrics   *metrics.Metrics
	history   port.History
	stopwords *analyzer.StopWordFilter

	historyEnabled bool
	historyLimit   int
	stopMetrics    func(context.Context) error
}

// newApp builds the index, engines and adapters from cfg. stopwordsFile, when
// set, is tokenized and merged with the configured stop words.
func newApp(cfg *config.Config, stopwordsFile string) (*app, error) {
	tokenizer := analyzer.NewTokenizer()

	words := append([]string(nil), cfg.Index.Stopwords...)
	if stopwordsFile != "" {
		fromFile, err := config.LoadStopwords(stopwordsFile, tokenizer.Tokenize)
		if err != nil {
			return nil, err
		}
		words = append(words, fromFile...)
	}
	filter := analyzer.NewStopWordFilter(words)

	st := memstore.NewMemoryStore(filter)
	m := metrics.New()
	qc := cache.NewQueryCache(cfg.Search.CacheSize)
	m.RegisterCache(qc.Counters)

	searcher := retriever.NewSearcher(st, filter)
	suggester := retriever.NewSuggester(searcher)

	var cached port.Searcher = searcher
	if cfg.Search.CacheSize > 0 {
		cached = cache.NewCachedSearcher(searcher, qc)
	}

	var hist port.History = history.Nop{}
	if cfg.History.Enabled {
		if dir := filepath.Dir(cfg.History.Path); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create history directory: %w", err)
			}
		}
		h, err := history.NewBoltHistory(cfg.History.Path)
		if err != nil {
			return nil, err
		}
		hist = h
	}

	a := &app{
		index: usecase.NewIndexUseCase(
			st,
			fs.NewWalker(cfg.Index.Includes, cfg.Index.Excludes),
			fs.Reader{},
			tokenizer,
			qc,
			m,
			cfg.Index.Workers,
		),
		query:          usecase.NewQueryUseCase(cached, suggester, hist, m, cfg.Search.MaxResults),
		metrics:        m,
		history:        hist,
		stopwords:      filter,
		historyEnabled: cfg.History.Enabled,
		historyLimit:   cfg.History.Limit,
	}

	if cfg.Metrics.Addr != "" {
		a.stopMetrics = m.StartServer(cfg.Metrics.Addr)
	}

	return a, nil
}

func (a *app) Close() error {
	if a.stopMetrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := a.stopMetrics(ctx); err != nil {
			slog.Warn("metrics server shutdown failed", "error", err)
		}
	}
	return a.history.Close()
}
