package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"lexis/internal/adapter/fs"
	"lexis/internal/domain"
	"lexis/internal/logger"
	"lexis/internal/metrics"
	"lexis/internal/port"
)

// DefaultWorkers bounds concurrent file reads when none is configured.
const DefaultWorkers = 8

// Invalidator is notified after every index mutation.
type Invalidator interface {
	Invalidate()
}

// IndexUseCase adds and removes files in the index.
type IndexUseCase struct {
	store     port.IndexStore
	walker    port.FileWalker
	reader    port.FileReader
	tokenizer port.Tokenizer
	cache     Invalidator
	metrics   *metrics.Metrics
	workers   int
	log       *slog.Logger
}

// NewIndexUseCase creates a new index use case. cache and m may be nil.
func NewIndexUseCase(
	store port.IndexStore,
	walker port.FileWalker,
	reader port.FileReader,
	tokenizer port.Tokenizer,
	cache Invalidator,
	m *metrics.Metrics,
	workers int,
) *IndexUseCase {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &IndexUseCase{
		store:     store,
		walker:    walker,
		reader:    reader,
		tokenizer: tokenizer,
		cache:     cache,
		metrics:   m,
		workers:   workers,
		log:       logger.WithComponent("index"),
	}
}

// IndexResult contains the results of an add or remove operation.
type IndexResult struct {
	FilesLoaded  int
	FilesRemoved int
	Errors       []error
	Duration     time.Duration
	Stats        domain.Stats
}

// Progress is called once per file handled during a load. Calls are serialized.
type Progress func(done, total int)

// LoadDirectory loads every file the walker finds under root.
func (u *IndexUseCase) LoadDirectory(ctx context.Context, root string, progress Progress) (*IndexResult, error) {
	start := time.Now()

	files, err := u.walker.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}

	result, err := u.add(ctx, paths, progress)
	if err != nil {
		return nil, err
	}
	result.Duration = time.Since(start)
	return result, nil
}

// Add loads the given files, replacing any that are already indexed. Files
// that cannot be read are reported in the result and leave the index untouched.
func (u *IndexUseCase) Add(ctx context.Context, paths []string) (*IndexResult, error) {
	start := time.Now()
	result, err := u.add(ctx, paths, nil)
	if err != nil {
		return nil, err
	}
	result.Duration = time.Since(start)
	return result, nil
}

func (u *IndexUseCase) add(ctx context.Context, paths []string, progress Progress) (*IndexResult, error) {
	docs := make([]*domain.Document, len(paths))
	errs := make([]error, len(paths))

	var mu sync.Mutex
	done := 0
	report := func() {
		if progress == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		done++
		progress(done, len(paths))
	}

	// Read and tokenize concurrently; the store is not touched here.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.workers)
	for i, path := range paths {
		g.Go(func() error {
			defer report()
			if err := gctx.Err(); err != nil {
				return err
			}
			doc, err := u.readDocument(path)
			if err != nil {
				errs[i] = err
				return nil
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &IndexResult{}
	batch := make([]domain.Document, 0, len(docs))
	seen := make(map[string]int, len(docs))
	for i, doc := range docs {
		if errs[i] != nil {
			u.log.Debug("file not loaded", "path", paths[i], "error", errs[i])
			result.Errors = append(result.Errors, errs[i])
			continue
		}
		if j, dup := seen[doc.ID]; dup {
			batch[j] = *doc
			continue
		}
		seen[doc.ID] = len(batch)
		batch = append(batch, *doc)
	}

	if len(batch) > 0 {
		u.store.Reload(batch)
		u.invalidate()
	}
	result.FilesLoaded = len(batch)
	result.Stats = u.store.Stats()

	if u.metrics != nil {
		u.metrics.DocumentsLoaded.Add(float64(result.FilesLoaded))
		u.metrics.LoadErrorsTotal.Add(float64(len(result.Errors)))
	}
	u.recordStats(result.Stats)
	u.log.Debug("files loaded", "loaded", result.FilesLoaded, "errors", len(result.Errors), "terms", result.Stats.Terms)

	return result, nil
}

func (u *IndexUseCase) readDocument(path string) (*domain.Document, error) {
	id, err := fs.Canonical(path)
	if err != nil {
		return nil, domain.NewLoadError(path, err)
	}
	text, err := u.reader.ReadFile(id)
	if err != nil {
		return nil, err
	}
	return &domain.Document{ID: id, Tokens: u.tokenizer.Tokenize(text)}, nil
}

// Remove unloads the given files. Paths that are not indexed are ignored.
func (u *IndexUseCase) Remove(paths []string) *IndexResult {
	start := time.Now()

	loaded := make(map[string]struct{})
	for _, id := range u.store.Documents() {
		loaded[id] = struct{}{}
	}

	result := &IndexResult{}
	for _, path := range paths {
		id := fs.CanonicalOrClean(path)
		if _, ok := loaded[id]; !ok {
			u.log.Debug("file not indexed", "path", path)
			continue
		}
		u.store.Unload(id)
		delete(loaded, id)
		result.FilesRemoved++
	}

	if result.FilesRemoved > 0 {
		u.invalidate()
	}
	result.Stats = u.store.Stats()
	result.Duration = time.Since(start)

	if u.metrics != nil {
		u.metrics.DocumentsUnloaded.Add(float64(result.FilesRemoved))
	}
	u.recordStats(result.Stats)

	return result
}

// Documents lists the indexed document ids.
func (u *IndexUseCase) Documents() []string {
	return u.store.Documents()
}

// Stats returns the current term and document counts.
func (u *IndexUseCase) Stats() domain.Stats {
	return u.store.Stats()
}

func (u *IndexUseCase) invalidate() {
	if u.cache != nil {
		u.cache.Invalidate()
	}
}

func (u *IndexUseCase) recordStats(stats domain.Stats) {
	if u.metrics == nil {
		return
	}
	u.metrics.IndexTerms.Set(float64(stats.Terms))
	u.metrics.IndexDocuments.Set(float64(stats.Documents))
}
