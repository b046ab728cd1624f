package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/repocorpus/internal/core/domain"
	"github.com/custodia-labs/repocorpus/internal/core/ports/driven"
)

// Ensure ManifestStore implements the interface.
var _ driven.ManifestStore = (*ManifestStore)(nil)

type manifestKey struct {
	repository string
	path       string
}

type manifestEntry struct {
	result   domain.FetchResult
	position int
}

// sourceManifest holds the results of one source.
type sourceManifest struct {
	entries map[manifestKey]manifestEntry
	next    int
}

// ManifestStore is an in-memory implementation of driven.ManifestStore.
type ManifestStore struct {
	mu      sync.RWMutex
	results map[string]*sourceManifest
}

// NewManifestStore creates a new in-memory manifest store.
func NewManifestStore() *ManifestStore {
	return &ManifestStore{
		results: make(map[string]*sourceManifest),
	}
}

// Save records results, replacing earlier ones for the same file.
func (s *ManifestStore) Save(ctx context.Context, results []domain.FetchResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.add(results)
	return nil
}

// Replace swaps the results of source for results.
func (s *ManifestStore) Replace(ctx context.Context, source string, results []domain.FetchResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, r := range results {
		if r.Source != source {
			return fmt.Errorf("%w: result for %s in manifest of %s", domain.ErrInvalidInput, r.Source, source)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.results, source)
	s.add(results)
	return nil
}

// add records results. The caller holds the write lock.
func (s *ManifestStore) add(results []domain.FetchResult) {
	for _, r := range results {
		m, ok := s.results[r.Source]
		if !ok {
			m = &sourceManifest{entries: make(map[manifestKey]manifestEntry)}
			s.results[r.Source] = m
		}
		m.entries[manifestKey{r.File.Repository, r.File.Path}] = manifestEntry{result: r, position: m.next}
		m.next++
	}
}

// List returns the results of a source in the order they were saved.
func (s *ManifestStore) List(ctx context.Context, source string) ([]domain.FetchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.results[source]
	if !ok {
		return []domain.FetchResult{}, nil
	}
	entries := make([]manifestEntry, 0, len(m.entries))
	for _, e := range m.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].position < entries[j].position
	})

	results := make([]domain.FetchResult, len(entries))
	for i, e := range entries {
		results[i] = e.result
	}
	return results, nil
}

// Sources returns every source with recorded results, sorted.
func (s *ManifestStore) Sources(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	sources := make([]string, 0, len(s.results))
	for source := range s.results {
		sources = append(sources, source)
	}
	sort.Strings(sources)
	return sources, nil
}

// Delete removes all results for a source.
func (s *ManifestStore) Delete(ctx context.Context, source string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.results, source)
	return nil
}
