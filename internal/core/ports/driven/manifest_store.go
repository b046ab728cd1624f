package driven

import (
	"context"

	"github.com/custodia-labs/repocorpus/internal/core/domain"
)

// ManifestStore persists fetch results so that processing can run
// separately from fetching.
type ManifestStore interface {
	// Save records results for their sources, replacing earlier
	// results for the same (source, repository, path). Saved results
	// are ordered after those already recorded.
	Save(ctx context.Context, results []domain.FetchResult) error

	// Replace atomically swaps the whole manifest of source for results.
	// On failure the earlier manifest is kept. Every result must belong
	// to source.
	Replace(ctx context.Context, source string, results []domain.FetchResult) error

	// List returns the results recorded for a source in the order they
	// were saved. An unknown source yields no results.
	List(ctx context.Context, source string) ([]domain.FetchResult, error)

	// Sources returns every source with recorded results.
	Sources(ctx context.Context) ([]string, error)

	// Delete removes all results for a source.
	Delete(ctx context.Context, source string) error
}
