package driving

import (
	"context"

	"github.com/custodia-labs/repocorpus/internal/core/domain"
)

// FileProcessor turns fetch results into normalised documents.
type FileProcessor interface {
	// ProcessFile converts one fetch result. Every failure is returned
	// as a failure Document.
	ProcessFile(ctx context.Context, result domain.FetchResult) domain.Document

	// ProcessFiles converts every result and returns one document per
	// result in input order.
	ProcessFiles(ctx context.Context, results []domain.FetchResult, progress ProgressFunc) []domain.Document
}
