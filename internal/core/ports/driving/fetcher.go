package driving

import (
	"context"

	"github.com/custodia-labs/repocorpus/internal/core/domain"
)

// ProgressFunc is called after each unit of a batch completes.
// Calls may come from several goroutines but are serialised.
type ProgressFunc func(done, total int)

// SourceFetcher materialises remote files on local disk.
type SourceFetcher interface {
	// FetchFile downloads one file to baseDir/file.Name.
	// It never returns an error: failures are carried by the result.
	FetchFile(ctx context.Context, source string, file domain.FileDescriptor, baseDir string) domain.FetchResult

	// FetchFiles fetches every descriptor and returns one result per
	// descriptor in input order.
	FetchFiles(
		ctx context.Context, source string, files []domain.FileDescriptor, baseDir string, progress ProgressFunc,
	) []domain.FetchResult

	// FetchSource lists a source and fetches all its files.
	// Only a listing failure is returned as an error.
	FetchSource(ctx context.Context, source, baseDir string, progress ProgressFunc) ([]domain.FetchResult, error)
}
