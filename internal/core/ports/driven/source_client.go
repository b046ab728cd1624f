package driven

import (
	"context"

	"github.com/custodia-labs/repocorpus/internal/core/domain"
)

// SourceClient is the only network-facing dependency of the pipeline.
// Implementations own authentication, rate limiting and retry policy.
type SourceClient interface {
	// ListFiles returns descriptors for every candidate file of a source.
	// A source is a repository ("owner/repo" or URL) or an organisation.
	ListFiles(ctx context.Context, source string) ([]domain.FileDescriptor, error)

	// GetFile returns the raw content of one file.
	// Remote failures are returned as typed errors distinguishable from
	// generic ones (see the connector's APIError).
	GetFile(ctx context.Context, file domain.FileDescriptor) ([]byte, error)
}
