package driven

import (
	"context"

	"github.com/custodia-labs/repocorpus/internal/core/domain"
)

// Normaliser converts one file of a known format into a Document.
// Each normaliser handles exactly one domain.Format.
type Normaliser interface {
	// Format returns the format this normaliser handles.
	Format() domain.Format

	// Normalise reads the file at path and builds a successful Document.
	// base is the fetch metadata merged into the Document's metadata.
	// Read or parse failures are returned as errors, never as a
	// failure Document.
	Normalise(ctx context.Context, path string, base map[string]any) (*domain.Document, error)
}
