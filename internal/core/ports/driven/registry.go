package driven

import (
	"context"

	"github.com/custodia-labs/repocorpus/internal/core/domain"
)

// NormaliserRegistry dispatches files to normalisers by format.
// The set of formats is closed; domain.FormatText is the fallback.
type NormaliserRegistry interface {
	// Normalise infers the format of name and runs the matching normaliser.
	Normalise(ctx context.Context, name, path string, base map[string]any) (*domain.Document, error)

	// Register adds or replaces the normaliser for its format.
	Register(normaliser Normaliser)

	// Get returns the normaliser for a format, if registered.
	Get(format domain.Format) (Normaliser, bool)
}
