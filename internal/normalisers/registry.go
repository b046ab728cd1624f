package normalisers

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/repocorpus/internal/core/domain"
	"github.com/custodia-labs/repocorpus/internal/core/ports/driven"
	"github.com/custodia-labs/repocorpus/internal/normalisers/jsondoc"
	"github.com/custodia-labs/repocorpus/internal/normalisers/markdown"
	"github.com/custodia-labs/repocorpus/internal/normalisers/notebook"
	"github.com/custodia-labs/repocorpus/internal/normalisers/pdf"
	"github.com/custodia-labs/repocorpus/internal/normalisers/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry maps formats to their normalisers.
type Registry struct {
	mu          sync.RWMutex
	normalisers map[domain.Format]driven.Normaliser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		normalisers: make(map[domain.Format]driven.Normaliser),
	}
}

// NewDefaultRegistry creates a registry with every built-in normaliser.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}

// RegisterDefaults registers all built-in normalisers with the registry.
func RegisterDefaults(r *Registry) {
	r.Register(plaintext.New())
	r.Register(markdown.New())
	r.Register(jsondoc.New())
	r.Register(notebook.New())
	r.Register(pdf.New())
}

// Register adds or replaces the normaliser for its format.
func (r *Registry) Register(n driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.normalisers[n.Format()] = n
}

// Get returns the normaliser for a format.
func (r *Registry) Get(format domain.Format) (driven.Normaliser, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.normalisers[format]
	return n, ok
}

// Formats returns the registered formats.
func (r *Registry) Formats() []domain.Format {
	r.mu.RLock()
	defer r.mu.RUnlock()
	formats := make([]domain.Format, 0, len(r.normalisers))
	for _, f := range domain.AllFormats() {
		if _, ok := r.normalisers[f]; ok {
			formats = append(formats, f)
		}
	}
	return formats
}

// Normalise infers the format from name and runs its normaliser.
// A format with no registered normaliser falls back to plain text.
func (r *Registry) Normalise(
	ctx context.Context, name, path string, base map[string]any,
) (*domain.Document, error) {
	format := domain.FormatForName(name)

	n, ok := r.Get(format)
	if !ok {
		n, ok = r.Get(domain.FormatText)
	}
	if !ok {
		return nil, fmt.Errorf("%w: no normaliser for %s", domain.ErrUnsupportedType, format)
	}
	return n.Normalise(ctx, path, base)
}
