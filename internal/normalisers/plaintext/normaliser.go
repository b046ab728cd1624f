package plaintext

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/repocorpus/internal/core/domain"
	"github.com/custodia-labs/repocorpus/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text and every unrecognised extension.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Format returns the format this normaliser handles.
func (n *Normaliser) Format() domain.Format {
	return domain.FormatText
}

// Normalise reads the file verbatim into the document text.
func (n *Normaliser) Normalise(_ context.Context, path string, base map[string]any) (*domain.Document, error) {
	if path == "" {
		return nil, domain.ErrInvalidInput
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}

	meta := copyMetadata(base)
	if _, ok := meta["name"]; !ok {
		meta["name"] = filepath.Base(path)
	}
	meta["format"] = domain.FormatText.String()

	return &domain.Document{
		Text:     string(content),
		Metadata: meta,
	}, nil
}

// copyMetadata creates a shallow copy of metadata.
// The result is never nil.
func copyMetadata(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src)+1)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
