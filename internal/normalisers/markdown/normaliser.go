package markdown

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/repocorpus/internal/core/domain"
	"github.com/custodia-labs/repocorpus/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles Markdown documents.
// Markdown syntax is kept as written; rendering is left to consumers.
type Normaliser struct{}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Format returns the format this normaliser handles.
func (n *Normaliser) Format() domain.Format {
	return domain.FormatMarkdown
}

// Normalise reads the markdown verbatim and records its title.
func (n *Normaliser) Normalise(_ context.Context, path string, base map[string]any) (*domain.Document, error) {
	if path == "" {
		return nil, domain.ErrInvalidInput
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read markdown: %w", err)
	}
	text := string(content)

	meta := copyMetadata(base)
	if _, ok := meta["name"]; !ok {
		meta["name"] = filepath.Base(path)
	}
	meta["format"] = domain.FormatMarkdown.String()
	if title := extractTitle(text); title != "" {
		meta["title"] = title
	}

	return &domain.Document{
		Text:     text,
		Metadata: meta,
	}, nil
}

// extractTitle returns the text of the first H1 heading outside code fences.
func extractTitle(content string) string {
	inFence := false
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "```") || strings.HasPrefix(line, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "#"))
		}
	}
	return ""
}

// copyMetadata creates a shallow copy of metadata.
func copyMetadata(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src)+2)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
