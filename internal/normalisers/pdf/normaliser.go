// Package pdf normalises PDF files by extracting the plain text of every page.
package pdf

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/repocorpus/internal/core/domain"
	"github.com/custodia-labs/repocorpus/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// pageSeparator joins page texts in the document text.
const pageSeparator = "\n\n"

// Normaliser handles PDF documents.
type Normaliser struct{}

// New creates a new PDF normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Format returns the format this normaliser handles.
func (n *Normaliser) Format() domain.Format {
	return domain.FormatPDF
}

// Normalise extracts page text and records the page count.
func (n *Normaliser) Normalise(_ context.Context, path string, base map[string]any) (*domain.Document, error) {
	if path == "" {
		return nil, domain.ErrInvalidInput
	}

	text, pages, err := extractText(path)
	if err != nil {
		return nil, err
	}

	meta := copyMetadata(base)
	if _, ok := meta["name"]; !ok {
		meta["name"] = filepath.Base(path)
	}
	meta["format"] = domain.FormatPDF.String()
	meta["page_count"] = pages

	return &domain.Document{
		Text:     text,
		Metadata: meta,
	}, nil
}

// extractText returns the plain text of every page and the page count.
// The parser panics on some malformed files, so panics become errors.
func extractText(path string) (text string, pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("error processing PDF: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("error processing PDF: %w", err)
	}
	defer f.Close()

	pages = r.NumPage()
	parts := make([]string, 0, pages)
	for i := 1; i <= pages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			parts = append(parts, "")
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", 0, fmt.Errorf("error processing PDF page %d: %w", i, err)
		}
		parts = append(parts, pageText)
	}

	return strings.Join(parts, pageSeparator), pages, nil
}

// copyMetadata creates a shallow copy of metadata.
func copyMetadata(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src)+2)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
