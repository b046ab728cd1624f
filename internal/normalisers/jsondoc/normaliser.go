// Package jsondoc normalises JSON files. The raw text is kept as the
// document text and the parsed value is exposed as structured data.
package jsondoc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/custodia-labs/repocorpus/internal/core/domain"
	"github.com/custodia-labs/repocorpus/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles JSON documents.
type Normaliser struct{}

// New creates a new JSON normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Format returns the format this normaliser handles.
func (n *Normaliser) Format() domain.Format {
	return domain.FormatJSON
}

// Normalise parses the file as a single JSON value.
func (n *Normaliser) Normalise(_ context.Context, path string, base map[string]any) (*domain.Document, error) {
	if path == "" {
		return nil, domain.ErrInvalidInput
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}

	value, err := Decode(content)
	if err != nil {
		return nil, err
	}

	meta := copyMetadata(base)
	if _, ok := meta["name"]; !ok {
		meta["name"] = filepath.Base(path)
	}
	meta["format"] = domain.FormatJSON.String()

	return &domain.Document{
		Text:           string(content),
		Metadata:       meta,
		StructuredData: value,
	}, nil
}

// Decode parses exactly one JSON value. Numbers are kept as json.Number
// so large integers survive unchanged.
func Decode(content []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(content))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("invalid JSON: empty document")
		}
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("invalid JSON: trailing data after top-level value")
	}
	return value, nil
}

// copyMetadata creates a shallow copy of metadata.
func copyMetadata(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src)+1)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
