// Package notebook normalises Jupyter notebooks into ordered cell records.
package notebook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/repocorpus/internal/core/domain"
	"github.com/custodia-labs/repocorpus/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// cellSeparator joins cell contents in the document text.
const cellSeparator = "\n\n"

// ErrNoCells indicates the notebook has no cell sequence.
var ErrNoCells = errors.New("notebook has no cells array")

// file is the subset of the nbformat schema that is read. Metadata is
// optional and decoded best-effort.
type file struct {
	Cells    *[]cell         `json:"cells"`
	NBFormat json.RawMessage `json:"nbformat"`
	Metadata json.RawMessage `json:"metadata"`
}

type notebookMetadata struct {
	KernelSpec   json.RawMessage `json:"kernelspec"`
	LanguageInfo json.RawMessage `json:"language_info"`
}

type cell struct {
	CellType string          `json:"cell_type"`
	Source   json.RawMessage `json:"source"`
}

// Normaliser handles Jupyter notebooks.
type Normaliser struct{}

// New creates a new notebook normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Format returns the format this normaliser handles.
func (n *Normaliser) Format() domain.Format {
	return domain.FormatNotebook
}

// Normalise extracts every cell in order.
func (n *Normaliser) Normalise(_ context.Context, path string, base map[string]any) (*domain.Document, error) {
	if path == "" {
		return nil, domain.ErrInvalidInput
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read notebook: %w", err)
	}

	var nb file
	if err := json.Unmarshal(content, &nb); err != nil {
		return nil, fmt.Errorf("invalid notebook JSON: %w", err)
	}
	if nb.Cells == nil {
		return nil, ErrNoCells
	}

	cells := make([]domain.Cell, 0, len(*nb.Cells))
	parts := make([]string, 0, len(*nb.Cells))
	for i, c := range *nb.Cells {
		source, err := flattenSource(c.Source)
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
		cells = append(cells, domain.Cell{Type: c.CellType, Content: source})
		parts = append(parts, source)
	}

	meta := copyMetadata(base)
	if _, ok := meta["name"]; !ok {
		meta["name"] = filepath.Base(path)
	}
	meta["format"] = domain.FormatNotebook.String()
	meta["cell_count"] = len(cells)
	if v := nbformat(nb.NBFormat); v > 0 {
		meta["nbformat"] = v
	}
	if lang := language(nb); lang != "" {
		meta["language"] = lang
	}

	return &domain.Document{
		Text:     strings.Join(parts, cellSeparator),
		Metadata: meta,
		Cells:    cells,
	}, nil
}

// flattenSource joins a cell source given as a string or a list of lines.
func flattenSource(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}

	var lines []string
	if err := json.Unmarshal(raw, &lines); err != nil {
		return "", fmt.Errorf("source must be a string or list of strings: %w", err)
	}
	return strings.Join(lines, ""), nil
}

// nbformat returns the major format version, or 0 when absent or not an integer.
func nbformat(raw json.RawMessage) int {
	var v int
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0
	}
	return v
}

// language returns the declared kernel language, if any. Unexpected
// metadata shapes yield no language.
func language(nb file) string {
	var md notebookMetadata
	if err := json.Unmarshal(nb.Metadata, &md); err != nil {
		return ""
	}
	if name := stringField(md.LanguageInfo, "name"); name != "" {
		return name
	}
	return stringField(md.KernelSpec, "language")
}

// stringField returns key from a JSON object when it holds a string.
func stringField(raw json.RawMessage, key string) string {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(obj[key], &s); err != nil {
		return ""
	}
	return s
}

// copyMetadata creates a shallow copy of metadata.
func copyMetadata(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src)+4)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
