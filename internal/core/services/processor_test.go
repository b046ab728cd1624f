package services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/repocorpus/internal/core/domain"
	"github.com/custodia-labs/repocorpus/internal/core/ports/driven"
	"github.com/custodia-labs/repocorpus/internal/normalisers"
)

// panicRegistry implements driven.NormaliserRegistry with a normaliser that panics.
type panicRegistry struct{}

var _ driven.NormaliserRegistry = panicRegistry{}

func (panicRegistry) Normalise(context.Context, string, string, map[string]any) (*domain.Document, error) {
	panic("extractor exploded")
}

func (panicRegistry) Register(driven.Normaliser) {}

func (panicRegistry) Get(domain.Format) (driven.Normaliser, bool) { return nil, false }

// writeFetched writes content to dir/name and returns a success result for it.
func writeFetched(t *testing.T, dir, path, content string) domain.FetchResult {
	t.Helper()
	file := descriptor("o/r", path)
	localPath := filepath.Join(dir, file.Name)
	require.NoError(t, os.WriteFile(localPath, []byte(content), 0o644))
	return domain.FetchSucceeded("o/r", file, localPath)
}

// onePagePDF returns a minimal single-page PDF showing text.
func onePagePDF(text string) string {
	stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [4 0 R] /Count 1 >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents 5 0 R >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.String()
}

func newProcessor(workers int) *FileProcessor {
	return NewFileProcessor(normalisers.NewDefaultRegistry(), workers)
}

// TestProcessFile_Success tests fetch metadata flows into the document.
func TestProcessFile_Success(t *testing.T) {
	dir := t.TempDir()
	result := writeFetched(t, dir, "docs/guide.md", "# Guide\n\nBody.\n")

	doc := newProcessor(1).ProcessFile(context.Background(), result)

	require.False(t, doc.Failed(), doc.Err())
	assert.Equal(t, "# Guide\n\nBody.\n", doc.Text)
	assert.Equal(t, "guide.md", doc.Metadata["name"])
	assert.Equal(t, "docs/guide.md", doc.Metadata["path"])
	assert.Equal(t, "o/r", doc.Metadata["repository"])
	assert.Equal(t, "markdown", doc.Metadata["format"])
	assert.NotContains(t, doc.Metadata, "local_path")
	assert.NotContains(t, doc.Metadata, "error")
	assert.Equal(t, DocumentID(result), doc.ID)
}

// TestProcessFile_Formats tests dispatch by file name.
func TestProcessFile_Formats(t *testing.T) {
	tests := []struct {
		path    string
		content string
		format  string
	}{
		{"a.txt", "plain", "text"},
		{"main.py", "print(1)", "text"},
		{"README", "no extension", "text"},
		{"b.markdown", "# T", "markdown"},
		{"c.json", `{"k": 1}`, "json"},
		{"d.ipynb", `{"cells": [{"cell_type": "code", "source": "x = 1"}]}`, "notebook"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			result := writeFetched(t, t.TempDir(), tt.path, tt.content)
			doc := newProcessor(1).ProcessFile(context.Background(), result)
			require.False(t, doc.Failed(), doc.Err())
			assert.Equal(t, tt.format, doc.Metadata["format"])
		})
	}
}

// TestProcessFile_Repeatable tests processing an unchanged file twice yields
// equal documents.
func TestProcessFile_Repeatable(t *testing.T) {
	tests := []struct {
		path    string
		content string
	}{
		{"data.json", `{"b": [1, 2.5, null], "a": {"nested": true}}`},
		{"nb.ipynb", `{"nbformat": 4, "metadata": {"kernelspec": {"language": "python"}}, "cells": [{"cell_type": "markdown", "source": ["# T\n", "x"]}, {"cell_type": "code", "source": "print(1)"}]}`},
		{"guide.md", "# Guide\n\n- one\n- two\n"},
		{"paper.pdf", onePagePDF("Hello PDF")},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			result := writeFetched(t, t.TempDir(), tt.path, tt.content)
			p := newProcessor(1)

			d1 := p.ProcessFile(context.Background(), result)
			d2 := p.ProcessFile(context.Background(), result)

			require.False(t, d1.Failed(), d1.Err())
			assert.Equal(t, d1, d2)
			assert.NotEmpty(t, d1.ID)
		})
	}
}

// TestProcessFile_Preconditions tests failures are reported before any file is read.
func TestProcessFile_Preconditions(t *testing.T) {
	file := descriptor("o/r", "docs/a.md")
	missing := filepath.Join(t.TempDir(), "a.md")

	tests := []struct {
		name   string
		result domain.FetchResult
		want   string
	}{
		{
			name:   "upstream error propagated verbatim",
			result: domain.FetchFailed("o/r", file, "404 Not Found"),
			want:   "404 Not Found",
		},
		{
			name:   "missing local path",
			result: domain.FetchResult{File: file, Source: "o/r"},
			want:   "Missing local_path for file: docs/a.md",
		},
		{
			name:   "file does not exist",
			result: domain.FetchSucceeded("o/r", file, missing),
			want:   "File does not exist: " + missing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := newProcessor(1).ProcessFile(context.Background(), tt.result)
			require.True(t, doc.Failed())
			assert.Equal(t, tt.want, doc.Err())
			assert.Empty(t, doc.Text)
			assert.Nil(t, doc.Metadata)
		})
	}
}

// TestProcessFile_ExtractionError tests parse failures become failure documents.
func TestProcessFile_ExtractionError(t *testing.T) {
	dir := t.TempDir()
	result := writeFetched(t, dir, "bad.json", "{not json")

	doc := newProcessor(1).ProcessFile(context.Background(), result)

	require.True(t, doc.Failed())
	assert.Contains(t, doc.Err(), "Error processing file "+result.LocalPath()+": ")
	assert.Contains(t, doc.Err(), "invalid JSON")
}

// TestProcessFile_Panic tests a panicking extractor yields a failure document.
func TestProcessFile_Panic(t *testing.T) {
	result := writeFetched(t, t.TempDir(), "a.txt", "x")

	doc := NewFileProcessor(panicRegistry{}, 1).ProcessFile(context.Background(), result)

	require.True(t, doc.Failed())
	assert.Equal(t, "Error processing file "+result.LocalPath()+": extractor exploded", doc.Err())
}

// TestProcessFile_NameFromLocalPath tests a nameless descriptor is named by its local file.
func TestProcessFile_NameFromLocalPath(t *testing.T) {
	dir := t.TempDir()
	localPath := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(localPath, []byte(`[1, 2]`), 0o644))
	result := domain.FetchSucceeded("o/r", domain.FileDescriptor{Path: "data.json"}, localPath)

	doc := newProcessor(1).ProcessFile(context.Background(), result)

	require.False(t, doc.Failed(), doc.Err())
	assert.Equal(t, "data.json", doc.Metadata["name"])
	assert.Equal(t, "json", doc.Metadata["format"])
}

// TestProcessFiles_Order tests results keep input order with failures in place.
func TestProcessFiles_Order(t *testing.T) {
	dir := t.TempDir()
	results := []domain.FetchResult{
		writeFetched(t, dir, "a.md", "# A"),
		domain.FetchFailed("o/r", descriptor("o/r", "b.md"), "timeout"),
		writeFetched(t, dir, "c.txt", "C"),
		domain.FetchSucceeded("o/r", descriptor("o/r", "d.txt"), filepath.Join(dir, "gone.txt")),
		writeFetched(t, dir, "e.json", `"E"`),
	}

	docs := newProcessor(3).ProcessFiles(context.Background(), results, nil)

	require.Len(t, docs, 5)
	assert.Equal(t, "# A", docs[0].Text)
	assert.Equal(t, "timeout", docs[1].Err())
	assert.Equal(t, "C", docs[2].Text)
	assert.Contains(t, docs[3].Err(), "File does not exist")
	assert.Equal(t, "E", docs[4].StructuredData)
}

// TestProcessFiles_Cancelled tests unstarted items fail once ctx is done.
func TestProcessFiles_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := []domain.FetchResult{writeFetched(t, t.TempDir(), "a.txt", "A")}
	docs := newProcessor(2).ProcessFiles(ctx, results, nil)

	require.Len(t, docs, 1)
	assert.Equal(t, "processing cancelled: context canceled", docs[0].Err())
}

// TestProcessFiles_Progress tests progress is reported once per result.
func TestProcessFiles_Progress(t *testing.T) {
	dir := t.TempDir()
	results := []domain.FetchResult{
		writeFetched(t, dir, "a.txt", "A"),
		writeFetched(t, dir, "b.txt", "B"),
	}

	var (
		mu    sync.Mutex
		calls int
		last  int
	)
	docs := newProcessor(2).ProcessFiles(context.Background(), results, func(done, total int) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		last = done
		assert.Equal(t, 2, total)
	})

	require.Len(t, docs, 2)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, last)
}

func TestDocumentID(t *testing.T) {
	file := descriptor("o/r", "docs/a.md")
	base := domain.FetchSucceeded("o/r", file, "/tmp/a.md")

	// Stable across calls and local paths.
	assert.Equal(t, DocumentID(base), DocumentID(base))
	assert.Equal(t, DocumentID(base), DocumentID(domain.FetchSucceeded("o/r", file, "/elsewhere/a.md")))

	changed := file
	changed.SHA = "other"
	assert.NotEqual(t, DocumentID(base), DocumentID(domain.FetchSucceeded("o/r", changed, "/tmp/a.md")))

	moved := file
	moved.Path = "docs/b.md"
	assert.NotEqual(t, DocumentID(base), DocumentID(domain.FetchSucceeded("o/r", moved, "/tmp/a.md")))
}
