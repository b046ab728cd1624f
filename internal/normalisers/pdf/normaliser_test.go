package pdf

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/repocorpus/internal/core/domain"
)

// buildPDF returns a minimal PDF with one page per entry in pages.
func buildPDF(pages ...string) []byte {
	var objects []string

	kids := ""
	for i := range pages {
		kids += fmt.Sprintf("%d 0 R ", 4+i*2)
	}

	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, len(pages)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	)
	for i, text := range pages {
		stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
				"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+i*2),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

func TestFormat(t *testing.T) {
	assert.Equal(t, domain.FormatPDF, New().Format())
}

func TestNormalise_SinglePage(t *testing.T) {
	path := writeFile(t, "doc.pdf", buildPDF("Hello PDF"))

	doc, err := New().Normalise(context.Background(), path, map[string]any{"name": "doc.pdf"})
	require.NoError(t, err)

	assert.Contains(t, doc.Text, "Hello")
	assert.Equal(t, "pdf", doc.Metadata["format"])
	assert.Equal(t, 1, doc.Metadata["page_count"])
	assert.Equal(t, "doc.pdf", doc.Metadata["name"])
}

func TestNormalise_MultiPage(t *testing.T) {
	path := writeFile(t, "two.pdf", buildPDF("First", "Second"))

	doc, err := New().Normalise(context.Background(), path, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, doc.Metadata["page_count"])
	first := bytes.Index([]byte(doc.Text), []byte("First"))
	second := bytes.Index([]byte(doc.Text), []byte("Second"))
	require.GreaterOrEqual(t, first, 0)
	require.Greater(t, second, first)
	assert.Contains(t, doc.Text, pageSeparator)
}

func TestNormalise_Corrupt(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
	}{
		{"not a pdf", []byte("plain text pretending")},
		{"header only", []byte("%PDF-1.4 fake pdf content")},
		{"empty", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "bad.pdf", tt.content)
			doc, err := New().Normalise(context.Background(), path, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "error processing PDF")
			assert.Nil(t, doc)
		})
	}
}

func TestNormalise_MissingFile(t *testing.T) {
	_, err := New().Normalise(context.Background(), filepath.Join(t.TempDir(), "x.pdf"), nil)
	assert.Error(t, err)
}

func TestNormalise_EmptyPath(t *testing.T) {
	_, err := New().Normalise(context.Background(), "", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
