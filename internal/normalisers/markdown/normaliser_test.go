package markdown

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/repocorpus/internal/core/domain"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFormat(t *testing.T) {
	assert.Equal(t, domain.FormatMarkdown, New().Format())
}

// TestNormalise_KeepsMarkupVerbatim tests the text is not rendered or stripped.
func TestNormalise_KeepsMarkupVerbatim(t *testing.T) {
	content := "# Guide\n\nSome **bold** text and a [link](https://example.com).\n"
	path := writeFile(t, "README.md", content)

	doc, err := New().Normalise(context.Background(), path, map[string]any{"name": "README.md"})
	require.NoError(t, err)

	assert.Equal(t, content, doc.Text)
	assert.Equal(t, "markdown", doc.Metadata["format"])
	assert.Equal(t, "Guide", doc.Metadata["title"])
	assert.Equal(t, "README.md", doc.Metadata["name"])
}

func TestNormalise_NoTitle(t *testing.T) {
	path := writeFile(t, "notes.md", "just text\n## Sub\n")

	doc, err := New().Normalise(context.Background(), path, nil)
	require.NoError(t, err)
	assert.NotContains(t, doc.Metadata, "title")
}

func TestNormalise_MissingFile(t *testing.T) {
	_, err := New().Normalise(context.Background(), filepath.Join(t.TempDir(), "x.md"), nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"first heading", "# One\n# Two", "One"},
		{"leading text", "intro\n\n# Title  \n", "Title"},
		{"skips backtick fence", "```\n# not a title\n```\n# Real", "Real"},
		{"skips tilde fence", "~~~sh\n# comment\n~~~\n# Real", "Real"},
		{"h2 only", "## Sub", ""},
		{"no space", "#hashtag", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractTitle(tt.content))
		})
	}
}
