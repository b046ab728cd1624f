package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestFormatForName tests extension inference with a text fallback
func TestFormatForName(t *testing.T) {
	tests := []struct {
		name string
		want Format
	}{
		{"README.md", FormatMarkdown},
		{"GUIDE.MD", FormatMarkdown},
		{"notes.markdown", FormatMarkdown},
		{"package.json", FormatJSON},
		{"analysis.ipynb", FormatNotebook},
		{"paper.pdf", FormatPDF},
		{"main.go", FormatText},
		{"Makefile", FormatText},
		{"archive.tar.gz", FormatText},
		{"", FormatText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatForName(tt.name))
		})
	}
}

// TestFormat_IsValid tests every listed format is valid
func TestFormat_IsValid(t *testing.T) {
	for _, f := range AllFormats() {
		assert.True(t, f.IsValid(), f.String())
	}
	assert.False(t, Format("docx").IsValid())
}

// TestFormat_IsBinary tests only pdf is read as bytes
func TestFormat_IsBinary(t *testing.T) {
	assert.True(t, FormatPDF.IsBinary())
	assert.False(t, FormatJSON.IsBinary())
	assert.False(t, FormatText.IsBinary())
}
