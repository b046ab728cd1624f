package domain

import (
	"path/filepath"
	"strings"
)

// Format identifies how a file's content is extracted.
type Format string

// Supported formats.
const (
	// FormatText is the fallback for any unrecognised extension.
	FormatText Format = "text"

	// FormatMarkdown is raw markdown, preserved verbatim.
	FormatMarkdown Format = "markdown"

	// FormatJSON is a single JSON value.
	FormatJSON Format = "json"

	// FormatNotebook is a Jupyter notebook.
	FormatNotebook Format = "notebook"

	// FormatPDF is a PDF document.
	FormatPDF Format = "pdf"
)

// extensionFormats maps lower-cased extensions to formats.
// Anything missing here is plain text.
var extensionFormats = map[string]Format{
	".md":       FormatMarkdown,
	".markdown": FormatMarkdown,
	".json":     FormatJSON,
	".ipynb":    FormatNotebook,
	".pdf":      FormatPDF,
}

// FormatForName infers the format of a file from its name's extension.
// Unknown extensions fall back to FormatText.
func FormatForName(name string) Format {
	if f, ok := extensionFormats[strings.ToLower(filepath.Ext(name))]; ok {
		return f
	}
	return FormatText
}

// AllFormats returns every supported format.
func AllFormats() []Format {
	return []Format{FormatText, FormatMarkdown, FormatJSON, FormatNotebook, FormatPDF}
}

// IsValid returns true if the format is recognised.
func (f Format) IsValid() bool {
	switch f {
	case FormatText, FormatMarkdown, FormatJSON, FormatNotebook, FormatPDF:
		return true
	default:
		return false
	}
}

// IsBinary reports whether the format must be read as raw bytes.
func (f Format) IsBinary() bool {
	return f == FormatPDF
}

// String returns the string representation.
func (f Format) String() string {
	return string(f)
}
